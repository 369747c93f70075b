package models

// SupplierCollection is the document collection holding suppliers.
const SupplierCollection = "suppliers"

// Supplier represents a supplier directory entry.
type Supplier struct {
	Code        string         `json:"code"`
	Name        string         `json:"name" binding:"required"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Observation string         `json:"observation"`
	Deleted     bool           `json:"deleted"`
	History     []HistoryEntry `json:"history"`
}

// SupplierSelect is the {code, name} projection used by selection lists.
type SupplierSelect struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
