package models

import "time"

// Document field names shared by every collection. They match the json tags
// of the stored types.
const (
	FieldCode        = "code"
	FieldName        = "name"
	FieldBrand       = "brand"
	FieldPrice       = "price"
	FieldURL         = "url"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldObservation = "observation"
	FieldDeleted     = "deleted"
	FieldHistory     = "history"
)

// HistoryEntry is one immutable audit line. Entries are only ever appended.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}
