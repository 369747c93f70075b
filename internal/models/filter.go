package models

import (
	"fmt"
	"strings"
)

// ProductFilter enumerates the product fields a search may target.
type ProductFilter string

const (
	ProductFilterCode  ProductFilter = "code"
	ProductFilterName  ProductFilter = "name"
	ProductFilterBrand ProductFilter = "brand"
	ProductFilterURL   ProductFilter = "url"
)

// Field returns the document field searched by f.
func (f ProductFilter) Field() (string, bool) {
	switch f {
	case ProductFilterCode:
		return FieldCode, true
	case ProductFilterName:
		return FieldName, true
	case ProductFilterBrand:
		return FieldBrand, true
	case ProductFilterURL:
		return FieldURL, true
	}
	return "", false
}

// ParseProductFilter converts a query parameter into a ProductFilter.
func ParseProductFilter(s string) (ProductFilter, error) {
	f := ProductFilter(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := f.Field(); !ok {
		return "", fmt.Errorf("unknown product filter %q", s)
	}
	return f, nil
}

// SupplierFilter enumerates the supplier fields a search may target.
type SupplierFilter string

const (
	SupplierFilterCode        SupplierFilter = "code"
	SupplierFilterName        SupplierFilter = "name"
	SupplierFilterEmail       SupplierFilter = "email"
	SupplierFilterPhone       SupplierFilter = "phone"
	SupplierFilterObservation SupplierFilter = "observation"
)

// Field returns the document field searched by f.
func (f SupplierFilter) Field() (string, bool) {
	switch f {
	case SupplierFilterCode:
		return FieldCode, true
	case SupplierFilterName:
		return FieldName, true
	case SupplierFilterEmail:
		return FieldEmail, true
	case SupplierFilterPhone:
		return FieldPhone, true
	case SupplierFilterObservation:
		return FieldObservation, true
	}
	return "", false
}

// ParseSupplierFilter converts a query parameter into a SupplierFilter.
func ParseSupplierFilter(s string) (SupplierFilter, error) {
	f := SupplierFilter(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := f.Field(); !ok {
		return "", fmt.Errorf("unknown supplier filter %q", s)
	}
	return f, nil
}
