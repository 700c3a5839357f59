package models

// SupplierCode identifies a blank-apparel supplier
type SupplierCode string

const (
	SupplierSanMar       SupplierCode = "sanmar"
	SupplierASColour     SupplierCode = "ascolour"
	SupplierSSActivewear SupplierCode = "ssactivewear"
)

// AllSuppliers returns every supported supplier code in display order.
func AllSuppliers() []SupplierCode {
	return []SupplierCode{SupplierSanMar, SupplierASColour, SupplierSSActivewear}
}

// Valid reports whether the code names a supported supplier.
func (c SupplierCode) Valid() bool {
	switch c {
	case SupplierSanMar, SupplierASColour, SupplierSSActivewear:
		return true
	}
	return false
}
