package enums

import "fmt"

// BillStatus represents the payment state of a bill.
type BillStatus string

const (
	BillStatusUnpaid BillStatus = "unpaid"
	BillStatusPaid   BillStatus = "paid"
)

var validBillStatuses = []BillStatus{
	BillStatusUnpaid,
	BillStatusPaid,
}

// String implements fmt.Stringer.
func (s BillStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known BillStatus.
func (s BillStatus) IsValid() bool {
	for _, candidate := range validBillStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseBillStatus converts raw input into a BillStatus.
func ParseBillStatus(value string) (BillStatus, error) {
	for _, candidate := range validBillStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bill status %q", value)
}
