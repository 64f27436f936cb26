package models

import (
	"encoding/json"
	"strings"
	"time"
)

// PaymentType is the method a customer paid with.
type PaymentType string

const (
	PaymentCash PaymentType = "CASH"
	PaymentUPI  PaymentType = "UPI"
	PaymentCard PaymentType = "CARD"
)

// PaymentTypes lists the accepted payment methods in display order.
var PaymentTypes = []PaymentType{PaymentCash, PaymentUPI, PaymentCard}

// ParsePaymentType normalizes s and reports whether it names a known payment method.
func ParsePaymentType(s string) (PaymentType, bool) {
	pt := PaymentType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range PaymentTypes {
		if pt == known {
			return pt, true
		}
	}
	return pt, false
}

// StaffNames is the set of staff members who performed a visit's services.
// Names are trimmed, blanks dropped, and duplicates removed keeping first appearance.
type StaffNames []string

// NewStaffNames builds a normalized StaffNames from raw names.
func NewStaffNames(names ...string) StaffNames {
	seen := make(map[string]struct{}, len(names))
	out := make(StaffNames, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Contains reports whether name is in the set.
func (s StaffNames) Contains(name string) bool {
	for _, n := range s {
		if n == name {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts a list of names and normalizes it. A single string is
// accepted as a one-element list.
func (s *StaffNames) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		var single string
		if errSingle := json.Unmarshal(data, &single); errSingle != nil {
			return err
		}
		list = []string{single}
	}
	*s = NewStaffNames(list...)
	return nil
}

// Customer is a single customer visit record.
type Customer struct {
	ID             string      `json:"id" db:"id"`
	Name           string      `json:"name" db:"name"`
	Contact        string      `json:"contact" db:"contact"`
	Email          *string     `json:"email,omitempty" db:"email"`
	Photo          *string     `json:"photo,omitempty" db:"photo"`
	Services       []string    `json:"services" db:"services"`
	ServiceTakenBy StaffNames  `json:"service_taken_by" db:"service_taken_by"`
	Amount         float64     `json:"amount" db:"amount"`
	Discount       float64     `json:"discount" db:"discount"` // percent, 0-100
	PaymentType    PaymentType `json:"payment_type" db:"payment_type"`
	VisitDate      time.Time   `json:"visit_date" db:"visit_date"`
	Notes          *string     `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
}

// FinalAmount returns the charge after the record's percentage discount.
func (c Customer) FinalAmount() float64 {
	return FinalAmount(c.Amount, c.Discount)
}

// HasService reports whether the visit included the named service.
func (c Customer) HasService(service string) bool {
	for _, s := range c.Services {
		if s == service {
			return true
		}
	}
	return false
}

// MarshalJSON adds the derived final_amount alongside the raw amount.
func (c Customer) MarshalJSON() ([]byte, error) {
	type plain Customer
	return json.Marshal(struct {
		plain
		FinalAmount float64 `json:"final_amount"`
	}{plain: plain(c), FinalAmount: c.FinalAmount()})
}

// FinalAmount applies a percentage discount to amount.
func FinalAmount(amount, discountPercent float64) float64 {
	return amount - (amount * discountPercent / 100)
}

// CustomerListFilter narrows customer listings.
type CustomerListFilter struct {
	Search   *string
	Staff    *string
	Page     int
	PageSize int
}
