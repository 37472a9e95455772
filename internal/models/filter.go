package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Availability constrains products by stock presence.
type Availability int

const (
	AnyAvailability Availability = iota
	InStock
	OutOfStock
)

func (a Availability) String() string {
	switch a {
	case InStock:
		return "in_stock"
	case OutOfStock:
		return "out_of_stock"
	default:
		return "any"
	}
}

// ParseAvailability understands both the string names and the boolean
// spelling used by browser clients ("true", "false", "").
func ParseAvailability(s string) (Availability, error) {
	switch s {
	case "", "any", "null":
		return AnyAvailability, nil
	case "in_stock", "true":
		return InStock, nil
	case "out_of_stock", "false":
		return OutOfStock, nil
	}
	return AnyAvailability, fmt.Errorf("unknown availability %q", s)
}

func (a Availability) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Availability) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*a = AnyAvailability
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*a = InStock
		} else {
			*a = OutOfStock
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("availability must be a string, a boolean or null")
	}
	parsed, err := ParseAvailability(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// FilterCriteria is the active filter of the product view. The zero value
// constrains nothing.
type FilterCriteria struct {
	SearchName   string       `json:"searchName"`
	Category     string       `json:"category"`
	Availability Availability `json:"availability"`
}
