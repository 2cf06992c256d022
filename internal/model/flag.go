package model

import "database/sql/driver"

// ReserveFlag is a boolean that travels over JSON as the string "true" or
// "false". Decoding accepts a JSON boolean or a string; only the exact string
// "true" counts as set.
type ReserveFlag bool

// ParseReserveFlag converts a legacy stored value to a flag.
func ParseReserveFlag(s string) ReserveFlag {
	return s == "true"
}

func (f ReserveFlag) String() string {
	if f {
		return "true"
	}
	return "false"
}

// MarshalJSON implements json.Marshaler.
func (f ReserveFlag) MarshalJSON() ([]byte, error) {
	return []byte(`"` + f.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *ReserveFlag) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true", `"true"`:
		*f = true
	case "null":
	default:
		*f = false
	}
	return nil
}

// Value implements driver.Valuer.
func (f ReserveFlag) Value() (driver.Value, error) {
	if f {
		return int64(1), nil
	}
	return int64(0), nil
}

// Scan implements sql.Scanner.
func (f *ReserveFlag) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*f = v != 0
	case bool:
		*f = ReserveFlag(v)
	case string:
		*f = ParseReserveFlag(v)
	case []byte:
		*f = ParseReserveFlag(string(v))
	default:
		*f = false
	}
	return nil
}
