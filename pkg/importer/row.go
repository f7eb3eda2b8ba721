package importer

import (
	"encoding/json"
	"strings"

	"github.com/Ramsey-B/aster/pkg/csvfile"
)

// Accepted column aliases for each extracted field, in priority order.
// The first alias with a non-empty value wins.
var (
	unitAliases      = []string{"unit", "unit_number", "property_address"}
	emailAliases     = []string{"email", "homeowner_email"}
	phoneAliases     = []string{"phone", "homeowner_phone"}
	firstNameAliases = []string{"first_name", "homeowner_first_name"}
	lastNameAliases  = []string{"last_name", "homeowner_last_name"}
)

// HomeownerRow is one parsed directory row with its fields resolved through
// the column aliases. Raw preserves the full record for audit.
type HomeownerRow struct {
	Number     int
	UnitNumber string
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Raw        json.RawMessage
}

// RowFromRecord resolves a parsed record into a homeowner row
func RowFromRecord(record csvfile.Record) HomeownerRow {
	raw, _ := json.Marshal(record.Fields)

	return HomeownerRow{
		Number:     record.Number,
		UnitNumber: firstNonEmpty(record.Fields, unitAliases),
		FirstName:  firstNonEmpty(record.Fields, firstNameAliases),
		LastName:   firstNonEmpty(record.Fields, lastNameAliases),
		Email:      firstNonEmpty(record.Fields, emailAliases),
		Phone:      firstNonEmpty(record.Fields, phoneAliases),
		Raw:        raw,
	}
}

// HasIdentifyingFields reports whether the row carries enough information to
// create a new person when no match is found.
func (r HomeownerRow) HasIdentifyingFields() bool {
	return r.FirstName != "" || r.LastName != "" || r.Email != "" || r.Phone != ""
}

// UnitKey returns the case-insensitive lookup key for the unit directory
func (r HomeownerRow) UnitKey() string {
	return UnitKey(r.UnitNumber)
}

// UnitKey normalizes a unit number for case-insensitive exact matching
func UnitKey(unitNumber string) string {
	return strings.ToLower(strings.TrimSpace(unitNumber))
}

func firstNonEmpty(fields map[string]string, aliases []string) string {
	for _, alias := range aliases {
		if v := strings.TrimSpace(fields[alias]); v != "" {
			return v
		}
	}
	return ""
}
