package matching

import (
	"fmt"

	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/normalizers"
)

// Identifiers are the raw identifying fields extracted from one source row.
type Identifiers struct {
	Email      string
	Phone      string
	ExternalID string
}

// Conflict records an email match and a phone match that point at different
// persons. The email match wins; the conflict is surfaced for reporting.
type Conflict struct {
	EmailPersonID string
	PhonePersonID string
}

// Resolution is the outcome of matching one row against the index.
type Resolution struct {
	PersonID        *string
	Method          models.MatchMethod
	MatchValue      string
	NormalizedEmail string
	PhoneRaw        string
	PhoneCanonical  *string
	// StatusDetail is empty on clean matches; it carries text only when a
	// conflict or a no-match explanation needs surfacing.
	StatusDetail string
	Conflict     *Conflict
}

// Matched reports whether a person was resolved.
func (r Resolution) Matched() bool {
	return r.PersonID != nil
}

// NeedsReview reports whether the row requires manual attention. Unmatched
// rows and conflicting rows both qualify.
func (r Resolution) NeedsReview() bool {
	return r.Method == models.MatchMethodNone || r.Conflict != nil
}

// Match resolves a row's identifiers against the index. Tiers are tried in
// priority order: external id, then email, then phone. When email and phone
// resolve to different persons the email match is kept and the disagreement
// is recorded as a conflict.
//
// Match is a pure function over its inputs. All persistence and side effects
// belong to the caller.
func Match(ids Identifiers, idx LookupIndex) Resolution {
	phone := normalizers.NormalizePhone(ids.Phone)

	resolution := Resolution{
		Method:          models.MatchMethodNone,
		NormalizedEmail: normalizers.NormalizeEmail(ids.Email),
		PhoneRaw:        phone.Raw,
		PhoneCanonical:  phone.Canonical,
	}

	if ids.ExternalID != "" {
		if personID, ok := idx.ExternalID[ids.ExternalID]; ok {
			resolution.PersonID = &personID
			resolution.Method = models.MatchMethodExternalID
			resolution.MatchValue = ids.ExternalID
			return resolution
		}
	}

	var emailID, phoneID string
	var emailOK, phoneOK bool
	if resolution.NormalizedEmail != "" {
		emailID, emailOK = idx.Email[resolution.NormalizedEmail]
	}
	if phone.HasCanonical() {
		phoneID, phoneOK = idx.Phone[*phone.Canonical]
	}

	switch {
	case emailOK && phoneOK && emailID != phoneID:
		resolution.PersonID = &emailID
		resolution.Method = models.MatchMethodEmail
		resolution.MatchValue = resolution.NormalizedEmail
		resolution.Conflict = &Conflict{EmailPersonID: emailID, PhonePersonID: phoneID}
		resolution.StatusDetail = fmt.Sprintf(
			"email matched person %s but phone matched person %s, kept email match",
			emailID, phoneID,
		)
	case emailOK:
		resolution.PersonID = &emailID
		resolution.Method = models.MatchMethodEmail
		resolution.MatchValue = resolution.NormalizedEmail
	case phoneOK:
		resolution.PersonID = &phoneID
		resolution.Method = models.MatchMethodPhone
		resolution.MatchValue = *phone.Canonical
	default:
		resolution.StatusDetail = noMatchDetail(resolution)
	}

	return resolution
}

func noMatchDetail(r Resolution) string {
	phone := "none"
	if r.PhoneCanonical != nil {
		phone = fmt.Sprintf("%q", *r.PhoneCanonical)
	} else if r.PhoneRaw != "" {
		phone = fmt.Sprintf("%q (not canonicalizable)", r.PhoneRaw)
	}
	email := "none"
	if r.NormalizedEmail != "" {
		email = fmt.Sprintf("%q", r.NormalizedEmail)
	}
	return fmt.Sprintf("no match for email %s or phone %s", email, phone)
}
