package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/aster/pkg/models"
)

func testIndex() LookupIndex {
	return LookupIndex{
		Email: map[string]string{
			"jane@x.com": "person-1",
			"bob@x.com":  "person-2",
		},
		Phone: map[string]string{
			"+15551234567": "person-2",
			"+15559990000": "person-3",
		},
		ExternalID: map[string]string{
			"appfolio-77": "person-4",
		},
	}
}

func TestMatchByExternalID(t *testing.T) {
	res := Match(Identifiers{ExternalID: "appfolio-77", Email: "jane@x.com"}, testIndex())

	require.True(t, res.Matched())
	assert.Equal(t, "person-4", *res.PersonID)
	assert.Equal(t, models.MatchMethodExternalID, res.Method)
	assert.Equal(t, "appfolio-77", res.MatchValue)
	assert.False(t, res.NeedsReview())
	assert.Empty(t, res.StatusDetail)
}

func TestMatchByEmailCaseInsensitive(t *testing.T) {
	res := Match(Identifiers{Email: "  Jane@X.com "}, testIndex())

	require.True(t, res.Matched())
	assert.Equal(t, "person-1", *res.PersonID)
	assert.Equal(t, models.MatchMethodEmail, res.Method)
	assert.Equal(t, "jane@x.com", res.MatchValue)
	assert.Empty(t, res.StatusDetail)
}

func TestMatchByPhoneFormatted(t *testing.T) {
	res := Match(Identifiers{Phone: "(555) 999-0000"}, testIndex())

	require.True(t, res.Matched())
	assert.Equal(t, "person-3", *res.PersonID)
	assert.Equal(t, models.MatchMethodPhone, res.Method)
	assert.Equal(t, "+15559990000", res.MatchValue)
	assert.Equal(t, "(555) 999-0000", res.PhoneRaw)
	assert.Empty(t, res.StatusDetail)
}

func TestMatchUnknownExternalIDFallsThrough(t *testing.T) {
	res := Match(Identifiers{ExternalID: "appfolio-999", Email: "jane@x.com"}, testIndex())

	require.True(t, res.Matched())
	assert.Equal(t, "person-1", *res.PersonID)
	assert.Equal(t, models.MatchMethodEmail, res.Method)
}

func TestMatchEmailPhoneConflictKeepsEmail(t *testing.T) {
	res := Match(Identifiers{Email: "jane@x.com", Phone: "5551234567"}, testIndex())

	require.True(t, res.Matched())
	assert.Equal(t, "person-1", *res.PersonID)
	assert.Equal(t, models.MatchMethodEmail, res.Method)
	require.NotNil(t, res.Conflict)
	assert.Equal(t, "person-1", res.Conflict.EmailPersonID)
	assert.Equal(t, "person-2", res.Conflict.PhonePersonID)
	assert.True(t, res.NeedsReview())
	assert.Contains(t, res.StatusDetail, "person-1")
	assert.Contains(t, res.StatusDetail, "person-2")
}

func TestMatchEmailPhoneAgreeIsNotConflict(t *testing.T) {
	res := Match(Identifiers{Email: "bob@x.com", Phone: "5551234567"}, testIndex())

	require.True(t, res.Matched())
	assert.Equal(t, "person-2", *res.PersonID)
	assert.Equal(t, models.MatchMethodEmail, res.Method)
	assert.Nil(t, res.Conflict)
	assert.False(t, res.NeedsReview())
	assert.Empty(t, res.StatusDetail)
}

func TestMatchNone(t *testing.T) {
	res := Match(Identifiers{Email: "nobody@x.com", Phone: "5550000001"}, testIndex())

	assert.False(t, res.Matched())
	assert.Equal(t, models.MatchMethodNone, res.Method)
	assert.True(t, res.NeedsReview())
	assert.Contains(t, res.StatusDetail, "nobody@x.com")
	assert.Contains(t, res.StatusDetail, "+15550000001")
}

func TestMatchNoIdentifiers(t *testing.T) {
	res := Match(Identifiers{}, testIndex())

	assert.False(t, res.Matched())
	assert.Equal(t, models.MatchMethodNone, res.Method)
	assert.Equal(t, "no match for email none or phone none", res.StatusDetail)
}

func TestMatchUnparseablePhone(t *testing.T) {
	res := Match(Identifiers{Phone: "123"}, testIndex())

	assert.False(t, res.Matched())
	assert.Nil(t, res.PhoneCanonical)
	assert.Equal(t, "123", res.PhoneRaw)
	assert.Contains(t, res.StatusDetail, "not canonicalizable")
}
