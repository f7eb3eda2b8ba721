package matching

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/aster/pkg/models"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func strPtr(s string) *string { return &s }

func TestBuildIndexNormalizesKeys(t *testing.T) {
	builder := NewIndexBuilder(testLogger())

	idx := builder.Build(context.Background(), []models.Person{
		{
			ID:         "person-1",
			Emails:     []string{" Jane@X.com "},
			Phones:     []string{"(555) 123-4567"},
			ExternalID: strPtr("appfolio-1"),
		},
	})

	assert.Equal(t, "person-1", idx.Email["jane@x.com"])
	assert.Equal(t, "person-1", idx.Phone["+15551234567"])
	assert.Equal(t, "person-1", idx.ExternalID["appfolio-1"])
}

func TestBuildIndexFirstSeenWins(t *testing.T) {
	builder := NewIndexBuilder(testLogger())

	idx := builder.Build(context.Background(), []models.Person{
		{ID: "person-1", Emails: []string{"shared@x.com"}, Phones: []string{"5551234567"}},
		{ID: "person-2", Emails: []string{"shared@x.com"}, Phones: []string{"15551234567"}},
	})

	assert.Equal(t, "person-1", idx.Email["shared@x.com"])
	assert.Equal(t, "person-1", idx.Phone["+15551234567"])
}

func TestBuildIndexSkipsEmptyAndUnparseable(t *testing.T) {
	builder := NewIndexBuilder(testLogger())

	idx := builder.Build(context.Background(), []models.Person{
		{ID: "person-1", Emails: []string{"", "   "}, Phones: []string{"123", ""}},
	})

	assert.Empty(t, idx.Email)
	assert.Empty(t, idx.Phone)
	assert.Empty(t, idx.ExternalID)
}

func TestBuildIndexEmptyDirectory(t *testing.T) {
	builder := NewIndexBuilder(testLogger())

	idx := builder.Build(context.Background(), nil)

	assert.NotNil(t, idx.Email)
	assert.NotNil(t, idx.Phone)
	assert.NotNil(t, idx.ExternalID)
}
