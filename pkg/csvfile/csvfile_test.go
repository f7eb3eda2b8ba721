package csvfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasic(t *testing.T) {
	content := "unit,email,phone\n101,jane@x.com,5551234567\n102,bob@x.com,\n"

	records := Parse(content)

	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].Number)
	assert.Equal(t, "101", records[0].Fields["unit"])
	assert.Equal(t, "jane@x.com", records[0].Fields["email"])
	assert.Equal(t, 2, records[1].Number)
	assert.Equal(t, "", records[1].Fields["phone"])
}

func TestParseNormalizesHeaders(t *testing.T) {
	content := " Unit , Homeowner_Email \n101,jane@x.com"

	records := Parse(content)

	require.Len(t, records, 1)
	assert.Equal(t, "101", records[0].Fields["unit"])
	assert.Equal(t, "jane@x.com", records[0].Fields["homeowner_email"])
}

func TestParseStripsQuotes(t *testing.T) {
	content := "unit,email\n\"101\",\"jane@x.com\""

	records := Parse(content)

	require.Len(t, records, 1)
	assert.Equal(t, "101", records[0].Fields["unit"])
	assert.Equal(t, "jane@x.com", records[0].Fields["email"])
}

func TestParseShortRow(t *testing.T) {
	content := "unit,email,phone\n101"

	records := Parse(content)

	require.Len(t, records, 1)
	assert.Equal(t, "101", records[0].Fields["unit"])
	assert.Equal(t, "", records[0].Fields["email"])
	assert.Equal(t, "", records[0].Fields["phone"])
}

func TestParseSkipsBlankLines(t *testing.T) {
	content := "unit,email\r\n\r\n101,jane@x.com\r\n\r\n"

	records := Parse(content)

	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].Number)
}

func TestParseHeaderOnly(t *testing.T) {
	assert.Empty(t, Parse("unit,email\n"))
	assert.Empty(t, Parse(""))
}
