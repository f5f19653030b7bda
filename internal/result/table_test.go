package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	table := Parse("a,b\n1,2\n3,4")

	require.Len(t, table, 3)
	assert.Equal(t, Row{"a", "b"}, table.Header())
	assert.Equal(t, []Row{{"1", "2"}, {"3", "4"}}, table.Body())
}

func TestParseCRLF(t *testing.T) {
	table := Parse("a,b\r\n1,2\r\n3,4\r\n")

	require.Len(t, table, 3)
	assert.Equal(t, Row{"a", "b"}, table.Header())
	assert.Equal(t, Row{"3", "4"}, table[2])
}

func TestParseTrailingNewline(t *testing.T) {
	assert.Len(t, Parse("a,b\n1,2\n"), 2)
	// Only a single trailing blank line is discarded.
	assert.Len(t, Parse("a,b\n1,2\n\n"), 3)
}

func TestParseEmpty(t *testing.T) {
	table := Parse("")
	assert.Empty(t, table)
	assert.Nil(t, table.Header())
	assert.Nil(t, table.Body())
}

func TestParseHeaderOnly(t *testing.T) {
	table := Parse("a,b,c")
	assert.Equal(t, Row{"a", "b", "c"}, table.Header())
	assert.Nil(t, table.Body())
}

func TestParseRaggedRows(t *testing.T) {
	table := Parse("a,b\n1\n2,3,4")

	require.Len(t, table, 3)
	assert.Equal(t, Row{"1"}, table[1])
	assert.Equal(t, Row{"2", "3", "4"}, table[2])
}

func TestParseEmbeddedCommaSplits(t *testing.T) {
	// No quoting support: the comma inside the quoted field still splits.
	table := Parse(`name,note` + "\n" + `alice,"a,b"`)

	require.Len(t, table, 2)
	assert.Equal(t, Row{"alice", `"a`, `b"`}, table[1])
}
