package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowsFromCSV(t *testing.T) {
	data := []byte("english_name,slug,benefits\n" +
		"Crow Pose,crow-pose,Strengthens arms|Improves balance\n" +
		"Tree Pose,,\n")

	rows, err := RowsFromCSV(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].Number)
	assert.Equal(t, "Crow Pose", rows[0].Fields["english_name"])
	assert.Equal(t, "crow-pose", rows[0].Fields["slug"])
	assert.Equal(t, "Strengthens arms|Improves balance", rows[0].Fields["benefits"])

	// Empty cells under a header are present-empty, not absent.
	assert.Equal(t, 2, rows[1].Number)
	v, ok := rows[1].Fields["slug"]
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestRowsFromCSVNumbersCountBlankRows(t *testing.T) {
	data := []byte("english_name\nCrow Pose\n\n\nTree Pose\n")

	rows, err := RowsFromCSV(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Number)
	assert.Equal(t, 4, rows[1].Number)

	// Blank lines before the header shift nothing: numbering starts at the
	// header, wherever it sits in the file.
	data = []byte("\n\nenglish_name\nCrow Pose\n\nTree Pose\n")
	rows, err = RowsFromCSV(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Number)
	assert.Equal(t, 3, rows[1].Number)
}

func TestRowsFromCSVHeaderNormalization(t *testing.T) {
	data := []byte("\uFEFFEnglish_Name,\"Slug\"\nCrow Pose,crow-pose\n")

	rows, err := RowsFromCSV(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Crow Pose", rows[0].Fields["english_name"])
	assert.Equal(t, "crow-pose", rows[0].Fields["slug"])
}

func TestRowsFromCSVEmptyFile(t *testing.T) {
	_, err := RowsFromCSV([]byte(""))
	assert.Error(t, err)

	_, err = RowsFromCSV([]byte("\n\n  ,  \n"))
	assert.Error(t, err)
}

func TestRowsFromCSVRaggedAndShortRows(t *testing.T) {
	data := []byte("english_name,slug\nCrow Pose\n")

	rows, err := RowsFromCSV(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// A row shorter than the header simply lacks the trailing keys.
	_, ok := rows[0].Fields["slug"]
	assert.False(t, ok)
	assert.Equal(t, "Crow Pose", rows[0].Fields["english_name"])
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "  plain  ", want: "plain"},
		{in: `="crow-pose"`, want: "crow-pose"},
		{in: `"quoted"`, want: "quoted"},
		{in: "'quoted'", want: "quoted"},
		{in: "\uFEFFbom", want: "bom"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanCell(tt.in), "input %q", tt.in)
	}
}
