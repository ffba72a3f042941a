package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID             string   `json:"id"`
	ScientificName string   `json:"scientificName"`
	Height         float64  `json:"height"`
	Lat            float64  `json:"lat"`
	Seasons        []string `json:"seasons"`
}

type rows []row

func (r rows) Table() Table {
	t := Table{Headers: []string{"ID", "SCIENTIFIC NAME"}, Empty: "nothing here"}
	for _, x := range r {
		t.Rows = append(t.Rows, []string{x.ID, x.ScientificName})
	}
	return t
}

func TestWriteEDN_KebabKeywords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEDN(&buf, row{ID: "plant-1", ScientificName: "Quercus robur", Height: 500, Lat: 51.505, Seasons: []string{"spring"}}, false))
	assert.Equal(t, `{:height 500 :id "plant-1" :lat 51.505 :scientific-name "Quercus robur" :seasons ["spring"]}`+"\n", buf.String())
}

func TestWrite_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rows{{ID: "plant-1", ScientificName: "Quercus robur"}}, "table", false))
	out := buf.String()
	assert.Contains(t, out, "SCIENTIFIC NAME")
	assert.Contains(t, out, "Quercus robur")

	buf.Reset()
	require.NoError(t, Write(&buf, rows{}, "", false))
	assert.Equal(t, "nothing here\n", buf.String())
}

func TestWrite_TableFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, map[string]int{"n": 1}, "table", false))
	assert.True(t, strings.HasPrefix(buf.String(), "{\n"))
}

func TestWrite_UnknownFormat(t *testing.T) {
	assert.ErrorContains(t, Write(&bytes.Buffer{}, 1, "xml", false), "unknown format")
}
