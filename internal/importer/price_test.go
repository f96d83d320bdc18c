package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"150000", 150000},
		{"150,000", 150000},
		{"₩150,000", 150000},
		{"\"55,000\"", 55000},
		{" 1,234,500 ", 1234500},
		{"12000.5", 12000.5},
	}

	for _, c := range cases {
		got, err := ParsePrice(c.in)
		assert.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestParsePrice_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "12abc"} {
		_, err := ParsePrice(in)
		assert.Error(t, err, in)
	}
}

func TestParseUpload_CSV(t *testing.T) {
	csvData := "분류,시술명,고객가\n보톡스,이마 보톡스,\"150,000\"\n"

	headers, rows, err := ParseUpload("upload.csv", strings.NewReader(csvData))
	assert.NoError(t, err)
	assert.Equal(t, []string{"분류", "시술명", "고객가"}, headers)
	assert.Len(t, rows, 1)

	idx := HeaderIndex(headers)
	assert.Equal(t, "보톡스", Cell(rows[0], idx, "분류"))
	assert.Equal(t, "150,000", Cell(rows[0], idx, "고객가"))
	// Olmayan kolon boş döner
	assert.Equal(t, "", Cell(rows[0], idx, "재료1"))
}

func TestParseUpload_HeaderOnly(t *testing.T) {
	_, _, err := ParseUpload("upload.csv", strings.NewReader("분류,시술명,고객가\n"))
	assert.Error(t, err)
}

func TestReport_Counters(t *testing.T) {
	var r Report
	r.Add(RowReport{Row: 1, Status: StatusImported})
	r.Add(RowReport{Row: 2, Status: StatusError, Errors: []string{"x"}})
	r.Add(RowReport{Row: 3, Status: StatusSkipped})
	r.Add(RowReport{Row: 4, Status: StatusImported, Warnings: []string{"y"}})

	assert.Equal(t, 4, r.TotalRows)
	assert.Equal(t, 2, r.Imported)
	assert.Equal(t, 1, r.Skipped)
	assert.Equal(t, 1, r.Errors)
}
