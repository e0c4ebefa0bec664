package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `[
	{"name": "Guinness", "brand": "Guinness", "abv": 4.2, "rating": 8},
	{"name": "Guinness Extra", "brand": "Guinness", "abv": "5,6", "rating": ""},
	{"name": "Жигулевское", "brand": "Жигули", "abv": "4.0", "volume": 450}
]`

func TestSearch(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	tests := []struct {
		name     string
		query    string
		expected string
		found    bool
	}{
		{name: "catalog_order_wins", query: "guin", expected: "Guinness", found: true},
		{name: "case_insensitive", query: "GUINNESS EX", expected: "Guinness Extra", found: true},
		{name: "trimmed", query: "  extra ", expected: "Guinness Extra", found: true},
		{name: "cyrillic", query: "ЖИГУЛ", expected: "Жигулевское", found: true},
		{name: "not_found", query: "heineken", found: false},
		{name: "blank", query: "   ", found: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			rec, ok := c.Search(testCase.query)
			assert.Equal(t, testCase.found, ok)
			if testCase.found {
				assert.Equal(t, testCase.expected, rec.Name)
			}
		})
	}
}

func TestParse_FlexibleFields(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)
	records := c.Records()
	require.Len(t, records, 3)

	assert.True(t, records[0].ABV.Valid)
	assert.Equal(t, 4.2, records[0].ABV.Value)
	assert.Equal(t, "8", records[0].Rating.String())

	assert.Equal(t, 5.6, records[1].ABV.Value)
	assert.False(t, records[1].Rating.Valid)

	assert.Equal(t, "450", string(records[2].Volume))
}

func TestParse_MalformedFieldKeepsCatalog(t *testing.T) {
	c, err := Parse([]byte(`[
		{"name": "Guinness", "abv": "4,2"},
		{"name": "Zhigulevskoe", "abv": "4-5", "rating": "n/a"},
		{"name": "Baltika 7", "abv": 5.4}
	]`))
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	rec, ok := c.Search("zhigul")
	require.True(t, ok)
	assert.False(t, rec.ABV.Valid)
	assert.Equal(t, "4-5", rec.ABV.String())
	assert.Equal(t, "n/a", rec.Rating.String())

	rec, ok = c.Search("baltika")
	require.True(t, ok)
	assert.Equal(t, 5.4, rec.ABV.Value)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`{"name":"not an array"}`))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beer_db.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))

	c, err := Load(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)

	_, err = Load(context.Background(), " ", nil)
	assert.ErrorIs(t, err, ErrEmptySource)
}

func TestLoad_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/beer_db.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(sampleCatalog))
	}))
	defer srv.Close()

	c, err := Load(context.Background(), srv.URL+"/beer_db.json", srv.Client())
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	_, err = Load(context.Background(), srv.URL+"/other.json", srv.Client())
	assert.Error(t, err)
}

func TestEmptyCatalog(t *testing.T) {
	c := Empty()
	_, ok := c.Search("guinness")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLookup(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	rec, ok := c.Lookup("Guinness Extra")
	assert.True(t, ok)
	assert.Equal(t, "Guinness Extra", rec.Name)

	_, ok = c.Lookup("guinness extra")
	assert.False(t, ok)
}
