package openlibrary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/internal/providers/registry"
	"github.com/openshelf/openshelf/pkg/bib"
	"github.com/openshelf/openshelf/pkg/lookup"
)

const bookPayload = `{
  "ISBN:9780140328721": {
    "title": "Fantastic Mr. Fox",
    "authors": [{"name": "Roald Dahl"}],
    "publishers": [{"name": "Puffin"}],
    "publish_places": [{"name": "New York"}],
    "publish_date": "October 1, 1988",
    "number_of_pages": 96,
    "subjects": [{"name": "Foxes"}, {"name": "Fiction"}],
    "identifiers": {
      "isbn_10": ["0140328726"],
      "isbn_13": ["978-0-14-032872-1"],
      "lccn": ["88161380"],
      "openlibrary": ["OL7353617M"]
    },
    "classifications": {"dewey_decimal_class": ["823/.914"]},
    "cover": {
      "small": "https://covers.openlibrary.org/b/id/8739161-S.jpg",
      "large": "https://covers.openlibrary.org/b/id/8739161-L.jpg"
    }
  }
}`

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := &Client{}
	client.Configure(&registry.Config{
		ID:        lookup.OpenLibraryID,
		BaseURL:   server.URL + "/api/books",
		SearchURL: server.URL + "/search.json",
		Timeout:   time.Second,
	})
	return client
}

func TestLookup(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/books", r.URL.Path)
		assert.Equal(t, "ISBN:9780140328721", r.URL.Query().Get("bibkeys"))
		assert.Equal(t, "data", r.URL.Query().Get("jscmd"))
		w.Write([]byte(bookPayload))
	}))

	record, err := client.Lookup(context.Background(), "9780140328721")
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, "Fantastic Mr. Fox", record.Title)
	assert.Equal(t, []string{"Roald Dahl"}, record.Authors)
	assert.Equal(t, "Puffin", record.Publisher)
	assert.Equal(t, "New York", record.PublishPlace)
	assert.Equal(t, 96, record.Pages)
	assert.Equal(t, "9780140328721", record.Identifiers[bib.IdentifierISBN13], "identifier stored normalized")
	assert.Equal(t, "0140328726", record.Identifiers[bib.IdentifierISBN10])
	assert.Equal(t, "88161380", record.Identifiers[bib.IdentifierLCCN])
	assert.Equal(t, "OL7353617M", record.Identifiers[bib.IdentifierOpenLibrary])
	assert.Equal(t, "823/.914", record.DeweyDecimal)
	assert.Equal(t, []string{"Foxes", "Fiction"}, record.Subjects)
	assert.Equal(t, []string{
		"https://covers.openlibrary.org/b/id/8739161-L.jpg",
		"https://covers.openlibrary.org/b/id/8739161-S.jpg",
	}, record.CoverURLs, "largest cover first")
	assert.Equal(t, []string{"openlibrary"}, record.Sources)
}

func TestLookupMiss(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	}))

	record, err := client.Lookup(context.Background(), "9780000000000")
	require.NoError(t, err)
	assert.Nil(t, record, "unknown ISBN answers with nothing, not an error")
}

func TestSearch(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "the hobbit", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Write([]byte(`{
  "docs": [
    {
      "title": "The Hobbit",
      "author_name": ["J.R.R. Tolkien"],
      "first_publish_year": 1937,
      "isbn": ["0618260307", "9780618260300", "0261103342"],
      "publisher": ["Houghton Mifflin"],
      "language": ["eng"],
      "cover_i": 10581001,
      "key": "/works/OL262758W"
    },
    {}
  ]
}`))
	}))

	records, err := client.Search(context.Background(), "the hobbit", nil)
	require.NoError(t, err)
	require.Len(t, records, 1, "empty docs are dropped")

	record := records[0]
	assert.Equal(t, "The Hobbit", record.Title)
	assert.Equal(t, "1937", record.PublishDate)
	assert.Equal(t, "0618260307", record.Identifiers[bib.IdentifierISBN10], "first of each length kept")
	assert.Equal(t, "9780618260300", record.Identifiers[bib.IdentifierISBN13])
	assert.Equal(t, "/works/OL262758W", record.Identifiers[bib.IdentifierOpenLibrary])
	assert.Equal(t, []string{"https://covers.openlibrary.org/b/id/10581001-L.jpg"}, record.CoverURLs)
}

func TestSearchLanguageHint(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fre", r.URL.Query().Get("lang"))
		w.Write([]byte(`{"docs": []}`))
	}))

	records, err := client.Search(context.Background(), "le petit prince", &lookup.Hints{Language: "fre"})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestNormalizeBookEmpty(t *testing.T) {
	assert.Nil(t, normalizeBook(&bookData{}))
}
