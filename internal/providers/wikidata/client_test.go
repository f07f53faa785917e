package wikidata

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

// Three bindings for the same item URI: two authors plus a repeated
// (differently-cased) one, which the fold must collapse into two authors.
const sparqlPayload = `{
  "results": {
    "bindings": [
      {
        "item": {"type": "uri", "value": "http://www.wikidata.org/entity/Q180736"},
        "title": {"type": "literal", "value": "Good Omens"},
        "authorLabel": {"type": "literal", "value": "Terry Pratchett"},
        "publisherLabel": {"type": "literal", "value": "Gollancz"},
        "placeLabel": {"type": "literal", "value": "London"},
        "date": {"type": "literal", "value": "1990-05-10T00:00:00Z"},
        "pages": {"type": "literal", "value": "288"},
        "languageLabel": {"type": "literal", "value": "English"},
        "subjectLabel": {"type": "literal", "value": "Apocalypse"},
        "isbn13": {"type": "literal", "value": "978-0-575-04800-5"}
      },
      {
        "item": {"type": "uri", "value": "http://www.wikidata.org/entity/Q180736"},
        "authorLabel": {"type": "literal", "value": "Neil Gaiman"},
        "subjectLabel": {"type": "literal", "value": "Demons"}
      },
      {
        "item": {"type": "uri", "value": "http://www.wikidata.org/entity/Q180736"},
        "authorLabel": {"type": "literal", "value": "TERRY PRATCHETT"}
      }
    ]
  }
}`

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := &Client{}
	client.Configure(&registry.Config{
		ID:      lookup.WikidataID,
		BaseURL: server.URL + "/sparql",
		Timeout: time.Second,
	})
	return client
}

func TestLookup(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "json", q.Get("format"))
		assert.Contains(t, q.Get("query"), `"9780575048005"`)
		assert.Contains(t, q.Get("query"), "wdt:P212")
		w.Write([]byte(sparqlPayload))
	}))

	record, err := client.Lookup(context.Background(), "9780575048005")
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, "Good Omens", record.Title)
	assert.Equal(t, []string{"Terry Pratchett", "Neil Gaiman"}, record.Authors,
		"repeated author labels collapse case-insensitively")
	assert.Equal(t, "Gollancz", record.Publisher)
	assert.Equal(t, "London", record.PublishPlace)
	assert.Equal(t, "1990-05-10", record.PublishDate, "time part dropped from xsd:dateTime")
	assert.Equal(t, 288, record.Pages)
	assert.Equal(t, "English", record.Language)
	assert.Equal(t, []string{"Apocalypse", "Demons"}, record.Subjects)
	assert.Equal(t, "9780575048005", record.Identifiers[bib.IdentifierISBN13])
	assert.Equal(t, []string{"wikidata"}, record.Sources)
}

func TestLookupMiss(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"results": {"bindings": []}}`))
	}))

	record, err := client.Lookup(context.Background(), "9780000000000")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestSearchUsesTitlePart(t *testing.T) {
	var gotQuery string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		w.Write([]byte(`{"results": {"bindings": []}}`))
	}))

	_, err := client.Search(context.Background(), "good omens by terry pratchett", nil)
	require.NoError(t, err)
	assert.Contains(t, gotQuery, `mwapi:search "good omens"`)
	assert.NotContains(t, gotQuery, "pratchett", "author part is left to ranking")
}

func TestFoldBindings(t *testing.T) {
	bindings := []map[string]sparqlValue{
		{
			"item":      {Type: "uri", Value: "http://www.wikidata.org/entity/Q1"},
			"itemLabel": {Type: "literal", Value: "Fallback Label"},
		},
		{
			"item":  {Type: "uri", Value: "http://www.wikidata.org/entity/Q2"},
			"title": {Type: "literal", Value: "Second Work"},
		},
		{
			// No item URI: dropped.
			"title": {Type: "literal", Value: "Orphan"},
		},
	}

	records := foldBindings(bindings)
	require.Len(t, records, 2, "bindings group by item URI in first-seen order")
	assert.Equal(t, "Fallback Label", records[0].Title, "itemLabel backs an absent title")
	assert.Equal(t, "Second Work", records[1].Title)
}

func TestFoldBindingsEmpty(t *testing.T) {
	assert.Empty(t, foldBindings(nil))

	// An item whose bindings carry no usable fields is dropped.
	records := foldBindings([]map[string]sparqlValue{
		{"item": {Type: "uri", Value: "http://www.wikidata.org/entity/Q3"}},
	})
	assert.Empty(t, records)
}

func TestContainsFold(t *testing.T) {
	list := []string{"Ursula K. Le Guin"}
	assert.True(t, containsFold(list, "ursula k. le guin"))
	assert.False(t, containsFold(list, "Ursula Le Guin"))
	assert.False(t, containsFold(nil, "anyone"))
}
