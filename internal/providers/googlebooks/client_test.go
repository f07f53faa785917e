package googlebooks

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

const volumePayload = `{
  "totalItems": 1,
  "items": [
    {
      "id": "zaRoX10_UsMC",
      "volumeInfo": {
        "title": "The Hobbit",
        "subtitle": "Or There and Back Again",
        "authors": ["J. R. R. Tolkien"],
        "publisher": "Houghton Mifflin Harcourt",
        "publishedDate": "2012-02-15",
        "description": "Bilbo Baggins is a hobbit.",
        "industryIdentifiers": [
          {"type": "ISBN_13", "identifier": "9780547928227"},
          {"type": "ISBN_10", "identifier": "054792822X"}
        ],
        "pageCount": 300,
        "categories": ["Fiction"],
        "language": "en",
        "imageLinks": {
          "smallThumbnail": "http://books.google.com/small.jpg",
          "thumbnail": "http://books.google.com/thumb.jpg"
        }
      }
    }
  ]
}`

func testClient(t *testing.T, apiKey string, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := &Client{}
	client.Configure(&registry.Config{
		ID:      lookup.GoogleBooksID,
		BaseURL: server.URL + "/books/v1/volumes",
		APIKey:  apiKey,
		Timeout: time.Second,
	})
	return client
}

func TestLookup(t *testing.T) {
	client := testClient(t, "secret", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "isbn:9780547928227", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("maxResults"))
		assert.Equal(t, "secret", r.URL.Query().Get("key"), "API key rides as a query parameter")
		w.Write([]byte(volumePayload))
	}))

	record, err := client.Lookup(context.Background(), "9780547928227")
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, "The Hobbit", record.Title)
	assert.Equal(t, "Or There and Back Again", record.Subtitle)
	assert.Equal(t, []string{"J. R. R. Tolkien"}, record.Authors)
	assert.Equal(t, 300, record.Pages)
	assert.Equal(t, "9780547928227", record.Identifiers[bib.IdentifierISBN13])
	assert.Equal(t, "054792822X", record.Identifiers[bib.IdentifierISBN10])
	assert.Equal(t, "zaRoX10_UsMC", record.Identifiers[bib.IdentifierGoogleBooks])
	assert.Equal(t, []string{"Fiction"}, record.Subjects)
	assert.Equal(t, []string{
		"http://books.google.com/thumb.jpg",
		"http://books.google.com/small.jpg",
	}, record.CoverURLs)
	assert.Equal(t, []string{"googlebooks"}, record.Sources)
}

func TestLookupMiss(t *testing.T) {
	client := testClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"totalItems": 0}`))
	}))

	record, err := client.Lookup(context.Background(), "9780000000000")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestSearchQueryConstruction(t *testing.T) {
	var gotQ, gotLang string
	client := testClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQ = r.URL.Query().Get("q")
		gotLang = r.URL.Query().Get("langRestrict")
		w.Write([]byte(`{"totalItems": 0, "items": []}`))
	}))

	_, err := client.Search(context.Background(), "the hobbit by tolkien", &lookup.Hints{
		Publisher: "houghton",
		Language:  "en",
	})
	require.NoError(t, err)
	assert.Equal(t, `intitle:"the hobbit"+inauthor:"tolkien"+inpublisher:"houghton"`, gotQ)
	assert.Equal(t, "en", gotLang)
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		hints *lookup.Hints
		want  string
	}{
		{"plain title", "dune", nil, `intitle:"dune"`},
		{"title by author", "dune by frank herbert", nil, `intitle:"dune"+inauthor:"frank herbert"`},
		{"leading by is not a separator", "by the sea", nil, `intitle:"by the sea"`},
		{"subject hint", "dune", &lookup.Hints{Subject: "fiction"}, `intitle:"dune"+subject:"fiction"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildQuery(tt.query, tt.hints))
		})
	}
}

func TestNormalizeVolumeEmpty(t *testing.T) {
	assert.Nil(t, normalizeVolume(&volume{}))
}
