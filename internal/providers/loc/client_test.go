package loc

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

const sruPayload = `<?xml version="1.0"?>
<searchRetrieveResponse>
  <numberOfRecords>1</numberOfRecords>
  <records>
    <record>
      <recordData>
        <mods>
          <titleInfo>
            <title>The left hand of darkness</title>
          </titleInfo>
          <name type="personal">
            <namePart>Le Guin, Ursula K.</namePart>
            <role><roleTerm>author</roleTerm></role>
          </name>
          <name type="personal">
            <namePart>Smith, Jane</namePart>
            <role><roleTerm>binder</roleTerm></role>
          </name>
          <originInfo>
            <publisher>Ace Books</publisher>
            <dateIssued>1969</dateIssued>
            <place><placeTerm>New York</placeTerm></place>
          </originInfo>
          <physicalDescription>
            <extent>xiv, 304 p. ; 21 cm</extent>
          </physicalDescription>
          <language><languageTerm>eng</languageTerm></language>
          <classification authority="ddc">813.54</classification>
          <classification authority="lcc">PZ4.L518</classification>
          <subject><topic>Science fiction</topic></subject>
          <subject><topic>Gender identity</topic></subject>
          <identifier type="isbn">0-441-47812-3 (pbk.)</identifier>
          <identifier type="lccn">76029730</identifier>
          <identifier type="oclc">2361187</identifier>
        </mods>
      </recordData>
    </record>
  </records>
</searchRetrieveResponse>`

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := &Client{}
	client.Configure(&registry.Config{
		ID:      lookup.LOCID,
		BaseURL: server.URL + "/LCDB",
		Timeout: time.Second,
	})
	return client
}

func TestLookup(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "1.1", q.Get("version"))
		assert.Equal(t, "searchRetrieve", q.Get("operation"))
		assert.Equal(t, "mods", q.Get("recordSchema"))
		assert.Equal(t, "bath.isbn=0441478123", q.Get("query"))
		w.Write([]byte(sruPayload))
	}))

	record, err := client.Lookup(context.Background(), "0441478123")
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, "The left hand of darkness", record.Title)
	assert.Equal(t, []string{"Le Guin, Ursula K."}, record.Authors, "binders are not authors")
	assert.Equal(t, "Ace Books", record.Publisher)
	assert.Equal(t, "New York", record.PublishPlace)
	assert.Equal(t, "1969", record.PublishDate)
	assert.Equal(t, 304, record.Pages, "page count pulled from the extent statement")
	assert.Equal(t, "eng", record.Language)
	assert.Equal(t, "813.54", record.DeweyDecimal)
	assert.Equal(t, "PZ4.L518", record.LCC)
	assert.Equal(t, []string{"Science fiction", "Gender identity"}, record.Subjects)
	assert.Equal(t, "0441478123", record.Identifiers[bib.IdentifierISBN10], "qualifier stripped")
	assert.Equal(t, "76029730", record.Identifiers[bib.IdentifierLCCN])
	assert.Equal(t, []string{"loc"}, record.Sources)
}

func TestLookupMiss(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<searchRetrieveResponse><numberOfRecords>0</numberOfRecords></searchRetrieveResponse>`))
	}))

	record, err := client.Lookup(context.Background(), "9780000000000")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestSearchCQL(t *testing.T) {
	var gotCQL string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCQL = r.URL.Query().Get("query")
		w.Write([]byte(`<searchRetrieveResponse><numberOfRecords>0</numberOfRecords></searchRetrieveResponse>`))
	}))

	_, err := client.Search(context.Background(), "the dispossessed by le guin", &lookup.Hints{Year: "1974"})
	require.NoError(t, err)
	assert.Equal(t, `bath.title="the dispossessed" and bath.author="le guin" and bath.date="1974"`, gotCQL)
}

func TestParseExtentPages(t *testing.T) {
	tests := []struct {
		extent string
		want   int
	}{
		{"xiv, 304 p. ; 21 cm", 304},
		{"2 v. (713 p.)", 0}, // parenthesized counts are not tokenized
		{"96 pages", 96},
		{"1 sound disc", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseExtentPages(tt.extent), "extent %q", tt.extent)
	}
}
