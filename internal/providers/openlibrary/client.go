// Package openlibrary provides a client for the Open Library books API.
package openlibrary

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/openshelf/openshelf/internal/providers/registry"
	"github.com/openshelf/openshelf/internal/transport"
	"github.com/openshelf/openshelf/pkg/bib"
	"github.com/openshelf/openshelf/pkg/lookup"
)

func init() {
	registry.Register(lookup.OpenLibraryID, &Client{})
}

const (
	defaultBooksURL  = "https://openlibrary.org/api/books"
	defaultSearchURL = "https://openlibrary.org/search.json"
	searchLimit      = 5
)

// Response structures for the Open Library data API. Every node is
// optional; records in the wild omit most of them.
type bookData struct {
	Title           string      `json:"title"`
	Subtitle        string      `json:"subtitle"`
	Authors         []namedNode `json:"authors"`
	Publishers      []namedNode `json:"publishers"`
	PublishPlaces   []namedNode `json:"publish_places"`
	PublishDate     string      `json:"publish_date"`
	NumberOfPages   int         `json:"number_of_pages"`
	Subjects        []namedNode `json:"subjects"`
	Identifiers     identifiers `json:"identifiers"`
	Classifications classes     `json:"classifications"`
	Cover           coverNode   `json:"cover"`
}

type namedNode struct {
	Name string `json:"name"`
}

type identifiers struct {
	ISBN10      []string `json:"isbn_10"`
	ISBN13      []string `json:"isbn_13"`
	LCCN        []string `json:"lccn"`
	OCLC        []string `json:"oclc"`
	OpenLibrary []string `json:"openlibrary"`
}

type classes struct {
	DeweyDecimal []string `json:"dewey_decimal_class"`
	LC           []string `json:"lc_classifications"`
}

type coverNode struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

// searchResponse is the shape of /search.json results.
type searchResponse struct {
	Docs []searchDoc `json:"docs"`
}

type searchDoc struct {
	Title            string   `json:"title"`
	Subtitle         string   `json:"subtitle"`
	AuthorNames      []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	ISBNs            []string `json:"isbn"`
	Publishers       []string `json:"publisher"`
	Languages        []string `json:"language"`
	Subjects         []string `json:"subject"`
	CoverID          int64    `json:"cover_i"`
	Key              string   `json:"key"`
}

// Client implements the lookup.Provider interface for Open Library.
type Client struct {
	cfg       *registry.Config
	transport *transport.Client
	mu        sync.RWMutex
}

// ID returns the provider's identifier.
func (c *Client) ID() lookup.ID {
	return lookup.OpenLibraryID
}

// Configure sets the provider config for this client (registry pattern).
func (c *Client) Configure(cfg *registry.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
	c.transport = transport.New(&transport.NoAuth{}, "", cfg.Timeout)
}

func (c *Client) endpoints() (books, search string, tc *transport.Client) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	books, search = defaultBooksURL, defaultSearchURL
	if c.cfg != nil {
		if c.cfg.BaseURL != "" {
			books = c.cfg.BaseURL
		}
		if c.cfg.SearchURL != "" {
			search = c.cfg.SearchURL
		}
	}
	tc = c.transport
	if tc == nil {
		tc = transport.New(&transport.NoAuth{}, "", 0)
	}
	return books, search, tc
}

// Lookup queries the data API for one ISBN.
func (c *Client) Lookup(ctx context.Context, identifier string) (*bib.CandidateRecord, error) {
	booksURL, _, tc := c.endpoints()

	bibkey := "ISBN:" + identifier
	u := fmt.Sprintf("%s?bibkeys=%s&format=json&jscmd=data", booksURL, url.QueryEscape(bibkey))

	resp, err := tc.Get(ctx, u)
	if err != nil {
		return nil, err
	}

	// The data API keys its response by the requested bibkey.
	var result map[string]bookData
	if err := transport.DecodeJSON(resp, "openlibrary", &result); err != nil {
		return nil, err
	}

	data, ok := result[bibkey]
	if !ok {
		return nil, nil
	}
	return normalizeBook(&data), nil
}

// Search queries the search API by free text.
func (c *Client) Search(ctx context.Context, query string, hints *lookup.Hints) ([]bib.CandidateRecord, error) {
	_, searchURL, tc := c.endpoints()

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(searchLimit))
	if hints != nil && hints.Language != "" {
		params.Set("lang", hints.Language)
	}

	resp, err := tc.Get(ctx, searchURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var result searchResponse
	if err := transport.DecodeJSON(resp, "openlibrary", &result); err != nil {
		return nil, err
	}

	records := make([]bib.CandidateRecord, 0, len(result.Docs))
	for i := range result.Docs {
		if r := normalizeDoc(&result.Docs[i]); r != nil {
			records = append(records, *r)
		}
	}
	return records, nil
}

// normalizeBook converts a data API payload into a CandidateRecord.
// Returns nil when the payload holds nothing usable.
func normalizeBook(data *bookData) *bib.CandidateRecord {
	record := &bib.CandidateRecord{
		Title:       data.Title,
		Subtitle:    data.Subtitle,
		PublishDate: data.PublishDate,
		Pages:       data.NumberOfPages,
		Identifiers: map[bib.IdentifierType]string{},
		Sources:     []string{lookup.OpenLibraryID.String()},
	}

	for _, a := range data.Authors {
		if a.Name != "" {
			record.Authors = append(record.Authors, a.Name)
		}
	}
	if len(data.Publishers) > 0 {
		record.Publisher = data.Publishers[0].Name
	}
	if len(data.PublishPlaces) > 0 {
		record.PublishPlace = data.PublishPlaces[0].Name
	}
	for _, s := range data.Subjects {
		if s.Name != "" {
			record.Subjects = append(record.Subjects, s.Name)
		}
	}

	setFirst := func(typ bib.IdentifierType, values []string) {
		for _, v := range values {
			if norm := bib.NormalizeIdentifier(v); norm != "" {
				record.Identifiers[typ] = norm
				return
			}
		}
	}
	setFirst(bib.IdentifierISBN10, data.Identifiers.ISBN10)
	setFirst(bib.IdentifierISBN13, data.Identifiers.ISBN13)
	setFirst(bib.IdentifierLCCN, data.Identifiers.LCCN)
	setFirst(bib.IdentifierOCLC, data.Identifiers.OCLC)
	if len(data.Identifiers.OpenLibrary) > 0 {
		record.Identifiers[bib.IdentifierOpenLibrary] = data.Identifiers.OpenLibrary[0]
	}

	if len(data.Classifications.DeweyDecimal) > 0 {
		record.DeweyDecimal = data.Classifications.DeweyDecimal[0]
	}
	if len(data.Classifications.LC) > 0 {
		record.LCC = data.Classifications.LC[0]
	}

	for _, cover := range []string{data.Cover.Large, data.Cover.Medium, data.Cover.Small} {
		if cover != "" {
			record.CoverURLs = append(record.CoverURLs, cover)
		}
	}

	if record.Empty() {
		return nil
	}
	return record
}

// normalizeDoc converts one search result document into a CandidateRecord.
func normalizeDoc(doc *searchDoc) *bib.CandidateRecord {
	record := &bib.CandidateRecord{
		Title:       doc.Title,
		Subtitle:    doc.Subtitle,
		Authors:     doc.AuthorNames,
		Identifiers: map[bib.IdentifierType]string{},
		Sources:     []string{lookup.OpenLibraryID.String()},
	}

	if doc.FirstPublishYear > 0 {
		record.PublishDate = strconv.Itoa(doc.FirstPublishYear)
	}
	if len(doc.Publishers) > 0 {
		record.Publisher = doc.Publishers[0]
	}
	if len(doc.Languages) > 0 {
		record.Language = doc.Languages[0]
	}
	// Search results bundle ISBNs of every edition; keep the first of each
	// length.
	for _, raw := range doc.ISBNs {
		norm := bib.NormalizeIdentifier(raw)
		typ := bib.ClassifyISBN(norm)
		if typ == "" {
			continue
		}
		if _, ok := record.Identifiers[typ]; !ok {
			record.Identifiers[typ] = norm
		}
	}
	if doc.Key != "" {
		record.Identifiers[bib.IdentifierOpenLibrary] = doc.Key
	}

	const maxSubjects = 10
	for i, s := range doc.Subjects {
		if i >= maxSubjects {
			break
		}
		record.Subjects = append(record.Subjects, s)
	}

	if doc.CoverID > 0 {
		record.CoverURLs = append(record.CoverURLs,
			fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-L.jpg", doc.CoverID))
	}

	if record.Empty() {
		return nil
	}
	return record
}
