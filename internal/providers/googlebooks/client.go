// Package googlebooks provides a client for the Google Books volumes API.
package googlebooks

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/openshelf/openshelf/internal/providers/registry"
	"github.com/openshelf/openshelf/internal/transport"
	"github.com/openshelf/openshelf/pkg/bib"
	"github.com/openshelf/openshelf/pkg/lookup"
)

func init() {
	registry.Register(lookup.GoogleBooksID, &Client{})
}

const (
	defaultVolumesURL = "https://www.googleapis.com/books/v1/volumes"
	searchLimit       = 5
)

// Response structures for the volumes API.
type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string               `json:"title"`
	Subtitle            string               `json:"subtitle"`
	Authors             []string             `json:"authors"`
	Publisher           string               `json:"publisher"`
	PublishedDate       string               `json:"publishedDate"`
	Description         string               `json:"description"`
	IndustryIdentifiers []industryIdentifier `json:"industryIdentifiers"`
	PageCount           int                  `json:"pageCount"`
	Categories          []string             `json:"categories"`
	Language            string               `json:"language"`
	ImageLinks          imageLinks           `json:"imageLinks"`
}

type industryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type imageLinks struct {
	Thumbnail      string `json:"thumbnail"`
	SmallThumbnail string `json:"smallThumbnail"`
}

// Client implements the lookup.Provider interface for Google Books.
// An API key is optional; anonymous requests are allowed at lower quota.
type Client struct {
	cfg       *registry.Config
	transport *transport.Client
	mu        sync.RWMutex
}

// ID returns the provider's identifier.
func (c *Client) ID() lookup.ID {
	return lookup.GoogleBooksID
}

// Configure sets the provider config for this client (registry pattern).
func (c *Client) Configure(cfg *registry.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
	c.transport = transport.New(&transport.QueryAuth{Param: "key"}, cfg.APIKey, cfg.Timeout)
}

func (c *Client) endpoint() (string, *transport.Client) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u := defaultVolumesURL
	if c.cfg != nil && c.cfg.BaseURL != "" {
		u = c.cfg.BaseURL
	}
	tc := c.transport
	if tc == nil {
		tc = transport.New(&transport.NoAuth{}, "", 0)
	}
	return u, tc
}

// Lookup queries the volumes API for one ISBN.
func (c *Client) Lookup(ctx context.Context, identifier string) (*bib.CandidateRecord, error) {
	return c.query(ctx, "isbn:"+identifier, 1)
}

// Search queries the volumes API by free text, biased by hints.
func (c *Client) Search(ctx context.Context, query string, hints *lookup.Hints) ([]bib.CandidateRecord, error) {
	q := buildQuery(query, hints)

	volumesURL, tc := c.endpoint()
	params := url.Values{}
	params.Set("q", q)
	params.Set("maxResults", strconv.Itoa(searchLimit))
	if hints != nil && hints.Language != "" {
		params.Set("langRestrict", hints.Language)
	}

	resp, err := tc.Get(ctx, volumesURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var result volumesResponse
	if err := transport.DecodeJSON(resp, "googlebooks", &result); err != nil {
		return nil, err
	}

	records := make([]bib.CandidateRecord, 0, len(result.Items))
	for i := range result.Items {
		if r := normalizeVolume(&result.Items[i]); r != nil {
			records = append(records, *r)
		}
	}
	return records, nil
}

// query runs one volumes query and returns its best item.
func (c *Client) query(ctx context.Context, q string, maxResults int) (*bib.CandidateRecord, error) {
	volumesURL, tc := c.endpoint()
	params := url.Values{}
	params.Set("q", q)
	params.Set("maxResults", strconv.Itoa(maxResults))

	resp, err := tc.Get(ctx, volumesURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var result volumesResponse
	if err := transport.DecodeJSON(resp, "googlebooks", &result); err != nil {
		return nil, err
	}

	if len(result.Items) == 0 {
		return nil, nil
	}
	return normalizeVolume(&result.Items[0]), nil
}

// buildQuery folds hints into the volumes query syntax ("intitle:",
// "inpublisher:", "subject:").
func buildQuery(query string, hints *lookup.Hints) string {
	// "title by author" is split into the structured query form.
	title, author := query, ""
	if idx := strings.LastIndex(strings.ToLower(query), " by "); idx > 0 {
		title = strings.TrimSpace(query[:idx])
		author = strings.TrimSpace(query[idx+4:])
	}

	parts := []string{"intitle:" + strconv.Quote(title)}
	if author != "" {
		parts = append(parts, "inauthor:"+strconv.Quote(author))
	}
	if hints != nil {
		if hints.Publisher != "" {
			parts = append(parts, "inpublisher:"+strconv.Quote(hints.Publisher))
		}
		if hints.Subject != "" {
			parts = append(parts, "subject:"+strconv.Quote(hints.Subject))
		}
	}
	return strings.Join(parts, "+")
}

// normalizeVolume converts one volume payload into a CandidateRecord.
// Returns nil when the payload holds nothing usable.
func normalizeVolume(v *volume) *bib.CandidateRecord {
	info := &v.VolumeInfo
	record := &bib.CandidateRecord{
		Title:       info.Title,
		Subtitle:    info.Subtitle,
		Authors:     info.Authors,
		Publisher:   info.Publisher,
		PublishDate: info.PublishedDate,
		Description: info.Description,
		Pages:       info.PageCount,
		Language:    info.Language,
		Subjects:    info.Categories,
		Identifiers: map[bib.IdentifierType]string{},
		Sources:     []string{lookup.GoogleBooksID.String()},
	}

	for _, id := range info.IndustryIdentifiers {
		norm := bib.NormalizeIdentifier(id.Identifier)
		switch id.Type {
		case "ISBN_10":
			record.Identifiers[bib.IdentifierISBN10] = norm
		case "ISBN_13":
			record.Identifiers[bib.IdentifierISBN13] = norm
		}
	}
	if v.ID != "" {
		record.Identifiers[bib.IdentifierGoogleBooks] = v.ID
	}

	for _, link := range []string{info.ImageLinks.Thumbnail, info.ImageLinks.SmallThumbnail} {
		if link != "" {
			record.CoverURLs = append(record.CoverURLs, link)
		}
	}

	if record.Empty() {
		return nil
	}
	return record
}
