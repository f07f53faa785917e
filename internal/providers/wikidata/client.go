// Package wikidata provides a client for the Wikidata Query Service,
// resolving editions over SPARQL.
package wikidata

import (
	"context"
	"fmt"
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
	registry.Register(lookup.WikidataID, &Client{})
}

const defaultSPARQLURL = "https://query.wikidata.org/sparql"

// sparqlResponse is the SPARQL 1.1 JSON results format. Bindings are flat
// maps; a variable missing from a solution is simply absent.
type sparqlResponse struct {
	Results struct {
		Bindings []map[string]sparqlValue `json:"bindings"`
	} `json:"results"`
}

type sparqlValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// lookupQuery resolves an edition by ISBN. Wikidata stores ISBN-13 (P212)
// and ISBN-10 (P957) hyphenated, so comparison strips separators.
const lookupQuery = `SELECT ?item ?title ?authorLabel ?publisherLabel ?placeLabel ?date ?pages ?languageLabel ?subjectLabel ?isbn13 ?isbn10 ?oclc WHERE {
  { ?item wdt:P212 ?isbn13 . } UNION { ?item wdt:P957 ?isbn10 . }
  BIND(COALESCE(?isbn13, ?isbn10) AS ?isbn)
  FILTER(REPLACE(UCASE(STR(?isbn)), "[\\s-]", "") = %q)
  OPTIONAL { ?item wdt:P1476 ?title . }
  OPTIONAL { ?item wdt:P50 ?author . }
  OPTIONAL { ?item wdt:P123 ?publisher . }
  OPTIONAL { ?item wdt:P291 ?place . }
  OPTIONAL { ?item wdt:P577 ?date . }
  OPTIONAL { ?item wdt:P1104 ?pages . }
  OPTIONAL { ?item wdt:P407 ?language . }
  OPTIONAL { ?item wdt:P921 ?subject . }
  OPTIONAL { ?item wdt:P243 ?oclc . }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
} LIMIT 50`

// searchQuery finds written works by label via the mwapi entity search.
const searchQuery = `SELECT ?item ?itemLabel ?title ?authorLabel ?publisherLabel ?date ?languageLabel ?isbn13 ?isbn10 WHERE {
  SERVICE wikibase:mwapi {
    bd:serviceParam wikibase:endpoint "www.wikidata.org";
                    wikibase:api "EntitySearch";
                    mwapi:search %q;
                    mwapi:language "en".
    ?item wikibase:apiOutputItem mwapi:item.
  }
  ?item wdt:P31/wdt:P279* wd:Q47461344 .
  OPTIONAL { ?item wdt:P1476 ?title . }
  OPTIONAL { ?item wdt:P50 ?author . }
  OPTIONAL { ?item wdt:P123 ?publisher . }
  OPTIONAL { ?item wdt:P577 ?date . }
  OPTIONAL { ?item wdt:P407 ?language . }
  OPTIONAL { ?item wdt:P212 ?isbn13 . }
  OPTIONAL { ?item wdt:P957 ?isbn10 . }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
} LIMIT 50`

// Client implements the lookup.Provider interface for Wikidata.
type Client struct {
	cfg       *registry.Config
	transport *transport.Client
	mu        sync.RWMutex
}

// ID returns the provider's identifier.
func (c *Client) ID() lookup.ID {
	return lookup.WikidataID
}

// Configure sets the provider config for this client (registry pattern).
func (c *Client) Configure(cfg *registry.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
	c.transport = transport.New(&transport.NoAuth{}, "", cfg.Timeout)
}

func (c *Client) endpoint() (string, *transport.Client) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u := defaultSPARQLURL
	if c.cfg != nil && c.cfg.BaseURL != "" {
		u = c.cfg.BaseURL
	}
	tc := c.transport
	if tc == nil {
		tc = transport.New(&transport.NoAuth{}, "", 0)
	}
	return u, tc
}

// Lookup resolves an edition by ISBN.
func (c *Client) Lookup(ctx context.Context, identifier string) (*bib.CandidateRecord, error) {
	records, err := c.run(ctx, fmt.Sprintf(lookupQuery, identifier))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// Search finds written works matching a free-text query.
func (c *Client) Search(ctx context.Context, query string, _ *lookup.Hints) ([]bib.CandidateRecord, error) {
	// "title by author": the entity search matches on labels, so only the
	// title part is useful here; the orchestrator's ranking reconciles the
	// author part.
	title := query
	if idx := strings.LastIndex(strings.ToLower(query), " by "); idx > 0 {
		title = strings.TrimSpace(query[:idx])
	}
	return c.run(ctx, fmt.Sprintf(searchQuery, title))
}

// run executes one SPARQL query and folds its bindings into records.
func (c *Client) run(ctx context.Context, query string) ([]bib.CandidateRecord, error) {
	sparqlURL, tc := c.endpoint()

	params := url.Values{}
	params.Set("query", query)
	params.Set("format", "json")

	resp, err := tc.Get(ctx, sparqlURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var result sparqlResponse
	if err := transport.DecodeJSON(resp, "wikidata", &result); err != nil {
		return nil, err
	}

	return foldBindings(result.Results.Bindings), nil
}

// foldBindings aggregates SPARQL solutions by item URI: one edition with
// three authors arrives as three bindings that differ only in authorLabel.
func foldBindings(bindings []map[string]sparqlValue) []bib.CandidateRecord {
	var order []string
	byItem := make(map[string]*bib.CandidateRecord)

	for _, b := range bindings {
		item := b["item"].Value
		if item == "" {
			continue
		}
		record, ok := byItem[item]
		if !ok {
			record = &bib.CandidateRecord{
				Identifiers: map[bib.IdentifierType]string{},
				Sources:     []string{lookup.WikidataID.String()},
			}
			byItem[item] = record
			order = append(order, item)
		}

		if record.Title == "" {
			if record.Title = b["title"].Value; record.Title == "" {
				record.Title = b["itemLabel"].Value
			}
		}
		if author := b["authorLabel"].Value; author != "" && !containsFold(record.Authors, author) {
			record.Authors = append(record.Authors, author)
		}
		if record.Publisher == "" {
			record.Publisher = b["publisherLabel"].Value
		}
		if record.PublishPlace == "" {
			record.PublishPlace = b["placeLabel"].Value
		}
		if record.PublishDate == "" {
			// xsd:dateTime like "1998-05-01T00:00:00Z"; keep the date part.
			if date := b["date"].Value; date != "" {
				record.PublishDate, _, _ = strings.Cut(date, "T")
			}
		}
		if record.Pages == 0 {
			if pages, err := strconv.Atoi(b["pages"].Value); err == nil {
				record.Pages = pages
			}
		}
		if record.Language == "" {
			record.Language = b["languageLabel"].Value
		}
		if subject := b["subjectLabel"].Value; subject != "" && !containsFold(record.Subjects, subject) {
			record.Subjects = append(record.Subjects, subject)
		}
		if isbn13 := bib.NormalizeIdentifier(b["isbn13"].Value); isbn13 != "" {
			record.Identifiers[bib.IdentifierISBN13] = isbn13
		}
		if isbn10 := bib.NormalizeIdentifier(b["isbn10"].Value); isbn10 != "" {
			record.Identifiers[bib.IdentifierISBN10] = isbn10
		}
		if oclc := b["oclc"].Value; oclc != "" {
			record.Identifiers[bib.IdentifierOCLC] = oclc
		}
	}

	records := make([]bib.CandidateRecord, 0, len(order))
	for _, item := range order {
		if record := byItem[item]; !record.Empty() {
			records = append(records, *record)
		}
	}
	return records
}

func containsFold(list []string, value string) bool {
	want := bib.FoldValue(value)
	for _, s := range list {
		if bib.FoldValue(s) == want {
			return true
		}
	}
	return false
}
