// Package loc provides a client for the Library of Congress catalog via
// its SRU searchRetrieve endpoint, decoding MODS-flavored XML records.
package loc

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
	registry.Register(lookup.LOCID, &Client{})
}

const (
	defaultSRUURL = "http://lx2.loc.gov:210/LCDB"
	searchLimit   = 5
)

// SRU searchRetrieve response carrying MODS records. Only the nodes the
// normalizer reads are declared; everything else is skipped by the decoder.
type sruResponse struct {
	NumberOfRecords int         `xml:"numberOfRecords"`
	Records         []sruRecord `xml:"records>record"`
}

type sruRecord struct {
	Mods modsRecord `xml:"recordData>mods"`
}

type modsRecord struct {
	TitleInfo []modsTitleInfo `xml:"titleInfo"`
	Names     []modsName      `xml:"name"`
	Origin    modsOrigin      `xml:"originInfo"`
	Physical  modsPhysical    `xml:"physicalDescription"`
	Language  modsLanguage    `xml:"language"`
	Abstract  string          `xml:"abstract"`

	Classifications []modsClassification `xml:"classification"`
	Subjects        []modsSubject        `xml:"subject"`
	Identifiers     []modsIdentifier     `xml:"identifier"`
}

type modsTitleInfo struct {
	Title    string `xml:"title"`
	SubTitle string `xml:"subTitle"`
}

type modsName struct {
	Type     string   `xml:"type,attr"`
	NamePart []string `xml:"namePart"`
	Role     string   `xml:"role>roleTerm"`
}

type modsOrigin struct {
	Publisher  string   `xml:"publisher"`
	DateIssued []string `xml:"dateIssued"`
	Places     []string `xml:"place>placeTerm"`
}

type modsPhysical struct {
	Extent string `xml:"extent"`
}

type modsLanguage struct {
	LanguageTerm string `xml:"languageTerm"`
}

type modsClassification struct {
	Authority string `xml:"authority,attr"`
	Value     string `xml:",chardata"`
}

type modsSubject struct {
	Topics []string `xml:"topic"`
}

type modsIdentifier struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

// Client implements the lookup.Provider interface for the LoC SRU service.
type Client struct {
	cfg       *registry.Config
	transport *transport.Client
	mu        sync.RWMutex
}

// ID returns the provider's identifier.
func (c *Client) ID() lookup.ID {
	return lookup.LOCID
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
	u := defaultSRUURL
	if c.cfg != nil && c.cfg.BaseURL != "" {
		u = c.cfg.BaseURL
	}
	tc := c.transport
	if tc == nil {
		tc = transport.New(&transport.NoAuth{}, "", 0)
	}
	return u, tc
}

// Lookup queries the SRU endpoint by ISBN.
func (c *Client) Lookup(ctx context.Context, identifier string) (*bib.CandidateRecord, error) {
	records, err := c.searchRetrieve(ctx, fmt.Sprintf(`bath.isbn=%s`, identifier), 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// Search queries the SRU endpoint by title (and author when the query is of
// the "title by author" form).
func (c *Client) Search(ctx context.Context, query string, hints *lookup.Hints) ([]bib.CandidateRecord, error) {
	title, author := query, ""
	if idx := strings.LastIndex(strings.ToLower(query), " by "); idx > 0 {
		title = strings.TrimSpace(query[:idx])
		author = strings.TrimSpace(query[idx+4:])
	}

	cql := fmt.Sprintf(`bath.title=%q`, title)
	if author != "" {
		cql += fmt.Sprintf(` and bath.author=%q`, author)
	}
	if hints != nil && hints.Year != "" {
		cql += fmt.Sprintf(` and bath.date=%q`, hints.Year)
	}

	return c.searchRetrieve(ctx, cql, searchLimit)
}

// searchRetrieve runs one SRU query and normalizes every returned record.
func (c *Client) searchRetrieve(ctx context.Context, cql string, maxRecords int) ([]bib.CandidateRecord, error) {
	sruURL, tc := c.endpoint()

	params := url.Values{}
	params.Set("version", "1.1")
	params.Set("operation", "searchRetrieve")
	params.Set("query", cql)
	params.Set("maximumRecords", strconv.Itoa(maxRecords))
	params.Set("recordSchema", "mods")

	resp, err := tc.Get(ctx, sruURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var result sruResponse
	if err := transport.DecodeXML(resp, "loc", &result); err != nil {
		return nil, err
	}

	records := make([]bib.CandidateRecord, 0, len(result.Records))
	for i := range result.Records {
		if r := normalizeMods(&result.Records[i].Mods); r != nil {
			records = append(records, *r)
		}
	}
	return records, nil
}

// normalizeMods converts one MODS record into a CandidateRecord.
// Returns nil when the record holds nothing usable.
func normalizeMods(mods *modsRecord) *bib.CandidateRecord {
	record := &bib.CandidateRecord{
		Identifiers: map[bib.IdentifierType]string{},
		Sources:     []string{lookup.LOCID.String()},
		Description: strings.TrimSpace(mods.Abstract),
	}

	if len(mods.TitleInfo) > 0 {
		record.Title = strings.TrimSpace(mods.TitleInfo[0].Title)
		record.Subtitle = strings.TrimSpace(mods.TitleInfo[0].SubTitle)
	}

	for _, name := range mods.Names {
		if name.Type != "" && name.Type != "personal" {
			continue
		}
		if len(name.NamePart) == 0 {
			continue
		}
		display := strings.TrimSpace(strings.Join(name.NamePart, " "))
		if display == "" {
			continue
		}
		// MODS roleTerms beyond creators (printers, binders) are skipped.
		switch strings.ToLower(strings.TrimSpace(name.Role)) {
		case "", "author", "creator", "cre", "aut":
			record.Authors = append(record.Authors, display)
		}
	}

	record.Publisher = strings.TrimSpace(mods.Origin.Publisher)
	if len(mods.Origin.DateIssued) > 0 {
		record.PublishDate = strings.TrimSpace(mods.Origin.DateIssued[0])
	}
	for _, place := range mods.Origin.Places {
		if p := strings.TrimSpace(place); p != "" {
			record.PublishPlace = p
			break
		}
	}

	record.Pages = parseExtentPages(mods.Physical.Extent)
	record.Language = strings.TrimSpace(mods.Language.LanguageTerm)

	for _, cls := range mods.Classifications {
		value := strings.TrimSpace(cls.Value)
		if value == "" {
			continue
		}
		switch strings.ToLower(cls.Authority) {
		case "ddc":
			if record.DeweyDecimal == "" {
				record.DeweyDecimal = value
			}
		case "lcc":
			if record.LCC == "" {
				record.LCC = value
			}
		}
	}

	for _, subj := range mods.Subjects {
		for _, topic := range subj.Topics {
			if t := strings.TrimSpace(topic); t != "" {
				record.Subjects = append(record.Subjects, t)
			}
		}
	}

	for _, id := range mods.Identifiers {
		value := bib.NormalizeIdentifier(id.Value)
		if value == "" {
			continue
		}
		switch strings.ToLower(id.Type) {
		case "isbn":
			// ISBN values sometimes carry qualifiers like "(pbk.)"; keep
			// only the leading token.
			if idx := strings.IndexAny(value, "("); idx > 0 {
				value = strings.TrimSpace(value[:idx])
			}
			if typ := bib.ClassifyISBN(value); typ != "" {
				if _, ok := record.Identifiers[typ]; !ok {
					record.Identifiers[typ] = value
				}
			}
		case "lccn":
			if _, ok := record.Identifiers[bib.IdentifierLCCN]; !ok {
				record.Identifiers[bib.IdentifierLCCN] = value
			}
		case "oclc":
			if _, ok := record.Identifiers[bib.IdentifierOCLC]; !ok {
				record.Identifiers[bib.IdentifierOCLC] = value
			}
		}
	}

	if record.Empty() {
		return nil
	}
	return record
}

// parseExtentPages pulls a page count out of a MODS extent statement like
// "xii, 345 p. ; 23 cm". The largest number before a "p" token wins.
func parseExtentPages(extent string) int {
	fields := strings.FieldsFunc(extent, func(r rune) bool {
		return r == ' ' || r == ',' || r == ';' || r == ':'
	})
	pages := 0
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n <= pages {
			continue
		}
		if i+1 < len(fields) && strings.HasPrefix(strings.ToLower(fields[i+1]), "p") {
			pages = n
		}
	}
	return pages
}
