package transport

import (
	"encoding/json"
	"encoding/xml"
	"io"
	"net/http"

	"github.com/openshelf/openshelf/pkg/errors"
)

// maxBodyBytes caps how much of a provider response is read. Bibliographic
// payloads are small; anything larger is malformed or hostile.
const maxBodyBytes = 8 << 20

// DecodeJSON reads a response body and unmarshals it into target. A non-2xx
// status becomes an APIError carrying the body; a malformed body becomes a
// ParseError.
func DecodeJSON(resp *http.Response, source string, target any) error {
	body, err := readBody(resp, source)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", source, err)
	}
	return nil
}

// DecodeXML reads a response body and unmarshals it into target, for
// providers speaking SRU/MODS flavored XML.
func DecodeXML(resp *http.Response, source string, target any) error {
	body, err := readBody(resp, source)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(body, target); err != nil {
		return errors.WrapParse("xml", source, err)
	}
	return nil
}

func readBody(resp *http.Response, source string) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &errors.APIError{
			Provider: source,
			Message:  "reading response body",
			Err:      err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &errors.APIError{
			Provider:   source,
			StatusCode: resp.StatusCode,
			Message:    truncate(string(body), 512),
		}
	}
	return body, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
