package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/openshelf/openshelf/internal/transport"
	"github.com/openshelf/openshelf/pkg/bib"
	"github.com/openshelf/openshelf/pkg/errors"
)

// Client talks to the remote catalog store's HTTP API.
type Client struct {
	baseURL   string
	transport *transport.Client
}

// NewClient creates a store client for the given base URL. The API key may
// be empty for stores that do not require one.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:   baseURL,
		transport: transport.New(&transport.HeaderAuth{Header: "X-API-Key"}, apiKey, 30*time.Second),
	}
}

// SetHTTPClient replaces the underlying HTTP client, for tests.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.transport.SetHTTPClient(hc)
}

// CreateRecord creates a new catalog record and returns it with its
// assigned ID.
func (c *Client) CreateRecord(ctx context.Context, record *bib.CanonicalRecord) (*bib.CanonicalRecord, error) {
	var created bib.CanonicalRecord
	if err := c.do(ctx, http.MethodPost, "/api/v1/records", record, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetRecord fetches one catalog record by item ID.
func (c *Client) GetRecord(ctx context.Context, id string) (*bib.CanonicalRecord, error) {
	var record bib.CanonicalRecord
	if err := c.do(ctx, http.MethodGet, "/api/v1/records/"+url.PathEscape(id), nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// PatchRecord applies a minimal patch to one catalog record.
func (c *Client) PatchRecord(ctx context.Context, id string, patch *Patch) error {
	if patch.Empty() {
		return nil
	}
	return c.do(ctx, http.MethodPatch, "/api/v1/records/"+url.PathEscape(id), patch, nil)
}

// ListRecords fetches a catalog snapshot matching the query.
func (c *Client) ListRecords(ctx context.Context, query ListQuery) ([]bib.CanonicalRecord, error) {
	params := url.Values{}
	if query.Collection != "" {
		params.Set("collection", query.Collection)
	}
	if query.Search != "" {
		params.Set("search", query.Search)
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Offset > 0 {
		params.Set("offset", strconv.Itoa(query.Offset))
	}

	path := "/api/v1/records"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var result struct {
		Records []bib.CanonicalRecord `json:"records"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Records, nil
}

// GetDuplicateGroups fetches the store's precomputed duplicate candidate
// groups. The store computes grouping keys over the full dataset more
// cheaply than the client can.
func (c *Client) GetDuplicateGroups(ctx context.Context) ([]bib.DuplicateGroup, error) {
	var result struct {
		Groups []bib.DuplicateGroup `json:"groups"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/duplicates", nil, &result); err != nil {
		return nil, err
	}
	return result.Groups, nil
}

// MergeDuplicates keeps one item and irreversibly deletes the others.
func (c *Client) MergeDuplicates(ctx context.Context, keepID string, deleteIDs []string) (*MergeResult, error) {
	body := struct {
		KeepID    string   `json:"keep_id"`
		DeleteIDs []string `json:"delete_ids"`
	}{KeepID: keepID, DeleteIDs: deleteIDs}

	var result MergeResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/duplicates/merge", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MergeAllDuplicates merges every duplicate group in one call, keeping the
// oldest item per group, and returns aggregate counts.
func (c *Client) MergeAllDuplicates(ctx context.Context) (*MergeAllResult, error) {
	var result MergeAllResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/duplicates/merge-all", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// do runs one request against the store and maps its failure statuses onto
// the core's error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, body, target any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.WrapValidation("body", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.WrapValidation("url", err)
	}

	resp, err := c.transport.Do(req)
	if err != nil {
		return &errors.APIError{Provider: "store", Endpoint: path, Message: "request failed", Err: err}
	}

	if err := c.checkStatus(resp, path); err != nil {
		_ = resp.Body.Close()
		return err
	}

	if target == nil {
		_ = resp.Body.Close()
		return nil
	}
	return transport.DecodeJSON(resp, "store", target)
}

// checkStatus maps store failure statuses to sentinel errors before the
// body is decoded. 409 means a stale merge, 422 a rejected patch.
func (c *Client) checkStatus(resp *http.Response, path string) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &errors.NotFoundError{Resource: "record", ID: path}
	case resp.StatusCode == http.StatusConflict:
		return &errors.MergeError{Message: fmt.Sprintf("store rejected merge (status %d)", resp.StatusCode)}
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return &errors.PatchError{Message: fmt.Sprintf("store rejected patch (status %d)", resp.StatusCode)}
	}
	return nil
}
