package snipeit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/crucial707/asset-audit/internal/metrics"
	"github.com/crucial707/asset-audit/internal/models"
)

// pageSize is the fixed page size for full-inventory fetches.
const pageSize = 500

// searchLimit bounds the phase-two text search in FindAssetByIdentifier.
const searchLimit = 50

// ErrAssetNotFound signals that both lookup phases exhausted without a hit.
var ErrAssetNotFound = errors.New("asset not found")

// ErrEmptyTerm signals a lookup was attempted with a blank identifier.
// Rejected before any remote call is made.
var ErrEmptyTerm = errors.New("search term is required")

// APIError carries a remote non-success response verbatim. The client does
// no retries; status and payload surface to the caller unchanged.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("asset directory: status %d: %s", e.StatusCode, e.Body)
}

// Client wraps the remote asset directory's HTTP/JSON API. It holds no
// local state; every call is plain request/response with the configured
// bearer credential.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// New returns a Client for the directory at baseURL authenticating with
// token. httpc may be nil to use http.DefaultClient.
func New(baseURL, token string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   httpc,
	}
}

type assetPage struct {
	Total int64   `json:"total"`
	Rows  []Asset `json:"rows"`
}

type locationPage struct {
	Total int64      `json:"total"`
	Rows  []Location `json:"rows"`
}

// ListTopLevelLocations fetches all locations and keeps those without a
// parent.
func (c *Client) ListTopLevelLocations(ctx context.Context) ([]models.Location, error) {
	q := url.Values{"limit": {"500"}}
	var page locationPage
	if err := c.do(ctx, "list_locations", http.MethodGet, "/locations", q, nil, &page); err != nil {
		return nil, err
	}
	out := make([]models.Location, 0, len(page.Rows))
	for _, loc := range page.Rows {
		if loc.Parent == nil {
			out = append(out, models.Location{ID: loc.ID, Name: loc.Name})
		}
	}
	return out, nil
}

// GetAssetByID fetches one asset directly; remote errors pass through
// verbatim as *APIError.
func (c *Client) GetAssetByID(ctx context.Context, id int64) (*Asset, error) {
	var asset Asset
	if err := c.do(ctx, "get_asset", http.MethodGet, "/hardware/"+strconv.FormatInt(id, 10), nil, nil, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// FindAssetByIdentifier resolves a scanned or typed identifier in two
// phases: an exact tag lookup, then a bounded text search scanned for a
// case-insensitive tag match and then a SAP custom-field value match.
// Returns ErrAssetNotFound when both phases exhaust.
func (c *Client) FindAssetByIdentifier(ctx context.Context, term string) (*Asset, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptyTerm
	}

	var asset Asset
	err := c.do(ctx, "asset_by_tag", http.MethodGet, "/hardware/bytag/"+url.PathEscape(term), nil, nil, &asset)
	if err == nil && asset.ID != 0 {
		return &asset, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	q := url.Values{
		"search": {term},
		"limit":  {strconv.Itoa(searchLimit)},
	}
	var page assetPage
	if err := c.do(ctx, "search_assets", http.MethodGet, "/hardware", q, nil, &page); err != nil {
		return nil, err
	}
	for i := range page.Rows {
		if strings.EqualFold(page.Rows[i].AssetTag, term) {
			return &page.Rows[i], nil
		}
	}
	for i := range page.Rows {
		if strings.EqualFold(SAPAssetNumber(page.Rows[i].CustomFields), term) {
			return &page.Rows[i], nil
		}
	}
	return nil, ErrAssetNotFound
}

// GetCurrentUser returns the user the configured credential belongs to.
func (c *Client) GetCurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, "current_user", http.MethodGet, "/users/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// PostAudit records an audit against the remote directory. Callers on the
// submit path treat a failure here as non-fatal; that policy lives in the
// reconciliation workflow, not the client.
func (c *Client) PostAudit(ctx context.Context, assetTag string, locationID int64, note string) error {
	body := map[string]any{
		"asset_tag":   assetTag,
		"location_id": locationID,
	}
	if note != "" {
		body["note"] = note
	}
	return c.do(ctx, "post_audit", http.MethodPost, "/hardware/audit", nil, body, nil)
}

// PatchAssetLocation moves an asset's default location in the remote
// directory.
func (c *Client) PatchAssetLocation(ctx context.Context, assetID, locationID int64) error {
	body := map[string]any{"rtd_location_id": locationID}
	return c.do(ctx, "patch_location", http.MethodPatch, "/hardware/"+strconv.FormatInt(assetID, 10), nil, body, nil)
}

// FetchAllAssets pages through the full inventory, 500 records per page
// ordered by tag ascending. A short page or reaching the remote-reported
// total terminates the loop; either guard alone prevents paging forever.
func (c *Client) FetchAllAssets(ctx context.Context) ([]Asset, error) {
	var all []Asset
	for offset := 0; ; offset += pageSize {
		q := url.Values{
			"limit":  {strconv.Itoa(pageSize)},
			"offset": {strconv.Itoa(offset)},
			"sort":   {"asset_tag"},
			"order":  {"asc"},
		}
		var page assetPage
		if err := c.do(ctx, "fetch_all_assets", http.MethodGet, "/hardware", q, nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Rows...)
		if len(page.Rows) < pageSize || int64(len(all)) >= page.Total {
			return all, nil
		}
	}
}

// do performs one authenticated request. Non-2xx responses, and 200
// responses carrying the remote's {"status":"error"} envelope, come back
// as *APIError with the payload intact.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + "/api/v1" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.RecordRemoteRequest(op, 0)
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	metrics.RecordRemoteRequest(op, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	if isErrorEnvelope(data) {
		return &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}
	return nil
}

// isErrorEnvelope detects the remote's habit of answering 200 with
// {"status": "error", "messages": ...} for missing records.
func isErrorEnvelope(data []byte) bool {
	var probe struct {
		Status string `json:"status"`
	}
	if json.Unmarshal(data, &probe) != nil {
		return false
	}
	return probe.Status == "error"
}
