// Package webflow publishes bill items to a Webflow CMS collection via the
// V2 API.
package webflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// ItemFields is the payload written to the collection item.
type ItemFields struct {
	Title        string
	Description  string
	Jurisdiction string // "US" or "FL"
	KialoURL     string
	GovURL       string
	Support      string
	Oppose       string
}

// Item is a created collection item.
type Item struct {
	ID   string
	Slug string
}

// Client talks to the Webflow V2 API for a single collection.
type Client struct {
	apiKey       string
	collectionID string
	siteID       string
	baseURL      string
	httpClient   *http.Client

	// JurisdictionRefs maps jurisdiction codes to collection ItemRefs.
	JurisdictionRefs map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithJurisdictions sets the jurisdiction ItemRef map.
func WithJurisdictions(refs map[string]string) Option {
	return func(c *Client) {
		if len(refs) > 0 {
			c.JurisdictionRefs = refs
		}
	}
}

// New creates a Webflow client for the given collection.
func New(apiKey, collectionID, siteID string, opts ...Option) *Client {
	c := &Client{
		apiKey:       apiKey,
		collectionID: collectionID,
		siteID:       siteID,
		baseURL:      "https://api.webflow.com/v2",
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		JurisdictionRefs: map[string]string{
			"US": "65810f6b889af86635a71b49",
			"FL": "655288ef928edb128306745f",
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

var (
	slugInvalidRe = regexp.MustCompile(`[^a-z0-9-]`)
	slugHyphenRe  = regexp.MustCompile(`-+`)
	billIDRe      = regexp.MustCompile(`([A-Z]+) (\d+)`)
)

// GenerateSlug derives a URL slug from a bill title.
func GenerateSlug(title string) string {
	slug := strings.ToLower(title)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = slugInvalidRe.ReplaceAllString(slug, "")
	return slugHyphenRe.ReplaceAllString(slug, "-")
}

// ReformatTitle moves the bill identifier into a parenthetical suffix, e.g.
// "118 HR 9056 IH: VA Insurance Improvement Act" becomes
// "VA Insurance Improvement Act (HR 9056)". Titles without an identifier
// pass through unchanged.
func ReformatTitle(title string) string {
	ident, desc, ok := strings.Cut(title, ":")
	if !ok {
		return title
	}
	m := billIDRe.FindStringSubmatch(strings.TrimSpace(ident))
	if m == nil {
		return title
	}
	return fmt.Sprintf("%s (%s %s)", strings.TrimSpace(desc), m[1], m[2])
}

type fieldData struct {
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	PostBody     string  `json:"post-body"`
	Jurisdiction string  `json:"jurisdiction"`
	VoatzID      string  `json:"voatzid"`
	KialoURL     string  `json:"kialo-url"`
	GovURL       string  `json:"gov-url"`
	BillScore    float64 `json:"bill-score"`
	Description  string  `json:"description"`
	Support      string  `json:"support"`
	Oppose       string  `json:"oppose"`
	Public       bool    `json:"public"`
	Featured     bool    `json:"featured"`
}

type itemResponse struct {
	ID        string    `json:"id"`
	FieldData fieldData `json:"fieldData"`
}

type listResponse struct {
	Items []itemResponse `json:"items"`
}

// CreateLiveItem creates and publishes a collection item for a bill.
func (c *Client) CreateLiveItem(ctx context.Context, fields ItemFields) (*Item, error) {
	if !strings.HasPrefix(fields.GovURL, "http://") && !strings.HasPrefix(fields.GovURL, "https://") {
		return nil, fmt.Errorf("invalid gov-url %q", fields.GovURL)
	}
	ref, ok := c.JurisdictionRefs[fields.Jurisdiction]
	if !ok {
		return nil, fmt.Errorf("unknown jurisdiction %q", fields.Jurisdiction)
	}

	payload := struct {
		FieldData fieldData `json:"fieldData"`
	}{fieldData{
		Name:         ReformatTitle(fields.Title),
		Slug:         GenerateSlug(fields.Title),
		Jurisdiction: ref,
		KialoURL:     fields.KialoURL,
		GovURL:       fields.GovURL,
		Description:  fields.Description,
		Support:      fields.Support,
		Oppose:       fields.Oppose,
		Public:       true,
		Featured:     true,
	}}

	var resp itemResponse
	endpoint := fmt.Sprintf("%s/collections/%s/items/live", c.baseURL, c.collectionID)
	if err := c.doJSON(ctx, http.MethodPost, endpoint, payload, &resp); err != nil {
		return nil, fmt.Errorf("creating live item: %w", err)
	}
	return &Item{ID: resp.ID, Slug: resp.FieldData.Slug}, nil
}

// ListItems fetches all items in the collection.
func (c *Client) ListItems(ctx context.Context) ([]Item, error) {
	var resp listResponse
	endpoint := fmt.Sprintf("%s/collections/%s/items", c.baseURL, c.collectionID)
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	items := make([]Item, 0, len(resp.Items))
	for _, it := range resp.Items {
		items = append(items, Item{ID: it.ID, Slug: it.FieldData.Slug})
	}
	return items, nil
}

// SlugExists reports whether a slug is already taken in the collection.
func (c *Client) SlugExists(ctx context.Context, slug string) (bool, error) {
	items, err := c.ListItems(ctx)
	if err != nil {
		return false, err
	}
	for _, it := range items {
		if it.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (c *Client) doJSON(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("accept-version", "2.0.0")
	req.Header.Set("accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webflow API returned %d: %s", resp.StatusCode, respBody)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
