package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const (
	defaultBaseURL    = "https://api.notion.com"
	notionVersion     = "2022-06-28"
	defaultHTTPExpiry = 15 * time.Second
)

// HTTPClient abstracts the HTTP transport for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NotionProvider enriches identifiers through the Notion pages API.
type NotionProvider struct {
	Token   string
	Client  HTTPClient    // nil = default client
	BaseURL string        // "" = the public API endpoint
	Timeout time.Duration // per-request deadline (0 = 15s)
}

// Lookup fetches page metadata for a 32-hex identifier. The API wants the
// hyphenated UUID form, so the identifier is re-encoded first.
func (n *NotionProvider) Lookup(ctx context.Context, id string) (*Metadata, error) {
	if !ValidID(id) {
		return nil, nil
	}
	pageID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	timeout := n.Timeout
	if timeout == 0 {
		timeout = defaultHTTPExpiry
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	base := n.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	url := fmt.Sprintf("%s/v1/pages/%s", strings.TrimSuffix(base, "/"), pageID.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.Token)
	req.Header.Set("Notion-Version", notionVersion)

	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page %s: %w", pageID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d fetching page %s", resp.StatusCode, pageID)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("malformed response for page %s", pageID)
	}

	return parsePage(body), nil
}

// parsePage extracts the fields the renamer cares about from a pages API
// response. Missing fields stay zero; nothing here is an error.
func parsePage(body []byte) *Metadata {
	doc := gjson.ParseBytes(body)
	meta := &Metadata{}

	if t, err := time.Parse(time.RFC3339, doc.Get("created_time").String()); err == nil {
		utc := t.UTC()
		meta.Created = &utc
	}
	if t, err := time.Parse(time.RFC3339, doc.Get("last_edited_time").String()); err == nil {
		utc := t.UTC()
		meta.LastEdited = &utc
	}

	if doc.Get("icon.type").String() == "emoji" {
		meta.Icon = doc.Get("icon.emoji").String()
	}

	// The title lives in whichever property has type "title".
	doc.Get("properties").ForEach(func(_, prop gjson.Result) bool {
		if prop.Get("type").String() != "title" {
			return true
		}
		var b strings.Builder
		prop.Get("title").ForEach(func(_, rich gjson.Result) bool {
			b.WriteString(rich.Get("plain_text").String())
			return true
		})
		meta.Title = strings.TrimSpace(b.String())
		return false
	})

	return meta
}
