// Package courtlistener is a thin client for the CourtListener REST v4
// opinion-search API, the external case-search collaborator.
package courtlistener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/SakshamA8/caseclosed/pkg/research"
)

const DefaultBaseURL = "https://www.courtlistener.com"

type Client struct {
	BaseURL  string
	Token    string // optional; sent as "Authorization: Token <tok>" when set
	PageSize int
	Client   *http.Client
}

func NewClient(baseURL, token string, pageSize int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if pageSize <= 0 {
		pageSize = research.RetrievalPageSize
	}
	return &Client{
		BaseURL:  strings.TrimSuffix(baseURL, "/"),
		Token:    token,
		PageSize: pageSize,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type searchResponse struct {
	Count   int            `json:"count"`
	Results []searchResult `json:"results"`
}

type searchResult struct {
	CaseName    string           `json:"caseName"`
	Citation    []string         `json:"citation"`
	AbsoluteURL string           `json:"absolute_url"`
	DateFiled   string           `json:"dateFiled"`
	Snippet     string           `json:"snippet"`
	Opinions    []searchResultOp `json:"opinions"`
}

type searchResultOp struct {
	Snippet string `json:"snippet"`
}

// Search runs one opinion search. Transport and HTTP-status failures are
// returned as errors; the orchestration layer treats them as fatal for the
// turn. Missing fields in a result map to empty strings, never to a
// dropped case.
func (c *Client) Search(ctx context.Context, query string) ([]research.Case, error) {
	endpoint := c.BaseURL + "/api/rest/v4/search/"

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "o") // case-law opinions
	params.Set("page_size", strconv.Itoa(c.PageSize))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Token "+c.Token)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("courtlistener request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("courtlistener error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var parsed searchResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	cases := make([]research.Case, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		cases = append(cases, research.Case{
			Title:        r.CaseName,
			Citation:     firstNonEmpty(r.Citation),
			Link:         c.absoluteLink(r.AbsoluteURL),
			Snippet:      r.snippetText(),
			DecisionDate: r.DateFiled,
		})
	}
	return cases, nil
}

func (r searchResult) snippetText() string {
	if r.Snippet != "" {
		return r.Snippet
	}
	for _, op := range r.Opinions {
		if op.Snippet != "" {
			return op.Snippet
		}
	}
	return ""
}

func (c *Client) absoluteLink(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") {
		return path
	}
	return c.BaseURL + path
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
