package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	apiVersion     = "2022-06-28"

	// MaxPageSize is the largest page the query endpoint accepts.
	MaxPageSize = 100
)

type Client struct {
	httpClient *http.Client
	token      string
	baseURL    string
}

func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		token:      token,
		baseURL:    defaultBaseURL,
	}
}

// NewClientWithBaseURL is used by tests to point the client at a local server.
func NewClientWithBaseURL(token, baseURL string) *Client {
	c := NewClient(token)
	c.baseURL = baseURL
	return c
}

type queryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

type QueryResponse struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// QueryDatabase fetches one page of rows from a database. Pass an empty
// startCursor for the first page; pageSize is clamped to MaxPageSize.
func (c *Client) QueryDatabase(ctx context.Context, databaseID, startCursor string, pageSize int) (*QueryResponse, error) {
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	req := queryRequest{
		StartCursor: startCursor,
		PageSize:    pageSize,
	}

	var resp QueryResponse
	err := c.do(ctx, http.MethodPost, "/databases/"+databaseID+"/query", req, &resp)
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

// QueryAll drains the cursor until has_more is false and returns every row.
func (c *Client) QueryAll(ctx context.Context, databaseID string) ([]Page, error) {

	var pages []Page
	cursor := ""

	for {
		resp, err := c.QueryDatabase(ctx, databaseID, cursor, MaxPageSize)
		if err != nil {
			return nil, err
		}

		pages = append(pages, resp.Results...)

		if !resp.HasMore {
			return pages, nil
		}
		cursor = resp.NextCursor
	}
}

type createPageRequest struct {
	Parent     pageParent          `json:"parent"`
	Icon       *Icon               `json:"icon,omitempty"`
	Properties map[string]Property `json:"properties"`
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

type updatePageRequest struct {
	Properties map[string]Property `json:"properties"`
}

func (c *Client) CreatePage(ctx context.Context, databaseID string, properties map[string]Property) (*Page, error) {

	req := createPageRequest{
		Parent:     pageParent{DatabaseID: databaseID},
		Properties: properties,
	}

	var page Page
	err := c.do(ctx, http.MethodPost, "/pages", req, &page)
	if err != nil {
		return nil, err
	}

	return &page, nil
}

func (c *Client) UpdatePage(ctx context.Context, pageID string, properties map[string]Property) (*Page, error) {

	req := updatePageRequest{Properties: properties}

	var page Page
	err := c.do(ctx, http.MethodPatch, "/pages/"+pageID, req, &page)
	if err != nil {
		return nil, err
	}

	return &page, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notion: %s %s returned %d: %s", method, path, resp.StatusCode, truncate(data, 200))
	}

	return json.Unmarshal(data, out)
}

func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return string(data[:n]) + "..."
}
