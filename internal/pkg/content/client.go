package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paperwall-app/paperwall/internal/pkg/env"
)

// ErrNotFound is returned when the content API has no document for a slug.
var ErrNotFound = errors.New("content document not found")

// Client talks to the headless content API. It remains an external service;
// this client only fetches and decodes documents.
type Client struct {
	BaseURL string
	Token   string

	HTTPClient *http.Client
}

// Document is a rich-text post as returned by the content API.
type Document struct {
	Slug        string
	Title       string
	Content     []Block
	PublishedAt time.Time
}

// NewClientFromEnv builds a content client from environment configuration.
func NewClientFromEnv() *Client {
	return &Client{
		BaseURL: strings.TrimRight(env.GetEnv("CONTENT_API_URL", ""), "/"),
		Token:   strings.TrimSpace(env.GetEnv("CONTENT_API_TOKEN", "")),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type rawDocument struct {
	UID  string `json:"uid"`
	Data struct {
		Title   []Block `json:"title"`
		Content []Block `json:"content"`
	} `json:"data"`
	LastPublicationDate time.Time `json:"last_publication_date"`
}

type rawSearchResponse struct {
	Results []rawDocument `json:"results"`
}

// GetBySlug fetches a single document by its slug.
func (c *Client) GetBySlug(ctx context.Context, slug string) (*Document, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrNotFound
	}

	resp, err := c.search(ctx, url.Values{"type": {"post"}, "uid": {slug}})
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, ErrNotFound
	}
	doc := toDocument(resp.Results[0])
	return &doc, nil
}

// List fetches all published post documents, newest first.
func (c *Client) List(ctx context.Context) ([]Document, error) {
	resp, err := c.search(ctx, url.Values{"type": {"post"}, "orderings": {"last_publication_date desc"}})
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(resp.Results))
	for _, raw := range resp.Results {
		docs = append(docs, toDocument(raw))
	}
	return docs, nil
}

func (c *Client) search(ctx context.Context, query url.Values) (*rawSearchResponse, error) {
	if c.BaseURL == "" {
		return nil, errors.New("CONTENT_API_URL is not configured")
	}

	u, err := url.Parse(c.BaseURL + "/documents/search")
	if err != nil {
		return nil, err
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Token "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("content api request failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out rawSearchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func toDocument(raw rawDocument) Document {
	return Document{
		Slug:        raw.UID,
		Title:       AsText(raw.Data.Title),
		Content:     raw.Data.Content,
		PublishedAt: raw.LastPublicationDate,
	}
}
