// Package client is a small HTTP client for the gallery REST API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"Gallery/internal/catalog"
)

var (
	ErrNotFound    = errors.New("painting not found")
	ErrBadRequest  = errors.New("gallery rejected request")
	ErrBadStatus   = errors.New("gallery bad status")
	ErrUnavailable = errors.New("gallery unavailable")
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 3 * time.Second},
	}
}

// Paintings fetches one page. Zero-valued Args fields are sent as-is, so use
// catalog.DefaultArgs for the server defaults.
func (c *Client) Paintings(ctx context.Context, args catalog.Args) (catalog.Page, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(args.Limit))
	q.Set("offset", strconv.Itoa(args.Offset))
	if args.Search != "" {
		q.Set("search", args.Search)
	}

	var page catalog.Page
	err := c.getJSON(ctx, "/paintings?"+q.Encode(), &page)
	return page, err
}

func (c *Client) Painting(ctx context.Context, id string) (catalog.Artwork, error) {
	var a catalog.Artwork
	err := c.getJSON(ctx, "/paintings/"+url.PathEscape(id), &a)
	return a, err
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, errorMessage(resp.Body))
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status=%d", ErrBadStatus, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func errorMessage(r io.Reader) string {
	var e struct {
		Error   string `json:"error"`
		Details struct {
			Cause string `json:"cause"`
		} `json:"details"`
	}
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return "unreadable error body"
	}
	if e.Details.Cause != "" {
		return e.Error + ": " + e.Details.Cause
	}
	return e.Error
}
