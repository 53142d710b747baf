// Package met reads objects from the Metropolitan Museum of Art collection
// API and maps them onto catalog artworks.
package met

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
)

const DefaultBaseURL = "https://collectionapi.metmuseum.org/public/collection/v1"

var (
	ErrNotFound    = errors.New("met object not found")
	ErrBadStatus   = errors.New("met api bad status")
	ErrUnavailable = errors.New("met api unavailable")
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SearchQuery mirrors the /search parameters the collector uses.
type SearchQuery struct {
	Q          string
	HasImages  bool
	Highlights bool
}

// Search returns matching object ids in the order the API lists them.
func (c *Client) Search(ctx context.Context, sq SearchQuery) ([]int, error) {
	q := url.Values{}
	q.Set("q", sq.Q)
	if sq.HasImages {
		q.Set("hasImages", "true")
	}
	if sq.Highlights {
		q.Set("isHighlight", "true")
	}

	var out struct {
		Total     int   `json:"total"`
		ObjectIDs []int `json:"objectIDs"`
	}
	if err := c.getJSON(ctx, "/search?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out.ObjectIDs, nil
}

func (c *Client) Object(ctx context.Context, id int) (Object, error) {
	var o Object
	err := c.getJSON(ctx, "/objects/"+strconv.Itoa(id), &o)
	return o, err
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
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrNotFound
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status=%d", ErrBadStatus, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
