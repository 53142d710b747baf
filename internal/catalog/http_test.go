package catalog_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"Gallery/internal/catalog"
)

func newCatalogTS(t *testing.T, deps catalog.HTTPDeps) *httptest.Server {
	t.Helper()

	store := catalog.NewStore(nil, catalog.WithSeed(1))
	s := &catalog.Server{
		Service: catalog.NewService(store, nil),
		Log:     zap.NewNop(),
	}

	deps.Log = zap.NewNop()
	deps.Service = "gallery"

	ts := httptest.NewServer(catalog.NewHandler(s, deps))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func get(t *testing.T, target string, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return do(t, req)
}

func graphQL(t *testing.T, base, query string) (*http.Response, []byte) {
	t.Helper()

	b, err := json.Marshal(map[string]any{"query": query})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, base+"/graphql", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return do(t, req)
}

func TestHTTP_ListPaintings(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})

	resp, raw := get(t, ts.URL+"/paintings?limit=5&offset=18", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(raw))
	}

	var page catalog.Page
	if err := json.Unmarshal(raw, &page); err != nil {
		t.Fatalf("decode: %v body=%s", err, string(raw))
	}
	if len(page.Paintings) != 2 || page.Total != 20 || page.HasMore {
		t.Fatalf("len=%d total=%d hasMore=%v", len(page.Paintings), page.Total, page.HasMore)
	}
	if page.Paintings[0].ID != "painting-19" {
		t.Fatalf("first=%q", page.Paintings[0].ID)
	}
}

func TestHTTP_ListPaintings_Defaults(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})

	_, raw := get(t, ts.URL+"/paintings", nil)

	var page struct {
		Paintings []map[string]any `json:"paintings"`
		Total     int              `json:"total"`
		HasMore   bool             `json:"hasMore"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		t.Fatalf("decode: %v body=%s", err, string(raw))
	}
	if len(page.Paintings) != 10 || page.Total != 20 || !page.HasMore {
		t.Fatalf("len=%d total=%d hasMore=%v", len(page.Paintings), page.Total, page.HasMore)
	}
	if _, ok := page.Paintings[0]["imageUrl"]; !ok {
		t.Fatalf("imageUrl missing: %v", page.Paintings[0])
	}
	if _, ok := page.Paintings[0]["dimensions"]; ok {
		t.Fatalf("absent optional field serialized: %v", page.Paintings[0])
	}
}

func TestHTTP_ListPaintings_BadArgs(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})

	for _, q := range []string{"limit=abc", "offset=1.5", "limit=-1", "offset=-3"} {
		resp, raw := get(t, ts.URL+"/paintings?"+q, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: status=%d body=%s", q, resp.StatusCode, string(raw))
		}
	}
}

func TestHTTP_GetPainting(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})

	resp, raw := get(t, ts.URL+"/paintings/painting-5", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(raw))
	}
	var a catalog.Artwork
	if err := json.Unmarshal(raw, &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a.Title != "Artwork 5" {
		t.Fatalf("title=%q", a.Title)
	}

	resp, raw = get(t, ts.URL+"/paintings/missing", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(raw))
	}
}

func TestHTTP_Ready(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})

	resp, raw := get(t, ts.URL+"/readyz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	var body struct {
		Origin  string `json:"origin"`
		Records int    `json:"records"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Origin != catalog.OriginSynthetic || body.Records != 20 {
		t.Fatalf("origin=%q records=%d", body.Origin, body.Records)
	}
}

func TestGraphQL_Paintings(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})

	resp, raw := graphQL(t, ts.URL, `{
		paintings(limit: 3, search: "artist 1") {
			total
			hasMore
			paintings { id title artist year dimensions }
		}
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(raw))
	}

	var out struct {
		Data struct {
			Paintings struct {
				Total     int  `json:"total"`
				HasMore   bool `json:"hasMore"`
				Paintings []struct {
					ID         string  `json:"id"`
					Artist     string  `json:"artist"`
					Year       *int    `json:"year"`
					Dimensions *string `json:"dimensions"`
				} `json:"paintings"`
			} `json:"paintings"`
		} `json:"data"`
		Errors []any `json:"errors"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode: %v body=%s", err, string(raw))
	}
	if len(out.Errors) > 0 {
		t.Fatalf("errors: %v", out.Errors)
	}

	p := out.Data.Paintings
	if p.Total != 11 || !p.HasMore || len(p.Paintings) != 3 {
		t.Fatalf("total=%d hasMore=%v len=%d", p.Total, p.HasMore, len(p.Paintings))
	}
	if p.Paintings[0].ID != "painting-1" || p.Paintings[1].ID != "painting-10" {
		t.Fatalf("ids=%q,%q", p.Paintings[0].ID, p.Paintings[1].ID)
	}
	if p.Paintings[0].Year == nil || p.Paintings[0].Dimensions != nil {
		t.Fatalf("optional fields: year=%v dimensions=%v", p.Paintings[0].Year, p.Paintings[0].Dimensions)
	}
}

func TestGraphQL_PaintingsDefaults(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})

	_, raw := graphQL(t, ts.URL, `{ paintings { total hasMore paintings { id } } }`)

	var out struct {
		Data struct {
			Paintings struct {
				Total     int              `json:"total"`
				HasMore   bool             `json:"hasMore"`
				Paintings []map[string]any `json:"paintings"`
			} `json:"paintings"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode: %v body=%s", err, string(raw))
	}
	if p := out.Data.Paintings; len(p.Paintings) != 10 || p.Total != 20 || !p.HasMore {
		t.Fatalf("len=%d total=%d hasMore=%v", len(p.Paintings), p.Total, p.HasMore)
	}
}

func TestGraphQL_Painting(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})

	_, raw := graphQL(t, ts.URL, `{
		found: painting(id: "painting-5") { id title metId imageUrl }
		missing: painting(id: "painting-99") { id }
	}`)

	var out struct {
		Data struct {
			Found *struct {
				Title    string `json:"title"`
				MetID    int    `json:"metId"`
				ImageURL string `json:"imageUrl"`
			} `json:"found"`
			Missing *struct {
				ID string `json:"id"`
			} `json:"missing"`
		} `json:"data"`
		Errors []any `json:"errors"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode: %v body=%s", err, string(raw))
	}
	if len(out.Errors) > 0 {
		t.Fatalf("errors: %v", out.Errors)
	}
	if out.Data.Found == nil || out.Data.Found.Title != "Artwork 5" || out.Data.Found.MetID != 1005 {
		t.Fatalf("found=%+v", out.Data.Found)
	}
	if out.Data.Missing != nil {
		t.Fatalf("missing=%+v want null", out.Data.Missing)
	}
}

func TestGraphQL_Get(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})

	q := url.Values{}
	q.Set("query", `query One($id: ID!) { painting(id: $id) { title } }`)
	q.Set("operationName", "One")
	q.Set("variables", `{"id":"painting-5"}`)

	resp, raw := get(t, ts.URL+"/graphql?"+q.Encode(), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(raw))
	}

	var out struct {
		Data struct {
			Painting *struct {
				Title string `json:"title"`
			} `json:"painting"`
		} `json:"data"`
		Errors []any `json:"errors"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode: %v body=%s", err, string(raw))
	}
	if len(out.Errors) > 0 || out.Data.Painting == nil || out.Data.Painting.Title != "Artwork 5" {
		t.Fatalf("body=%s", string(raw))
	}

	for _, bad := range []string{"", "query=%7Bpaintings%7Btotal%7D%7D&variables=%7Bnot-json"} {
		resp, raw := get(t, ts.URL+"/graphql?"+bad, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%q: status=%d body=%s", bad, resp.StatusCode, string(raw))
		}
	}
}

func TestGraphQL_InvalidArgs(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})

	_, raw := graphQL(t, ts.URL, `{ paintings(limit: -1) { total } }`)

	var out struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode: %v body=%s", err, string(raw))
	}
	if len(out.Errors) == 0 {
		t.Fatalf("expected errors, body=%s", string(raw))
	}
}

func TestHTTP_MetricsRequiresToken(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: true,
		MetricsToken:   "s3cret",
	})

	get(t, ts.URL+"/paintings", nil)

	resp, _ := get(t, ts.URL+"/metrics", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("no token: status=%d", resp.StatusCode)
	}

	resp, raw := get(t, ts.URL+"/metrics", map[string]string{"Authorization": "Bearer s3cret"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	for _, want := range []string{"http_requests_total{", `service="gallery"`, "http_requests_in_flight"} {
		if !bytes.Contains(raw, []byte(want)) {
			t.Fatalf("%s missing:\n%s", want, string(raw))
		}
	}
}

func TestHTTP_CORSPreflight(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{CORSOrigins: []string{"http://localhost:3000"}})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/graphql", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	resp, _ := do(t, req)
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow-origin=%q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("allow-credentials=%q", got)
	}

	resp, _ = get(t, ts.URL+"/paintings", map[string]string{"Origin": "http://evil.example"})
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow-origin=%q", got)
	}
}

func TestHTTP_RateLimitCoversQueriesOnly(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{RateLimitPerMin: 2})

	for i := 0; i < 2; i++ {
		if resp, _ := get(t, ts.URL+"/paintings", nil); resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: status=%d", i, resp.StatusCode)
		}
	}

	resp, _ := get(t, ts.URL+"/paintings/painting-1", nil)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status=%d want=429", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Fatalf("Retry-After missing")
	}

	if resp, _ := get(t, ts.URL+"/healthz", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status=%d", resp.StatusCode)
	}
}

func TestHTTP_RateLimitForwardedFor(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		want       int
	}{
		{name: "direct clients cannot pick their key", want: 2},
		{name: "behind a proxy", trustProxy: true, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newCatalogTS(t, catalog.HTTPDeps{RateLimitPerMin: 2, TrustProxy: tt.trustProxy})

			ok := 0
			for i := 0; i < 10; i++ {
				resp, _ := get(t, ts.URL+"/paintings", map[string]string{
					"X-Forwarded-For": fmt.Sprintf("203.0.113.%d", i),
				})
				if resp.StatusCode == http.StatusOK {
					ok++
				}
			}
			if ok != tt.want {
				t.Fatalf("succeeded=%d want=%d", ok, tt.want)
			}
		})
	}
}
