package catalog

import (
	"context"
	"encoding/json"
	"net/http"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"

	"Gallery/pkg/kit"
)

const graphQLSchema = `
	schema {
		query: Query
	}

	type Painting {
		id: ID!
		title: String!
		artist: String!
		year: Int
		medium: String
		dimensions: String
		department: String
		culture: String
		period: String
		imageUrl: String!
		thumbnailUrl: String
		objectUrl: String
		description: String
		metId: Int
	}

	type PaintingsResponse {
		paintings: [Painting!]!
		total: Int!
		hasMore: Boolean!
	}

	type Query {
		paintings(limit: Int = 10, offset: Int = 0, search: String): PaintingsResponse!
		painting(id: ID!): Painting
	}
`

// NewGraphQLHandler serves the paintings and painting queries over svc.
// POST takes the usual JSON body; GET takes query, operationName and
// variables from the URL.
func NewGraphQLHandler(svc *Service) http.Handler {
	schema := graphql.MustParseSchema(graphQLSchema, &queryResolver{svc: svc})
	return &graphQLHandler{
		schema: schema,
		post:   &relay.Handler{Schema: schema},
	}
}

type graphQLHandler struct {
	schema *graphql.Schema
	post   *relay.Handler
}

func (h *graphQLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.post.ServeHTTP(w, r)
	case http.MethodGet:
		h.get(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		kit.WriteError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
	}
}

func (h *graphQLHandler) get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := q.Get("query")
	if query == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "missing query", nil)
		return
	}

	var vars map[string]any
	if raw := q.Get("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &vars); err != nil {
			kit.WriteError(w, r, http.StatusBadRequest, "invalid variables", err.Error())
			return
		}
	}

	kit.WriteJSON(w, http.StatusOK, h.schema.Exec(r.Context(), query, q.Get("operationName"), vars))
}

type queryResolver struct {
	svc *Service
}

type paintingsArgs struct {
	Limit  int32
	Offset int32
	Search *string
}

func (q *queryResolver) Paintings(ctx context.Context, in paintingsArgs) (*pageResolver, error) {
	args := Args{Limit: int(in.Limit), Offset: int(in.Offset)}
	if in.Search != nil {
		args.Search = *in.Search
	}

	page, err := q.svc.Query(ctx, args)
	if err != nil {
		return nil, err
	}
	return &pageResolver{page: page}, nil
}

func (q *queryResolver) Painting(ctx context.Context, in struct{ ID graphql.ID }) *artworkResolver {
	a, ok := q.svc.Get(ctx, string(in.ID))
	if !ok {
		return nil
	}
	return &artworkResolver{a: a}
}

type pageResolver struct {
	page Page
}

func (r *pageResolver) Paintings() []*artworkResolver {
	out := make([]*artworkResolver, len(r.page.Paintings))
	for i, a := range r.page.Paintings {
		out[i] = &artworkResolver{a: a}
	}
	return out
}

func (r *pageResolver) Total() int32  { return int32(r.page.Total) }
func (r *pageResolver) HasMore() bool { return r.page.HasMore }

type artworkResolver struct {
	a Artwork
}

func (r *artworkResolver) ID() graphql.ID        { return graphql.ID(r.a.ID) }
func (r *artworkResolver) Title() string         { return r.a.Title }
func (r *artworkResolver) Artist() string        { return r.a.Artist }
func (r *artworkResolver) Year() *int32          { return int32Ptr(r.a.Year) }
func (r *artworkResolver) Medium() *string       { return r.a.Medium }
func (r *artworkResolver) Dimensions() *string   { return r.a.Dimensions }
func (r *artworkResolver) Department() *string   { return r.a.Department }
func (r *artworkResolver) Culture() *string      { return r.a.Culture }
func (r *artworkResolver) Period() *string       { return r.a.Period }
func (r *artworkResolver) ImageURL() string      { return r.a.ImageURL }
func (r *artworkResolver) ThumbnailURL() *string { return r.a.ThumbnailURL }
func (r *artworkResolver) ObjectURL() *string    { return r.a.ObjectURL }
func (r *artworkResolver) Description() *string  { return r.a.Description }
func (r *artworkResolver) MetID() *int32         { return int32Ptr(r.a.MetID) }

func int32Ptr(p *int) *int32 {
	if p == nil {
		return nil
	}
	v := int32(*p)
	return &v
}
