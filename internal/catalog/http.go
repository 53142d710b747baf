package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Gallery/pkg/kit"
)

type Server struct {
	Service *Service
	Log     *zap.Logger

	// Limiter, when set, wraps the query routes only.
	Limiter func(http.Handler) http.Handler
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	r.Group(func(qr chi.Router) {
		if s.Limiter != nil {
			qr.Use(s.Limiter)
		}
		qr.Handle("/graphql", NewGraphQLHandler(s.Service))
		qr.Get("/paintings", s.list)
		qr.Get("/paintings/{id}", s.get)
	})

	return r
}

// ready forces the one-time load so the first real query does not pay for it.
func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	store := s.Service.Store()
	n := len(store.Collection(r.Context()))
	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"origin":  store.Origin(),
		"records": n,
	})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	args, err := parseArgs(r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad query", map[string]any{"cause": err.Error()})
		return
	}

	page, err := s.Service.Query(r.Context(), args)
	if errors.Is(err, ErrInvalidArgument) {
		kit.WriteError(w, r, http.StatusBadRequest, "bad query", map[string]any{"cause": err.Error()})
		return
	}
	if err != nil {
		if s.Log != nil {
			s.Log.Error("query paintings failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, page)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	a, ok := s.Service.Get(r.Context(), id)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, a)
}

func parseArgs(r *http.Request) (Args, error) {
	q := r.URL.Query()
	args := DefaultArgs()
	args.Search = q.Get("search")

	var err error
	if v := q.Get("limit"); v != "" {
		if args.Limit, err = strconv.Atoi(v); err != nil {
			return Args{}, errors.New("limit must be an integer")
		}
	}
	if v := q.Get("offset"); v != "" {
		if args.Offset, err = strconv.Atoi(v); err != nil {
			return Args{}, errors.New("offset must be an integer")
		}
	}
	return args, nil
}
