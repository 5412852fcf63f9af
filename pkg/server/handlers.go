package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/spotlight/pkg/buildinfo"
	"github.com/matzehuels/spotlight/pkg/errors"
	"github.com/matzehuels/spotlight/pkg/grid"
	"github.com/matzehuels/spotlight/pkg/layout"
	"github.com/matzehuels/spotlight/pkg/tile"
)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

type tileRequest struct {
	Items     []float64 `json:"items"`
	Threshold float64   `json:"threshold"`
	Remainder bool      `json:"remainder"`
}

type tileResponse struct {
	Breakpoints []int       `json:"breakpoints"`
	Rows        []tile.Span `json:"rows"`
	Score       float64     `json:"score"`
	Cached      bool        `json:"cached"`
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	var req tileRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Items) > s.maxItems {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "too many items (max %d)", s.maxItems))
		return
	}
	for i, ar := range req.Items {
		if err := errors.ValidateAspectRatio(ar); err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidAspectRatio, "item %d: aspect ratio must be a positive number, received %v", i, ar))
			return
		}
	}

	breaks, cached, err := s.runner.TileWithCacheInfo(r.Context(), req.Items, req.Threshold, req.Remainder)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tileResponse{
		Breakpoints: breaks,
		Rows:        tile.Spans(breaks),
		Score:       tile.Score(req.Items, breaks, req.Threshold),
		Cached:      cached,
	})
}

type layoutRequest struct {
	Items     []grid.Item `json:"items"`
	Width     float64     `json:"width"`
	RowHeight float64     `json:"row_height"`
	Spacing   *float64    `json:"spacing"`
	Final     *bool       `json:"final"`
}

type layoutResponse struct {
	layout.Layout
	Cached bool `json:"cached"`
}

func (s *Server) handleCreateLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Items) > s.maxItems {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "too many items (max %d)", s.maxItems))
		return
	}

	opts := s.defaults
	if req.Width != 0 {
		opts.Width = req.Width
	}
	if req.RowHeight != 0 {
		opts.RowHeight = req.RowHeight
	}
	if req.Spacing != nil {
		opts.Spacing = *req.Spacing
	}
	if req.Final != nil {
		opts.Final = *req.Final
	}
	opts.OnPage = nil

	l, cached, err := s.runner.LayoutWithCacheInfo(r.Context(), req.Items, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	l.ID = ""
	if _, err := s.store.Save(r.Context(), &l); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/v1/layouts/"+l.ID)
	writeJSON(w, http.StatusCreated, layoutResponse{Layout: l, Cached: cached})
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	l, err := s.load(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

type closestResponse struct {
	Index int        `json:"index"`
	Delta float64    `json:"delta"`
	Row   layout.Row `json:"row"`
}

func (s *Server) handleClosest(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("y")
	y, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "query parameter y must be a number, received %q", raw))
		return
	}

	l, err := s.load(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	row, delta, ok := l.RowAt(y)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "layout %s has no rows", l.ID))
		return
	}
	writeJSON(w, http.StatusOK, closestResponse{Index: row.Index, Delta: delta, Row: row})
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateSnapshotID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) load(r *http.Request) (*layout.Layout, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateSnapshotID(id); err != nil {
		return nil, err
	}
	return s.store.Load(r.Context(), id)
}

// decode reads a JSON body into v, rejecting unknown fields and oversized
// bodies.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, DefaultMaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
