package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/pathquery/pkg/buildinfo"
	"github.com/matzehuels/pathquery/pkg/cache"
	"github.com/matzehuels/pathquery/pkg/pipeline"

	pqerrors "github.com/matzehuels/pathquery/pkg/errors"
	pqio "github.com/matzehuels/pathquery/pkg/io"
)

// QueryRequest is the body of POST /v1/networks/{name}/{algorithm}.
type QueryRequest struct {
	Sources         []string `json:"sources,omitempty"`
	Targets         []string `json:"targets,omitempty"`
	Limit           *int     `json:"limit,omitempty"` // defaults to pipeline.DefaultLimit
	Direction       string   `json:"direction,omitempty"`
	Exclude         []string `json:"exclude,omitempty"`
	ExcludeUbiques  bool     `json:"exclude_ubiques,omitempty"`
	Complete        string   `json:"complete,omitempty"`
	CompleteMembers bool     `json:"complete_members,omitempty"`
	Pattern         string   `json:"pattern,omitempty"`
	MaxMatches      int      `json:"max_matches,omitempty"`
	Formats         []string `json:"formats,omitempty"`
	Detailed        bool     `json:"detailed,omitempty"`
	Refresh         bool     `json:"refresh,omitempty"`
}

// Options converts the request into pipeline options.
func (q QueryRequest) Options(algorithm string) pipeline.Options {
	limit := pipeline.DefaultLimit
	if q.Limit != nil {
		limit = *q.Limit
	}
	return pipeline.Options{
		Algorithm:       algorithm,
		Sources:         q.Sources,
		Targets:         q.Targets,
		Limit:           limit,
		Direction:       q.Direction,
		Exclude:         q.Exclude,
		ExcludeUbiques:  q.ExcludeUbiques,
		Complete:        q.Complete,
		CompleteMembers: q.CompleteMembers,
		Pattern:         q.Pattern,
		MaxMatches:      q.MaxMatches,
		Formats:         q.Formats,
		Detailed:        q.Detailed,
		Refresh:         q.Refresh,
	}
}

// QueryResponse is a query result as returned and stored by the API.
// Text artifacts (dot, svg) are included verbatim, binary ones (png, pdf)
// base64-encoded. The JSON rendering is the Result field itself.
type QueryResponse struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Result    *pipeline.Result  `json:"result"`
	Artifacts map[string]string `json:"artifacts,omitempty"`
}

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

func binaryFormat(format string) bool {
	return format == pipeline.FormatPNG || format == pipeline.FormatPDF
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if statusFor(err) >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err,
			"request_id", middleware.GetReqID(r.Context()))
	}
	writeError(w, err)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleListNetworks(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleGetNetwork(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := pqio.WriteNetwork(n, w, pqio.FormatJSON); err != nil {
		s.logger.Error("encode network", "network", n.Name, "error", err)
	}
}

// handlePutNetwork stores the request body under the URL name. The body
// format comes from the format query parameter or the Content-Type
// header and defaults to JSON.
func (s *Server) handlePutNetwork(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := pqerrors.ValidateName(name); err != nil {
		s.fail(w, r, err)
		return
	}
	format, err := bodyFormat(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	n, err := pqio.ReadNetwork(body, format)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	n.Name = name
	if err := s.store.Save(r.Context(), n); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("stored network", "network", name, "entities", n.Len(), "format", format)
	writeJSON(w, http.StatusCreated, struct {
		Name         string `json:"name"`
		Entities     int    `json:"entities"`
		Interactions int    `json:"interactions"`
	}{name, n.Len(), len(n.Interactions())})
}

func bodyFormat(r *http.Request) (pqio.Format, error) {
	if f := r.URL.Query().Get("format"); f != "" {
		return pqio.ParseFormat(f)
	}
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mt == "" || mt == "application/json":
		return pqio.FormatJSON, nil
	case mt == "application/toml":
		return pqio.FormatTOML, nil
	case mt == "text/plain" || strings.HasSuffix(mt, "sif"):
		return pqio.FormatSIF, nil
	}
	return "", pqerrors.New(pqerrors.ErrCodeInvalidFormat, "unsupported content type %q", mt)
}

func (s *Server) handleDeleteNetwork(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	algorithm := chi.URLParam(r, "algorithm")
	if err := pipeline.ValidateAlgorithm(algorithm); err != nil {
		s.fail(w, r, err)
		return
	}

	var req QueryRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.fail(w, r, pqerrors.Wrap(pqerrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.QueryTimeout)
	defer cancel()

	n, err := s.store.Load(ctx, chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.runner.Execute(ctx, n, req.Options(algorithm))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := QueryResponse{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Result:    res,
		Artifacts: make(map[string]string, len(res.Artifacts)),
	}
	for format, data := range res.Artifacts {
		switch {
		case format == pipeline.FormatJSON:
		case binaryFormat(format):
			resp.Artifacts[format] = base64.StdEncoding.EncodeToString(data)
		default:
			resp.Artifacts[format] = string(data)
		}
	}

	// A response that cannot be stored is still returned; it just cannot
	// be fetched again by id.
	if _, err := cache.SetJSON(r.Context(), s.runner.Cache, s.runner.Keyer.ResultKey(resp.ID), resp, cache.TTLQuery); err != nil {
		s.logger.Warn("store result", "id", resp.ID, "error", err)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) loadResult(ctx context.Context, raw string) (*QueryResponse, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pqerrors.New(pqerrors.ErrCodeInvalidParameter, "invalid result id %q", raw)
	}
	var resp QueryResponse
	err = cache.GetJSON(ctx, s.runner.Cache, s.runner.Keyer.ResultKey(id.String()), &resp)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, pqerrors.New(pqerrors.ErrCodeNotFound, "result %s not found or expired", id)
	}
	if err != nil {
		return nil, pqerrors.Wrap(pqerrors.ErrCodeStorage, err, "load result %s", id)
	}
	return &resp, nil
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	resp, err := s.loadResult(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}
	resp, err := s.loadResult(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var data []byte
	if format == pipeline.FormatJSON {
		data, err = pipeline.MarshalResult(resp.Result)
	} else {
		encoded, ok := resp.Artifacts[format]
		if !ok {
			s.fail(w, r, pqerrors.New(pqerrors.ErrCodeNotFound, "result %s has no %s artifact", resp.ID, format))
			return
		}
		data = []byte(encoded)
		if binaryFormat(format) {
			data, err = base64.StdEncoding.DecodeString(encoded)
		}
	}
	if err != nil {
		s.fail(w, r, pqerrors.Wrap(pqerrors.ErrCodeInternal, err, "decode %s artifact", format))
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
