package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/flowmark/pkg/cache"
	"github.com/matzehuels/flowmark/pkg/codec"
	"github.com/matzehuels/flowmark/pkg/errors"
	"github.com/matzehuels/flowmark/pkg/render"
)

// renderRequest is the body for POST /api/render.
type renderRequest struct {
	Source string `json:"source"`
	Format string `json:"format"`
}

// formatRequest is the body for POST /api/format.
type formatRequest struct {
	Source string `json:"source"`

	SortNodes     bool `json:"sort_nodes,omitempty"`
	CompactChains bool `json:"compact_chains,omitempty"`
	InlineClasses bool `json:"inline_classes,omitempty"`
}

// diagramRequest is the body for diagram create and update.
type diagramRequest struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

var formatContentTypes = map[string]string{
	"svg": "image/svg+xml",
	"png": "image/png",
	"pdf": "application/pdf",
	"dot": "text/vnd.graphviz",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.New(errors.ErrCodeInvalidInput, "invalid JSON body"))
		return
	}

	format := strings.ToLower(req.Format)
	if format == "" {
		format = "svg"
	}
	contentType, ok := formatContentTypes[format]
	if !ok {
		respondError(w, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format))
		return
	}

	key := cache.RenderKey([]byte(req.Source), format, nil)
	if data, hit, err := s.cache.Get(r.Context(), key); err == nil && hit {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("X-Cache", "hit")
		_, _ = w.Write(data)
		return
	}

	data, err := s.renderSource(req.Source, format)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := s.cache.Set(r.Context(), key, data, s.renderTTL); err != nil {
		s.logger.Warn("cache write failed", "error", err)
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Cache", "miss")
	_, _ = w.Write(data)
}

// renderSource decodes flowchart text and renders it in the requested
// format.
func (s *Server) renderSource(source, format string) ([]byte, error) {
	g, err := codec.Decode(source)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSyntax, err, "decoding flowchart")
	}

	dot := render.ToDOT(g, render.Options{Labels: true})
	if format == "dot" {
		return []byte(dot), nil
	}

	svg, err := render.RenderSVG(dot)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "rendering svg")
	}

	switch format {
	case "svg":
		return svg, nil
	case "png":
		data, err := render.ToPNG(svg, 2.0)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "converting to png")
		}
		return data, nil
	case "pdf":
		data, err := render.ToPDF(svg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "converting to pdf")
		}
		return data, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	var req formatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.New(errors.ErrCodeInvalidInput, "invalid JSON body"))
		return
	}

	g, err := codec.Decode(req.Source)
	if err != nil {
		respondError(w, errors.Wrap(errors.ErrCodeInvalidSyntax, err, "decoding flowchart"))
		return
	}

	out := codec.Encode(g, codec.Options{
		SortNodes:     req.SortNodes,
		CompactChains: req.CompactChains,
		InlineClasses: req.InlineClasses,
	})
	respondJSON(w, http.StatusOK, map[string]string{"source": out})
}

func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, errors.New(errors.ErrCodeUnsupported, "diagram storage is not configured"))
		return
	}
	docs, err := s.store.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, docs)
}

func (s *Server) handleCreateDiagram(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, errors.New(errors.ErrCodeUnsupported, "diagram storage is not configured"))
		return
	}

	var req diagramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.New(errors.ErrCodeInvalidInput, "invalid JSON body"))
		return
	}
	if err := errors.ValidateDocumentName(req.Name); err != nil {
		respondError(w, err)
		return
	}
	if _, err := codec.Decode(req.Source); err != nil {
		respondError(w, errors.Wrap(errors.ErrCodeInvalidSyntax, err, "decoding flowchart"))
		return
	}

	doc, err := s.store.Create(r.Context(), req.Name, req.Source)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, errors.New(errors.ErrCodeUnsupported, "diagram storage is not configured"))
		return
	}
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleUpdateDiagram(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, errors.New(errors.ErrCodeUnsupported, "diagram storage is not configured"))
		return
	}

	var req diagramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.New(errors.ErrCodeInvalidInput, "invalid JSON body"))
		return
	}
	if err := errors.ValidateDocumentName(req.Name); err != nil {
		respondError(w, err)
		return
	}
	if _, err := codec.Decode(req.Source); err != nil {
		respondError(w, errors.Wrap(errors.ErrCodeInvalidSyntax, err, "decoding flowchart"))
		return
	}

	doc, err := s.store.Update(r.Context(), chi.URLParam(r, "id"), req.Name, req.Source)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, errors.New(errors.ErrCodeUnsupported, "diagram storage is not configured"))
		return
	}
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
