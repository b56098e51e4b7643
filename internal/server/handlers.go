package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/treescape/pkg/buildinfo"
	"github.com/matzehuels/treescape/pkg/errors"
	"github.com/matzehuels/treescape/pkg/pipeline"
	"github.com/matzehuels/treescape/pkg/scene"
	"github.com/matzehuels/treescape/pkg/starfield"
	"github.com/matzehuels/treescape/pkg/tree"
)

// =============================================================================
// Request / Response Types
// =============================================================================

type createTreeRequest struct {
	Root   string     `json:"root"`
	Text   string     `json:"text"`
	Anchor *scene.Vec `json:"anchor"`
}

type addNodeRequest struct {
	Parent string `json:"parent"`
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Text   string `json:"text"`
}

type nodeResponse struct {
	ID       string    `json:"id"`
	Parent   string    `json:"parent"`
	Sibling  int       `json:"sibling"`
	Order    int       `json:"order"`
	Kind     string    `json:"kind,omitempty"`
	Position scene.Vec `json:"position"`
}

type removeResponse struct {
	Removed []string `json:"removed"`
}

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatOBJ:  "model/obj",
	pipeline.FormatDOT:  "text/vnd.graphviz",
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) handleListTrees(w http.ResponseWriter, r *http.Request) {
	roots, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, storeError(err, "list trees"))
		return
	}
	if roots == nil {
		roots = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"roots": roots})
}

func (s *Server) handleCreateTree(w http.ResponseWriter, r *http.Request) {
	var req createTreeRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Root == "" {
		req.Root = uuid.NewString()
	}
	if err := errors.ValidateNodeID(req.Root); err != nil {
		s.writeError(w, err)
		return
	}
	if err := errors.ValidateText(req.Text, s.maxText); err != nil {
		s.writeError(w, err)
		return
	}
	var anchor scene.Vec
	if req.Anchor != nil {
		if !req.Anchor.Finite() {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "anchor must be finite"))
			return
		}
		anchor = *req.Anchor
	}

	f, err := starfield.New(req.Root, anchor.V3(), s.runner.Placer())
	if err != nil {
		s.writeError(w, err)
		return
	}
	snap := f.Snapshot()
	e := snap.Entries[req.Root]
	e.Text = req.Text
	snap.Entries[req.Root] = e

	if err := s.store.Create(r.Context(), snap); err != nil {
		s.writeError(w, storeError(err, "create tree"))
		return
	}
	s.logger.Info("created tree", "root", req.Root)
	writeJSON(w, http.StatusCreated, scene.FromSnapshot(snap))
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(r.Context(), chi.URLParam(r, "root"))
	if err != nil {
		s.writeError(w, storeError(err, "load tree"))
		return
	}
	writeJSON(w, http.StatusOK, scene.FromSnapshot(snap))
}

func (s *Server) handleDeleteTree(w http.ResponseWriter, r *http.Request) {
	root := chi.URLParam(r, "root")
	unlock := s.lock(root)
	defer unlock()

	if err := s.store.Delete(r.Context(), root); err != nil {
		s.writeError(w, storeError(err, "delete tree"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	root := chi.URLParam(r, "root")

	var req addNodeRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Parent == "" {
		req.Parent = root
	}
	for _, id := range []string{req.ID, req.Parent} {
		if err := errors.ValidateNodeID(id); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if err := errors.ValidateText(req.Text, s.maxText); err != nil {
		s.writeError(w, err)
		return
	}

	unlock := s.lock(root)
	defer unlock()

	snap, err := s.store.Get(r.Context(), root)
	if err != nil {
		s.writeError(w, storeError(err, "load tree"))
		return
	}
	f, err := s.runner.OpenField(snap)
	if err != nil {
		s.writeError(w, err)
		return
	}
	n, err := f.Insert(tree.Insert{
		Parent:  req.Parent,
		ID:      req.ID,
		Kind:    tree.Kind(req.Kind),
		Text:    req.Text,
		Sibling: tree.AutoSibling,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Put(r.Context(), f.Snapshot()); err != nil {
		s.writeError(w, storeError(err, "save tree"))
		return
	}

	writeJSON(w, http.StatusCreated, nodeResponse{
		ID:       n.ID,
		Parent:   n.Parent,
		Sibling:  n.Sibling,
		Order:    n.Order,
		Kind:     string(n.Kind),
		Position: scene.VecOf(n.Position),
	})
}

func (s *Server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	root, id := chi.URLParam(r, "root"), chi.URLParam(r, "id")

	unlock := s.lock(root)
	defer unlock()

	snap, err := s.store.Get(r.Context(), root)
	if err != nil {
		s.writeError(w, storeError(err, "load tree"))
		return
	}
	f, err := s.runner.OpenField(snap)
	if err != nil {
		s.writeError(w, err)
		return
	}
	removed, err := f.Remove(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Put(r.Context(), f.Snapshot()); err != nil {
		s.writeError(w, storeError(err, "save tree"))
		return
	}
	writeJSON(w, http.StatusOK, removeResponse{Removed: removed})
}

func (s *Server) handlePlacements(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(r.Context(), chi.URLParam(r, "root"))
	if err != nil {
		s.writeError(w, storeError(err, "load tree"))
		return
	}
	p, err := s.runner.Place(r.Context(), snap)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleWalkthrough(w http.ResponseWriter, r *http.Request) {
	snap, start, err := s.loadWithStart(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	wt, err := s.runner.Walk(r.Context(), snap, start)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wt)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "export"))
		return
	}
	snap, start, err := s.loadWithStart(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	artifacts, err := s.runner.Render(r.Context(), snap, start, []string{format})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// loadWithStart loads the tree named in the path and resolves the start
// query parameter. An unknown start is a not-found error.
func (s *Server) loadWithStart(r *http.Request) (tree.Snapshot, string, error) {
	snap, err := s.store.Get(r.Context(), chi.URLParam(r, "root"))
	if err != nil {
		return tree.Snapshot{}, "", storeError(err, "load tree")
	}
	start := r.URL.Query().Get("start")
	if start != "" && !snap.Has(start) {
		return tree.Snapshot{}, "", errors.New(errors.ErrCodeUnknownNode, "unknown start node %q", start)
	}
	return snap, start, nil
}

// =============================================================================
// Encoding
// =============================================================================

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(w, `{"error":%q}`, err.Error())
	}
}
