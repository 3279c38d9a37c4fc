package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-research/memogen/internal/model"
	"github.com/meridian-research/memogen/internal/pipeline"
	"github.com/meridian-research/memogen/internal/store"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSituations(w http.ResponseWriter, r *http.Request) {
	type situationInfo struct {
		ID                string   `json:"id"`
		Label             string   `json:"label"`
		SupportsValuation bool     `json:"supports_valuation"`
		Sections          []string `json:"sections"`
	}

	situations := model.AllSituations()
	infos := make([]situationInfo, 0, len(situations))
	for _, st := range situations {
		o, err := s.registry.For(st)
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		infos = append(infos, situationInfo{
			ID:                string(st),
			Label:             st.Label(),
			SupportsValuation: st.SupportsValuation(),
			Sections:          o.Titles(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"situations": infos})
}

// handleMemo accepts a multipart form (company, situation, valuation_mode,
// parent_peers, spinco_peers, files) and streams the generated DOCX back.
func (s *Server) handleMemo(w http.ResponseWriter, r *http.Request) {
	if !s.busy.TryLock() {
		jsonError(w, "another generation is in progress", http.StatusTooManyRequests)
		return
	}
	defer s.busy.Unlock()

	maxUpload := s.cfg.Server.MaxUploadBytes
	// Headroom for the form fields around the files themselves.
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload+1024*1024)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "parse multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	company := strings.TrimSpace(r.FormValue("company"))
	if company == "" {
		jsonError(w, "company is required", http.StatusBadRequest)
		return
	}
	situation, err := model.ParseSituation(r.FormValue("situation"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	mode := r.FormValue("valuation_mode")
	switch mode {
	case "", pipeline.ValuationNone, pipeline.ValuationTickers, pipeline.ValuationAuto, pipeline.ValuationResolved:
	default:
		jsonError(w, fmt.Sprintf("unknown valuation mode %q", mode), http.StatusBadRequest)
		return
	}

	docs, err := s.collectUploads(r, maxUpload)
	if err != nil {
		var tooLarge *uploadTooLargeError
		if errors.As(err, &tooLarge) {
			jsonError(w, err.Error(), http.StatusRequestEntityTooLarge)
		} else {
			jsonError(w, err.Error(), http.StatusBadRequest)
		}
		return
	}
	if len(docs) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	result, err := s.gen.GenerateMemo(r.Context(), pipeline.MemoRequest{
		Company:       company,
		Situation:     situation,
		Docs:          docs,
		ValuationMode: mode,
		ParentPeers:   splitPeers(r.FormValue("parent_peers")),
		SpincoPeers:   splitPeers(r.FormValue("spinco_peers")),
	})
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.streamArtifact(w, result.ArtifactPath, docxContentType, result.RunID, true)
}

// handleInfographic composes an infographic from a stored memo run (form
// field run_id) or, with no run_id, from the current session's memo.
func (s *Server) handleInfographic(w http.ResponseWriter, r *http.Request) {
	if !s.busy.TryLock() {
		jsonError(w, "another generation is in progress", http.StatusTooManyRequests)
		return
	}
	defer s.busy.Unlock()

	if err := r.ParseForm(); err != nil {
		jsonError(w, "parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.gen.GenerateInfographic(r.Context(), pipeline.InfographicRequest{
		RunID: r.FormValue("run_id"),
	})
	switch {
	case errors.Is(err, store.ErrRunNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, pipeline.ErrNoSessionMemo):
		jsonError(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.streamArtifact(w, result.ArtifactPath, "text/html; charset=utf-8", result.RunID, false)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 50
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := s.store.ListRuns(r.Context(), store.RunFilter{
		Kind:    model.RunKind(q.Get("kind")),
		Status:  model.RunStatus(q.Get("status")),
		Company: q.Get("company"),
		Limit:   limit,
	})
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	run, err := s.store.GetRun(r.Context(), runID)
	if errors.Is(err, store.ErrRunNotFound) {
		jsonError(w, "run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// uploadTooLargeError marks a single file over the configured upload cap.
type uploadTooLargeError struct {
	name string
	max  int64
}

func (e *uploadTooLargeError) Error() string {
	return fmt.Sprintf("file %s exceeds the %d byte upload limit", e.name, e.max)
}

func (s *Server) collectUploads(r *http.Request, maxUpload int64) ([]model.SourceDoc, error) {
	files := r.MultipartForm.File["files"]
	docs := make([]model.SourceDoc, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(io.LimitReader(f, maxUpload+1))
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
		}
		if int64(len(data)) > maxUpload {
			return nil, &uploadTooLargeError{name: fh.Filename, max: maxUpload}
		}
		docs = append(docs, model.SourceDoc{Name: sanitizeFilename(fh.Filename), Data: data})
	}
	return docs, nil
}

// streamArtifact serves a generated file from the output directory, tagging
// the response with the run that produced it.
func (s *Server) streamArtifact(w http.ResponseWriter, path, contentType, runID string, attachment bool) {
	f, err := os.Open(path)
	if err != nil {
		jsonError(w, "open artifact: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", contentType)
	if attachment {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	}
	w.Header().Set("X-Run-ID", runID)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, f)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(name)
	if name == "" || name == "." {
		return "unnamed"
	}
	return name
}

func splitPeers(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	peers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			peers = append(peers, p)
		}
	}
	return peers
}
