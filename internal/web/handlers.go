package web

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/asanahub/poseadmin/internal/importer"
	"github.com/asanahub/poseadmin/internal/logging"
	"github.com/asanahub/poseadmin/internal/pose"
)

// handleImport runs a CSV batch through the reconciliation importer and
// returns the aggregate result. Individual row failures are reported inside
// the result; only a whole-batch problem (unreadable file, no rows) is an
// HTTP error.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	rows, err := importer.RowsFromCSV(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "parse CSV: "+err.Error())
		return
	}

	operator := r.Header.Get("X-Operator")
	if operator == "" {
		operator = "importer"
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Import.Timeout)
	defer cancel()

	logger := logging.WithFields(ctx, "operator", operator, "rows", len(rows))
	logger.Info("import started")

	result, err := s.importer.Run(ctx, rows, operator)
	if err != nil {
		logger.Error("import failed", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	logger.Info("import finished",
		"success", result.Success,
		"failed", result.Failed,
		"updated", result.Updated,
		"created", result.Created,
	)
	writeJSON(w, result)
}

// poseListResponse is the paginated listing payload.
type poseListResponse struct {
	Poses    []poseView `json:"poses"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
}

// poseView is the JSON shape of a pose record.
type poseView struct {
	ID              string   `json:"id"`
	Slug            string   `json:"slug"`
	EnglishName     string   `json:"englishName"`
	SanskritName    string   `json:"sanskritName,omitempty"`
	Difficulty      string   `json:"difficulty"`
	Category        string   `json:"category,omitempty"`
	PrimaryFocus    string   `json:"primaryFocus,omitempty"`
	FocusAreas      []string `json:"focusAreas"`
	Benefits        []string `json:"benefits"`
	Status          string   `json:"status"`
	DurationSeconds int      `json:"durationSeconds"`
}

func toPoseView(p pose.Pose) poseView {
	return poseView{
		ID:              p.ID,
		Slug:            p.Slug,
		EnglishName:     p.EnglishName,
		SanskritName:    p.SanskritName,
		Difficulty:      p.Difficulty,
		Category:        p.Category,
		PrimaryFocus:    p.PrimaryFocus,
		FocusAreas:      p.FocusAreas,
		Benefits:        p.Benefits,
		Status:          p.Status,
		DurationSeconds: p.DurationSeconds,
	}
}

// handleListPoses returns a page of the catalog.
func (s *Server) handleListPoses(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	poses, total, err := s.store.List(r.Context(), page, pageSize)
	if err != nil {
		logging.FromContext(r.Context()).Error("list poses", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list poses")
		return
	}

	resp := poseListResponse{
		Poses:    make([]poseView, 0, len(poses)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for _, p := range poses {
		resp.Poses = append(resp.Poses, toPoseView(p))
	}
	writeJSON(w, resp)
}

// handleGetPose returns a single pose by slug.
func (s *Server) handleGetPose(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		writeError(w, http.StatusBadRequest, "missing slug")
		return
	}

	p, err := s.store.GetBySlug(r.Context(), slug)
	if err != nil {
		logging.FromContext(r.Context()).Error("get pose", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load pose")
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "pose not found")
		return
	}

	writeJSON(w, toPoseView(*p))
}
