package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/docscan/internal/archive"
	"github.com/MeKo-Tech/docscan/internal/document"
)

// ScansResponse lists archived scans.
type ScansResponse struct {
	Scans []*archive.Record `json:"scans"`
	Count int               `json:"count"`
}

// listScansHandler returns archived scans, newest first. Optional query
// parameters: document_type and limit.
func (s *Server) listScansHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.archive == nil {
		s.writeErrorResponse(w, "Scan archive not configured", http.StatusNotFound)
		return
	}

	var opts archive.ListOptions
	q := r.URL.Query()
	if name := strings.TrimSpace(q.Get("document_type")); name != "" {
		tag := document.ParseTag(name)
		if tag == document.Unknown && !strings.EqualFold(name, string(document.Unknown)) {
			s.writeErrorResponse(w, "Invalid document_type", http.StatusBadRequest)
			return
		}
		opts.DocumentType = tag
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeErrorResponse(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		opts.Limit = n
	}

	records, err := s.archive.List(r.Context(), opts)
	if err != nil {
		s.log().Error("Failed to list scans", "error", err)
		s.writeErrorResponse(w, "Failed to list scans", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []*archive.Record{}
	}
	s.writeJSON(w, http.StatusOK, ScansResponse{Scans: records, Count: len(records)})
}

// getScanHandler returns one archived scan by ID.
func (s *Server) getScanHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.archive == nil {
		s.writeErrorResponse(w, "Scan archive not configured", http.StatusNotFound)
		return
	}

	id := r.PathValue("id")
	rec, err := s.archive.Get(r.Context(), id)
	switch {
	case errors.Is(err, archive.ErrNotFound):
		s.writeErrorResponse(w, "Scan not found", http.StatusNotFound)
	case err != nil:
		s.log().Error("Failed to load scan", "id", id, "error", err)
		s.writeErrorResponse(w, "Failed to load scan", http.StatusInternalServerError)
	default:
		s.writeJSON(w, http.StatusOK, rec)
	}
}
