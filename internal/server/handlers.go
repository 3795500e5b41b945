package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MeKo-Tech/docscan/internal/archive"
	"github.com/MeKo-Tech/docscan/internal/pipeline"
	"github.com/MeKo-Tech/docscan/internal/version"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatCSV  = "csv"
	formatText = "text"

	defaultMaxUploadMB   = 20
	defaultMaxBatchItems = 10

	usageHint = "Use POST to scan a document. Send file (multipart) or text (JSON) and document_type."
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}
	s.writeJSON(w, http.StatusOK, response)
}

// documentTypesHandler lists the document types, their fields and the
// classifier keywords that select them.
func (s *Server) documentTypesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var types []pipeline.TypeInfo
	if s.pipeline != nil {
		types = s.pipeline.DocumentTypes()
	} else {
		types = pipeline.New(pipeline.DefaultConfig()).DocumentTypes()
	}
	s.writeJSON(w, http.StatusOK, DocumentTypesResponse{DocumentTypes: types, Count: len(types)})
}

// scanHandler extracts the fields of one document. GET returns a usage
// hint; POST accepts a multipart upload ("file", "document_type") or a JSON
// body ({"text", "document_type"}).
func (s *Server) scanHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, http.StatusOK, UsageResponse{Detail: usageHint})
		return
	case http.MethodPost:
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.pipeline == nil {
		s.writeErrorResponse(w, "Extraction pipeline not initialized", http.StatusServiceUnavailable)
		return
	}

	if format, ok := scanFormat(r); !ok {
		s.writeErrorResponse(w, "Unsupported format: "+format, http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes())

	ctx, cancel := s.requestContext(r)
	defer cancel()

	start := time.Now()
	kind := "text"
	var (
		res *pipeline.ScanResult
		err error
	)
	if isJSONRequest(r) {
		var req ScanRequest
		if derr := json.NewDecoder(r.Body).Decode(&req); derr != nil {
			s.writeErrorResponse(w, fmt.Sprintf("Failed to parse JSON request: %v", derr), http.StatusBadRequest)
			return
		}
		if req.Text == "" || strings.TrimSpace(req.DocumentType) == "" {
			s.writeErrorResponse(w, "text and document_type are required", http.StatusBadRequest)
			return
		}
		tag, ok := pipeline.ResolveType(req.DocumentType)
		if !ok {
			s.writeErrorResponse(w, "Invalid document_type", http.StatusBadRequest)
			return
		}
		res, err = s.pipeline.Process(req.Text, tag)
		if res != nil {
			res.Source = "text"
		}
	} else {
		kind = "file"
		res, err = s.scanUpload(ctx, r)
	}
	if err != nil {
		extractionRequestsTotal.WithLabelValues(kind, "error").Inc()
		var herr *httpError
		if errors.As(err, &herr) {
			s.writeErrorResponse(w, herr.message, herr.status)
			return
		}
		status, msg := scanErrorStatus(err)
		s.writeErrorResponse(w, msg, status)
		return
	}

	s.recordExtraction(kind, res, time.Since(start))
	if s.archive != nil {
		rec, aerr := archive.SaveResult(ctx, s.archive, res)
		if aerr != nil {
			s.log().Error("Failed to archive scan", "source", res.Source, "error", aerr)
		} else {
			w.Header().Set("X-Scan-ID", rec.ID)
		}
	}

	format, _ := scanFormat(r)
	s.writeScanResult(w, res, format)
}

// httpError rejects a request before extraction starts.
type httpError struct {
	status  int
	message string
}

func (e *httpError) Error() string { return e.message }

// scanUpload handles the multipart variant of POST /scan. The upload is
// spooled to a temp file so the configured reader can dispatch on its
// extension.
func (s *Server) scanUpload(ctx context.Context, r *http.Request) (*pipeline.ScanResult, error) {
	if err := r.ParseMultipartForm(s.maxUploadBytes()); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			return nil, &httpError{http.StatusRequestEntityTooLarge, "File too large"}
		}
		return nil, &httpError{http.StatusBadRequest, "Failed to parse form data"}
	}

	file, header, err := r.FormFile("file")
	if err != nil || strings.TrimSpace(r.FormValue("document_type")) == "" {
		if file != nil {
			_ = file.Close()
		}
		return nil, &httpError{http.StatusBadRequest, "File and document_type are required"}
	}
	defer func() { _ = file.Close() }()

	tag, ok := pipeline.ResolveType(r.FormValue("document_type"))
	if !ok {
		return nil, &httpError{http.StatusBadRequest, "Invalid document_type"}
	}
	if format, ok := scanFormat(r); !ok {
		return nil, &httpError{http.StatusBadRequest, "Unsupported format: " + format}
	}

	uploadSizeBytes.Observe(float64(header.Size))

	tmp, err := os.CreateTemp("", "docscan-upload-*"+strings.ToLower(filepath.Ext(header.Filename)))
	if err != nil {
		return nil, &httpError{http.StatusInternalServerError, "Failed to store upload"}
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	_, err = io.Copy(tmp, file)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, &httpError{http.StatusInternalServerError, "Failed to store upload"}
	}

	res, err := s.pipeline.ProcessFile(ctx, tmp.Name(), tag)
	if err != nil {
		return nil, err
	}
	res.Source = header.Filename
	return res, nil
}

// scanErrorStatus maps pipeline errors to HTTP status codes.
func scanErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, pipeline.ErrUnsupportedType):
		return http.StatusBadRequest, "Invalid document_type"
	case errors.Is(err, pipeline.ErrNoText):
		return http.StatusUnprocessableEntity, "No text found in document"
	case errors.Is(err, pipeline.ErrNoReader):
		return http.StatusServiceUnavailable, "File uploads are not enabled"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Text extraction timed out"
	default:
		return http.StatusUnprocessableEntity, fmt.Sprintf("Text extraction failed: %v", err)
	}
}

// scanFormat returns the output format requested by the multipart "format"
// field or the "format" query parameter, the form field taking precedence.
// It reports false for formats writeScanResult cannot render. The form
// field is only seen once the multipart body has been parsed.
func scanFormat(r *http.Request) (string, bool) {
	format := r.URL.Query().Get("format")
	if r.MultipartForm != nil {
		if v := r.MultipartForm.Value["format"]; len(v) > 0 && v[0] != "" {
			format = v[0]
		}
	}
	switch strings.ToLower(format) {
	case "", formatJSON, formatYAML, formatCSV, formatText:
		return format, true
	}
	return format, false
}

// writeScanResult writes res in format, validated by scanFormat; JSON is
// the default.
func (s *Server) writeScanResult(w http.ResponseWriter, res *pipeline.ScanResult, format string) {
	var (
		body        string
		contentType string
		err         error
	)
	switch strings.ToLower(format) {
	case "", formatJSON:
		s.writeJSON(w, http.StatusOK, res)
		return
	case formatYAML:
		contentType = "application/yaml"
		body, err = pipeline.ToYAML(res)
	case formatCSV:
		contentType = "text/csv"
		body, err = pipeline.ToCSV(res)
	case formatText:
		contentType = "text/plain; charset=utf-8"
		body, err = pipeline.ToPlainText(res)
	default:
		s.writeErrorResponse(w, "Unsupported format: "+format, http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("formatting failed: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write([]byte(body))
}

// recordExtraction updates the extraction metrics for one document.
func (s *Server) recordExtraction(kind string, res *pipeline.ScanResult, elapsed time.Duration) {
	extractionRequestsTotal.WithLabelValues(kind, "success").Inc()
	extractionDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	documentsExtracted.WithLabelValues(string(res.DocumentType), res.Status).Inc()
	fieldsFound.WithLabelValues(string(res.DocumentType)).Observe(float64(res.FieldsFound))
}

func (s *Server) maxUploadBytes() int64 {
	mb := s.maxUploadMB
	if mb <= 0 {
		mb = defaultMaxUploadMB
	}
	return mb * 1024 * 1024
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.timeoutSec > 0 {
		return context.WithTimeout(r.Context(), time.Duration(s.timeoutSec)*time.Second)
	}
	return context.WithCancel(r.Context())
}

func isJSONRequest(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// writeJSON writes v as a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log().Error("Failed to encode response", "error", err)
	}
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	s.writeJSON(w, statusCode, ErrorResponse{Success: false, Error: message})
}
