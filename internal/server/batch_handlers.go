package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MeKo-Tech/docscan/internal/archive"
	"github.com/MeKo-Tech/docscan/internal/pipeline"
)

var errInvalidDocumentType = errors.New("invalid document_type")

// BatchScanRequest represents a batch extraction request.
type BatchScanRequest struct {
	Items []BatchScanItem `json:"items"`
	// DocumentType applies to items that do not name their own type.
	DocumentType string `json:"document_type,omitempty"`
}

// BatchScanItem represents a single text in a batch request.
type BatchScanItem struct {
	Name         string `json:"name"`
	Text         string `json:"text"`
	DocumentType string `json:"document_type,omitempty"`
}

// BatchScanResponse represents the response for batch extraction.
type BatchScanResponse struct {
	Success bool                   `json:"success"`
	Results []BatchScanResult      `json:"results"`
	Summary BatchProcessingSummary `json:"summary"`
}

// BatchScanResult represents a single result in batch processing.
type BatchScanResult struct {
	Name    string               `json:"name"`
	Success bool                 `json:"success"`
	Result  *pipeline.ScanResult `json:"result,omitempty"`
	Error   string               `json:"error,omitempty"`
	ScanID  string               `json:"scan_id,omitempty"`
}

// BatchProcessingSummary provides summary statistics for batch processing.
type BatchProcessingSummary struct {
	pipeline.ParallelStats
	TotalDuration float64 `json:"total_duration_seconds"`
	AvgItemTime   float64 `json:"avg_item_time_seconds"`
}

// scanBatchHandler processes up to maxBatchItems texts concurrently.
func (s *Server) scanBatchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.pipeline == nil {
		s.writeErrorResponse(w, "Extraction pipeline not initialized", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes())

	var req BatchScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Failed to parse JSON request: %v", err), http.StatusBadRequest)
		return
	}
	if len(req.Items) == 0 {
		s.writeErrorResponse(w, "No items provided in batch request", http.StatusBadRequest)
		return
	}
	if len(req.Items) > s.maxBatchItems {
		s.writeErrorResponse(w,
			fmt.Sprintf("Too many items in batch request (max %d)", s.maxBatchItems), http.StatusBadRequest)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	start := time.Now()
	items := make([]pipeline.ItemResult, len(req.Items))
	var inputs []pipeline.Input
	var positions []int
	for i, it := range req.Items {
		name := it.Name
		if name == "" {
			name = fmt.Sprintf("item_%d", i+1)
		}
		typeName := it.DocumentType
		if strings.TrimSpace(typeName) == "" {
			typeName = req.DocumentType
		}
		if strings.TrimSpace(typeName) == "" {
			typeName = pipeline.AutoType
		}
		in := pipeline.Input{Name: name, Text: it.Text}
		items[i] = pipeline.ItemResult{Index: i, Input: in}

		tag, ok := pipeline.ResolveType(typeName)
		if !ok {
			items[i].Err = errInvalidDocumentType
			continue
		}
		in.Type = tag
		inputs = append(inputs, in)
		positions = append(positions, i)
	}

	done, err := s.pipeline.ProcessParallel(ctx, inputs, pipeline.ParallelConfig{MaxWorkers: len(inputs)})
	if err != nil {
		s.log().Warn("Batch interrupted", "error", err)
	}
	for j, it := range done {
		it.Index = positions[j]
		items[positions[j]] = it
	}
	total := time.Since(start)

	results := make([]BatchScanResult, len(items))
	for i, it := range items {
		br := BatchScanResult{Name: it.Input.Name}
		if it.Err != nil {
			br.Error = batchItemError(it.Err)
			extractionRequestsTotal.WithLabelValues("batch", "error").Inc()
		} else {
			br.Success = true
			br.Result = it.Result
			s.recordExtraction("batch", it.Result, time.Duration(it.Result.Processing.DurationMs*float64(time.Millisecond)))
			if s.archive != nil {
				rec, aerr := archive.SaveResult(ctx, s.archive, it.Result)
				if aerr != nil {
					s.log().Error("Failed to archive scan", "source", it.Result.Source, "error", aerr)
				} else {
					br.ScanID = rec.ID
				}
			}
		}
		results[i] = br
	}

	summary := BatchProcessingSummary{
		ParallelStats: pipeline.CalculateParallelStats(items),
		TotalDuration: total.Seconds(),
	}
	summary.AvgItemTime = summary.TotalDuration / float64(len(items))

	s.writeJSON(w, http.StatusOK, BatchScanResponse{
		Success: summary.Failed == 0,
		Results: results,
		Summary: summary,
	})
}

// batchItemError renders a per-item failure the way /scan would.
func batchItemError(err error) string {
	if errors.Is(err, errInvalidDocumentType) {
		return "Invalid document_type"
	}
	_, msg := scanErrorStatus(err)
	return msg
}
