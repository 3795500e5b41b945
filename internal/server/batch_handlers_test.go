package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MeKo-Tech/docscan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_ScanBatchHandler(t *testing.T) {
	server := newTestServer(t, nil)

	req := newJSONRequest(t, "/scan/batch", BatchScanRequest{
		Items: []BatchScanItem{
			{Name: "cit", Text: testutil.CitizenshipText},
			{Name: "pp", Text: testutil.PassportText, DocumentType: "passport"},
			{Text: testutil.NationalIDText, DocumentType: "voter_card"},
		},
	})
	w := httptest.NewRecorder()
	server.scanBatchHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var response BatchScanResponse
	decodeJSON(t, w, &response)

	require.Len(t, response.Results, 3)
	assert.False(t, response.Success)

	assert.Equal(t, "cit", response.Results[0].Name)
	assert.True(t, response.Results[0].Success)
	assert.Equal(t, "citizenship", string(response.Results[0].Result.DocumentType))
	assert.Equal(t, "classifier", response.Results[0].Result.TypeSource)

	assert.Equal(t, "pp", response.Results[1].Name)
	assert.Equal(t, "passport", string(response.Results[1].Result.DocumentType))
	assert.Equal(t, "caller", response.Results[1].Result.TypeSource)

	assert.Equal(t, "item_3", response.Results[2].Name)
	assert.False(t, response.Results[2].Success)
	assert.Equal(t, "Invalid document_type", response.Results[2].Error)
	assert.Nil(t, response.Results[2].Result)

	assert.Equal(t, 3, response.Summary.Total)
	assert.Equal(t, 2, response.Summary.Succeeded)
	assert.Equal(t, 1, response.Summary.Failed)
	assert.Equal(t, map[string]int{"citizenship": 1, "passport": 1}, response.Summary.ByType)
	assert.GreaterOrEqual(t, response.Summary.TotalDuration, 0.0)
}

func TestServer_ScanBatchHandler_DefaultType(t *testing.T) {
	server := newTestServer(t, nil)

	req := newJSONRequest(t, "/scan/batch", BatchScanRequest{
		DocumentType: "birth_certificate",
		Items: []BatchScanItem{
			{Name: "a", Text: testutil.BirthCertificateText},
			{Name: "b", Text: "\n \n"},
			{Name: "c", Text: "PAN 12345", DocumentType: "pan"},
		},
	})
	w := httptest.NewRecorder()
	server.scanBatchHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var response BatchScanResponse
	decodeJSON(t, w, &response)
	require.Len(t, response.Results, 3)

	assert.Equal(t, "birth_certificate", string(response.Results[0].Result.DocumentType))
	assert.Equal(t, "No text found in document", response.Results[1].Error)
	assert.Equal(t, "not_supported", response.Results[2].Result.Status)
	assert.Equal(t, 1, response.Summary.Unsupported)
}

func TestServer_ScanBatchHandler_Rejects(t *testing.T) {
	server := newTestServer(t, nil)

	tooMany := make([]BatchScanItem, 4)
	for i := range tooMany {
		tooMany[i] = BatchScanItem{Text: testutil.PassportText, DocumentType: "passport"}
	}

	tests := []struct {
		name           string
		request        *http.Request
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "wrong method",
			request:        httptest.NewRequest(http.MethodGet, "/scan/batch", nil),
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			name:           "invalid json",
			request:        httptest.NewRequest(http.MethodPost, "/scan/batch", strings.NewReader("[")),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Failed to parse JSON request",
		},
		{
			name:           "no items",
			request:        newJSONRequest(t, "/scan/batch", BatchScanRequest{}),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "No items provided",
		},
		{
			name:           "too many items",
			request:        newJSONRequest(t, "/scan/batch", BatchScanRequest{Items: tooMany}),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Too many items in batch request (max 3)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.scanBatchHandler(w, tt.request)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
		})
	}
}
