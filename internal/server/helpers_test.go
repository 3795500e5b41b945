package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MeKo-Tech/docscan/internal/archive"
	"github.com/MeKo-Tech/docscan/internal/ocr"
	"github.com/MeKo-Tech/docscan/internal/pipeline"
	"github.com/stretchr/testify/require"
)

// newTestServer builds a server around the default pipeline with a plain
// text and PDF reader. store may be nil.
func newTestServer(t *testing.T, store archive.Store) *Server {
	t.Helper()

	cfg := pipeline.DefaultConfig()
	cfg.Reader = ocr.New(ocr.Options{})
	srv, err := NewServer(Config{
		CORSOrigin:     "*",
		MaxUploadMB:    1,
		TimeoutSec:     5,
		MaxBatchItems:  3,
		PipelineConfig: cfg,
		Archive:        store,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return srv
}

// newJSONRequest creates a POST request with v encoded as the JSON body.
func newJSONRequest(t *testing.T, target string, v interface{}) *http.Request {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// newMultipartRequest creates a multipart POST to /scan. An empty filename
// omits the file part.
func newMultipartRequest(t *testing.T, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/scan", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// decodeJSON unmarshals a recorder body into v.
func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// mockWebSocketConn records messages written to it.
type mockWebSocketConn struct {
	sentMessages []sentMessage
}

type sentMessage struct {
	messageType int
	data        []byte
}

func (m *mockWebSocketConn) WriteMessage(messageType int, data []byte) error {
	m.sentMessages = append(m.sentMessages, sentMessage{messageType: messageType, data: data})
	return nil
}

// responses decodes every recorded message.
func (m *mockWebSocketConn) responses(t *testing.T) []WebSocketScanResponse {
	t.Helper()

	out := make([]WebSocketScanResponse, 0, len(m.sentMessages))
	for _, msg := range m.sentMessages {
		var resp WebSocketScanResponse
		require.NoError(t, json.Unmarshal(msg.data, &resp))
		out = append(out, resp)
	}
	return out
}
