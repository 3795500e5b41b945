package support

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MeKo-Tech/docscan/internal/archive"
	"github.com/MeKo-Tech/docscan/internal/config"
	"github.com/MeKo-Tech/docscan/internal/server"
	"github.com/cucumber/godog"
)

const requestTimeout = 10 * time.Second

// theServerIsRunning starts the extraction API on an httptest server.
func (testCtx *TestContext) theServerIsRunning() error {
	return testCtx.startServer("")
}

// theServerIsRunningWithArchive starts the API with a json or sqlite archive
// inside the scenario's temp directory.
func (testCtx *TestContext) theServerIsRunningWithArchive(driver string) error {
	return testCtx.startServer(driver)
}

func (testCtx *TestContext) startServer(driver string) error {
	if err := testCtx.StopServer(); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	srvCfg := server.Config{
		Host:           "127.0.0.1",
		MaxUploadMB:    int64(cfg.Server.MaxUploadMB),
		TimeoutSec:     cfg.Server.TimeoutSec,
		MaxBatchItems:  cfg.Server.MaxBatchItems,
		PipelineConfig: cfg.ToPipelineConfig(),
	}

	if driver != "" {
		dsn := filepath.Join(testCtx.TempDir, "scans")
		if driver == config.ArchiveSQLite {
			dsn = filepath.Join(testCtx.TempDir, "scans.db")
		}
		store, err := archive.Open(context.Background(), driver, dsn, nil)
		if err != nil {
			return fmt.Errorf("failed to open %s archive: %w", driver, err)
		}
		srvCfg.Archive = store
	}

	srv, err := server.NewServer(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	mux := http.NewServeMux()
	srv.SetupRoutes(mux)
	testCtx.ScanServer = srv
	testCtx.HTTPServer = httptest.NewServer(mux)
	return nil
}

func (testCtx *TestContext) serverURL(path string) (string, error) {
	if testCtx.HTTPServer == nil {
		return "", fmt.Errorf("server is not running")
	}
	return testCtx.HTTPServer.URL + path, nil
}

func (testCtx *TestContext) do(req *http.Request) error {
	client := &http.Client{Timeout: requestTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	testCtx.LastHTTPStatusCode = resp.StatusCode
	testCtx.LastHTTPResponse = string(body)
	testCtx.LastHTTPHeaders = make(map[string]string, len(resp.Header))
	for name := range resp.Header {
		testCtx.LastHTTPHeaders[http.CanonicalHeaderKey(name)] = resp.Header.Get(name)
	}
	return nil
}

func (testCtx *TestContext) iGET(path string) error {
	url, err := testCtx.serverURL(path)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return testCtx.do(req)
}

func (testCtx *TestContext) iPOSTJSON(path string, body *godog.DocString) error {
	url, err := testCtx.serverURL(path)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body.Content))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return testCtx.do(req)
}

// iPOSTSampleAs sends a fixture as a JSON text scan request.
func (testCtx *TestContext) iPOSTSampleAs(sample, path, docType string) error {
	text, err := sampleText(sample)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(server.ScanRequest{Text: text, DocumentType: docType})
	if err != nil {
		return err
	}
	return testCtx.iPOSTJSON(path, &godog.DocString{Content: string(payload)})
}

// iUploadAs posts a file from the temp directory as a multipart form.
func (testCtx *TestContext) iUploadAs(filename, path, docType string) error {
	url, err := testCtx.serverURL(path)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(testCtx.Path(filename))
	if err != nil {
		return fmt.Errorf("failed to read upload %s: %w", filename, err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return err
	}
	if _, err := part.Write(content); err != nil {
		return err
	}
	if err := mw.WriteField("document_type", docType); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return testCtx.do(req)
}

func (testCtx *TestContext) theResponseStatusShouldBe(expected int) error {
	if testCtx.LastHTTPStatusCode != expected {
		return fmt.Errorf("expected status %d, got %d\nBody: %s",
			expected, testCtx.LastHTTPStatusCode, testCtx.LastHTTPResponse)
	}
	return nil
}

func (testCtx *TestContext) theResponseShouldContain(expected string) error {
	if !strings.Contains(testCtx.LastHTTPResponse, expected) {
		return fmt.Errorf("response does not contain '%s'\nBody: %s", expected, testCtx.LastHTTPResponse)
	}
	return nil
}

func (testCtx *TestContext) theResponseHeaderShouldBeSet(name string) error {
	if testCtx.LastHTTPHeaders[http.CanonicalHeaderKey(name)] == "" {
		return fmt.Errorf("response header %s is not set", name)
	}
	return nil
}

func (testCtx *TestContext) theResponseJSONFieldShouldBe(path, expected string) error {
	return jsonFieldEquals(testCtx.LastHTTPResponse, path, expected)
}

// iGETTheArchivedScan fetches the scan named by the last X-Scan-ID header.
func (testCtx *TestContext) iGETTheArchivedScan() error {
	id := testCtx.LastHTTPHeaders["X-Scan-Id"]
	if id == "" {
		return fmt.Errorf("last response carried no X-Scan-ID header")
	}
	return testCtx.iGET("/scans/" + id)
}

// RegisterServerSteps registers the HTTP API steps.
func (testCtx *TestContext) RegisterServerSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the docscan server is running$`, testCtx.theServerIsRunning)
	sc.Step(`^the docscan server is running with a (json|sqlite) archive$`, testCtx.theServerIsRunningWithArchive)

	sc.Step(`^I GET "([^"]*)"$`, testCtx.iGET)
	sc.Step(`^I POST JSON to "([^"]*)":$`, testCtx.iPOSTJSON)
	sc.Step(`^I POST the ([a-z_]+) sample to "([^"]*)" as "([^"]*)"$`, testCtx.iPOSTSampleAs)
	sc.Step(`^I upload "([^"]*)" to "([^"]*)" as "([^"]*)"$`, testCtx.iUploadAs)
	sc.Step(`^I GET the archived scan$`, testCtx.iGETTheArchivedScan)

	sc.Step(`^the response status should be (\d+)$`, testCtx.theResponseStatusShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, testCtx.theResponseShouldContain)
	sc.Step(`^the response header "([^"]*)" should be set$`, testCtx.theResponseHeaderShouldBeSet)
	sc.Step(`^the response JSON field "([^"]*)" should be "([^"]*)"$`, testCtx.theResponseJSONFieldShouldBe)
}
