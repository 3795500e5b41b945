package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/MeKo-Tech/docscan/internal/pipeline"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatText = "text"
)

// Server exposes the extraction pipeline as MCP tools over stdio.
type Server struct {
	pipeline  *pipeline.Pipeline
	mcpServer *server.MCPServer
	tools     []string
	logger    *slog.Logger
}

// NewServer creates a new MCP server instance.
func NewServer(pl *pipeline.Pipeline, name, version string, logger *slog.Logger) (*Server, error) {
	if pl == nil {
		return nil, errors.New("pipeline cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		pipeline:  pl,
		mcpServer: mcpServer,
		logger:    logger,
	}
	s.registerTools()

	return s, nil
}

// Tools returns the names of the registered tools.
func (s *Server) Tools() []string {
	out := make([]string, len(s.tools))
	copy(out, s.tools)
	return out
}

func (s *Server) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcpServer.AddTool(tool, handler)
	s.tools = append(s.tools, tool.Name)
}

func (s *Server) registerTools() {
	s.addTool(mcp.NewTool(
		"classify_document",
		mcp.WithDescription("Detect the Nepali identity document type of OCR text"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Raw OCR text of the document"),
		),
	), s.handleClassify)

	s.addTool(mcp.NewTool(
		"extract_document",
		mcp.WithDescription("Extract the identity fields from OCR text"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Raw OCR text of the document"),
		),
		mcp.WithString("document_type",
			mcp.Description("citizenship, passport, national_id, birth_certificate, driving_license, pan or auto (default)"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: json (default), yaml or text"),
		),
	), s.handleExtract)

	s.addTool(mcp.NewTool(
		"extract_file",
		mcp.WithDescription("Read a text, PDF or image file and extract the identity fields"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the document file"),
		),
		mcp.WithString("document_type",
			mcp.Description("Document type or auto (default)"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: json (default), yaml or text"),
		),
	), s.handleExtractFile)

	s.addTool(mcp.NewTool(
		"list_document_types",
		mcp.WithDescription("List the supported document types, their fields and classifier keywords"),
	), s.handleListDocumentTypes)
}

func (s *Server) handleClassify(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	m := s.pipeline.Classify(text)
	responseText := fmt.Sprintf("Document type: %s\n", m.Tag)
	if m.Keyword != "" {
		responseText += fmt.Sprintf("Matched keyword: %s\n", m.Keyword)
	} else {
		responseText += "No classifier keyword matched\n"
	}
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleExtract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := request.GetArguments()

	tag, ok := pipeline.ResolveType(stringArg(args, "document_type"))
	if !ok {
		return mcp.NewToolResultError("invalid document_type: " + stringArg(args, "document_type")), nil
	}

	res, err := s.pipeline.Process(text, tag)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res.Source = "mcp"
	return s.formatResult(res, stringArg(args, "format"))
}

func (s *Server) handleExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := request.GetArguments()

	tag, ok := pipeline.ResolveType(stringArg(args, "document_type"))
	if !ok {
		return mcp.NewToolResultError("invalid document_type: " + stringArg(args, "document_type")), nil
	}

	res, err := s.pipeline.ProcessFile(ctx, path, tag)
	if err != nil {
		s.logger.Debug("mcp file extraction failed", "path", path, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.formatResult(res, stringArg(args, "format"))
}

func (s *Server) handleListDocumentTypes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	types := s.pipeline.DocumentTypes()
	fmt.Fprintf(&b, "Document types: %d\n", len(types))
	for _, info := range types {
		fmt.Fprintf(&b, "\n%s", info.Type)
		if !info.Supported {
			b.WriteString(" (not supported)")
		}
		b.WriteString("\n")
		if len(info.Fields) > 0 {
			fmt.Fprintf(&b, "  Fields: %s\n", strings.Join(info.Fields, ", "))
		}
		if len(info.Keywords) > 0 {
			fmt.Fprintf(&b, "  Keywords: %s\n", strings.Join(info.Keywords, ", "))
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) formatResult(res *pipeline.ScanResult, format string) (*mcp.CallToolResult, error) {
	var (
		out string
		err error
	)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", formatJSON:
		out, err = pipeline.ToJSON(res)
	case formatYAML:
		out, err = pipeline.ToYAML(res)
	case formatText:
		out, err = pipeline.ToPlainText(res)
	default:
		return mcp.NewToolResultError("unsupported format: " + format), nil
	}
	if err != nil {
		return nil, fmt.Errorf("format result: %w", err)
	}
	return mcp.NewToolResultText(out), nil
}

func stringArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

// Run serves the tools on stdin/stdout until the client disconnects or ctx
// is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads JSON-RPC messages from in and writes responses to out. It
// returns nil when in is exhausted or ctx is cancelled.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("Starting MCP server on stdio", "tools", len(s.tools))

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))
	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	s.logger.Info("MCP server stopped")
	return nil
}
