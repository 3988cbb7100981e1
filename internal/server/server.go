package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ironsheep/vision-tools/internal/cascade"
	"github.com/ironsheep/vision-tools/internal/config"
	"github.com/ironsheep/vision-tools/internal/ocr"
	"github.com/ironsheep/vision-tools/internal/pipeline"
	"github.com/ironsheep/vision-tools/internal/raster"
)

const serverName = "vision-tools"

// Detector is a cascade detector the server opens per call.
type Detector interface {
	pipeline.Detector
	Close() error
}

// OpenDetectorFunc opens the cascade at path.
type OpenDetectorFunc func(path string, opts cascade.Options) (Detector, error)

// Options configures a Server.
type Options struct {
	Config  *config.Config
	Logger  *slog.Logger
	Version string

	// Recognizer overrides the Tesseract engine built from Config.OCR.
	Recognizer pipeline.Recognizer

	// OpenDetector overrides cascade.Open.
	OpenDetector OpenDetectorFunc
}

// Server handles MCP tool calls.
type Server struct {
	cache   *raster.Cache
	cfg     *config.Config
	logger  *slog.Logger
	version string

	recognizer   pipeline.Recognizer
	ocrErr       error
	closeOCR     func() error
	openDetector OpenDetectorFunc
}

// New creates a server. When no Recognizer is given it starts Tesseract; if
// that fails the OCR tools report the error and every other tool keeps
// working.
func New(opts Options) (*Server, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		cache:        raster.NewCache(),
		cfg:          cfg,
		logger:       logger,
		version:      opts.Version,
		recognizer:   opts.Recognizer,
		closeOCR:     func() error { return nil },
		openDetector: opts.OpenDetector,
	}

	if s.recognizer == nil {
		tess, err := ocr.NewTesseract(cfg.OCR)
		if err != nil {
			logger.Warn("OCR unavailable", "error", err)
			s.ocrErr = err
		} else {
			s.recognizer = tess
			s.closeOCR = tess.Close
		}
	}

	if s.openDetector == nil {
		s.openDetector = func(path string, o cascade.Options) (Detector, error) {
			d, err := cascade.Open(path, o)
			if err != nil {
				return nil, err
			}
			return d, nil
		}
	}

	return s, nil
}

// Close releases the OCR engine.
func (s *Server) Close() error {
	return s.closeOCR()
}

// MCPServer builds an SDK server with every tool registered.
func (s *Server) MCPServer() *mcp.Server {
	version := s.version
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, &mcp.ServerOptions{
		KeepAlive: time.Second * 30,
	})

	for _, tool := range ToolDefinitions() {
		name := tool.Name
		server.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return s.handleToolsCall(ctx, name, req), nil
		})
	}
	return server
}

// Run serves MCP over stdin and stdout until ctx is done or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("MCP server starting", "name", serverName, "version", s.version)
	if err := s.MCPServer().Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// handleToolsCall executes a tool and wraps its outcome as MCP content.
//
// Successful results are marshaled to indented JSON text. Failures become a
// result with IsError set so the client sees the message.
func (s *Server) handleToolsCall(ctx context.Context, name string, req *mcp.CallToolRequest) *mcp.CallToolResult {
	var args json.RawMessage
	if req != nil && req.Params != nil {
		data, err := json.Marshal(req.Params.Arguments)
		if err != nil {
			return errorResult(fmt.Errorf("invalid arguments: %w", err))
		}
		args = data
	}

	start := time.Now()
	result, err := s.executeTool(ctx, name, args)
	if err != nil {
		s.logger.Debug("tool failed", "tool", name, "error", err, "elapsed", time.Since(start))
		return errorResult(err)
	}
	s.logger.Debug("tool complete", "tool", name, "elapsed", time.Since(start))

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: mustMarshalJSON(result)},
		},
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: err.Error()},
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
