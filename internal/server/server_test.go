package server

import (
	"context"
	"encoding/json"
	"image/color"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ironsheep/vision-tools/internal/config"
	"github.com/ironsheep/vision-tools/internal/raster"
)

func TestNew(t *testing.T) {
	s := newTestServer(t, &fakeRecognizer{})
	if s.cache == nil {
		t.Fatal("New() did not initialize cache")
	}
	if s.cfg == nil {
		t.Fatal("New() did not apply the default config")
	}
	if s.openDetector == nil {
		t.Fatal("New() did not set a cascade opener")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Jobs = 0
	if _, err := New(Options{Config: cfg, Recognizer: &fakeRecognizer{}}); err == nil {
		t.Error("expected error for invalid config")
	}
}

// connect runs s over in-memory transports and returns a client session.
func connect(t *testing.T, s *Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := s.MCPServer().Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect failed: %v", err)
	}
	t.Cleanup(func() { ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect failed: %v", err)
	}
	t.Cleanup(func() { cs.Close() })
	return cs
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("got %d content items, want 1", len(res.Content))
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content type %T, want *mcp.TextContent", res.Content[0])
	}
	return text.Text
}

func TestMCP_ListTools(t *testing.T) {
	cs := connect(t, newTestServer(t, &fakeRecognizer{}))

	res, err := cs.ListTools(context.Background(), &mcp.ListToolsParams{})
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}

	want := map[string]bool{}
	for _, tool := range ToolDefinitions() {
		want[tool.Name] = true
	}
	if len(res.Tools) != len(want) {
		t.Errorf("got %d tools, want %d", len(res.Tools), len(want))
	}
	for _, tool := range res.Tools {
		if !want[tool.Name] {
			t.Errorf("unexpected tool %q", tool.Name)
		}
	}
}

func TestMCP_CallImageInfo(t *testing.T) {
	cs := connect(t, newTestServer(t, &fakeRecognizer{}))
	path := createTestImageFile(t, 64, 48, color.RGBA{0, 128, 0, 255})

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "image_info",
		Arguments: map[string]any{"path": path},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool reported error: %s", resultText(t, res))
	}

	var info raster.Info
	if err := json.Unmarshal([]byte(resultText(t, res)), &info); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if info.Width != 64 || info.Height != 48 {
		t.Errorf("got %dx%d, want 64x48", info.Width, info.Height)
	}
}

func TestMCP_CallToolError(t *testing.T) {
	cs := connect(t, newTestServer(t, &fakeRecognizer{}))

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "image_scale",
		Arguments: map[string]any{"path": "/nonexistent.png", "factor": 2},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected IsError for missing file")
	}
	if text := resultText(t, res); !strings.Contains(text, "not found") {
		t.Errorf("error text %q should mention the missing image", text)
	}
}
