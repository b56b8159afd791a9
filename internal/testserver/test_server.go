package testserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/auditsynth/internal/domain/activity"
	"github.com/rpggio/auditsynth/internal/domain/dataset"
	"github.com/rpggio/auditsynth/internal/domain/run"
	"github.com/rpggio/auditsynth/internal/export"
	"github.com/rpggio/auditsynth/internal/mcp"
	"github.com/rpggio/auditsynth/internal/sqlite"
	"github.com/stretchr/testify/require"
)

// TestServer is an HTTP MCP endpoint over a fresh store and output directory.
type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	Runs   *run.Service
	OutDir string
	Token  string
}

// New starts a server that requires token as a bearer token.
func New(t *testing.T, token string) *TestServer {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	outDir := t.TempDir()
	cat := activity.Default()
	runs := run.NewService(dataset.NewRegistry(cat), export.FileSink{Dir: outDir}, sqlite.NewRunRepository(db), nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Runs:          runs,
		Catalog:       cat,
		AuthToken:     token,
		TransportMode: "http",
	})
	handler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		nil,
	)
	mux := http.NewServeMux()
	mux.Handle("/mcp", handler)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server: server,
		DB:     db,
		Runs:   runs,
		OutDir: outDir,
		Token:  token,
	}
}

// Endpoint is the MCP URL.
func (ts *TestServer) Endpoint() string {
	return ts.Server.URL + "/mcp"
}

// HTTPClient returns a client that sends token as a bearer token.
func (ts *TestServer) HTTPClient(token string) *http.Client {
	return &http.Client{Transport: bearerTransport{token: token, base: http.DefaultTransport}}
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}
	return b.base.RoundTrip(req)
}
