package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/auditsynth/internal/domain/activity"
	"github.com/rpggio/auditsynth/internal/domain/run"
)

// RunService defines run operations needed by MCP.
type RunService interface {
	Generate(ctx context.Context, req run.GenerateRequest) (*run.Run, error)
	Get(ctx context.Context, id string) (*run.Run, error)
	List(ctx context.Context, opts run.ListOptions) ([]run.Run, error)
	Records(ctx context.Context, id string, opts run.ListRecordsOptions) ([]run.RecordRow, error)
	Generators() []string
}

// CatalogInfo defines the catalog reads needed by MCP.
type CatalogInfo interface {
	Kinds() []activity.Kind
	UserPools() []string
	Users(pool string) ([]string, error)
}

// Config contains server configuration.
type Config struct {
	Runs          RunService
	Catalog       CatalogInfo
	AuthToken     string
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
	Version       string
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "auditsynth",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is local only; HTTP checks a bearer token when one is configured.
	if cfg.TransportMode != "stdio" && cfg.AuthToken != "" {
		server.AddReceivingMiddleware(authMiddleware(cfg.AuthToken))
	}
	server.AddReceivingMiddleware(sessionMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, &tools{runs: cfg.Runs, catalog: cfg.Catalog})

	return server
}
