package functional_test

import (
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// newStdioSession spawns the built binary in stdio mode.
func newStdioSession(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()

	binaryPath := "./bin/auditsynth"
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		binaryPath = "../../bin/auditsynth"
		if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
			t.Skip("binary not found. Run 'go build -o bin/auditsynth ./cmd/auditsynth' first.")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	cmd := exec.CommandContext(ctx, binaryPath)
	cmd.Env = append(os.Environ(),
		"AUDITSYNTH_TRANSPORT_MODE=stdio",
		"AUDITSYNTH_DB_PATH=:memory:",
		"AUDITSYNTH_OUT_DIR="+t.TempDir(),
	)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, &sdkmcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		cancel()
		t.Fatalf("Failed to connect: %v", err)
	}

	t.Cleanup(func() {
		session.Close()
		cancel()
	})

	return session
}

func TestStdioFunctional_ServerInfoAndTools(t *testing.T) {
	session := newStdioSession(t)

	initResult := session.InitializeResult()
	require.NotNil(t, initResult)
	require.Equal(t, "auditsynth", initResult.ServerInfo.Name)

	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, tools.Tools, 5)
}

func TestStdioFunctional_GenerateAndList(t *testing.T) {
	session := newStdioSession(t)

	text := callText(t, session, "generate_dataset", map[string]any{"generator": "mixed", "sequences": 3, "seed": 9})
	require.Contains(t, text, `"seed":9`)

	list := callText(t, session, "list_runs", map[string]any{})
	require.Contains(t, list, `"generator":"mixed"`)
}
