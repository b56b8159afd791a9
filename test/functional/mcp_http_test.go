package functional_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/auditsynth/internal/domain/run"
	"github.com/rpggio/auditsynth/internal/export"
	"github.com/rpggio/auditsynth/internal/testserver"
	"github.com/stretchr/testify/require"
)

func connectHTTP(t *testing.T, ts *testserver.TestServer, token string) (*sdkmcp.ClientSession, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Endpoint(),
		HTTPClient: ts.HTTPClient(token),
	}, nil)
	if err == nil {
		t.Cleanup(func() { session.Close() })
	}
	return session, err
}

func callText(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "CallTool %s failed", name)
	require.False(t, result.IsError, "Tool %s returned error", name)
	for _, content := range result.Content {
		if text, ok := content.(*sdkmcp.TextContent); ok {
			return text.Text
		}
	}
	t.Fatalf("Tool %s returned no text content", name)
	return ""
}

func TestHTTPFunctional_GenerateWritesCSVAndStoresRows(t *testing.T) {
	ts := testserver.New(t, "secret")
	session, err := connectHTTP(t, ts, "secret")
	require.NoError(t, err)

	text := callText(t, session, "generate_dataset", map[string]any{
		"generator": "augmented",
		"sequences": 2,
		"variants":  1,
		"seed":      3,
	})
	var r run.Run
	require.NoError(t, json.Unmarshal([]byte(text), &r))
	require.Equal(t, run.StatusCompleted, r.Status)
	require.Len(t, r.Outputs, 2)

	require.Equal(t, filepath.Join(ts.OutDir, r.ID, "anomalous_sequence_1.csv"), r.Outputs[1].Path)
	f, err := os.Open(r.Outputs[1].Path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Equal(t, export.Header, rows[0])
	require.Len(t, rows, r.Outputs[1].Rows+1)

	stored, err := ts.Runs.Records(context.Background(), r.ID, run.ListRecordsOptions{Output: "anomalous_sequence_1.csv"})
	require.NoError(t, err)
	require.Len(t, stored, len(rows)-1)
	for i, row := range stored {
		require.Equal(t, rows[i+1], export.Row(row.Record))
	}
}

func TestHTTPFunctional_RejectsBadToken(t *testing.T) {
	ts := testserver.New(t, "secret")
	session, err := connectHTTP(t, ts, "wrong")
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "list_runs",
		Arguments: map[string]any{},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unauthorized")
}
