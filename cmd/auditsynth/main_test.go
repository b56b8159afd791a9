package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpggio/auditsynth/internal/config"
	"github.com/stretchr/testify/require"
)

func TestApplyFlags(t *testing.T) {
	cfg := config.Default()
	err := applyFlags(&cfg, []string{
		"-generator", "augmented",
		"-sequences", "3",
		"-variants", "2",
		"-anomalies", "1",
		"-seed", "77",
		"-out", "data",
		"-mode", "stdio",
	}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, "augmented", cfg.Generate.Generator)
	require.Equal(t, 3, cfg.Generate.Sequences)
	require.Equal(t, 2, *cfg.Generate.Variants)
	require.Equal(t, 1, *cfg.Generate.Anomalies)
	require.Nil(t, cfg.Generate.AnomalyProbability)
	require.Equal(t, uint64(77), cfg.Generate.Seed)
	require.Equal(t, "data", cfg.Generate.OutDir)
	require.Equal(t, "stdio", cfg.Transport.Mode)
}

func TestApplyFlags_Invalid(t *testing.T) {
	cfg := config.Default()
	require.Error(t, applyFlags(&cfg, []string{"-anomaly-probability", "2"}, &bytes.Buffer{}))

	cfg = config.Default()
	require.Error(t, applyFlags(&cfg, []string{"-mode", "grpc"}, &bytes.Buffer{}))
}

func TestCLI_GeneratesFiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AUDITSYNTH_DB_PATH", filepath.Join(dir, "runs.db"))

	var stdout, stderr bytes.Buffer
	code := realMain([]string{
		"-generator", "augmented",
		"-sequences", "2",
		"-variants", "2",
		"-seed", "5",
		"-out", filepath.Join(dir, "out"),
	}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[0], "generator=augmented seed=5 status=completed")
	runID := strings.Fields(lines[0])[1]
	for _, name := range []string{"correct_sequence.csv", "anomalous_sequence_1.csv", "anomalous_sequence_2.csv"} {
		_, err := os.Stat(filepath.Join(dir, "out", runID, name))
		require.NoError(t, err, name)
	}
}

func TestApplyFlags_ExplicitZero(t *testing.T) {
	cfg := config.Default()
	err := applyFlags(&cfg, []string{"-anomaly-probability", "0", "-variants", "0"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.NotNil(t, cfg.Generate.AnomalyProbability)
	require.Zero(t, *cfg.Generate.AnomalyProbability)
	require.NotNil(t, cfg.Generate.Variants)
	require.Zero(t, *cfg.Generate.Variants)
	require.Nil(t, cfg.Generate.Anomalies)
}

func TestCLI_AllWritesFailed(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	t.Setenv("AUDITSYNTH_DB_PATH", "")

	var stdout, stderr bytes.Buffer
	code := realMain([]string{"-generator", "mixed", "-sequences", "2", "-out", blocker}, &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stdout.String(), "failed audit_logs_with_anomalies.csv")
}

func TestLogFileWriter_Truncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	w, f, err := newSizedLogFileWriter(path, 64, 16)
	require.NoError(t, err)
	defer f.Close()

	_, err = w.Write([]byte(strings.Repeat("a", 60)))
	require.NoError(t, err)
	_, err = w.Write([]byte("0123456789abcdef"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "0123456789abcdef", string(data))
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, "DEBUG", parseLogLevel("debug").String())
	require.Equal(t, "INFO", parseLogLevel("bogus").String())
}
