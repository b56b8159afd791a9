package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/auditsynth/internal/domain/dataset"
	"github.com/rpggio/auditsynth/internal/domain/run"
)

const defaultRecordLimit = 100

type tools struct {
	runs    RunService
	catalog CatalogInfo
}

func registerTools(server *sdkmcp.Server, t *tools) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "generate_dataset",
		Description: "Generate synthetic audit logs with a named generator, write the CSV outputs and record the run",
	}, t.generateDataset)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_runs",
		Description: "List recorded generation runs, newest first",
	}, t.listRuns)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_run",
		Description: "Get a generation run with its outputs",
	}, t.getRun)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_run_records",
		Description: "Get stored audit log rows of a run, optionally one output or anomalous rows only",
	}, t.getRunRecords)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_activity_kinds",
		Description: "List activity kinds, user pools and generator names",
	}, t.listActivityKinds)
}

func (t *tools) generateDataset(ctx context.Context, _ *sdkmcp.CallToolRequest, in GenerateDatasetParams) (*sdkmcp.CallToolResult, any, error) {
	opts := dataset.Options{
		Sequences:          in.Sequences,
		Variants:           in.Variants,
		Anomalies:          in.Anomalies,
		AnomalyProbability: in.AnomalyProbability,
	}
	if in.Start != "" {
		start, err := time.Parse(time.RFC3339, in.Start)
		if err != nil {
			return toolError(fmt.Errorf("%w: start: %v", run.ErrInvalidInput, err))
		}
		opts.Start = start
	}

	r, err := t.runs.Generate(ctx, run.GenerateRequest{
		Generator: in.Generator,
		Seed:      in.Seed,
		Options:   opts,
	})
	if err != nil {
		return toolError(err)
	}
	return jsonResult(r)
}

func (t *tools) listRuns(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListRunsParams) (*sdkmcp.CallToolResult, any, error) {
	runs, err := t.runs.List(ctx, run.ListOptions{
		Generator: in.Generator,
		Limit:     in.Limit,
		Offset:    in.Offset,
	})
	if err != nil {
		return toolError(err)
	}
	if runs == nil {
		runs = []run.Run{}
	}
	return jsonResult(RunListResponse{Runs: runs})
}

func (t *tools) getRun(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetRunParams) (*sdkmcp.CallToolResult, any, error) {
	r, err := t.runs.Get(ctx, in.ID)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(r)
}

func (t *tools) getRunRecords(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetRunRecordsParams) (*sdkmcp.CallToolResult, any, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultRecordLimit
	}
	rows, err := t.runs.Records(ctx, in.ID, run.ListRecordsOptions{
		Output:        in.Output,
		AnomaliesOnly: in.AnomaliesOnly,
		Limit:         limit,
		Offset:        in.Offset,
	})
	if err != nil {
		return toolError(err)
	}
	return jsonResult(RecordListResponse{RunID: in.ID, Records: toRecordResponses(rows)})
}

func (t *tools) listActivityKinds(_ context.Context, _ *sdkmcp.CallToolRequest, _ ListActivityKindsParams) (*sdkmcp.CallToolResult, any, error) {
	resp := ActivityKindsResponse{
		UserPools:  map[string][]string{},
		Generators: t.runs.Generators(),
	}
	for _, kind := range t.catalog.Kinds() {
		resp.Kinds = append(resp.Kinds, ActivityKindResponse{
			ID:        kind.ID,
			Family:    kind.Family(),
			Canonical: kind.Canonical,
			Templates: len(kind.Templates),
			Dwell:     kind.Dwell,
			Param:     kind.Param,
		})
	}
	for _, pool := range t.catalog.UserPools() {
		users, err := t.catalog.Users(pool)
		if err != nil {
			return toolError(err)
		}
		resp.UserPools[pool] = users
	}
	return jsonResult(resp)
}

func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}

// toolError reports domain errors as structured tool errors. Other errors
// are returned to the SDK as is.
func toolError(err error) (*sdkmcp.CallToolResult, any, error) {
	apiErr := MapError(err)
	if apiErr == nil {
		return nil, nil, err
	}
	data, mErr := json.Marshal(apiErr)
	if mErr != nil {
		return nil, nil, err
	}
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
