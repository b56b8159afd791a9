package mcp

import (
	"github.com/rpggio/auditsynth/internal/domain/activity"
	"github.com/rpggio/auditsynth/internal/domain/run"
	"github.com/rpggio/auditsynth/internal/export"
)

type GenerateDatasetParams struct {
	Generator          string   `json:"generator" jsonschema:"generator name: enhanced, augmented or mixed"`
	Sequences          int      `json:"sequences,omitempty" jsonschema:"number of sequences or correct batches"`
	Variants           *int     `json:"variants,omitempty" jsonschema:"anomalous variant files (augmented only), omit for the default, 0 for none"`
	Anomalies          *int     `json:"anomalies,omitempty" jsonschema:"mutations per variant file (augmented only), omit for the default"`
	AnomalyProbability *float64 `json:"anomaly_probability,omitempty" jsonschema:"chance a sequence is anomalous (mixed only), omit for the default"`
	Seed               uint64   `json:"seed,omitempty" jsonschema:"random seed, omit for a fresh one"`
	Start              string   `json:"start,omitempty" jsonschema:"first session start as RFC 3339"`
}

type ListRunsParams struct {
	Generator string `json:"generator,omitempty" jsonschema:"only runs of this generator"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of runs"`
	Offset    int    `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

type GetRunParams struct {
	ID string `json:"id" jsonschema:"run ID"`
}

type GetRunRecordsParams struct {
	ID            string `json:"id" jsonschema:"run ID"`
	Output        string `json:"output,omitempty" jsonschema:"only rows of this output file"`
	AnomaliesOnly bool   `json:"anomalies_only,omitempty" jsonschema:"only rows flagged anomalous"`
	Limit         int    `json:"limit,omitempty" jsonschema:"maximum number of rows (default 100)"`
	Offset        int    `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

type ListActivityKindsParams struct{}

type RunListResponse struct {
	Runs []run.Run `json:"runs"`
}

// RecordResponse is one stored row in export column form.
type RecordResponse struct {
	Output   string `json:"output"`
	Row      int    `json:"row"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	User     string `json:"user"`
	Activity string `json:"activity"`
	Reason   string `json:"reason"`
	Anomaly  string `json:"anomaly"`
	Cause    string `json:"cause,omitempty"`
}

type RecordListResponse struct {
	RunID   string           `json:"run_id"`
	Records []RecordResponse `json:"records"`
}

type ActivityKindResponse struct {
	ID        activity.KindID     `json:"id"`
	Family    activity.Family     `json:"family,omitempty"`
	Canonical string              `json:"canonical"`
	Templates int                 `json:"templates"`
	Dwell     activity.Range      `json:"dwell"`
	Param     *activity.ParamSpec `json:"param,omitempty"`
}

type ActivityKindsResponse struct {
	Kinds      []ActivityKindResponse `json:"kinds"`
	UserPools  map[string][]string    `json:"user_pools"`
	Generators []string               `json:"generators"`
}

func toRecordResponses(rows []run.RecordRow) []RecordResponse {
	resp := make([]RecordResponse, 0, len(rows))
	for _, row := range rows {
		cols := export.Row(row.Record)
		resp = append(resp, RecordResponse{
			Output:   row.Output,
			Row:      row.Row,
			Date:     cols[0],
			Time:     cols[1],
			User:     cols[2],
			Activity: cols[3],
			Reason:   cols[4],
			Anomaly:  cols[5],
			Cause:    row.Record.Cause,
		})
	}
	return resp
}
