package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `auditsynth generates synthetic audit logs for a pharmaceutical tablet-coating line.

Each log is a sequence of operator activities for one batch: login, preparation, equipment checks and calibration, batch start, process adjustments, batch end and logout. Some sequences are anomalous, and every anomalous row carries Anomaly=1.

Workflow:
1) list_activity_kinds to see activity kinds, parameter envelopes, user pools and generator names.
2) generate_dataset with a generator (enhanced, augmented or mixed). Pass seed to reproduce a run.
3) list_runs / get_run to find earlier runs; get_run_records to page through stored rows (anomalies_only narrows to flagged rows).

Docs:
- auditsynth://docs/index (generators and outputs)
- auditsynth://docs/anomalies (what each anomaly looks like)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "auditsynth://docs/index",
		Name:        "docs_index",
		Title:       "auditsynth docs index",
		Description: "Generators, their options and the files they write.",
		Content: `# auditsynth: Docs Index

## Generators

- ` + "`enhanced`" + `: one clean session per day (default 1500) starting 2024-08-27 08:00. Users come from an 11-operator pool. Activity phrasing varies per row. Writes ` + "`enhanced_audit_logs.csv`" + `.
- ` + "`augmented`" + `: a fixed 13-step reference procedure run for N batches (default 6) two hours apart with 5-minute steps, written to ` + "`correct_sequence.csv`" + `. V variants (default 5) each spread A mutations (default 3) over the whole file and write ` + "`anomalous_sequence_<i>.csv`" + `.
- ` + "`mixed`" + `: N sessions (default 50), each anomalous with probability P (default 0.3). Writes ` + "`audit_logs_with_anomalies.csv`" + `.

## Columns

` + "`Date,Time,User,Activity Description,Reason for change,Anomaly`" + `. Date is YYYY-MM-DD, Time is HH:MM:SS and Anomaly is 0 or 1. Reason for change is always "Not Available".

## Reproducibility

Every run records its seed. Calling generate_dataset again with the same generator, options and seed yields identical rows.
`,
	},
	{
		URI:         "auditsynth://docs/anomalies",
		Name:        "docs_anomalies",
		Title:       "Anomaly catalog",
		Description: "Mutations and variant shapes and how they are flagged.",
		Content: `# Anomalies

Only rows an anomaly introduces or changes carry Anomaly=1. Untouched rows keep 0. Timestamps never decrease within a sequence.

## Mutations (augmented)

- ` + "`swap_steps`" + `: two adjacent steps after login trade places. Both are flagged.
- ` + "`modify_parameter`" + `: the target value of an adjustment jumps outside its normal envelope (inlet temperature 160-180°C, spray rate 20-25 mL/min, drum speed 25-30 RPM). Steps without a parameter are still flagged.
- ` + "`insert_unexpected_action`" + `: an illicit action appears, such as an unauthorized recipe modification, a bypassed safety interlock or disabled temperature monitoring.
- ` + "`skip_step`" + `: a step disappears and the step that moves into its place is flagged.

After mutations, each touched batch is rebuilt at 5-minute spacing from its first row.

## Variants (mixed)

- ` + "`alarm_sequence`" + `: an alarm is resolved, then acknowledged, before the batch starts.
- ` + "`batch_deletion`" + `: the session stops after the first adjustment and a different user deletes the batch.
- ` + "`solution_change`" + `: two coating solution changes follow batch start.
- ` + "`logout_sequence`" + `: the operator logs out before the batch ends.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
