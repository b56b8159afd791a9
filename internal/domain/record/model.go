package record

import (
	"strings"
	"time"

	"github.com/rpggio/auditsynth/internal/domain/activity"
)

const (
	// ReasonNotAvailable is the default reason-for-change text.
	ReasonNotAvailable = "Not Available"

	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// LogRecord is one row of an audit log.
type LogRecord struct {
	Timestamp time.Time       `json:"timestamp"`
	User      string          `json:"user"`
	Kind      activity.KindID `json:"kind"`
	Activity  string          `json:"activity"`
	Reason    string          `json:"reason"`
	Anomaly   bool            `json:"anomaly"`
	Cause     string          `json:"cause,omitempty"`
	Param     *Parameter      `json:"param,omitempty"`
}

// Date renders the calendar date as YYYY-MM-DD.
func (r LogRecord) Date() string {
	return r.Timestamp.Format(DateLayout)
}

// Time renders the time of day as HH:MM:SS.
func (r LogRecord) Time() string {
	return r.Timestamp.Format(TimeLayout)
}

// Resolved reports whether the activity text has no placeholders left.
func (r LogRecord) Resolved() bool {
	return !strings.Contains(r.Activity, activity.Placeholder)
}

// Flag marks the record anomalous and records what caused it.
func (r *LogRecord) Flag(cause string) {
	r.Anomaly = true
	r.Cause = cause
}

// Clone returns a deep copy.
func (r LogRecord) Clone() LogRecord {
	if r.Param != nil {
		p := *r.Param
		r.Param = &p
	}
	return r
}

// Parameter carries the structured values behind a rendered activity so
// they can be changed and re-rendered without parsing text.
type Parameter struct {
	Kind     activity.KindID `json:"kind"`
	Family   activity.Family `json:"family"`
	Template string          `json:"template"`
	From     float64         `json:"from,omitempty"`
	To       float64         `json:"to,omitempty"`
	Decimals int             `json:"decimals,omitempty"`
	Unit     string          `json:"unit,omitempty"`
	Label    string          `json:"label,omitempty"`
}

// IsRange reports whether the parameter is a from/to numeric pair.
func (p Parameter) IsRange() bool {
	return p.Family == activity.FamilyRange
}

// Render fills the template from the structured values.
func (p Parameter) Render() (string, error) {
	if p.IsRange() {
		return activity.Fill(p.Template,
			activity.FormatValue(p.From, p.Decimals),
			activity.FormatValue(p.To, p.Decimals))
	}
	return activity.Fill(p.Template, p.Label)
}

// Sequence is the ordered records of one user session working one batch.
type Sequence struct {
	User    string      `json:"user"`
	Batch   string      `json:"batch"`
	Records []LogRecord `json:"records"`
}

// Clone returns a deep copy.
func (s Sequence) Clone() Sequence {
	out := Sequence{User: s.User, Batch: s.Batch, Records: make([]LogRecord, len(s.Records))}
	for i, rec := range s.Records {
		out.Records[i] = rec.Clone()
	}
	return out
}

// Chronological reports whether timestamps never decrease.
func (s Sequence) Chronological() bool {
	for i := 1; i < len(s.Records); i++ {
		if s.Records[i].Timestamp.Before(s.Records[i-1].Timestamp) {
			return false
		}
	}
	return true
}

// Anomalies counts flagged records.
func (s Sequence) Anomalies() int {
	n := 0
	for _, rec := range s.Records {
		if rec.Anomaly {
			n++
		}
	}
	return n
}
