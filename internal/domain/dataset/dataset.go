package dataset

import "github.com/rpggio/auditsynth/internal/domain/record"

// Dataset is a flat record set in generation order.
type Dataset struct {
	Records   []record.LogRecord `json:"records"`
	Sequences int                `json:"sequences"`
}

// Stats summarizes a dataset.
type Stats struct {
	Rows      int `json:"rows"`
	Anomalies int `json:"anomalies"`
	Sequences int `json:"sequences"`
}

// Output is a dataset destined for one named file.
type Output struct {
	Name    string  `json:"name"`
	Dataset Dataset `json:"-"`
}

// Assemble concatenates sequences in the order given. Rows are neither
// sorted by time nor deduplicated.
func Assemble(seqs ...record.Sequence) Dataset {
	n := 0
	for _, seq := range seqs {
		n += len(seq.Records)
	}
	ds := Dataset{Records: make([]record.LogRecord, 0, n), Sequences: len(seqs)}
	for _, seq := range seqs {
		ds.Records = append(ds.Records, seq.Records...)
	}
	return ds
}

// Stats counts rows and anomalous rows.
func (d Dataset) Stats() Stats {
	st := Stats{Rows: len(d.Records), Sequences: d.Sequences}
	for _, rec := range d.Records {
		if rec.Anomaly {
			st.Anomalies++
		}
	}
	return st
}
