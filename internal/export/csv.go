// Package export writes datasets as CSV audit logs.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rpggio/auditsynth/internal/domain/dataset"
	"github.com/rpggio/auditsynth/internal/domain/record"
)

// ErrWriteFailed indicates an output could not be written.
var ErrWriteFailed = errors.New("write failed")

// Header is the column row of every exported file.
var Header = []string{"Date", "Time", "User", "Activity Description", "Reason for change", "Anomaly"}

// Row renders one record in column order.
func Row(rec record.LogRecord) []string {
	flag := "0"
	if rec.Anomaly {
		flag = "1"
	}
	return []string{rec.Date(), rec.Time(), rec.User, rec.Activity, rec.Reason, flag}
}

// Write emits the header then one row per record.
func Write(w io.Writer, ds dataset.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, rec := range ds.Records {
		if err := cw.Write(Row(rec)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileSink writes each run's datasets into its own directory under Dir.
type FileSink struct {
	Dir string
}

// Path returns where a run's output name is written.
func (s FileSink) Path(runID, name string) string {
	return filepath.Join(s.Dir, runID, name)
}

// Save writes ds to the run's output name, creating directories as needed.
// It returns the written path.
func (s FileSink) Save(runID, name string, ds dataset.Dataset) (path string, err error) {
	path = s.Path(runID, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return path, fmt.Errorf("%w: %s: %v", ErrWriteFailed, path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return path, fmt.Errorf("%w: %s: %v", ErrWriteFailed, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %s: %v", ErrWriteFailed, path, cerr)
		}
	}()
	if err := Write(f, ds); err != nil {
		return path, fmt.Errorf("%w: %s: %v", ErrWriteFailed, path, err)
	}
	return path, nil
}
