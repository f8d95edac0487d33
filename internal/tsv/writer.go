// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package tsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/petenewcomb/instgen-go/instance"
)

// A Writer writes instance rows under [Header]. The header is written before
// the first row. Call Flush when done.
type Writer struct {
	cw          *csv.Writer
	wroteHeader bool
	record      []string
}

// NewWriter returns a Writer emitting tab-separated records to w.
func NewWriter(w io.Writer) *Writer {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return &Writer{
		cw:     cw,
		record: make([]string, len(Header)),
	}
}

// Write writes one row.
func (w *Writer) Write(row *instance.Row) error {
	if !w.wroteHeader {
		if err := w.cw.Write(Header); err != nil {
			return err
		}
		w.wroteHeader = true
	}
	w.record[0] = strconv.Itoa(row.ID)
	w.record[1] = strconv.Itoa(row.Replicas)
	switch d := row.Demand.(type) {
	case instance.FixedDemand:
		w.record[2] = strconv.Itoa(d.Core)
		w.record[3] = strconv.Itoa(d.Memory)
	case instance.SeriesDemand:
		w.record[2] = formatSeries(d.Core)
		w.record[3] = formatSeries(d.Memory)
	default:
		return fmt.Errorf("application %d: unsupported demand %T", row.ID, row.Demand)
	}
	w.record[4] = strconv.Itoa(row.Degree)
	w.record[5] = formatAffinities(row.Affinities)
	return w.cw.Write(w.record)
}

// WriteAll writes rows and flushes.
func (w *Writer) WriteAll(rows []instance.Row) error {
	for i := range rows {
		if err := w.Write(&rows[i]); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush writes buffered data to the underlying writer, writing the header
// if no row has been written.
func (w *Writer) Flush() error {
	if !w.wroteHeader {
		if err := w.cw.Write(Header); err != nil {
			return err
		}
		w.wroteHeader = true
	}
	w.cw.Flush()
	return w.cw.Error()
}

// WriteFile creates or truncates path and writes rows to it.
func WriteFile(path string, rows []instance.Row) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := NewWriter(f).WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
