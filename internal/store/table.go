package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Table is one parsed CSV file: a header plus rows addressed by column
// name. Cells stay strings until a caller asks for a type, because the
// per-user files disagree about which columns exist and what they hold.
type Table struct {
	Columns []string
	Rows    []Row
}

type Row map[string]string

func readTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, schemaf("parse %s: %v", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}
	t := &Table{Columns: records[0]}
	for _, rec := range records[1:] {
		row := Row{}
		for i, col := range t.Columns {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// pickColumn returns the first candidate present in the header.
// Candidate order is the caller's priority order; every read path in
// this package goes through it.
func (t *Table) pickColumn(candidates ...string) (string, bool) {
	for _, cand := range candidates {
		if t.hasColumn(cand) {
			return cand, true
		}
	}
	return "", false
}

func (t *Table) hasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// cell returns the value of the first present column among names, or ""
// when none of them exist in this table.
func (t *Table) cell(row Row, names ...string) string {
	for _, n := range names {
		if t.hasColumn(n) {
			return row[n]
		}
	}
	return ""
}

// The sensing exports mix timestamp formats; all are naive local time
// and are compared without timezone conversion.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339,
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// isoLayout matches the upstream isoformat() output the frontend expects.
const isoLayout = "2006-01-02T15:04:05"

// cellFloat turns a cell into a number, or nil for empty/NaN/garbage.
// Missing values must surface as JSON null, never as zero.
func cellFloat(v string) *float64 {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "nan") {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

// cellInt truncates like the upstream int() coercion; week columns show
// up as "3" or "3.0" depending on the export.
func cellInt(v string) *int {
	f := cellFloat(v)
	if f == nil {
		return nil
	}
	i := int(*f)
	return &i
}

func cellString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "nan") {
		return nil
	}
	return &v
}
