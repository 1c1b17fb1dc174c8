package store

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// LocationRecord is one sensing sample from a weekly activity table.
type LocationRecord struct {
	Time        string  `json:"time"`
	Location    *string `json:"location"`
	LocationDes *string `json:"location_des"`
	Activity    *string `json:"activity"`
}

// StatusRecord is one sample of a single behavioral signal.
type StatusRecord struct {
	Time      string   `json:"time"`
	Value     *float64 `json:"value"`
	Week      *int     `json:"week"`
	DayOffset *int     `json:"day_offset"`
}

var weekFilePattern = regexp.MustCompile(`^data_per_week(\d+)\.csv$`)

// Column candidates in priority order. Week tables and status tables
// prefer different names, so each keeps its own list.
var (
	weekTimeColumns   = []string{"times", "timestamp", "time", "resp_time"}
	statusTimeColumns = []string{"resp_time", "times", "time"}
)

// statusValueColumns maps a status kind to its value column.
var statusValueColumns = map[string]string{
	"sleep":  "hour",
	"social": "number",
	"stress": "level",
}

func ValidStatusKind(kind string) bool {
	_, ok := statusValueColumns[kind]
	return ok
}

// ListWeeks derives the distinct ascending week numbers from the user's
// weekly activity filenames. Files with an unparseable suffix are skipped.
func (s *Store) ListWeeks(userID string) ([]int, error) {
	entries, err := os.ReadDir(s.userDir(userID))
	if err != nil {
		return nil, notFoundf("unknown user_id: %s", userID)
	}
	seen := map[int]bool{}
	weeks := []int{}
	for _, e := range entries {
		m := weekFilePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || seen[n] {
			continue
		}
		seen[n] = true
		weeks = append(weeks, n)
	}
	sort.Ints(weeks)
	return weeks, nil
}

// timeTable is a Table whose time column has been resolved and parsed.
// times is parallel to table.Rows.
type timeTable struct {
	table   *Table
	timeCol string
	times   []time.Time
}

func newTimeTable(t *Table, name string, candidates []string) (*timeTable, error) {
	col, ok := t.pickColumn(candidates...)
	if !ok {
		return nil, schemaf("no recognizable time column in %s", name)
	}
	tt := &timeTable{table: t, timeCol: col}
	for _, row := range t.Rows {
		ts, err := parseTimestamp(row[col])
		if err != nil {
			// one bad timestamp invalidates the whole file
			return nil, schemaf("%s: %v", name, err)
		}
		tt.times = append(tt.times, ts)
	}
	return tt, nil
}

func (s *Store) weekTable(userID string, week int) (*timeTable, error) {
	name := fmt.Sprintf("data_per_week%d.csv", week)
	path := filepath.Join(s.userDir(userID), name)
	if _, err := os.Stat(path); err != nil {
		return nil, notFoundf("%s not found for %s", name, userID)
	}
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	return newTimeTable(t, name, weekTimeColumns)
}

// ListDays returns the distinct calendar dates present in that week's
// activity table, sorted ascending.
func (s *Store) ListDays(userID string, week int) ([]string, error) {
	tt, err := s.weekTable(userID, week)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	days := []string{}
	for _, ts := range tt.times {
		d := ts.Format("2006-01-02")
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Strings(days)
	return days, nil
}

func parseDay(day string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", day)
	if err != nil {
		return time.Time{}, invalidf("invalid day format; use YYYY-MM-DD")
	}
	return d, nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// Locations returns the week's activity records, optionally filtered to
// one calendar day. Columns the file lacks come back as nulls; the
// activity label lives in " activity inference" (leading space) in most
// exports and "activity inference" in the rest.
func (s *Store) Locations(userID string, week int, day string) ([]LocationRecord, error) {
	tt, err := s.weekTable(userID, week)
	if err != nil {
		return nil, err
	}
	var dayFilter *time.Time
	if day != "" {
		d, err := parseDay(day)
		if err != nil {
			return nil, err
		}
		dayFilter = &d
	}
	records := []LocationRecord{}
	for i, row := range tt.table.Rows {
		ts := tt.times[i]
		if dayFilter != nil && !sameDay(ts, *dayFilter) {
			continue
		}
		records = append(records, LocationRecord{
			Time:        ts.Format(isoLayout),
			Location:    cellString(tt.table.cell(row, "location")),
			LocationDes: cellString(tt.table.cell(row, "location_des")),
			Activity:    cellString(tt.table.cell(row, " activity inference", "activity inference")),
		})
	}
	return records, nil
}

// Status returns the user's samples for one status kind, optionally
// filtered by week and/or calendar day. The week filter only applies
// when the file actually has a week column. A missing value stays in
// the output as an explicit null.
func (s *Store) Status(userID, kind string, week *int, day string) ([]StatusRecord, error) {
	valueCol, ok := statusValueColumns[kind]
	if !ok {
		return nil, invalidf("kind must be one of sleep|social|stress")
	}
	name := fmt.Sprintf("%s_week_.csv", kind)
	path := filepath.Join(s.userDir(userID), name)
	if _, err := os.Stat(path); err != nil {
		return nil, notFoundf("%s not found for %s", name, userID)
	}
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	tt, err := newTimeTable(t, name, statusTimeColumns)
	if err != nil {
		return nil, err
	}

	var dayFilter *time.Time
	if day != "" {
		d, err := parseDay(day)
		if err != nil {
			return nil, err
		}
		dayFilter = &d
	}

	hasWeek := t.hasColumn("week")
	hasOffset := t.hasColumn("day_offset")
	records := []StatusRecord{}
	for i, row := range t.Rows {
		ts := tt.times[i]
		if week != nil && hasWeek {
			w := cellInt(row["week"])
			if w == nil || *w != *week {
				continue
			}
		}
		if dayFilter != nil && !sameDay(ts, *dayFilter) {
			continue
		}
		rec := StatusRecord{
			Time:  ts.Format(isoLayout),
			Value: cellFloat(t.cell(row, valueCol)),
		}
		if hasWeek {
			rec.Week = cellInt(row["week"])
		}
		if hasOffset {
			rec.DayOffset = cellInt(row["day_offset"])
		}
		records = append(records, rec)
	}
	return records, nil
}
