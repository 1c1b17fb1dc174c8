package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EmotionEntry is one weekly self-report from the emotion history log.
// Emotion and lab assessment pass through verbatim; their inner shape
// belongs to the study pipeline, not this API.
type EmotionEntry struct {
	Week          int             `json:"week"`
	Emotion       json.RawMessage `json:"emotion"`
	LabAssessment json.RawMessage `json:"lab_assessment"`
	WeeklyDesc    string          `json:"weekly_desc"`
}

// WeekSummary joins one emotion entry with that week's day list.
type WeekSummary struct {
	Week          int             `json:"week"`
	Days          []string        `json:"days"`
	Emotion       json.RawMessage `json:"emotion"`
	LabAssessment json.RawMessage `json:"lab_assessment"`
	WeeklyDesc    string          `json:"weekly_desc"`
}

// Emotions reads the user's emotion history log, one JSON object per
// non-blank line, in file order. The log is assumed chronological and
// is not re-sorted. A malformed line fails the whole read.
func (s *Store) Emotions(userID string) ([]EmotionEntry, error) {
	name := fmt.Sprintf("%s_emotion_status_history.jsonl", userID)
	f, err := os.Open(filepath.Join(s.Root, name))
	if err != nil {
		return nil, notFoundf("%s not found", name)
	}
	defer f.Close()

	entries := []EmotionEntry{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var e EmotionEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return nil, schemaf("%s line %d: %v", name, lineNo, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return entries, nil
}

// WeekSummary selects the first emotion entry for the week and attaches
// the week's calendar days.
func (s *Store) WeekSummary(userID string, week int) (*WeekSummary, error) {
	entries, err := s.Emotions(userID)
	if err != nil {
		return nil, err
	}
	var match *EmotionEntry
	for i := range entries {
		if entries[i].Week == week {
			match = &entries[i]
			break
		}
	}
	if match == nil {
		return nil, notFoundf("no emotion entry for week %d", week)
	}
	days, err := s.ListDays(userID, week)
	if err != nil {
		return nil, err
	}
	return &WeekSummary{
		Week:          week,
		Days:          days,
		Emotion:       match.Emotion,
		LabAssessment: match.LabAssessment,
		WeeklyDesc:    match.WeeklyDesc,
	}, nil
}
