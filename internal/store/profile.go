package store

import (
	"fmt"
	"path/filepath"
	"strings"
)

const personalityFile = "result_pre_bigfive.csv"

// Profile is derived per request; nothing about it is persisted.
type Profile struct {
	UserID          string             `json:"user_id"`
	BigFive         map[string]float64 `json:"big_five"`
	EnrolledClasses []EnrolledClass    `json:"enrolled_classes"`
	DisplayName     string             `json:"display_name"`
}

// traitColumns maps the canonical lowercase trait names to the
// capitalized column names the personality table uses.
var traitColumns = map[string]string{
	"openness":          "Openness",
	"conscientiousness": "Conscientiousness",
	"extraversion":      "Extraversion",
	"agreeableness":     "Agreeableness",
	"neuroticism":       "Neuroticism",
}

// Profile joins the user's row of the global personality table with the
// static enrollment list. Exactly one personality row must match on uid.
func (s *Store) Profile(userID string) (*Profile, error) {
	t, err := readTable(filepath.Join(s.Root, personalityFile))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", personalityFile, err)
	}
	if !t.hasColumn("uid") {
		return nil, schemaf("no uid column in %s", personalityFile)
	}
	var match Row
	for _, row := range t.Rows {
		if row["uid"] == userID {
			match = row
			break
		}
	}
	if match == nil {
		return nil, notFoundf("no personality data found for user %s", userID)
	}

	bigFive := map[string]float64{}
	for trait, col := range traitColumns {
		if !t.hasColumn(col) {
			return nil, schemaf("missing %s column in %s", col, personalityFile)
		}
		v := cellFloat(match[col])
		if v == nil {
			return nil, schemaf("non-numeric %s score for %s", col, userID)
		}
		bigFive[trait] = *v
	}

	return &Profile{
		UserID:          userID,
		BigFive:         bigFive,
		EnrolledClasses: EnrolledClasses(userID),
		DisplayName:     "Student " + strings.ToUpper(userID),
	}, nil
}
