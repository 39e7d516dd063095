package model

import (
	"slices"
	"time"
)

// EntryKind separates technologies from trends. It doubles as the like
// reference type for radar entries.
type EntryKind string

const (
	KindTechnology EntryKind = "technology"
	KindTrend      EntryKind = "trend"
)

func ParseEntryKind(raw string) (EntryKind, bool) {
	switch EntryKind(raw) {
	case KindTechnology:
		return KindTechnology, true
	case KindTrend:
		return KindTrend, true
	default:
		return "", false
	}
}

type RadarEntry struct {
	ID                 int64      `json:"id"`
	Kind               EntryKind  `json:"kind"`
	GeneratedID        string     `json:"generatedId"`
	Name               string     `json:"name"`
	Abstract           string     `json:"abstract"`
	Stage              string     `json:"stage"`
	DefinitionAndScope string     `json:"definitionAndScope"`
	RelevanceAndImpact string     `json:"relevanceAndImpact"`
	Segment            string     `json:"segment"`
	Maturity           string     `json:"maturity"`
	RecommendedAction  string     `json:"recommendedAction"`
	ContentSource      string     `json:"contentSource"`
	LastReviewDate     *time.Time `json:"lastReviewDate,omitempty"`
	ImageURL           string     `json:"imageUrl"`
	Ring               int        `json:"ring"`
	Quadrant           int        `json:"quadrant"`
	Link               string     `json:"link"`
	Active             bool       `json:"active"`
	Moved              int        `json:"moved"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

type EntryQuery struct {
	Kind   EntryKind
	Search string
	Page   int
	Limit  int
}

type EntryList struct {
	Entries []RadarEntry `json:"entries"`
}

type EntryCount struct {
	Count int `json:"count"`
}

type RadarConfigEntry struct {
	Quadrant int    `json:"quadrant"`
	Ring     int    `json:"ring"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	Active   bool   `json:"active"`
	Moved    *int   `json:"moved,omitempty"`
	Link     string `json:"link,omitempty"`
}

type RadarConfig struct {
	Date    string             `json:"date"`
	Entries []RadarConfigEntry `json:"entries"`
}

// Stages an entry can be moved through by an admin.
var ValidStages = []string{"In Place", "Proofing", "Planned", "Possible"}

func IsValidStage(stage string) bool {
	return slices.Contains(ValidStages, stage)
}
