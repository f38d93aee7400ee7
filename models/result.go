package models

import (
	"sort"
	"time"
)

type ResultRow struct {
	Student     string  `json:"student,omitempty"`
	Username    string  `json:"username,omitempty"`
	QuizTitle   string  `json:"quiz_title"`
	Score       int     `json:"score"`
	Total       int     `json:"total"`
	Percentage  float64 `json:"percentage"`
	SubmittedAt string  `json:"submitted_at"`
}

// Name returns whichever student identifier the backend sent.
func (r ResultRow) Name() string {
	if r.Student != "" {
		return r.Student
	}
	if r.Username != "" {
		return r.Username
	}
	return "Unknown"
}

// Band is the colour class of a score in the leaderboard.
type Band string

const (
	BandGreen Band = "green"
	BandAmber Band = "amber"
	BandRed   Band = "red"
)

// Label is the human word shown next to the colour.
func (b Band) Label() string {
	switch b {
	case BandGreen:
		return "pass"
	case BandAmber:
		return "average"
	default:
		return "fail"
	}
}

// ScoreBand classifies a score on a ten-point scale: >=7 green, 3..6 amber,
// below 3 red. Scores out of other totals are normalised first.
func ScoreBand(score, total int) Band {
	points := float64(score)
	if total > 0 {
		points = float64(score) * 10 / float64(total)
	}
	switch {
	case points >= 7:
		return BandGreen
	case points >= 3:
		return BandAmber
	default:
		return BandRed
	}
}

type RankedResult struct {
	ResultRow
	Rank  int
	Badge string
	Band  Band
}

var rankBadges = map[int]string{1: "gold", 2: "silver", 3: "bronze"}

// RankResults orders rows best first (percentage, then earliest submission)
// and attaches rank, top-three badge and score band.
func RankResults(rows []ResultRow) []RankedResult {
	sorted := make([]ResultRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := sorted[i].percent(), sorted[j].percent()
		if pi != pj {
			return pi > pj
		}
		return submittedBefore(sorted[i].SubmittedAt, sorted[j].SubmittedAt)
	})

	ranked := make([]RankedResult, 0, len(sorted))
	for i, row := range sorted {
		ranked = append(ranked, RankedResult{
			ResultRow: row,
			Rank:      i + 1,
			Badge:     rankBadges[i+1],
			Band:      ScoreBand(row.Score, row.Total),
		})
	}
	return ranked
}

func (r ResultRow) percent() float64 {
	if r.Percentage > 0 || r.Total == 0 {
		return r.Percentage
	}
	return float64(r.Score) * 100 / float64(r.Total)
}

var submittedLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", time.RFC1123}

func submittedBefore(a, b string) bool {
	ta, okA := parseSubmitted(a)
	tb, okB := parseSubmitted(b)
	if okA && okB {
		return ta.Before(tb)
	}
	return a < b
}

func parseSubmitted(s string) (time.Time, bool) {
	for _, layout := range submittedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
