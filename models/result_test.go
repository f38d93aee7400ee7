package models

import "testing"

func TestScoreBand(t *testing.T) {
	tests := []struct {
		score, total int
		want         Band
		label        string
	}{
		{8, 10, BandGreen, "pass"},
		{7, 10, BandGreen, "pass"},
		{5, 10, BandAmber, "average"},
		{3, 10, BandAmber, "average"},
		{2, 10, BandRed, "fail"},
		{14, 20, BandGreen, "pass"},
		{1, 5, BandRed, "fail"},
		{4, 0, BandAmber, "average"},
	}

	for _, tt := range tests {
		got := ScoreBand(tt.score, tt.total)
		if got != tt.want || got.Label() != tt.label {
			t.Errorf("ScoreBand(%d, %d) = %s/%s, want %s/%s", tt.score, tt.total, got, got.Label(), tt.want, tt.label)
		}
	}
}

func TestRankResults(t *testing.T) {
	rows := []ResultRow{
		{Student: "late", Score: 9, Total: 10, Percentage: 90, SubmittedAt: "2024-05-01T12:00:00Z"},
		{Student: "low", Score: 2, Total: 10, Percentage: 20, SubmittedAt: "2024-05-01T09:00:00Z"},
		{Student: "early", Score: 9, Total: 10, Percentage: 90, SubmittedAt: "2024-05-01T10:00:00Z"},
		{Username: "mid", Score: 6, Total: 10, Percentage: 60, SubmittedAt: "2024-05-01T08:00:00Z"},
	}

	ranked := RankResults(rows)

	wantOrder := []string{"early", "late", "mid", "low"}
	wantBadge := []string{"gold", "silver", "bronze", ""}
	for i, r := range ranked {
		if r.Name() != wantOrder[i] || r.Rank != i+1 || r.Badge != wantBadge[i] {
			t.Errorf("position %d: got %s rank %d badge %q", i, r.Name(), r.Rank, r.Badge)
		}
	}
	if ranked[3].Band != BandRed || ranked[0].Band != BandGreen {
		t.Errorf("unexpected bands %s, %s", ranked[0].Band, ranked[3].Band)
	}
	if rows[0].Student != "late" {
		t.Errorf("input rows must not be reordered")
	}
}
