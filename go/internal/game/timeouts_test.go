package game_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mcdev12/nflreplay/go/internal/game"
	"github.com/mcdev12/nflreplay/go/internal/models"
)

func TestCalculateTimeoutInfo(t *testing.T) {
	tests := []struct {
		name   string
		drives []models.Drive
		want   models.TimeoutInfo
	}{
		{
			name:   "no timeouts first half",
			drives: newestFirst(drive(play(1, 0, 0))),
			want:   models.TimeoutInfo{HomeRemaining: 3, AwayRemaining: 3, TotalAvailable: 3, Phase: models.PhaseFirstHalf},
		},
		{
			name:   "timeouts counted per team",
			drives: newestFirst(drive(timeout(1, "DEN"), timeout(2, "DEN"), timeout(2, "KC"))),
			want:   models.TimeoutInfo{HomeRemaining: 1, AwayRemaining: 2, TotalAvailable: 3, Phase: models.PhaseFirstHalf},
		},
		{
			name: "first half timeouts do not carry into second half",
			drives: newestFirst(
				drive(timeout(1, "DEN"), timeout(2, "DEN")),
				drive(play(3, 0, 0)),
			),
			want: models.TimeoutInfo{HomeRemaining: 3, AwayRemaining: 3, TotalAvailable: 3, Phase: models.PhaseSecondHalf},
		},
		{
			name: "overtime allotment is two",
			drives: newestFirst(
				drive(timeout(4, "KC")),
				drive(timeout(5, "KC")),
			),
			want: models.TimeoutInfo{HomeRemaining: 2, AwayRemaining: 1, TotalAvailable: 2, Phase: models.PhaseOvertime},
		},
		{
			name:   "remaining floors at zero",
			drives: newestFirst(drive(timeout(1, "DEN"), timeout(1, "DEN"), timeout(1, "DEN"), timeout(2, "DEN"), timeout(2, "DEN"))),
			want:   models.TimeoutInfo{HomeRemaining: 0, AwayRemaining: 3, TotalAvailable: 3, Phase: models.PhaseFirstHalf},
		},
		{
			name:   "abbreviation match ignores case",
			drives: newestFirst(drive(models.Play{Period: &models.Period{Number: 1}, Type: &models.PlayType{ID: models.PlayTypeTimeout}, Text: "Timeout #1 by den at 14:02."})),
			want:   models.TimeoutInfo{HomeRemaining: 2, AwayRemaining: 3, TotalAvailable: 3, Phase: models.PhaseFirstHalf},
		},
		{
			name: "official timeouts are not team timeouts",
			drives: newestFirst(drive(models.Play{
				Period: &models.Period{Number: 1},
				Type:   &models.PlayType{ID: models.PlayTypeOfficialTimeout},
				Text:   "Timeout #1 by DEN at 02:36.",
			})),
			want: models.TimeoutInfo{HomeRemaining: 3, AwayRemaining: 3, TotalAvailable: 3, Phase: models.PhaseFirstHalf},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := game.CalculateTimeoutInfo(tt.drives, teams("DEN", "KC"))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("CalculateTimeoutInfo mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCalculateTimeoutInfo_CountsUnfinishedDrives(t *testing.T) {
	live := drive(timeout(1, "KC"))
	live.Finished = false

	got := game.CalculateTimeoutInfo([]models.Drive{live}, teams("DEN", "KC"))

	if got.AwayRemaining != 2 {
		t.Errorf("AwayRemaining = %d, want 2", got.AwayRemaining)
	}
}

func TestCalculateTimeoutInfo_Defaults(t *testing.T) {
	want := models.TimeoutInfo{HomeRemaining: 3, AwayRemaining: 3, TotalAvailable: 3, Phase: models.PhaseFirstHalf}
	drives := newestFirst(drive(timeout(3, "DEN")))

	tests := []struct {
		name  string
		teams []models.TeamSummary
	}{
		{"no teams", nil},
		{"missing abbreviation", teams("", "KC")},
		{"no away team", []models.TeamSummary{{HomeAway: models.Home}, {HomeAway: "neutral"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(want, game.CalculateTimeoutInfo(drives, tt.teams)); diff != "" {
				t.Errorf("expected default (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTimeoutTeam(t *testing.T) {
	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"Timeout #1 by DEN at 02:36.", "DEN", true},
		{"Timeout #3 by sf at 00:12.", "SF", true},
		{"Timeout #2 by LV  at 10:00.", "LV", true},
		{"Two-Minute Warning", "", false},
		{"Timeout by Denver at 02:36.", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := game.TimeoutTeam(tt.text)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("TimeoutTeam(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
