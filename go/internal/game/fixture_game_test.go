package game_test

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mcdev12/nflreplay/go/clients/nfl_api_client"
	"github.com/mcdev12/nflreplay/go/internal/game"
	"github.com/mcdev12/nflreplay/go/internal/models"
)

func loadFixture(t *testing.T) *models.GameSummary {
	t.Helper()
	data, err := os.ReadFile("../assets/summaries/401547417.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var summary models.GameSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	nfl_api_client.SanitizeSummary(&summary)
	return &summary
}

func TestBuildScoreboard_RecordedGame(t *testing.T) {
	summary := loadFixture(t)
	sb := game.BuildScoreboard(summary.Drives.Previous, summary.Teams)

	if diff := cmp.Diff([4]int{7, 7, 0, 0}, sb.Quarters.Home); diff != "" {
		t.Errorf("home quarters (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([4]int{0, 7, 0, 0}, sb.Quarters.Away); diff != "" {
		t.Errorf("away quarters (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2}, sb.Quarters.QuartersStarted); diff != "" {
		t.Errorf("quarters started (-want +got):\n%s", diff)
	}

	// totals agree with the feed's final score
	if sb.Home.Total != int(summary.Teams[0].Score) || sb.Away.Total != int(summary.Teams[1].Score) {
		t.Errorf("totals %d-%d, feed says %d-%d", sb.Home.Total, sb.Away.Total, summary.Teams[0].Score, summary.Teams[1].Score)
	}

	want := models.TimeoutInfo{HomeRemaining: 2, AwayRemaining: 2, TotalAvailable: 3, Phase: models.PhaseFirstHalf}
	if diff := cmp.Diff(want, sb.Timeouts); diff != "" {
		t.Errorf("timeouts (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(game.Displays{Q1: "7", Q2: "7", Q3: "", Q4: ""}, sb.Home.Quarters); diff != "" {
		t.Errorf("home display (-want +got):\n%s", diff)
	}
}
