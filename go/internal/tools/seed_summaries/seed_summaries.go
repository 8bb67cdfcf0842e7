package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/nflreplay/go/clients/nfl_api_client"
	"github.com/mcdev12/nflreplay/go/internal/dbconfig"
	"github.com/mcdev12/nflreplay/go/internal/models"
	"github.com/mcdev12/nflreplay/go/internal/summaries"
)

const defaultGlob = "go/internal/assets/summaries/*.json"

// seedRow is one sanitized summary ready for game_summaries
type seedRow struct {
	GameID    string
	Payload   []byte
	PlayTypes []byte
}

// loadSummary reads a raw feed summary and sanitizes it the way the API client does
func loadSummary(path string) (*seedRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read JSON: %w", err)
	}

	var summary models.GameSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	if summary.ID == 0 {
		return nil, fmt.Errorf("summary has no game id")
	}

	playTypes := nfl_api_client.SanitizeSummary(&summary)

	payload, err := json.Marshal(&summary)
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}
	types, err := json.Marshal(playTypes)
	if err != nil {
		return nil, fmt.Errorf("marshal play types: %w", err)
	}

	return &seedRow{
		GameID:    strconv.Itoa(int(summary.ID)),
		Payload:   payload,
		PlayTypes: types,
	}, nil
}

func main() {
	ctx := context.Background()

	// 1) Find the JSON snapshots
	paths := os.Args[1:]
	if len(paths) == 0 {
		matches, err := filepath.Glob(defaultGlob)
		if err != nil {
			fmt.Fprintf(os.Stderr, "glob %s: %v\n", defaultGlob, err)
			os.Exit(1)
		}
		paths = matches
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "no summary files to seed")
		os.Exit(1)
	}

	// 2) Connect using shared dbconfig
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, summaries.Schema); err != nil {
		fmt.Fprintf(os.Stderr, "create game_summaries: %v\n", err)
		os.Exit(1)
	}

	// 3) Upsert and count
	var (
		total    = len(paths)
		inserted int
		updated  int
		errs     int
	)

	for _, path := range paths {
		row, err := loadSummary(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading %s: %v\n", path, err)
			errs++
			continue
		}

		var wasInsert bool
		err = pool.QueryRow(ctx, `
            INSERT INTO game_summaries (game_id, payload, play_types, fetched_at)
            VALUES ($1, $2, $3, now())
            ON CONFLICT (game_id) DO UPDATE
            SET payload = EXCLUDED.payload, play_types = EXCLUDED.play_types, fetched_at = now()
            RETURNING (xmax = 0)
        `, row.GameID, row.Payload, row.PlayTypes).Scan(&wasInsert)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error upserting game %s: %v\n", row.GameID, err)
			errs++
			continue
		}
		if wasInsert {
			inserted++
		} else {
			updated++
		}
	}

	// 4) Print summary
	fmt.Printf(
		"Summaries seed complete: %d total, %d inserted, %d updated, %d errors\n",
		total, inserted, updated, errs,
	)
}
