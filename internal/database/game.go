// internal/database/game.go
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/harideal/harideal/internal/models"
)

// RecordGameAndResults persists the final outcome of a game: the game row is
// marked completed and each seat gets a result row with its win flag and
// completed-set count. Per-user win/played tallies are bumped in the same
// transaction.
func RecordGameAndResults(ctx context.Context, gameID uuid.UUID, players []*models.Player, completedSets map[uuid.UUID]int, winnerID uuid.UUID) error {
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		upsertGame := `
			INSERT INTO games (id, status)
			VALUES ($1, 'completed')
			ON CONFLICT (id) DO UPDATE SET status = 'completed'
		`
		if _, e := tx.Exec(ctx, upsertGame, gameID); e != nil {
			return e
		}

		for _, pl := range players {
			didWin := pl.ID == winnerID
			q := `
				INSERT INTO game_results (game_id, player_id, completed_sets, did_win)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (game_id, player_id)
				DO UPDATE SET completed_sets=$3, did_win=$4
			`
			if _, e := tx.Exec(ctx, q, gameID, pl.ID, completedSets[pl.ID], didWin); e != nil {
				return e
			}

			tallyQ := `
				UPDATE users
				SET games_played = games_played + 1,
				    games_won = games_won + CASE WHEN $2 THEN 1 ELSE 0 END
				WHERE id = $1
			`
			if _, e := tx.Exec(ctx, tallyQ, pl.ID, didWin); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx upsert game or results: %w", err)
	}
	return nil
}

// StoreFinalGameStateInDB updates the games.final_game_state column with a
// JSON snapshot of the table at game end.
func StoreFinalGameStateInDB(ctx context.Context, gameID uuid.UUID, finalSnapshot interface{}) error {
	jsonData, err := json.Marshal(finalSnapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal final snapshot: %w", err)
	}
	query := `
		UPDATE games
		SET final_game_state = $1
		WHERE id = $2
	`
	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, e := tx.Exec(ctx, query, jsonData, gameID)
		return e
	})
	if err != nil {
		return fmt.Errorf("storing final game state in DB: %w", err)
	}
	return nil
}

// UpsertInitialGameState stores the shuffled deck order and dealt hands into
// games.initial_game_state so a replay can reconstruct the start of a game.
func UpsertInitialGameState(gameID uuid.UUID, initialData interface{}) {
	ctx := context.Background()
	dataBytes, err := json.Marshal(initialData)
	if err != nil {
		log.Printf("failed to marshal initial game state for game %v: %v", gameID, err)
		return
	}
	_ = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			INSERT INTO games (id, status, initial_game_state, start_time)
			VALUES ($1, 'in_progress', $2, NOW())
			ON CONFLICT (id)
			DO UPDATE SET initial_game_state = EXCLUDED.initial_game_state, status='in_progress'
		`
		_, e := tx.Exec(ctx, q, gameID, dataBytes)
		return e
	})
}
