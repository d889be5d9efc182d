// cmd/historian/main.go is an asynchronous worker that drains game action
// records from the Redis queue and persists them to PostgreSQL in batches.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/harideal/harideal/internal/cache"
	"github.com/harideal/harideal/internal/database"
)

// Historian drains the action queue, batches inserts, and marks games
// abandoned after a period with no recorded actions.
type Historian struct {
	redisClient *redis.Client
	queueName   string
	batchSize   int
	flushDelay  time.Duration
	inactivity  time.Duration

	// lastActivity maps game id to the time of its most recent action.
	lastActivity sync.Map

	batchMu  sync.Mutex
	batch    []cache.GameActionRecord
	ctx      context.Context
	cancelFn context.CancelFunc
}

// NewHistorian builds a Historian from environment variables or defaults.
func NewHistorian() *Historian {
	batchSize := getEnvInt("HISTORIAN_BATCH_SIZE", 20)
	flushMs := getEnvInt("HISTORIAN_FLUSH_MS", 500)
	inactivitySec := getEnvInt("GAME_INACTIVITY_TIMEOUT_SEC", 600)

	rdb := redis.NewClient(&redis.Options{
		Addr: getEnv("REDIS_ADDR", "localhost:6379"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	return &Historian{
		redisClient: rdb,
		queueName:   getEnv("HISTORIAN_QUEUE_NAME", cache.DefaultQueueName),
		batchSize:   batchSize,
		flushDelay:  time.Duration(flushMs) * time.Millisecond,
		inactivity:  time.Duration(inactivitySec) * time.Second,
		batch:       make([]cache.GameActionRecord, 0, batchSize),
		ctx:         ctx,
		cancelFn:    cancel,
	}
}

// Run connects to the database and starts the drain and inactivity loops,
// blocking until Stop is called.
func (h *Historian) Run() {
	database.ConnectDB()

	go h.readQueueLoop()
	go h.inactivityLoop()

	log.Info("harideal-historian started.")
	<-h.ctx.Done()
	h.flushBatch()
	log.Info("harideal-historian shutting down.")
}

// Stop cancels the historian's loops.
func (h *Historian) Stop() {
	h.cancelFn()
}

// readQueueLoop pops records off the Redis queue and accumulates them into
// the batch, flushing on a timer so quiet periods still get persisted.
func (h *Historian) readQueueLoop() {
	ticker := time.NewTicker(h.flushDelay)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case <-ticker.C:
			h.flushBatch()

		default:
			// BLPop with a short timeout keeps shutdown responsive.
			res, err := h.redisClient.BLPop(h.ctx, 3*time.Second, h.queueName).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && h.ctx.Err() == nil {
					log.Errorf("BLPop: %v", err)
				}
				continue
			}
			if len(res) < 2 {
				continue
			}

			var record cache.GameActionRecord
			if err := json.Unmarshal([]byte(res[1]), &record); err != nil {
				log.Warnf("invalid action record: %v", err)
				continue
			}

			h.lastActivity.Store(record.GameID, time.Now())
			h.append(record)
		}
	}
}

func (h *Historian) append(record cache.GameActionRecord) {
	h.batchMu.Lock()
	defer h.batchMu.Unlock()

	h.batch = append(h.batch, record)
	if len(h.batch) >= h.batchSize {
		h.flushLocked()
	}
}

func (h *Historian) flushBatch() {
	h.batchMu.Lock()
	defer h.batchMu.Unlock()
	h.flushLocked()
}

// flushLocked writes the pending batch in one transaction. Assumes batchMu
// is held.
func (h *Historian) flushLocked() {
	if len(h.batch) == 0 {
		return
	}
	pending := make([]cache.GameActionRecord, len(h.batch))
	copy(pending, h.batch)
	h.batch = h.batch[:0]

	ctx := context.Background()
	err := pgx.BeginTxFunc(ctx, database.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range pending {
			if err := insertGameActionTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("insertGameActionTx: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Errorf("flushing action batch: %v", err)
		return
	}
	log.Debugf("Flushed %d actions to DB.", len(pending))
}

// inactivityLoop marks games abandoned when no action has arrived within the
// configured window. Disconnected rooms never send an explicit end.
func (h *Historian) inactivityLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case <-ticker.C:
			now := time.Now()
			h.lastActivity.Range(func(key, val interface{}) bool {
				gameID, ok1 := key.(uuid.UUID)
				last, ok2 := val.(time.Time)
				if ok1 && ok2 && now.Sub(last) > h.inactivity {
					h.markGameAbandoned(gameID)
					h.lastActivity.Delete(gameID)
				}
				return true
			})
		}
	}
}

func (h *Historian) markGameAbandoned(gameID uuid.UUID) {
	ctx := context.Background()
	err := pgx.BeginTxFunc(ctx, database.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			UPDATE games
			SET status = 'abandoned', end_time = NOW()
			WHERE id = $1 AND status = 'in_progress'
		`
		_, e := tx.Exec(ctx, q, gameID)
		return e
	})
	if err != nil {
		log.Errorf("failed to mark game %v abandoned: %v", gameID, err)
		return
	}
	log.Infof("Marked game %v as 'abandoned' due to inactivity.", gameID)
}

// insertGameActionTx inserts one action row, upserting the game row first so
// actions can arrive before the server persists the initial state. A
// game_end action finalizes the game.
func insertGameActionTx(ctx context.Context, tx pgx.Tx, rec cache.GameActionRecord) error {
	upsertGameQ := `
		INSERT INTO games (id, status, start_time)
		VALUES ($1, 'in_progress', NOW())
		ON CONFLICT (id)
		DO UPDATE SET status = games.status
	`
	if _, err := tx.Exec(ctx, upsertGameQ, rec.GameID); err != nil {
		return err
	}

	actionInsertQ := `
		INSERT INTO game_actions (
			game_id, action_index, actor_user_id, action_type, action_payload
		) VALUES ($1, $2, $3, $4, $5)
	`
	jsonPayload, err := json.Marshal(rec.ActionPayload)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, actionInsertQ,
		rec.GameID, rec.ActionIndex, rec.ActorUserID, rec.ActionType, jsonPayload,
	); err != nil {
		return err
	}

	if rec.ActionType == "game_end" {
		finalizeQ := `
			UPDATE games
			SET status = 'completed', end_time = NOW()
			WHERE id = $1 AND status = 'in_progress'
		`
		if _, err := tx.Exec(ctx, finalizeQ, rec.GameID); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	h := NewHistorian()
	go h.Run()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	h.Stop()
	log.Info("Historian shutdown complete.")
}

func getEnv(key, defVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defVal
}

func getEnvInt(key string, defVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defVal
	}
	return i
}
