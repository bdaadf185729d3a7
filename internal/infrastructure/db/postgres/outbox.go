package postgres

import (
	"context"
	"database/sql"
	"math"
	"math/rand"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/dkomarev/afisha/internal/application/event"
)

type outboxRow struct {
	ID         int64
	MessageID  string
	RoutingKey string
	Body       []byte
	Attempts   int
}

// SKIP LOCKED lets several worker instances poll the same table.
const selectOutboxClaimsSQL = `
SELECT id, message_id, routing_key, body, attempts
FROM event_outbox
WHERE status = 'pending'
  AND (next_retry_at IS NULL OR next_retry_at <= NOW())
ORDER BY next_retry_at ASC, created_at ASC
LIMIT $1
FOR UPDATE SKIP LOCKED
`

const updateOutboxClaimSQL = `
UPDATE event_outbox
SET next_retry_at = $2,
    status = 'processing'
WHERE id = $1
`

const markOutboxSentSQL = `
UPDATE event_outbox
SET status = 'sent',
    sent_at = $2,
    last_error = NULL
WHERE id = $1
`

const markOutboxFailedSQL = `
UPDATE event_outbox
SET status = 'pending',
    attempts = attempts + 1,
    next_retry_at = $2,
    last_error = $3
WHERE id = $1
`

const markOutboxDeadSQL = `
UPDATE event_outbox
SET status = 'dead',
    attempts = attempts + 1,
    last_error = $2
WHERE id = $1
`

const outboxMaxAttempts = 10

// StartOutboxWorker polls pending outbox rows and publishes them. The flow
// is claim (short tx), publish (network), mark result (short writes), so the
// broker round-trip never holds a row lock.
func (s *EventStore) StartOutboxWorker(ctx context.Context, pub event.EventPublisher) {
	go func() {
		// Startup jitter so several instances do not poll in lockstep.
		time.Sleep(time.Duration(rand.Intn(1000)) * time.Millisecond)
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.processOutboxBatch(ctx, pub, 20); err != nil {
					zlog.Warn().Err(err).Msg("outbox batch failed")
				}
			}
		}
	}()
}

func (s *EventStore) processOutboxBatch(ctx context.Context, pub event.EventPublisher, limit int) error {
	if limit <= 0 {
		limit = 50
	}

	claimCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := s.db.BeginTx(claimCtx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(claimCtx, selectOutboxClaimsSQL, limit)
	if err != nil {
		return err
	}
	defer rows.Close()

	var batch []outboxRow
	for rows.Next() {
		var item outboxRow
		if err := rows.Scan(&item.ID, &item.MessageID, &item.RoutingKey, &item.Body, &item.Attempts); err != nil {
			return err
		}
		batch = append(batch, item)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if len(batch) == 0 {
		return tx.Commit()
	}

	// Push next_retry_at into the future as a reservation; a crashed worker
	// releases its claims after the window lapses.
	reservation := time.Now().UTC().Add(30 * time.Second)
	for _, item := range batch {
		if _, err := tx.ExecContext(claimCtx, updateOutboxClaimSQL, item.ID, reservation); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	for _, item := range batch {
		s.publishOutboxItem(ctx, pub, item)
	}
	return nil
}

func (s *EventStore) publishOutboxItem(ctx context.Context, pub event.EventPublisher, item outboxRow) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := pub.PublishEvent(pubCtx, item.RoutingKey, item.MessageID, item.Body)

	resCtx, cancelRes := context.WithTimeout(ctx, 3*time.Second)
	defer cancelRes()

	if err != nil {
		errMsg := err.Error()
		if item.Attempts >= outboxMaxAttempts {
			zlog.Error().Str("message_id", item.MessageID).Err(err).Msg("outbox message dead-lettered")
			_, _ = s.db.ExecContext(resCtx, markOutboxDeadSQL, item.ID, errMsg)
			return
		}
		backoff := time.Duration(math.Pow(2, float64(item.Attempts))) * time.Second
		backoff += time.Duration(rand.Intn(1000)) * time.Millisecond
		_, _ = s.db.ExecContext(resCtx, markOutboxFailedSQL, item.ID, time.Now().UTC().Add(backoff), errMsg)
		return
	}

	_, _ = s.db.ExecContext(resCtx, markOutboxSentSQL, item.ID, time.Now().UTC())
}
