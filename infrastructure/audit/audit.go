package audit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/uptrace/bun"

	"larder/infrastructure/sqlite"
	"larder/models"
)

// Notification levels shown as toasts and stored with each entry.
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelInfo    = "info"
)

// Counter receives one tick per recorded notification.
type Counter interface {
	Notified(action, level string)
}

// Entry is one user-visible outcome of an inventory action.
type Entry struct {
	SessionID string
	Action    string
	ItemID    int64
	Level     string
	Message   string
}

// Service records action outcomes in the activity_logs table.
type Service struct {
	db      *sqlite.DB
	counter Counter
}

func NewService(db *sqlite.DB, counter Counter) *Service {
	return &Service{db: db, counter: counter}
}

// Record writes e and never fails the caller: the outcome has already
// happened, so a logging failure is only reported to slog.
func (s *Service) Record(ctx context.Context, e Entry) {
	if s == nil {
		return
	}
	if s.counter != nil {
		s.counter.Notified(e.Action, e.Level)
	}
	if s.db == nil {
		return
	}
	err := s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return s.Write(ctx, tx, e)
	})
	if err != nil {
		slog.Error("activity log write failed", "action", e.Action, "session", e.SessionID, "error", err)
	}
}

// Write inserts e inside the caller transaction.
func (s *Service) Write(ctx context.Context, tx bun.Tx, e Entry) error {
	level := strings.ToLower(strings.TrimSpace(e.Level))
	switch level {
	case LevelSuccess, LevelError, LevelInfo:
	default:
		return fmt.Errorf("unknown activity level %q", e.Level)
	}
	log := &models.ActivityLog{
		SessionID: e.SessionID,
		Action:    e.Action,
		Level:     level,
		Message:   e.Message,
	}
	if e.ItemID > 0 {
		id := e.ItemID
		log.ItemID = &id
	}
	_, err := tx.NewInsert().Model(log).Exec(ctx)
	return err
}

// Recent returns the latest entries for a page session, newest first.
func (s *Service) Recent(ctx context.Context, sessionID string, limit int) ([]models.ActivityLog, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	logs := make([]models.ActivityLog, 0, limit)
	err := s.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().
			Model(&logs).
			Where("session_id = ?", sessionID).
			OrderExpr("created_at DESC, id DESC").
			Limit(limit).
			Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("load activity: %w", err)
	}
	return logs, nil
}
