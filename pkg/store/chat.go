// Package store persists chat exchanges in PostgreSQL.
package store

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xhad/versewise/internal/models"
)

const DefaultHistoryLimit = 50

type StoreConfig struct {
	ConnString string
	TableName  string
}

type ChatStore struct {
	config StoreConfig
	table  string
	pool   *pgxpool.Pool
}

func NewWithConfig(ctx context.Context, config StoreConfig) (*ChatStore, error) {
	if config.TableName == "" {
		config.TableName = "chat_messages"
	}

	pool, err := pgxpool.New(ctx, config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	cs := &ChatStore{
		config: config,
		table:  pgx.Identifier{config.TableName}.Sanitize(),
		pool:   pool,
	}

	if err := cs.initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return cs, nil
}

func (cs *ChatStore) initialize(ctx context.Context) error {
	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			message TEXT NOT NULL,
			response TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, cs.table)

	if _, err := cs.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s
		ON %s (user_id, created_at DESC)`,
		pgx.Identifier{cs.config.TableName + "_user_idx"}.Sanitize(), cs.table)

	if _, err := cs.pool.Exec(ctx, createIndex); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

// Save inserts msg, replacing the response of an existing row with the same id.
func (cs *ChatStore) Save(ctx context.Context, msg models.ChatMessage) error {
	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, message, response, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			response = EXCLUDED.response`,
		cs.table)

	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := cs.pool.Exec(ctx, stmt,
		msg.ID,
		msg.UserID,
		sanitizeUTF8(msg.Message),
		sanitizeUTF8(msg.Response),
		ts,
	)
	if err != nil {
		return fmt.Errorf("failed to save chat message: %w", err)
	}
	return nil
}

// History returns up to limit messages of userID, newest first.
func (cs *ChatStore) History(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, message, response, created_at
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		cs.table)

	rows, err := cs.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}
	defer rows.Close()

	messages := []models.ChatMessage{}
	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Message, &msg.Response, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		msg.Timestamp = msg.Timestamp.UTC()
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chat history: %w", err)
	}

	return messages, nil
}

func (cs *ChatStore) Close() {
	if cs.pool != nil {
		cs.pool.Close()
	}
}

// sanitizeUTF8 drops invalid bytes, which postgres rejects in TEXT columns.
func sanitizeUTF8(s string) string {
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for i, r := range s {
			if r == utf8.RuneError {
				_, size := utf8.DecodeRuneInString(s[i:])
				if size == 1 {
					continue
				}
			}
			v = append(v, r)
		}
		return string(v)
	}
	return s
}
