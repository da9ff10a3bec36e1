package pg

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taoyao-code/locker-gateway/internal/events"
)

// DB FrameJournal 所需的最小接口（*pgxpool.Pool 满足）
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var _ events.Publisher = (*FrameJournal)(nil)

// FrameJournal 上行帧流水（door_frames 表）
type FrameJournal struct {
	db DB
}

func NewFrameJournal(db DB) *FrameJournal { return &FrameJournal{db: db} }

func (j *FrameJournal) Name() string { return "postgres" }

// JournalEntry 流水记录
type JournalEntry struct {
	ID         int64          `json:"id"`
	EventID    string         `json:"event_id"`
	EventType  string         `json:"event_type"`
	Cmd        string         `json:"cmd"`
	Raw        string         `json:"raw"`
	Data       map[string]any `json:"data"`
	ReceivedAt time.Time      `json:"received_at"`
}

// Publish 写入一条流水；event_id 重复时忽略
func (j *FrameJournal) Publish(ctx context.Context, ev *events.Event) error {
	raw, err := hex.DecodeString(ev.Raw)
	if err != nil {
		return fmt.Errorf("decode raw frame: %w", err)
	}
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}
	_, err = j.db.Exec(ctx, `INSERT INTO door_frames(event_id, event_type, cmd, raw, data, received_at)
        VALUES($1,$2,$3,$4,$5,$6)
        ON CONFLICT (event_id) DO NOTHING`,
		ev.ID, string(ev.Type), ev.Cmd, raw, data, time.UnixMilli(ev.Timestamp))
	if err != nil {
		return fmt.Errorf("insert door_frames: %w", err)
	}
	return nil
}

// Recent 最近的流水（新的在前）
func (j *FrameJournal) Recent(ctx context.Context, limit int) ([]JournalEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := j.db.Query(ctx, `SELECT id, event_id::text, event_type, cmd, raw, data, received_at
        FROM door_frames ORDER BY received_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []JournalEntry
	for rows.Next() {
		var e JournalEntry
		var raw, data []byte
		if err := rows.Scan(&e.ID, &e.EventID, &e.EventType, &e.Cmd, &raw, &data, &e.ReceivedAt); err != nil {
			return nil, err
		}
		e.Raw = fmt.Sprintf("%X", raw)
		if len(data) > 0 {
			_ = json.Unmarshal(data, &e.Data)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Prune 删除早于 before 的流水，返回删除条数
func (j *FrameJournal) Prune(ctx context.Context, before time.Time) (int64, error) {
	tag, err := j.db.Exec(ctx, `DELETE FROM door_frames WHERE received_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
