package gormrepo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"

	"github.com/taoyao-code/locker-gateway/internal/config"
	"github.com/taoyao-code/locker-gateway/internal/migrate"
	"github.com/taoyao-code/locker-gateway/internal/outbound"
	"github.com/taoyao-code/locker-gateway/internal/storage/pg"
)

func TestFromRecord(t *testing.T) {
	sent := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	t.Run("成功请求", func(t *testing.T) {
		row := FromRecord(outbound.Record{
			RequestID: "r1",
			Cmd:       0xA4,
			Request:   []byte{0x01},
			Response:  []byte{0x02},
			Result:    outbound.ResultOK,
			SentAt:    sent,
			Duration:  1500 * time.Millisecond,
		})
		assert.Equal(t, "r1", row.RequestID)
		assert.Equal(t, int16(0xA4), row.Cmd)
		assert.Equal(t, int64(1500), row.DurationMs)
		assert.Nil(t, row.Error)
		assert.Equal(t, sent, row.SentAt)
	})
	t.Run("失败请求带错误", func(t *testing.T) {
		row := FromRecord(outbound.Record{RequestID: "r2", Cmd: 0x28, Result: outbound.ResultTimeout, Error: "timeout"})
		require.NotNil(t, row.Error)
		assert.Equal(t, "timeout", *row.Error)
	})
}

func TestLogger_Levels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewLogger(zap.New(core), 10*time.Millisecond)
	ctx := context.Background()

	l.Info(ctx, "hidden %d", 1)
	assert.Equal(t, 0, logs.Len())

	l.Warn(ctx, "warn %d", 2)
	assert.Equal(t, 1, logs.Len())

	silent := l.LogMode(gormlogger.Silent)
	silent.Error(ctx, "nope")
	assert.Equal(t, 1, logs.Len())

	// 慢查询
	l.Trace(ctx, time.Now().Add(-time.Second), func() (string, int64) { return "SELECT 1", 1 }, nil)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "gorm slow query", logs.All()[1].Message)

	// 快查询在 Warn 级别不输出
	l.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.Equal(t, 2, logs.Len())
}

func TestRepository_Integration(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pg.NewPool(ctx, config.DatabaseConfig{DSN: dsn}, zap.NewNop())
	require.NoError(t, err)
	defer pool.Close()

	_, err = migrate.Runner{FS: migrate.Embedded()}.Up(ctx, pool)
	require.NoError(t, err)

	db, err := Open(stdlib.OpenDBFromPool(pool), NewLogger(zap.NewNop(), 0))
	require.NoError(t, err)
	repo := New(db)

	id := uuid.NewString()
	rec := outbound.Record{
		RequestID: id,
		Cmd:       0xA4,
		Request:   []byte{0x3B, 0xB3},
		Result:    outbound.ResultOK,
		SentAt:    time.Now(),
		Duration:  20 * time.Millisecond,
	}
	require.NoError(t, repo.RecordCommand(ctx, rec))
	// 重复写入忽略
	require.NoError(t, repo.RecordCommand(ctx, rec))

	got, err := repo.GetCommand(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int16(0xA4), got.Cmd)
	assert.Equal(t, int64(20), got.DurationMs)

	list, err := repo.RecentCommands(ctx, 0xA4, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, list)

	_, err = repo.PruneCommands(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = repo.GetCommand(ctx, id)
	assert.Error(t, err)
}
