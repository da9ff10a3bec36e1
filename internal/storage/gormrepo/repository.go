package gormrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taoyao-code/locker-gateway/internal/outbound"
	"github.com/taoyao-code/locker-gateway/internal/storage/models"
)

var _ outbound.AuditSink = (*Repository)(nil)

// Repository 基于 GORM 的下行请求审计仓库
type Repository struct {
	db *gorm.DB
}

// New 返回一个使用给定 *gorm.DB 的仓库
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Open 在已有连接（通常由 pgx 连接池转换而来）上打开 GORM
func Open(conn *sql.DB, logger *Logger) (*gorm.DB, error) {
	if conn == nil {
		return nil, errors.New("nil sql conn")
	}
	cfg := &gorm.Config{}
	if logger != nil {
		cfg.Logger = logger
	}
	return gorm.Open(postgres.New(postgres.Config{Conn: conn}), cfg)
}

// RecordCommand 写入审计记录；request_id 冲突时忽略
func (r *Repository) RecordCommand(ctx context.Context, rec outbound.Record) error {
	row := FromRecord(rec)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "request_id"}},
			DoNothing: true,
		}).
		Create(&row).Error
}

// RecentCommands 按发送时间倒序返回最近的审计记录，cmd<0 表示不过滤
func (r *Repository) RecentCommands(ctx context.Context, cmd int, limit int) ([]models.CommandLog, error) {
	var logs []models.CommandLog
	q := r.db.WithContext(ctx).Order("sent_at DESC, id DESC")
	if cmd >= 0 {
		q = q.Where("cmd = ?", cmd)
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if err := q.Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// GetCommand 通过请求 ID 查询
func (r *Repository) GetCommand(ctx context.Context, requestID string) (*models.CommandLog, error) {
	var log models.CommandLog
	err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// PruneCommands 删除早于 before 的记录
func (r *Repository) PruneCommands(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("sent_at < ?", before).
		Delete(&models.CommandLog{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// FromRecord 审计记录转表模型
func FromRecord(rec outbound.Record) models.CommandLog {
	row := models.CommandLog{
		RequestID:  rec.RequestID,
		Cmd:        int16(rec.Cmd),
		Request:    rec.Request,
		Response:   rec.Response,
		Result:     rec.Result,
		SentAt:     rec.SentAt,
		DurationMs: rec.Duration.Milliseconds(),
	}
	if rec.Error != "" {
		e := rec.Error
		row.Error = &e
	}
	return row
}
