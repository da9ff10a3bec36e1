package models

import (
	"time"
)

// 注意：
// - 保持与 internal/migrate/sql 下的建表脚本对齐
// - 不使用 gorm.Model，显式声明每个字段，避免隐式 DeletedAt

// CommandLog 映射 command_logs 表，记录每次下行请求
type CommandLog struct {
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// 请求唯一标识
	RequestID string `gorm:"column:request_id;type:uuid;not null;uniqueIndex"`
	// 指令码
	Cmd int16 `gorm:"column:cmd;not null"`
	// 原始下行/上行帧
	Request  []byte `gorm:"column:request;type:bytea;not null"`
	Response []byte `gorm:"column:response;type:bytea"`
	// ok/sent/timeout/error
	Result string    `gorm:"column:result;type:text;not null"`
	Error  *string   `gorm:"column:error;type:text"`
	SentAt time.Time `gorm:"column:sent_at;not null"`
	// 耗时（毫秒）
	DurationMs int64     `gorm:"column:duration_ms;not null;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (CommandLog) TableName() string { return "command_logs" }
