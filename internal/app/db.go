package app

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/locker-gateway/internal/config"
	"github.com/taoyao-code/locker-gateway/internal/migrate"
	"github.com/taoyao-code/locker-gateway/internal/storage/gormrepo"
	pgstorage "github.com/taoyao-code/locker-gateway/internal/storage/pg"
)

// ConnectDBAndMigrate 建立数据库连接并按需执行迁移
func ConnectDBAndMigrate(ctx context.Context, cfg cfgpkg.DatabaseConfig, log *zap.Logger) (*pgxpool.Pool, error) {
	dbpool, err := pgstorage.NewPool(ctx, cfg, log)
	if err != nil {
		log.Error("db connect error", zap.Error(err))
		return nil, err
	}
	if cfg.AutoMigrate {
		runner := migrate.Runner{FS: migrate.Embedded()}
		if cfg.MigrationsDir != "" {
			runner = migrate.Runner{Dir: cfg.MigrationsDir}
		}
		applied, err := runner.Up(ctx, dbpool)
		if err != nil {
			log.Error("db migrate error", zap.Error(err))
			return dbpool, err
		}
		log.Info("db migrations applied", zap.Int64s("versions", applied))
	}
	return dbpool, nil
}

// NewCommandRepo 在 pgx 连接池上打开 GORM 审计仓库；返回的 *sql.DB 由调用方关闭
func NewCommandRepo(pool *pgxpool.Pool, log *zap.Logger) (*gormrepo.Repository, *sql.DB, error) {
	sqlDB := stdlib.OpenDBFromPool(pool)
	db, err := gormrepo.Open(sqlDB, gormrepo.NewLogger(log.Named("gorm"), 0))
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	return gormrepo.New(db), sqlDB, nil
}
