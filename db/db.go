package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/model"
)

// memberPointsView aggregates approved achievements per member. Members
// without approved achievements appear with zero totals.
const memberPointsView = `SELECT m.id AS member_id, m.full_name, m.photo_url, m.department,
	COALESCE(SUM(CASE WHEN a.status = 'approved' THEN a.points ELSE 0 END), 0) AS total_points,
	COALESCE(SUM(CASE WHEN a.status = 'approved' THEN 1 ELSE 0 END), 0) AS achievement_count
FROM members m
LEFT JOIN achievements a ON a.member_id = m.id
GROUP BY m.id, m.full_name, m.photo_url, m.department`

func ConnectPostgres(dsn string, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Info("connected to postgres")
	return db, nil
}

// Migrate creates the tables and (re)creates the member_points view. The
// view is dropped first so column changes are not blocked by it.
func Migrate(db *gorm.DB) error {
	if err := db.Exec("DROP VIEW IF EXISTS member_points").Error; err != nil {
		return fmt.Errorf("drop view: %w", err)
	}
	if err := db.AutoMigrate(&model.Member{}, &model.Achievement{}); err != nil {
		return fmt.Errorf("migrate tables: %w", err)
	}
	if err := db.Exec("CREATE VIEW member_points AS " + memberPointsView).Error; err != nil {
		return fmt.Errorf("create view: %w", err)
	}
	return nil
}

// ConnectMongo connects and pings within a bounded time.
func ConnectMongo(ctx context.Context, uri, database string, log *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	log.Info("connected to mongo", "database", database)
	return client, client.Database(database), nil
}
