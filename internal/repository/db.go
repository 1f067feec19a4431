package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cli-utils/internal/model"
)

// sqliteParams make concurrent writers from the app and the daemon wait on
// each other instead of failing.
var sqliteParams = []string{
	"_foreign_keys=on",
	"_busy_timeout=5000",
	"_journal_mode=WAL",
	"_txlock=immediate",
}

// NewDB opens a SQLite database and initializes the schema. SQL warnings go
// to writer; a nil writer discards them.
func NewDB(dsn string, writer logger.Writer) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("open db: empty database path")
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := logger.Discard
	if writer != nil {
		dbLogger = logger.New(writer, logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		})
	}

	db, err := gorm.Open(sqlite.Open(sqliteDSN(dsn)), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Initialize(context.Background(), db); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return db, nil
}

// Initialize creates missing tables and seeds the system categories into an
// empty category table. It is safe to call on an existing store.
func Initialize(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(&model.Category{}, &model.Task{}, &model.Reminder{}, &model.SentNotification{}); err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Category{}).Count(&count).Error; err != nil {
			return fmt.Errorf("count categories: %w", err)
		}
		if count > 0 {
			return nil
		}
		for _, category := range model.SystemCategories() {
			if err := tx.Create(&category).Error; err != nil {
				return storeErr("seed", "categories", err)
			}
		}
		return nil
	})
}

// Store bundles the repositories sharing one database handle.
type Store struct {
	DB            *gorm.DB
	Categories    *CategoryRepository
	Tasks         *TaskRepository
	Reminders     *ReminderRepository
	Notifications *NotificationRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		DB:            db,
		Categories:    NewCategoryRepository(db),
		Tasks:         NewTaskRepository(db),
		Reminders:     NewReminderRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

// Open is NewDB followed by NewStore.
func Open(dsn string, writer logger.Writer) (*Store, error) {
	db, err := NewDB(dsn, writer)
	if err != nil {
		return nil, err
	}
	return NewStore(db), nil
}

func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func sqliteDSN(dsn string) string {
	if isMemoryDSN(dsn) {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	var params []string
	for _, p := range sqliteParams {
		key := p[:strings.IndexByte(p, '=')+1]
		if !strings.Contains(dsn, key) {
			params = append(params, p)
		}
	}
	if len(params) == 0 {
		return dsn
	}
	return dsn + sep + strings.Join(params, "&")
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// ensureDirForSQLite creates parent dir for SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if isMemoryDSN(dsn) {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
