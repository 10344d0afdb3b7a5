package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"inkwell/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLiteStore serves the collection from an in-memory SQLite database and
// mirrors the flat-file variant's durability model: after every mutation the
// whole database is exported and rewritten to the backing file. Mirroring the
// flat-file variant, the rewrite is not safe against a crash mid-write.
type SQLiteStore struct {
	mu    sync.Mutex
	path  string
	db    *gorm.DB
	ready bool
	now   func() time.Time
}

// NewSQLiteStore creates a store backed by the SQLite file at path. Open must
// be called before the store serves requests.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *SQLiteStore) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: newGormLogger(),
	})
	if err != nil {
		return fmt.Errorf("open in-memory database: %w", err)
	}
	// A single connection keeps every query on the same in-memory database
	// and enforces the single-writer discipline at the driver level.
	if sqlDB, derr := db.DB(); derr == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.WithContext(ctx).AutoMigrate(&models.Post{}); err != nil {
		return fmt.Errorf("create posts table: %w", err)
	}

	if _, statErr := os.Stat(s.path); statErr == nil {
		if err := loadFromFile(ctx, db, s.path); err != nil {
			return err
		}
	}

	s.db = db
	// The original creates/refreshes the backing file as part of startup.
	if err := s.persistLocked(ctx); err != nil {
		s.db = nil
		return err
	}
	s.ready = true
	return nil
}

// loadFromFile copies every row of an existing backing file into the serving
// database, preserving ids and timestamps.
func loadFromFile(ctx context.Context, db *gorm.DB, path string) error {
	src, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: newGormLogger(),
	})
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if sqlDB, derr := src.DB(); derr == nil {
			_ = sqlDB.Close()
		}
	}()

	if err := src.WithContext(ctx).AutoMigrate(&models.Post{}); err != nil {
		return fmt.Errorf("prepare %s: %w", path, err)
	}

	var posts []*models.Post
	if err := src.WithContext(ctx).Order("id ASC").Find(&posts).Error; err != nil {
		return fmt.Errorf("load posts from %s: %w", path, err)
	}
	for _, p := range posts {
		if err := db.WithContext(ctx).Create(p).Error; err != nil {
			return fmt.Errorf("load post %d: %w", p.ID, err)
		}
	}
	return nil
}

func (s *SQLiteStore) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

func (s *SQLiteStore) List(ctx context.Context) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, ErrNotReady
	}
	var posts []*models.Post
	// id DESC breaks createdAt ties newest-inserted first.
	err := s.db.WithContext(ctx).
		Order("createdAt DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *SQLiteStore) GetByID(ctx context.Context, id int) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, ErrNotReady
	}
	return s.getLocked(ctx, id)
}

func (s *SQLiteStore) getLocked(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *SQLiteStore) Create(ctx context.Context, candidate *models.Post) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, ErrNotReady
	}

	post := candidate.Clone()
	post.ID = 0
	now := s.now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Date.IsZero() {
		post.Date = now
	}

	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id int, fields UpdateFields) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, ErrNotReady
	}

	post, err := s.getLocked(ctx, id)
	if err != nil {
		return nil, err
	}

	post.Title = fields.Title
	post.Content = fields.Content
	post.Author = resolveAuthor(fields.Author, post.Author)
	post.UpdatedAt = s.now()

	if err := s.db.WithContext(ctx).Save(post).Error; err != nil {
		return nil, err
	}
	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id int) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, ErrNotReady
	}

	post, err := s.getLocked(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return nil, err
	}
	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return 0, ErrNotReady
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// Import inserts posts verbatim, preserving ids and timestamps, then persists
// once. Used by the flat-file migration; not part of the serving contract.
func (s *SQLiteStore) Import(ctx context.Context, posts []*models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return ErrNotReady
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range posts {
			if err := tx.Create(p).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.persistLocked(ctx)
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = false
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.db = nil
	return sqlDB.Close()
}

// persistLocked exports the whole in-memory database to the backing file.
// VACUUM INTO refuses to overwrite, so the export goes through a sibling temp
// file that then replaces the target.
func (s *SQLiteStore) persistLocked(ctx context.Context) error {
	tmp := s.path + ".tmp"
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear temp export: %w", err)
	}
	if err := s.db.WithContext(ctx).Exec("VACUUM INTO ?", tmp).Error; err != nil {
		return fmt.Errorf("export database: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
