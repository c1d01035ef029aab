package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"storefront/app/models"
)

// ErrKeyNotFound is returned by Get when no value is stored under the key.
var ErrKeyNotFound = errors.New("key not found")

// KVRepository is the storefront's small persistence surface: recent
// searches, remembered pincodes and remember-me tokens, keyed per session
// or user. Swappable for the in-memory implementation in tests.
type KVRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type GormKVRepository struct {
	db *gorm.DB
}

func NewGormKVRepository(db *gorm.DB) *GormKVRepository {
	return &GormKVRepository{db: db}
}

func (r *GormKVRepository) Get(ctx context.Context, key string) (string, error) {
	var entry models.KVEntry
	err := r.db.WithContext(ctx).First(&entry, "`key` = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get kv entry %s: %w", key, err)
	}
	return entry.Value, nil
}

func (r *GormKVRepository) Set(ctx context.Context, key, value string) error {
	entry := models.KVEntry{Key: key, Value: value}
	err := r.db.WithContext(ctx).Save(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to set kv entry %s: %w", key, err)
	}
	return nil
}

func (r *GormKVRepository) Remove(ctx context.Context, key string) error {
	err := r.db.WithContext(ctx).Delete(&models.KVEntry{}, "`key` = ?", key).Error
	if err != nil {
		return fmt.Errorf("failed to remove kv entry %s: %w", key, err)
	}
	return nil
}

// MemoryKVRepository is the in-memory fake used in tests and when the
// storefront runs without a database.
type MemoryKVRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKVRepository() *MemoryKVRepository {
	return &MemoryKVRepository{values: make(map[string]string)}
}

func (r *MemoryKVRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

func (r *MemoryKVRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *MemoryKVRepository) Remove(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}
