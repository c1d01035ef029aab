package models

import "time"

// KVEntry backs the key-value store used for per-session persistence
// (recent searches, remembered pincode, remember-me tokens). Keys are
// namespaced by the owning session or user identifier.
type KVEntry struct {
	Key       string `gorm:"size:255;not null;primaryKey"`
	Value     string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
