// Package entity defines the domain models for the symbollist feature.
package entity

import "time"

// Symbol represents a tradable pair in the system (e.g., "BTCUSDT").
// BaseAsset and QuoteAsset are derived once when the row is created and are
// never rewritten afterwards. Symbols are deactivated, not deleted.
type Symbol struct {
	ID         uint      `gorm:"primaryKey"`
	Code       string    `gorm:"size:32;not null;uniqueIndex"`
	BaseAsset  string    `gorm:"size:16;not null"`
	QuoteAsset string    `gorm:"size:16;not null"`
	IsActive   bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}
