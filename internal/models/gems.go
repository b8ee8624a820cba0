package models

import (
	"time"

	"github.com/google/uuid"
)

// Gem transaction types.
const (
	GemTransactionEarn  = "earn"
	GemTransactionSpend = "spend"
)

// GemTransaction is an append-only ledger entry. Amount is signed:
// positive for earn, negative for spend. Rows are never updated or
// deleted; summing a user's amounts must reproduce available_gems.
type GemTransaction struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Amount      int       `gorm:"not null" json:"amount"`
	Type        string    `gorm:"not null" json:"type"`
	Description string    `json:"description"`
}

// DailyLoginReward records a claimed login reward. The unique index on
// (user_id, claim_date) is the concurrency guard against double claims.
type DailyLoginReward struct {
	BaseModel
	UserID        uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_claim_date" json:"user_id"`
	ClaimDate     time.Time `gorm:"uniqueIndex:idx_user_claim_date" json:"claim_date"`
	GemsEarned    int       `json:"gems_earned"`
	CurrentStreak int       `json:"current_streak"`
}
