package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/junkgems/internal/models"
)

// Ledger errors.
var (
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInsufficientGems = errors.New("insufficient gem balance")
	ErrUserNotFound     = errors.New("user not found")
)

// Ledger mutates gem balances. Every mutation pairs the balance column
// update with exactly one GemTransaction row; callers must pass the
// enclosing transaction handle so both writes commit or roll back as a
// unit.
type Ledger struct {
	db *gorm.DB
}

// NewLedger constructs a Ledger.
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Credit adds gems to a user's balance and appends an earn transaction.
func (l *Ledger) Credit(tx *gorm.DB, userID uuid.UUID, amount int, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	result := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("available_gems", gorm.Expr("available_gems + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	entry := models.GemTransaction{
		UserID:      userID,
		Amount:      amount,
		Type:        models.GemTransactionEarn,
		Description: description,
	}
	return tx.Create(&entry).Error
}

// Debit removes gems from a user's balance and appends a spend
// transaction. The update is guarded so the balance can never go
// negative; a guard miss reports ErrInsufficientGems so the caller can
// re-read the balance and retry with a smaller amount.
func (l *Ledger) Debit(tx *gorm.DB, userID uuid.UUID, amount int, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	result := tx.Model(&models.User{}).
		Where("id = ? AND available_gems >= ?", userID, amount).
		UpdateColumn("available_gems", gorm.Expr("available_gems - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientGems
	}

	entry := models.GemTransaction{
		UserID:      userID,
		Amount:      -amount,
		Type:        models.GemTransactionSpend,
		Description: description,
	}
	return tx.Create(&entry).Error
}

// Balance returns the current gem balance with transaction history,
// newest first.
func (l *Ledger) Balance(userID uuid.UUID) (int, []models.GemTransaction, error) {
	var user models.User
	if err := l.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, ErrUserNotFound
		}
		return 0, nil, err
	}

	var transactions []models.GemTransaction
	if err := l.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&transactions).Error; err != nil {
		return 0, nil, err
	}

	return user.AvailableGems, transactions, nil
}
