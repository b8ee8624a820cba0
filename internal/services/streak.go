package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/junkgems/internal/models"
)

// ClaimResult reports the outcome of a daily login claim. Success is
// false when the reward was already claimed today; in that case nothing
// was mutated and Streak echoes the existing value.
type ClaimResult struct {
	Success     bool `json:"success"`
	GemsEarned  int  `json:"gems_earned"`
	Streak      int  `json:"streak"`
	StreakBonus int  `json:"streak_bonus"`
}

// errClaimRace aborts the claim transaction when a concurrent claim won
// the unique-index race; the caller re-reads the committed row.
var errClaimRace = errors.New("daily reward claim race")

// Streak tracks daily login reward claims.
type Streak struct {
	db     *gorm.DB
	ledger *Ledger
	// now is swappable in tests.
	now func() time.Time
}

// NewStreak constructs a Streak service.
func NewStreak(db *gorm.DB, ledger *Ledger) *Streak {
	return &Streak{db: db, ledger: ledger, now: time.Now}
}

// Claim processes a daily login reward claim for the user. Streak
// continuity is decided by calendar-day difference, not elapsed hours:
// a claim at 23:59 followed by one at 00:01 counts as consecutive days.
func (s *Streak) Claim(userID uuid.UUID) (*ClaimResult, error) {
	today := calendarDay(s.now())

	var result ClaimResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.DailyLoginReward
		err := tx.Where("user_id = ? AND claim_date = ?", userID, today).
			First(&existing).Error
		if err == nil {
			result = ClaimResult{Success: false, Streak: existing.CurrentStreak}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		streak := 1
		var previous models.DailyLoginReward
		err = tx.Where("user_id = ?", userID).
			Order("claim_date desc").
			First(&previous).Error
		if err == nil {
			if daysBetween(calendarDay(previous.ClaimDate), today) == 1 {
				streak = previous.CurrentStreak + 1
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		bonus := StreakBonusGems(streak)
		earned := DailyLoginBaseGems + bonus

		reward := models.DailyLoginReward{
			UserID:        userID,
			ClaimDate:     today,
			GemsEarned:    earned,
			CurrentStreak: streak,
		}
		if err := tx.Create(&reward).Error; err != nil {
			// The unique index on (user_id, claim_date) catches a racing
			// claim that committed between our lookup and this insert.
			if isDuplicateKey(err) {
				return errClaimRace
			}
			return err
		}

		description := fmt.Sprintf("Daily login reward - day %d", streak)
		if err := s.ledger.Credit(tx, userID, earned, description); err != nil {
			return err
		}

		result = ClaimResult{
			Success:     true,
			GemsEarned:  earned,
			Streak:      streak,
			StreakBonus: bonus,
		}
		return nil
	})
	if errors.Is(err, errClaimRace) {
		var existing models.DailyLoginReward
		if err := s.db.Where("user_id = ? AND claim_date = ?", userID, today).
			First(&existing).Error; err != nil {
			return nil, err
		}
		return &ClaimResult{Success: false, Streak: existing.CurrentStreak}, nil
	}
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// calendarDay truncates a timestamp to its UTC calendar date.
func calendarDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
