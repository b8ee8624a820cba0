package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/junkgems/internal/middleware"
	"github.com/example/junkgems/internal/services"
)

// GemsHandler exposes the gem ledger and daily login reward endpoints.
type GemsHandler struct {
	ledger *services.Ledger
	streak *services.Streak
}

// NewGemsHandler constructs GemsHandler.
func NewGemsHandler(ledger *services.Ledger, streak *services.Streak) *GemsHandler {
	return &GemsHandler{ledger: ledger, streak: streak}
}

// GetUserGems returns a user's balance with full transaction history.
func (h *GemsHandler) GetUserGems(c *fiber.Ctx) error {
	if _, ok := middleware.GetCurrentUserID(c); !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	balance, transactions, err := h.ledger.Balance(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"available_gems": balance,
		"transactions":   transactions,
	})
}

// ClaimDailyReward claims the daily login reward for the caller.
func (h *GemsHandler) ClaimDailyReward(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	result, err := h.streak.Claim(userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":      result.Success,
		"gems_earned":  result.GemsEarned,
		"streak":       result.Streak,
		"streak_bonus": result.StreakBonus,
	})
}
