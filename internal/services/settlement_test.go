package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/junkgems/internal/models"
)

func newSettlement(db *gorm.DB) *Settlement {
	return NewSettlement(db, NewLedger(db))
}

func TestSettleRejectsNonPositiveTotal(t *testing.T) {
	db := newTestDB(t)
	settlement := newSettlement(db)
	user := createTestUser(t, db)

	_, err := settlement.Settle(user.ID, CheckoutRequest{TotalAmount: 0})
	assert.ErrorIs(t, err, ErrInvalidTotal)

	_, err = settlement.Settle(user.ID, CheckoutRequest{TotalAmount: -5})
	assert.ErrorIs(t, err, ErrInvalidTotal)
}

func TestSettleClampsAppliedGemsToBalance(t *testing.T) {
	db := newTestDB(t)
	settlement := newSettlement(db)
	ledger := NewLedger(db)
	user := createTestUser(t, db)

	require.NoError(t, ledger.Credit(db, user.ID, 3, "seed"))

	result, err := settlement.Settle(user.ID, CheckoutRequest{
		TotalAmount:     100,
		AppliedGems:     10,
		ShippingAddress: "12 Recycle Lane",
		PaymentMethod:   "card",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.AppliedGems)
	assert.Equal(t, 97.0, result.FinalAmount)
	assert.Equal(t, "completed", result.Order.Status)

	// Spent all 3, earned the +2 bonus.
	balance, _, err := ledger.Balance(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, balance)

	assertLedgerInvariant(t, db, user.ID)
}

func TestSettleClampsDiscountToTotal(t *testing.T) {
	db := newTestDB(t)
	settlement := newSettlement(db)
	ledger := NewLedger(db)
	user := createTestUser(t, db)

	require.NoError(t, ledger.Credit(db, user.ID, 50, "seed"))

	result, err := settlement.Settle(user.ID, CheckoutRequest{
		TotalAmount: 10.5,
		AppliedGems: 50,
	})
	require.NoError(t, err)

	// 1 gem = 1 currency unit; final amount cannot go below zero.
	assert.Equal(t, 10, result.AppliedGems)
	assert.InDelta(t, 0.5, result.FinalAmount, 1e-9)
	assert.GreaterOrEqual(t, result.FinalAmount, 0.0)

	assertLedgerInvariant(t, db, user.ID)
}

func TestSettleWithoutGems(t *testing.T) {
	db := newTestDB(t)
	settlement := newSettlement(db)
	user := createTestUser(t, db)

	result, err := settlement.Settle(user.ID, CheckoutRequest{
		TotalAmount:   40,
		PaymentMethod: "cash",
		Items: []CheckoutItem{
			{ProductName: "Bottle-cap mosaic", Quantity: 2, UnitPrice: 20},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.AppliedGems)
	assert.Equal(t, 40.0, result.FinalAmount)
	require.Len(t, result.Order.Items, 1)
	assert.Equal(t, 40.0, result.Order.Items[0].LineTotal)
}

func TestSettleIssuesExactlyOneOrderBonus(t *testing.T) {
	db := newTestDB(t)
	settlement := newSettlement(db)
	user := createTestUser(t, db)

	result, err := settlement.Settle(user.ID, CheckoutRequest{TotalAmount: 25})
	require.NoError(t, err)

	var bonusRows []models.GemTransaction
	require.NoError(t, db.Where("user_id = ? AND type = ? AND amount = ?",
		user.ID, models.GemTransactionEarn, OrderBonusGems).
		Find(&bonusRows).Error)
	require.Len(t, bonusRows, 1)
	assert.Contains(t, bonusRows[0].Description, result.Order.OrderNumber)

	assertLedgerInvariant(t, db, user.ID)
}

func TestSettleRollsBackOnPersistenceFailure(t *testing.T) {
	db := newTestDB(t)
	settlement := newSettlement(db)
	ledger := NewLedger(db)
	user := createTestUser(t, db)

	require.NoError(t, ledger.Credit(db, user.ID, 20, "seed"))

	// Fail the spend-transaction insert after the order insert and the
	// balance debit have already run inside the unit of work.
	injected := errors.New("injected failure")
	require.NoError(t, db.Callback().Create().Before("gorm:create").
		Register("fail_gem_transactions", func(d *gorm.DB) {
			if d.Statement.Table == "gem_transactions" {
				d.AddError(injected)
			}
		}))
	defer func() {
		require.NoError(t, db.Callback().Create().Remove("fail_gem_transactions"))
	}()

	_, err := settlement.Settle(user.ID, CheckoutRequest{
		TotalAmount: 30,
		AppliedGems: 10,
	})
	require.ErrorIs(t, err, injected)

	// The debit rolled back with everything else: no orphaned spend.
	var user2 models.User
	require.NoError(t, db.First(&user2, "id = ?", user.ID).Error)
	assert.Equal(t, 20, user2.AvailableGems)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Where("user_id = ?", user.ID).Count(&orderCount).Error)
	assert.Zero(t, orderCount)

	assertLedgerInvariant(t, db, user.ID)
}
