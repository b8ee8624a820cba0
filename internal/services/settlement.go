package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/junkgems/internal/models"
)

// Settlement errors.
var ErrInvalidTotal = errors.New("total amount must be positive")

// debitAttempts bounds the clamp-and-debit retry loop when concurrent
// checkouts race on the same balance.
const debitAttempts = 3

// CheckoutItem is a passthrough snapshot of a purchased product.
type CheckoutItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

// CheckoutRequest carries the fields of a checkout submission.
type CheckoutRequest struct {
	TotalAmount     float64        `json:"totalAmount"`
	AppliedGems     int            `json:"appliedGems"`
	ShippingAddress string         `json:"shippingAddress"`
	PaymentMethod   string         `json:"paymentMethod"`
	Items           []CheckoutItem `json:"items"`
}

// SettlementResult is returned after a successful checkout.
type SettlementResult struct {
	Order       models.Order
	AppliedGems int
	FinalAmount float64
}

// Settlement finalizes checkouts: it clamps the gem discount, persists
// the order and keeps the ledger consistent, all inside one database
// transaction.
type Settlement struct {
	db     *gorm.DB
	ledger *Ledger
}

// NewSettlement constructs a Settlement service.
func NewSettlement(db *gorm.DB, ledger *Ledger) *Settlement {
	return &Settlement{db: db, ledger: ledger}
}

// Settle validates the request, applies a bounded gem discount, persists
// the order with status completed and issues the order-completion bonus.
// Every write happens in a single transaction: a failure at any step
// leaves the ledger untouched.
func (s *Settlement) Settle(userID uuid.UUID, req CheckoutRequest) (*SettlementResult, error) {
	if req.TotalAmount <= 0 {
		return nil, ErrInvalidTotal
	}
	if req.AppliedGems < 0 {
		req.AppliedGems = 0
	}

	orderNumber := generateOrderNumber()

	var result SettlementResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		applied, err := s.debitClamped(tx, userID, req, orderNumber)
		if err != nil {
			return err
		}

		finalAmount := req.TotalAmount - float64(applied)
		if finalAmount < 0 {
			finalAmount = 0
		}

		order := models.Order{
			UserID:          userID,
			OrderNumber:     orderNumber,
			Status:          "completed",
			PlacedAt:        time.Now(),
			TotalAmount:     req.TotalAmount,
			AppliedGems:     applied,
			FinalAmount:     finalAmount,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
		}

		for _, item := range req.Items {
			orderItem := models.OrderItem{
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				LineTotal:   item.LineTotal,
			}
			if item.LineTotal == 0 {
				orderItem.LineTotal = item.UnitPrice * float64(item.Quantity)
			}
			if id, err := uuid.Parse(item.ProductID); err == nil {
				orderItem.ProductID = &id
			}
			order.Items = append(order.Items, orderItem)
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		bonusDescription := fmt.Sprintf("Order completion bonus for %s", orderNumber)
		if err := s.ledger.Credit(tx, userID, OrderBonusGems, bonusDescription); err != nil {
			return err
		}

		result = SettlementResult{
			Order:       order,
			AppliedGems: applied,
			FinalAmount: finalAmount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// debitClamped applies the gem discount: min(requested, balance,
// floor(total)), since 1 gem = 1 currency unit and final_amount may not
// go below zero. The guarded update in Ledger.Debit protects against a
// concurrent checkout spending the same balance; on a guard miss the
// clamp is re-derived from the fresh balance and retried.
func (s *Settlement) debitClamped(tx *gorm.DB, userID uuid.UUID, req CheckoutRequest, orderNumber string) (int, error) {
	for attempt := 0; attempt < debitAttempts; attempt++ {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrUserNotFound
			}
			return 0, err
		}

		applied := req.AppliedGems
		if applied > user.AvailableGems {
			applied = user.AvailableGems
		}
		if limit := int(req.TotalAmount); applied > limit {
			applied = limit
		}
		if applied <= 0 {
			return 0, nil
		}

		description := fmt.Sprintf("Redeemed on order %s", orderNumber)
		err := s.ledger.Debit(tx, userID, applied, description)
		if err == nil {
			return applied, nil
		}
		if !errors.Is(err, ErrInsufficientGems) {
			return 0, err
		}
	}
	return 0, ErrInsufficientGems
}

func generateOrderNumber() string {
	return fmt.Sprintf("#%d", time.Now().UnixNano()%1000000000)
}
