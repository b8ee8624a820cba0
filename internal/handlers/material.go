package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/junkgems/internal/middleware"
	"github.com/example/junkgems/internal/models"
	"github.com/example/junkgems/internal/services"
	"github.com/example/junkgems/internal/utils"
)

// MaterialHandler manages donation listing endpoints.
type MaterialHandler struct {
	db     *gorm.DB
	ledger *services.Ledger
}

// NewMaterialHandler constructs MaterialHandler.
func NewMaterialHandler(db *gorm.DB, ledger *services.Ledger) *MaterialHandler {
	return &MaterialHandler{db: db, ledger: ledger}
}

// ListMaterials returns listings, optionally filtered by category and status.
func (h *MaterialHandler) ListMaterials(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Material{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var materials []models.Material
	if err := query.Preload("Uploader").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&materials).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    materials,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

type createMaterialRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Condition   string `json:"condition"`
	Quantity    string `json:"quantity"`
	Location    string `json:"location"`
	ImageURL    string `json:"image_url"`
}

// CreateMaterial creates a donation listing and credits the uploader the
// donation reward in the same transaction.
func (h *MaterialHandler) CreateMaterial(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createMaterialRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title is required")
	}

	material := models.Material{
		UploaderID:  userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Condition:   req.Condition,
		Quantity:    req.Quantity,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		Status:      models.MaterialAvailable,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&material).Error; err != nil {
			return err
		}
		return h.ledger.Credit(tx, userID, services.DonationRewardGems,
			"Donation reward for "+material.Title)
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    material,
	})
}

// GetMaterial returns a single listing.
func (h *MaterialHandler) GetMaterial(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var material models.Material
	if err := h.db.Preload("Uploader").First(&material, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "material not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": material})
}

// ClaimMaterial marks an available listing as claimed by the caller.
func (h *MaterialHandler) ClaimMaterial(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Model(&models.Material{}).
		Where("id = ? AND status = ?", id, models.MaterialAvailable).
		Updates(map[string]interface{}{
			"status":        models.MaterialClaimed,
			"claimed_by_id": userID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "material not available")
	}

	return c.JSON(fiber.Map{"success": true, "message": "material claimed"})
}
