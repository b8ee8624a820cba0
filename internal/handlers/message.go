package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/junkgems/internal/middleware"
	"github.com/example/junkgems/internal/models"
)

// MessageHandler manages conversations between users.
type MessageHandler struct {
	db *gorm.DB
}

// NewMessageHandler constructs MessageHandler.
func NewMessageHandler(db *gorm.DB) *MessageHandler {
	return &MessageHandler{db: db}
}

// ListConversations returns conversations the caller participates in.
func (h *MessageHandler) ListConversations(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var conversations []models.Conversation
	if err := h.db.Where("starter_id = ? OR recipient_id = ?", userID, userID).
		Preload("Starter").Preload("Recipient").
		Order("updated_at desc").
		Find(&conversations).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": conversations})
}

type createConversationRequest struct {
	RecipientID string `json:"recipient_id"`
	MaterialID  string `json:"material_id"`
}

// CreateConversation finds or creates a conversation with the recipient,
// optionally anchored to a material listing.
func (h *MessageHandler) CreateConversation(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid recipient id")
	}
	if recipientID == userID {
		return fiber.NewError(fiber.StatusBadRequest, "cannot message yourself")
	}

	var recipient models.User
	if err := h.db.First(&recipient, "id = ?", recipientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "recipient not found")
		}
		return err
	}

	conversation := models.Conversation{
		StarterID:   userID,
		RecipientID: recipientID,
	}
	if req.MaterialID != "" {
		if id, err := uuid.Parse(req.MaterialID); err == nil {
			conversation.MaterialID = &id
		}
	}

	query := h.db.Where(
		"(starter_id = ? AND recipient_id = ?) OR (starter_id = ? AND recipient_id = ?)",
		userID, recipientID, recipientID, userID,
	)
	if conversation.MaterialID != nil {
		query = query.Where("material_id = ?", *conversation.MaterialID)
	}

	var existing models.Conversation
	if err := query.First(&existing).Error; err == nil {
		return c.JSON(fiber.Map{"success": true, "data": existing})
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	if err := h.db.Create(&conversation).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": conversation})
}

// ListMessages returns messages of a conversation and marks the other
// side's messages as read.
func (h *MessageHandler) ListMessages(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	conversation, err := h.loadConversation(c, userID)
	if err != nil {
		return err
	}

	var messages []models.Message
	if err := h.db.Where("conversation_id = ?", conversation.ID).
		Order("created_at asc").
		Find(&messages).Error; err != nil {
		return err
	}

	now := time.Now()
	if err := h.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversation.ID, userID).
		Update("read_at", &now).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": messages})
}

type sendMessageRequest struct {
	Body string `json:"body"`
}

// SendMessage appends a message to a conversation.
func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	conversation, err := h.loadConversation(c, userID)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Body == "" {
		return fiber.NewError(fiber.StatusBadRequest, "message body is required")
	}

	message := models.Message{
		ConversationID: conversation.ID,
		SenderID:       userID,
		Body:           req.Body,
	}
	if err := h.db.Create(&message).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": message})
}

func (h *MessageHandler) loadConversation(c *fiber.Ctx, userID uuid.UUID) (*models.Conversation, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var conversation models.Conversation
	if err := h.db.First(&conversation,
		"id = ? AND (starter_id = ? OR recipient_id = ?)", id, userID, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "conversation not found")
		}
		return nil, err
	}

	return &conversation, nil
}
