package models

import (
	"github.com/google/uuid"
)

// Material statuses.
const (
	MaterialAvailable = "available"
	MaterialClaimed   = "claimed"
)

// Material is a reusable-material donation listing.
type Material struct {
	BaseModel
	UploaderID  uuid.UUID  `gorm:"type:uuid;index" json:"uploader_id"`
	Uploader    *User      `gorm:"foreignKey:UploaderID" json:"uploader,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `gorm:"index" json:"category"`
	Condition   string     `json:"condition"`
	Quantity    string     `json:"quantity"`
	Location    string     `json:"location"`
	ImageURL    string     `json:"image_url"`
	Status      string     `gorm:"index;default:available" json:"status"`
	ClaimedByID *uuid.UUID `gorm:"type:uuid" json:"claimed_by_id"`
}
