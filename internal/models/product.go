package models

import (
	"github.com/google/uuid"
)

// Product is an upcycled item listed by an artisan.
type Product struct {
	BaseModel
	ArtisanID     uuid.UUID `gorm:"type:uuid;index" json:"artisan_id"`
	Artisan       *User     `gorm:"foreignKey:ArtisanID" json:"artisan,omitempty"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Category      string    `gorm:"index" json:"category"`
	ImageURL      string    `json:"image_url"`
	MaterialsUsed string    `json:"materials_used"`
	Status        string    `gorm:"index;default:available" json:"status"`
}
