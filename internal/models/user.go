package models

// User represents a registered platform member: donor, artisan or buyer.
type User struct {
	BaseModel
	Name          string `json:"name"`
	Email         string `gorm:"uniqueIndex" json:"email"`
	PasswordHash  string `json:"-"`
	Bio           string `json:"bio"`
	Location      string `json:"location"`
	IsArtisan     bool   `json:"is_artisan"`
	AvailableGems int    `gorm:"not null;default:0" json:"available_gems"`

	Materials         []Material         `gorm:"foreignKey:UploaderID" json:"materials,omitempty"`
	Products          []Product          `gorm:"foreignKey:ArtisanID" json:"products,omitempty"`
	Orders            []Order            `json:"orders,omitempty"`
	GemTransactions   []GemTransaction   `json:"gem_transactions,omitempty"`
	DailyLoginRewards []DailyLoginReward `json:"daily_login_rewards,omitempty"`
}
