package models

type TeamMember struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Role        string `gorm:"size:100;not null" json:"role"` // e.g. President, Developer
	ImageURL    string `gorm:"size:255" json:"image_url"`
	Description string `gorm:"type:text" json:"description"`
}
