package models

import (
	"time"
)

// Image is a home-page carousel/gallery entry
type Image struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	URL       string    `gorm:"size:255;not null" json:"url"`
	Caption   string    `gorm:"size:100" json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}
