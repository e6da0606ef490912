package models

import (
	"time"
)

// BlogButton is an optional call-to-action link rendered under a post
type BlogButton struct {
	Label string `gorm:"size:100" json:"label"`
	Link  string `gorm:"size:255" json:"link"`
}

type Blog struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"size:200;not null" json:"title"`
	Content       string     `gorm:"type:text;not null" json:"content"` // Markdown or HTML
	Author        string     `gorm:"size:100;default:'Admin'" json:"author"`
	CoverImageURL string     `gorm:"size:255" json:"cover_image_url"`
	Button1       BlogButton `gorm:"embedded;embeddedPrefix:button1_" json:"button1"`
	Button2       BlogButton `gorm:"embedded;embeddedPrefix:button2_" json:"button2"`
	CreatedAt     time.Time  `json:"created_at"`
}
