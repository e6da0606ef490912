package models

import (
	"time"
)

type Event struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Date          time.Time `gorm:"not null" json:"-"` // serialized as YYYY-MM-DD by the controllers
	Description   string    `gorm:"type:text" json:"description"`
	IsActive      bool      `json:"is_active"`
	CoverImageURL string    `gorm:"size:255" json:"cover_image_url"`
	QRCodeURL     string    `gorm:"size:255" json:"qr_code_url"`

	// Relationships
	FormFields    []EventFormField `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"form_fields"`
	Registrations []Registration   `gorm:"foreignKey:EventID" json:"-"`
}

// EventFormField is an admin-configured input on an event's registration form
type EventFormField struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	EventID    uint   `gorm:"not null;index" json:"event_id"`
	Label      string `gorm:"size:100;not null" json:"label"`
	FieldType  string `gorm:"size:20;not null" json:"field_type"` // text, email, textarea, number, tel, image
	IsRequired bool   `json:"is_required"`
	Order      int    `json:"order"`
}
