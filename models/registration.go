package models

import (
	"time"
)

type RegistrationStatus string

const (
	StatusPending  RegistrationStatus = "pending"
	StatusVerified RegistrationStatus = "verified"
	StatusRejected RegistrationStatus = "rejected"
)

// ValidStatus reports whether s is one of the known registration statuses
func ValidStatus(s string) bool {
	switch RegistrationStatus(s) {
	case StatusPending, StatusVerified, StatusRejected:
		return true
	}
	return false
}

// Registration is a (event, email) submission awaiting admin review.
// Email is stored lower-cased and trimmed; it is the identity key per event.
type Registration struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	EventID       uint               `gorm:"index" json:"event_id"`
	Email         string             `gorm:"size:120;not null" json:"email"`
	ScreenshotURL string             `gorm:"size:255" json:"screenshot_url"`
	Status        RegistrationStatus `gorm:"size:20;default:'pending'" json:"status"`
	Timestamp     time.Time          `json:"timestamp"`

	// Relationships
	Event     Event                       `gorm:"foreignKey:EventID" json:"-"`
	Responses []RegistrationFieldResponse `gorm:"foreignKey:RegistrationID;constraint:OnDelete:CASCADE" json:"responses"`
}

type RegistrationFieldResponse struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	RegistrationID uint   `gorm:"index" json:"registration_id"`
	FieldID        uint   `gorm:"index" json:"field_id"`
	Value          string `gorm:"type:text" json:"value"`

	Field EventFormField `gorm:"foreignKey:FieldID" json:"-"`
}
