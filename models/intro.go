package models

// Intro holds the single editable introduction text on the home page
type Intro struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Text string `gorm:"type:text;not null" json:"text"`
}
