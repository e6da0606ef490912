package models

import (
	"golang.org/x/crypto/bcrypt"
)

type Admin struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"size:50;unique;not null" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"` // Exclude password hash from JSON
}

// SetPassword hashes the given password and stores it on the admin
func (a *Admin) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares a plaintext password against the stored hash
func (a *Admin) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}
