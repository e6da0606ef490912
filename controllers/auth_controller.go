package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hindisamiti/hindisamiti-mitsdu/database"
	"github.com/hindisamiti/hindisamiti-mitsdu/models"
	"github.com/hindisamiti/hindisamiti-mitsdu/utils"
)

// Login authenticates an admin and issues a bearer token
func Login(c *gin.Context) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No data provided"})
		return
	}

	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Username and password are required"})
		return
	}

	var admin models.Admin
	if err := database.DB.Where("username = ?", username).First(&admin).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid username or password"})
		return
	}

	if !admin.CheckPassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid username or password"})
		return
	}

	token, err := utils.GenerateToken(admin.ID, admin.Username)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Login failed. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Login successful",
		"access_token": token,
		"admin": gin.H{
			"id":       admin.ID,
			"username": admin.Username,
		},
	})
}

// VerifyToken confirms the bearer token presented by the admin console
func VerifyToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"admin": gin.H{
			"id":       c.GetUint("admin_id"),
			"username": c.GetString("username"),
		},
	})
}

// FixSchema runs the manual qr_code_url column migration for
// deployments that predate the column
func FixSchema(c *gin.Context) {
	err := database.DB.Exec("ALTER TABLE events ADD COLUMN IF NOT EXISTS qr_code_url VARCHAR(255)").Error
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "duplicate column") || strings.Contains(msg, "already exists") {
			c.JSON(http.StatusOK, gin.H{"message": "Column already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Schema updated successfully"})
}
