package controllers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hindisamiti/hindisamiti-mitsdu/database"
	"github.com/hindisamiti/hindisamiti-mitsdu/models"
	"github.com/hindisamiti/hindisamiti-mitsdu/utils"
)

// GetTeamMembers returns the full team roster
func GetTeamMembers(c *gin.Context) {
	var members []models.TeamMember
	if err := database.DB.Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, members)
}

type teamMemberInput struct {
	Name        string `json:"name" binding:"required"`
	Role        string `json:"role" binding:"required"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}

// CreateTeamMember adds a team member
func CreateTeamMember(c *gin.Context) {
	var input teamMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	member := models.TeamMember{
		Name:        input.Name,
		Role:        input.Role,
		ImageURL:    input.ImageURL,
		Description: input.Description,
	}
	if err := database.DB.Create(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Team member added successfully",
		"id":      member.ID,
	})
}

// UpdateTeamMember updates a team member's details
func UpdateTeamMember(c *gin.Context) {
	var member models.TeamMember
	if err := database.DB.First(&member, c.Param("memberId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Team member not found"})
		return
	}

	var input teamMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	member.Name = input.Name
	member.Role = input.Role
	member.ImageURL = input.ImageURL
	member.Description = input.Description
	if err := database.DB.Save(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Team member updated successfully"})
}

// DeleteTeamMember removes a team member and their local image file
func DeleteTeamMember(c *gin.Context) {
	var member models.TeamMember
	if err := database.DB.First(&member, c.Param("memberId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Team member not found"})
		return
	}

	if strings.HasPrefix(member.ImageURL, "/uploads/team_members/") {
		filePath := filepath.Join(utils.UploadDir(), "team_members", path.Base(member.ImageURL))
		if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", filePath).Msg("failed to remove team member image")
		}
	}

	if err := database.DB.Delete(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Team member removed successfully"})
}

// UploadTeamMemberImage stores a roster photo and returns its URL
func UploadTeamMemberImage(c *gin.Context) {
	uploadNamedImage(c, "team_members")
}
