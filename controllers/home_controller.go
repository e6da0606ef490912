package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hindisamiti/hindisamiti-mitsdu/database"
	"github.com/hindisamiti/hindisamiti-mitsdu/models"
	"github.com/hindisamiti/hindisamiti-mitsdu/utils"
)

// GetIntro returns the home-page introduction text ("" when unset)
func GetIntro(c *gin.Context) {
	var intro models.Intro
	if err := database.DB.First(&intro).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"text": ""})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": intro.Text})
}

// UpdateIntro creates or replaces the introduction text
func UpdateIntro(c *gin.Context) {
	var input struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var intro models.Intro
	if err := database.DB.First(&intro).Error; err != nil {
		intro = models.Intro{Text: input.Text}
		if err := database.DB.Create(&intro).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
	} else {
		intro.Text = input.Text
		if err := database.DB.Save(&intro).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Intro updated successfully"})
}

func imageJSON(img models.Image) gin.H {
	return gin.H{
		"id":         img.ID,
		"url":        img.URL,
		"caption":    img.Caption,
		"created_at": img.CreatedAt,
	}
}

// GetImages returns all carousel images, newest first
func GetImages(c *gin.Context) {
	var images []models.Image
	if err := database.DB.Order("created_at desc").Find(&images).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	data := make([]gin.H, 0, len(images))
	for _, img := range images {
		data = append(data, imageJSON(img))
	}
	c.JSON(http.StatusOK, data)
}

// UploadGalleryImage stores a new carousel image with an optional caption
func UploadGalleryImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No image file provided"})
		return
	}
	if fh.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file selected"})
		return
	}
	if !utils.AllowedImage(fh.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid file type"})
		return
	}

	url, err := utils.StoreImage(c.Request.Context(), fh, "home")
	if err != nil {
		log.Error().Err(err).Msg("gallery image upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save file"})
		return
	}

	image := models.Image{URL: url, Caption: c.PostForm("caption")}
	if err := database.DB.Create(&image).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, imageJSON(image))
}

// DeleteImage removes a carousel image record and its local file
func DeleteImage(c *gin.Context) {
	var image models.Image
	if err := database.DB.First(&image, c.Param("imageId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Image not found"})
		return
	}

	if strings.HasPrefix(image.URL, "/uploads/") {
		rel := strings.TrimPrefix(image.URL, "/uploads/")
		path := filepath.Join(utils.UploadDir(), filepath.FromSlash(rel))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("failed to remove image file")
		}
	}

	if err := database.DB.Delete(&image).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}
