package controllers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/hindisamiti/hindisamiti-mitsdu/database"
	"github.com/hindisamiti/hindisamiti-mitsdu/models"
	"github.com/hindisamiti/hindisamiti-mitsdu/utils"
)

const dateLayout = "2006-01-02"

// formFieldsJSON sorts form fields by ascending order (stable, so array
// position breaks ties) and serializes them
func formFieldsJSON(fields []models.EventFormField) []gin.H {
	sorted := make([]models.EventFormField, len(fields))
	copy(sorted, fields)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	out := make([]gin.H, 0, len(sorted))
	for _, f := range sorted {
		out = append(out, gin.H{
			"id":          f.ID,
			"label":       f.Label,
			"field_type":  f.FieldType,
			"is_required": f.IsRequired,
			"order":       f.Order,
		})
	}
	return out
}

func eventJSON(event models.Event, withFields bool) gin.H {
	data := gin.H{
		"id":              event.ID,
		"name":            event.Name,
		"date":            event.Date.Format(dateLayout),
		"description":     event.Description,
		"is_active":       event.IsActive,
		"cover_image_url": event.CoverImageURL,
		"qr_code_url":     event.QRCodeURL,
	}
	if withFields {
		data["form_fields"] = formFieldsJSON(event.FormFields)
	}
	return data
}

// GetPublicEvents retrieves all events, newest first, optionally with
// their registration form fields
func GetPublicEvents(c *gin.Context) {
	includeFormFields := c.Query("include_form_fields") == "true"

	var events []models.Event
	query := database.DB.Order("date desc")
	if includeFormFields {
		query = query.Preload("FormFields")
	}
	if err := query.Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	data := make([]gin.H, 0, len(events))
	for _, event := range events {
		data = append(data, eventJSON(event, includeFormFields))
	}
	c.JSON(http.StatusOK, data)
}

// GetPublicEventDetails retrieves one event with its form fields
func GetPublicEventDetails(c *gin.Context) {
	var event models.Event
	if err := database.DB.Preload("FormFields").First(&event, c.Param("eventId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found or not active"})
		return
	}
	c.JSON(http.StatusOK, eventJSON(event, true))
}

// GetAdminEvents retrieves all events with form fields for the console
func GetAdminEvents(c *gin.Context) {
	var events []models.Event
	if err := database.DB.Preload("FormFields").Order("date desc").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	data := make([]gin.H, 0, len(events))
	for _, event := range events {
		data = append(data, eventJSON(event, true))
	}
	c.JSON(http.StatusOK, data)
}

type eventInput struct {
	Name          string `json:"name" binding:"required"`
	Date          string `json:"date" binding:"required"`
	Description   string `json:"description"`
	IsActive      *bool  `json:"is_active"`
	CoverImageURL string `json:"cover_image_url"`
	QRCodeURL     string `json:"qr_code_url"`
	FormFields    []struct {
		Label      string `json:"label"`
		FieldType  string `json:"field_type"`
		IsRequired *bool  `json:"is_required"`
		Order      int    `json:"order"`
	} `json:"formFields"`
}

func (in *eventInput) fields(eventID uint) []models.EventFormField {
	fields := make([]models.EventFormField, 0, len(in.FormFields))
	for _, f := range in.FormFields {
		isRequired := true
		if f.IsRequired != nil {
			isRequired = *f.IsRequired
		}
		fields = append(fields, models.EventFormField{
			EventID:    eventID,
			Label:      f.Label,
			FieldType:  f.FieldType,
			IsRequired: isRequired,
			Order:      f.Order,
		})
	}
	return fields
}

// CreateEvent creates an event and its form fields
func CreateEvent(c *gin.Context) {
	var input eventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	date, err := time.Parse(dateLayout, input.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid date format. Use YYYY-MM-DD"})
		return
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	event := models.Event{
		Name:          input.Name,
		Date:          date,
		Description:   input.Description,
		IsActive:      isActive,
		CoverImageURL: input.CoverImageURL,
		QRCodeURL:     input.QRCodeURL,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		fields := input.fields(event.ID)
		if len(fields) == 0 {
			return nil
		}
		return tx.Create(&fields).Error
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create event")
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":         "Event created successfully",
		"id":              event.ID,
		"cover_image_url": event.CoverImageURL,
	})
}

// UpdateEvent updates event details and replaces its form field set
func UpdateEvent(c *gin.Context) {
	var event models.Event
	if err := database.DB.First(&event, c.Param("eventId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return
	}

	var input eventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	date, err := time.Parse(dateLayout, input.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid date format. Use YYYY-MM-DD"})
		return
	}

	event.Name = input.Name
	event.Date = date
	event.Description = input.Description
	if input.IsActive != nil {
		event.IsActive = *input.IsActive
	} else {
		event.IsActive = true
	}
	event.CoverImageURL = input.CoverImageURL
	event.QRCodeURL = input.QRCodeURL

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&event).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.EventFormField{}).Error; err != nil {
			return err
		}
		fields := input.fields(event.ID)
		if len(fields) == 0 {
			return nil
		}
		return tx.Create(&fields).Error
	})
	if err != nil {
		log.Error().Err(err).Uint("event_id", event.ID).Msg("failed to update event")
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Event updated successfully",
		"cover_image_url": event.CoverImageURL,
	})
}

// DeleteEvent deletes an event and its form fields
func DeleteEvent(c *gin.Context) {
	var event models.Event
	if err := database.DB.First(&event, c.Param("eventId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.EventFormField{}).Error; err != nil {
			return err
		}
		return tx.Delete(&event).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

// UploadEventCover stores an event cover image and returns its URL
func UploadEventCover(c *gin.Context) {
	uploadNamedImage(c, "event_covers")
}

// UploadEventQR stores a payment QR code image for a paid event
func UploadEventQR(c *gin.Context) {
	uploadNamedImage(c, "event_qrs")
}

// uploadNamedImage handles the shared multipart "image" upload protocol
// used by the admin console
func uploadNamedImage(c *gin.Context, folder string) {
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
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid file type. Only PNG, JPG, JPEG, GIF, and WEBP files are allowed"})
		return
	}

	url, err := utils.StoreImage(c.Request.Context(), fh, folder)
	if err != nil {
		log.Error().Err(err).Str("folder", folder).Msg("image upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"image_url": url,
		"filename":  fh.Filename,
	})
}
