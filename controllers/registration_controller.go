package controllers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hindisamiti/hindisamiti-mitsdu/database"
	"github.com/hindisamiti/hindisamiti-mitsdu/models"
	"github.com/hindisamiti/hindisamiti-mitsdu/utils"
)

// CheckRegistrationStatus reports whether an email is already
// registered for an event (GET /events/:eventId/check-registration)
func CheckRegistrationStatus(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email parameter is required"})
		return
	}

	var event models.Event
	if err := database.DB.First(&event, c.Param("eventId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	var registration models.Registration
	err := database.DB.
		Where("event_id = ? AND email = ?", event.ID, utils.NormalizeEmail(email)).
		First(&registration).Error
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"exists": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"exists":          true,
		"status":          registration.Status,
		"registration_id": registration.ID,
		"timestamp":       registration.Timestamp,
	})
}

// CheckExistingRegistration is the variant used by the registration
// form; it validates the email shape and names the event in the answer
func CheckExistingRegistration(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email parameter is required"})
		return
	}
	if !utils.ValidEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}

	var event models.Event
	if err := database.DB.First(&event, c.Param("eventId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	var registration models.Registration
	err := database.DB.
		Where("event_id = ? AND email = ?", event.ID, utils.NormalizeEmail(email)).
		First(&registration).Error
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"exists": false, "event_name": event.Name})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"exists":          true,
		"status":          registration.Status,
		"registration_id": registration.ID,
		"timestamp":       registration.Timestamp,
		"event_name":      event.Name,
	})
}

// UploadScreenshot handles payment screenshot uploads (multipart field
// "file", 5 MiB cap, png/jpg/jpeg/gif)
func UploadScreenshot(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file part in the request"})
		return
	}
	if fh.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}
	if fh.Size > utils.MaxScreenshotSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File size exceeds 5MB limit"})
		return
	}
	if !utils.AllowedScreenshot(fh.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type. Only PNG, JPG, JPEG, and GIF files are allowed"})
		return
	}

	url, err := utils.StoreScreenshot(fh)
	if err != nil {
		log.Error().Err(err).Msg("screenshot upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "File upload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"url":      url,
		"filename": path.Base(url),
	})
}

type responseInput struct {
	FieldID uint   `json:"field_id"`
	Value   string `json:"value"`
}

// CreateRegistration creates a registration with its payment screenshot
// reference and form field responses
func CreateRegistration(c *gin.Context) {
	var input struct {
		EventID       uint            `json:"event_id"`
		Email         string          `json:"email"`
		ScreenshotURL string          `json:"screenshot_url"`
		Responses     []responseInput `json:"responses"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body is required"})
		return
	}

	if input.EventID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event ID is required"})
		return
	}

	email := utils.NormalizeEmail(input.Email)
	if email == "" || !utils.ValidEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid email is required"})
		return
	}

	if input.ScreenshotURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment screenshot is required"})
		return
	}

	var event models.Event
	if err := database.DB.First(&event, input.EventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}
	if !event.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Registration is closed for this event"})
		return
	}

	var existing models.Registration
	if err := database.DB.Where("event_id = ? AND email = ?", event.ID, email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":           "Email already registered for this event",
			"existing_status": existing.Status,
		})
		return
	}

	// Every required field must have a response
	var requiredFields []models.EventFormField
	if err := database.DB.Where("event_id = ? AND is_required = ?", event.ID, true).Find(&requiredFields).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create registration"})
		return
	}

	answered := make(map[uint]bool, len(input.Responses))
	for _, r := range input.Responses {
		if r.FieldID != 0 && strings.TrimSpace(r.Value) != "" {
			answered[r.FieldID] = true
		}
	}
	var missing []string
	for _, field := range requiredFields {
		if !answered[field.ID] {
			missing = append(missing, field.Label)
		}
	}
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing required fields: " + strings.Join(missing, ", "),
		})
		return
	}

	// Responses may only reference fields belonging to this event
	var eventFields []models.EventFormField
	if err := database.DB.Where("event_id = ?", event.ID).Find(&eventFields).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create registration"})
		return
	}
	known := make(map[uint]bool, len(eventFields))
	for _, f := range eventFields {
		known[f.ID] = true
	}

	registration := models.Registration{
		EventID:       event.ID,
		Email:         email,
		ScreenshotURL: input.ScreenshotURL,
		Status:        models.StatusPending,
		Timestamp:     time.Now().UTC(),
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&registration).Error; err != nil {
			return err
		}
		for _, r := range input.Responses {
			value := strings.TrimSpace(r.Value)
			if r.FieldID == 0 || value == "" || !known[r.FieldID] {
				continue
			}
			resp := models.RegistrationFieldResponse{
				RegistrationID: registration.ID,
				FieldID:        r.FieldID,
				Value:          value,
			}
			if err := tx.Create(&resp).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("event_id", event.ID).Msg("failed to create registration")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create registration"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":         true,
		"registration_id": registration.ID,
		"status":          registration.Status,
		"message":         "Registration submitted successfully. Please wait for verification.",
		"event_name":      event.Name,
		"timestamp":       registration.Timestamp,
	})
}

// RegisterForEvent is the screenshot-less registration path
// (POST /events/:eventId/register)
func RegisterForEvent(c *gin.Context) {
	var input struct {
		Email     string          `json:"email"`
		Responses []responseInput `json:"responses"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body is required"})
		return
	}

	email := utils.NormalizeEmail(input.Email)
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	var event models.Event
	if err := database.DB.First(&event, c.Param("eventId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}
	if !event.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Registration is closed for this event"})
		return
	}

	var existing models.Registration
	if err := database.DB.Where("event_id = ? AND email = ?", event.ID, email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Email already registered",
			"status": existing.Status,
		})
		return
	}

	// Responses may only reference fields belonging to this event
	var eventFields []models.EventFormField
	if err := database.DB.Where("event_id = ?", event.ID).Find(&eventFields).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	known := make(map[uint]bool, len(eventFields))
	for _, f := range eventFields {
		known[f.ID] = true
	}

	registration := models.Registration{
		EventID:   event.ID,
		Email:     email,
		Status:    models.StatusPending,
		Timestamp: time.Now().UTC(),
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&registration).Error; err != nil {
			return err
		}
		for _, r := range input.Responses {
			value := strings.TrimSpace(r.Value)
			if r.FieldID == 0 || value == "" || !known[r.FieldID] {
				continue
			}
			resp := models.RegistrationFieldResponse{
				RegistrationID: registration.ID,
				FieldID:        r.FieldID,
				Value:          value,
			}
			if err := tx.Create(&resp).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":         true,
		"registration_id": registration.ID,
		"status":          registration.Status,
		"message":         "Registration submitted successfully. Please wait for verification.",
	})
}

// GetRegistrationDetails returns a registration with labeled responses
func GetRegistrationDetails(c *gin.Context) {
	var registration models.Registration
	err := database.DB.
		Preload("Event").
		Preload("Responses").
		Preload("Responses.Field").
		First(&registration, c.Param("registrationId")).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Registration not found"})
		return
	}

	responses := make([]gin.H, 0, len(registration.Responses))
	for _, resp := range registration.Responses {
		responses = append(responses, gin.H{
			"field_label": resp.Field.Label,
			"field_type":  resp.Field.FieldType,
			"value":       resp.Value,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"id":             registration.ID,
		"event_id":       registration.EventID,
		"event_name":     registration.Event.Name,
		"email":          registration.Email,
		"status":         registration.Status,
		"screenshot_url": registration.ScreenshotURL,
		"timestamp":      registration.Timestamp,
		"responses":      responses,
	})
}

// GetRegistrations lists an event's registrations for the admin
// console, newest first, responses keyed by field label
func GetRegistrations(c *gin.Context) {
	var registrations []models.Registration
	err := database.DB.
		Preload("Responses").
		Preload("Responses.Field").
		Where("event_id = ?", c.Param("id")).
		Order("timestamp desc").
		Find(&registrations).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	data := make([]gin.H, 0, len(registrations))
	for _, reg := range registrations {
		responses := gin.H{}
		for _, resp := range reg.Responses {
			if resp.Field.Label != "" {
				responses[resp.Field.Label] = resp.Value
			}
		}
		data = append(data, gin.H{
			"id":             reg.ID,
			"email":          reg.Email,
			"screenshot_url": reg.ScreenshotURL,
			"status":         reg.Status,
			"timestamp":      reg.Timestamp,
			"responses":      responses,
		})
	}
	c.JSON(http.StatusOK, data)
}

// UpdateRegistrationStatus moves a registration between
// pending/verified/rejected
func UpdateRegistrationStatus(c *gin.Context) {
	var registration models.Registration
	if err := database.DB.First(&registration, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Registration not found"})
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || !models.ValidStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
		return
	}

	registration.Status = models.RegistrationStatus(input.Status)
	if err := database.DB.Save(&registration).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Registration status updated successfully"})
}

// DownloadRegistrations exports an event's registrations as a CSV
// spreadsheet with one column per form field
func DownloadRegistrations(c *gin.Context) {
	var event models.Event
	if err := database.DB.First(&event, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	var formFields []models.EventFormField
	err := database.DB.
		Where("event_id = ?", event.ID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}}).
		Find(&formFields).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate CSV file"})
		return
	}

	var registrations []models.Registration
	if err := database.DB.Preload("Responses").Where("event_id = ?", event.ID).Find(&registrations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate CSV file"})
		return
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Email", "Timestamp", "Status", "Screenshot URL"}
	for _, field := range formFields {
		headers = append(headers, field.Label)
	}
	_ = writer.Write(headers)

	for _, reg := range registrations {
		values := make(map[uint]string, len(reg.Responses))
		for _, resp := range reg.Responses {
			values[resp.FieldID] = resp.Value
		}

		screenshot := reg.ScreenshotURL
		if screenshot == "" {
			screenshot = "N/A"
		}
		row := []string{
			reg.Email,
			reg.Timestamp.Format("2006-01-02 15:04:05"),
			string(reg.Status),
			screenshot,
		}
		for _, field := range formFields {
			if v, ok := values[field.ID]; ok {
				row = append(row, v)
			} else {
				row = append(row, "N/A")
			}
		}
		_ = writer.Write(row)
	}
	writer.Flush()

	filename := fmt.Sprintf("registrations_event_%d_%s.csv", event.ID, time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ViewScreenshot serves a registration's payment screenshot to the
// admin console. Cloudinary URLs redirect; local files are served
// inline with cache suppressed.
func ViewScreenshot(c *gin.Context) {
	var registration models.Registration
	if err := database.DB.First(&registration, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Registration not found"})
		return
	}
	if registration.ScreenshotURL == "" {
		c.JSON(http.StatusNotFound, gin.H{"message": "No screenshot available for this registration"})
		return
	}

	if strings.HasPrefix(registration.ScreenshotURL, "http://") || strings.HasPrefix(registration.ScreenshotURL, "https://") {
		c.Redirect(http.StatusFound, registration.ScreenshotURL)
		return
	}

	dir := filepath.Join(utils.UploadDir(), "screenshots")
	filePath, ok := resolveScreenshotFile(dir, path.Base(registration.ScreenshotURL))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Screenshot file not found on server"})
		return
	}

	mimetype := mime.TypeByExtension(filepath.Ext(filePath))
	if mimetype == "" {
		mimetype = "image/png"
	}

	c.Header("Content-Disposition", "inline")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Content-Type", mimetype)
	c.File(filePath)
}

// resolveScreenshotFile finds the stored file, retrying alternate image
// extensions for records whose URL extension no longer matches
func resolveScreenshotFile(dir, filename string) (string, bool) {
	filePath := filepath.Join(dir, filename)
	if fileExists(filePath) {
		return filePath, true
	}

	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".webp"} {
		candidate := filepath.Join(dir, base+ext)
		if fileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
