package client

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hindisamiti/hindisamiti-mitsdu/database"
	"github.com/hindisamiti/hindisamiti-mitsdu/models"
	"github.com/hindisamiti/hindisamiti-mitsdu/routes"
)

// TestFormSubmitAgainstServer runs the whole registration flow against
// the real router: upload, payload shape, persistence.
func TestFormSubmitAgainstServer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("UPLOAD_FOLDER", t.TempDir())

	db, err := gorm.Open(sqlite.Open("file:client_integration?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Admin{},
		&models.Event{},
		&models.EventFormField{},
		&models.Registration{},
		&models.RegistrationFieldResponse{},
	))
	database.DB = db

	event := models.Event{Name: "Sur Sangam", Date: time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC), IsActive: true}
	require.NoError(t, db.Create(&event).Error)
	fields := []models.EventFormField{
		{EventID: event.ID, Label: "Full Name", FieldType: "text", IsRequired: true, Order: 0},
		{EventID: event.ID, Label: "Phone", FieldType: "tel", IsRequired: true, Order: 1},
	}
	require.NoError(t, db.Create(&fields).Error)

	router := gin.New()
	routes.SetupRoutes(router)
	srv := httptest.NewServer(router)
	defer srv.Close()

	c := New(srv.URL)
	remote, err := c.Event(context.Background(), event.ID)
	require.NoError(t, err)

	form := NewForm(remote)
	form.Email = " Meera@Example.COM "
	form.SetAnswer(remote.FormFields[0].ID, "Meera Nair")
	form.SetAnswer(remote.FormFields[1].ID, "9876543210")
	form.Screenshot = &Screenshot{Filename: "payment.png", Size: 64, Content: bytes.NewReader(bytes.Repeat([]byte("p"), 64))}

	result, err := form.Submit(context.Background(), c)
	require.NoError(t, err, "submit must be accepted by the server")
	assert.Equal(t, "pending", result.Status)
	assert.Equal(t, "Sur Sangam", result.EventName)

	var reg models.Registration
	require.NoError(t, db.Preload("Responses").First(&reg, result.RegistrationID).Error)
	assert.Equal(t, "meera@example.com", reg.Email)
	assert.Len(t, reg.Responses, 2)
	assert.NotEmpty(t, reg.ScreenshotURL)
}
