package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hindisamiti/hindisamiti-mitsdu/database"
	"github.com/hindisamiti/hindisamiti-mitsdu/models"
	"github.com/hindisamiti/hindisamiti-mitsdu/routes"
	"github.com/hindisamiti/hindisamiti-mitsdu/utils"
)

// setupAPI wires a fresh in-memory database and a router for one test.
func setupAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	err = db.AutoMigrate(
		&models.Admin{},
		&models.Image{},
		&models.Intro{},
		&models.Event{},
		&models.EventFormField{},
		&models.Registration{},
		&models.RegistrationFieldResponse{},
		&models.TeamMember{},
		&models.Blog{},
	)
	require.NoError(t, err, "failed to migrate test database")
	database.DB = db

	router := gin.New()
	routes.SetupRoutes(router)
	return router
}

// adminToken seeds an admin account and returns a bearer token for it.
func adminToken(t *testing.T) string {
	t.Helper()
	admin := models.Admin{Username: "admin"}
	require.NoError(t, admin.SetPassword("secret123"))
	require.NoError(t, database.DB.Create(&admin).Error)

	token, err := utils.GenerateToken(admin.ID, admin.Username)
	require.NoError(t, err)
	return token
}

func createTestEvent(t *testing.T, name string, active bool, fields ...models.EventFormField) models.Event {
	t.Helper()
	event := models.Event{
		Name:     name,
		Date:     time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		IsActive: active,
	}
	require.NoError(t, database.DB.Create(&event).Error)
	for i := range fields {
		fields[i].EventID = event.ID
	}
	if len(fields) > 0 {
		require.NoError(t, database.DB.Create(&fields).Error)
	}
	event.FormFields = fields
	return event
}

func doJSON(router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func doMultipart(router *gin.Engine, path, field, filename string, content []byte, extra map[string]string, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if filename != "" {
		part, _ := w.CreateFormFile(field, filename)
		part.Write(content)
	}
	for k, v := range extra {
		w.WriteField(k, v)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var data map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data), "body: %s", rec.Body.String())
	return data
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var data []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data), "body: %s", rec.Body.String())
	return data
}
