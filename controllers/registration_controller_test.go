package controllers_test

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hindisamiti/hindisamiti-mitsdu/database"
	"github.com/hindisamiti/hindisamiti-mitsdu/models"
)

func TestUploadScreenshot(t *testing.T) {
	router := setupAPI(t)
	t.Setenv("UPLOAD_FOLDER", t.TempDir())

	tests := []struct {
		name      string
		filename  string
		content   []byte
		wantCode  int
		wantError string
	}{
		{
			name:      "no file part",
			filename:  "",
			wantCode:  http.StatusBadRequest,
			wantError: "No file part in the request",
		},
		{
			name:      "oversized file",
			filename:  "payment.png",
			content:   make([]byte, 6*1024*1024),
			wantCode:  http.StatusBadRequest,
			wantError: "File size exceeds 5MB limit",
		},
		{
			name:      "wrong file type",
			filename:  "payment.pdf",
			content:   []byte("not an image"),
			wantCode:  http.StatusBadRequest,
			wantError: "Invalid file type. Only PNG, JPG, JPEG, and GIF files are allowed",
		},
		{
			name:     "valid screenshot",
			filename: "payment.PNG",
			content:  []byte("fake png bytes"),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doMultipart(router, "/api/upload", "file", tt.filename, tt.content, nil, "")
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			body := decodeMap(t, rec)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
				return
			}
			assert.Equal(t, true, body["success"])
			url, _ := body["url"].(string)
			require.True(t, strings.HasPrefix(url, "/uploads/screenshots/"), "unexpected url %q", url)

			// The stored filename is regenerated, not the client's
			stored := filepath.Join(os.Getenv("UPLOAD_FOLDER"), "screenshots", filepath.Base(url))
			_, err := os.Stat(stored)
			assert.NoError(t, err, "uploaded file should exist on disk")
			assert.NotContains(t, url, "payment")
		})
	}
}

func TestCreateRegistration(t *testing.T) {
	router := setupAPI(t)
	event := createTestEvent(t, "Antakshari Night", true,
		models.EventFormField{Label: "Full Name", FieldType: "text", IsRequired: true, Order: 0},
		models.EventFormField{Label: "Phone", FieldType: "tel", IsRequired: true, Order: 1},
		models.EventFormField{Label: "Dietary Needs", FieldType: "text", IsRequired: false, Order: 2},
	)
	nameField := event.FormFields[0]
	phoneField := event.FormFields[1]

	t.Run("rejects missing email", func(t *testing.T) {
		rec := doJSON(router, http.MethodPost, "/api/registrations", map[string]any{
			"event_id":       event.ID,
			"screenshot_url": "/uploads/screenshots/a.png",
		}, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Valid email is required", decodeMap(t, rec)["error"])
	})

	t.Run("rejects missing screenshot", func(t *testing.T) {
		rec := doJSON(router, http.MethodPost, "/api/registrations", map[string]any{
			"event_id": event.ID,
			"email":    "a@b.com",
		}, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Payment screenshot is required", decodeMap(t, rec)["error"])
	})

	t.Run("rejects missing required fields without side effects", func(t *testing.T) {
		rec := doJSON(router, http.MethodPost, "/api/registrations", map[string]any{
			"event_id":       event.ID,
			"email":          "a@b.com",
			"screenshot_url": "/uploads/screenshots/a.png",
			"responses": []map[string]any{
				{"field_id": phoneField.ID, "value": "   "}, // whitespace does not count
			},
		}, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		msg, _ := decodeMap(t, rec)["error"].(string)
		assert.True(t, strings.HasPrefix(msg, "Missing required fields: "), msg)
		assert.Contains(t, msg, "Full Name")
		assert.Contains(t, msg, "Phone")
		assert.NotContains(t, msg, "Dietary Needs")

		var count int64
		database.DB.Model(&models.Registration{}).Count(&count)
		assert.EqualValues(t, 0, count, "failed registration must not persist")
	})

	t.Run("creates registration and normalizes email", func(t *testing.T) {
		rec := doJSON(router, http.MethodPost, "/api/registrations", map[string]any{
			"event_id":       event.ID,
			"email":          "  Priya.S@Example.COM  ",
			"screenshot_url": "/uploads/screenshots/a.png",
			"responses": []map[string]any{
				{"field_id": nameField.ID, "value": "Priya Sharma"},
				{"field_id": phoneField.ID, "value": "9876543210"},
				{"field_id": 9999, "value": "stray field is ignored"},
			},
		}, "")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		body := decodeMap(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "pending", body["status"])
		assert.Equal(t, "Antakshari Night", body["event_name"])

		var reg models.Registration
		require.NoError(t, database.DB.Preload("Responses").First(&reg).Error)
		assert.Equal(t, "priya.s@example.com", reg.Email)
		assert.Equal(t, models.StatusPending, reg.Status)
		assert.Len(t, reg.Responses, 2, "stray field response must be dropped")
	})

	t.Run("rejects duplicate email with existing status", func(t *testing.T) {
		rec := doJSON(router, http.MethodPost, "/api/registrations", map[string]any{
			"event_id":       event.ID,
			"email":          "PRIYA.S@example.com",
			"screenshot_url": "/uploads/screenshots/b.png",
			"responses": []map[string]any{
				{"field_id": nameField.ID, "value": "Priya"},
				{"field_id": phoneField.ID, "value": "9876543210"},
			},
		}, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeMap(t, rec)
		assert.Equal(t, "Email already registered for this event", body["error"])
		assert.Equal(t, "pending", body["existing_status"])
	})

	t.Run("rejects inactive event", func(t *testing.T) {
		closed := createTestEvent(t, "Closed Event", false)
		rec := doJSON(router, http.MethodPost, "/api/registrations", map[string]any{
			"event_id":       closed.ID,
			"email":          "a@b.com",
			"screenshot_url": "/uploads/screenshots/a.png",
		}, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Registration is closed for this event", decodeMap(t, rec)["error"])
	})
}

func TestRegisterForEvent(t *testing.T) {
	router := setupAPI(t)
	event := createTestEvent(t, "Open Mic", true,
		models.EventFormField{Label: "Full Name", FieldType: "text", IsRequired: true, Order: 0},
	)
	other := createTestEvent(t, "Other Event", true,
		models.EventFormField{Label: "Roll Number", FieldType: "text", IsRequired: true, Order: 0},
	)

	rec := doJSON(router, http.MethodPost, fmt.Sprintf("/api/events/%d/register", event.ID), map[string]any{
		"email": "mic@x.com",
		"responses": []map[string]any{
			{"field_id": event.FormFields[0].ID, "value": "Nikhil"},
			{"field_id": other.FormFields[0].ID, "value": "belongs to another event"},
		},
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var reg models.Registration
	require.NoError(t, database.DB.Preload("Responses").Where("email = ?", "mic@x.com").First(&reg).Error)
	require.Len(t, reg.Responses, 1, "responses referencing another event's fields must be dropped")
	assert.Equal(t, event.FormFields[0].ID, reg.Responses[0].FieldID)

	dup := doJSON(router, http.MethodPost, fmt.Sprintf("/api/events/%d/register", event.ID), map[string]any{
		"email": "MIC@x.com",
	}, "")
	assert.Equal(t, http.StatusBadRequest, dup.Code)
}

func TestCheckRegistration(t *testing.T) {
	router := setupAPI(t)
	event := createTestEvent(t, "Holi Mela", true)

	reg := models.Registration{
		EventID:   event.ID,
		Email:     "dev@example.com",
		Status:    models.StatusVerified,
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, database.DB.Create(&reg).Error)

	t.Run("requires email parameter", func(t *testing.T) {
		rec := doJSON(router, http.MethodGet, fmt.Sprintf("/api/events/%d/check-registration", event.ID), nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := doJSON(router, http.MethodGet, fmt.Sprintf("/api/events/%d/check-registration?email=new@example.com", event.ID), nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, decodeMap(t, rec)["exists"])
	})

	t.Run("known email is matched case insensitively", func(t *testing.T) {
		rec := doJSON(router, http.MethodGet, fmt.Sprintf("/api/events/%d/check-registration?email=DEV@example.com", event.ID), nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeMap(t, rec)
		assert.Equal(t, true, body["exists"])
		assert.Equal(t, "verified", body["status"])
		assert.EqualValues(t, reg.ID, body["registration_id"])
	})
}

func TestUpdateRegistrationStatus(t *testing.T) {
	router := setupAPI(t)
	token := adminToken(t)
	event := createTestEvent(t, "Diwali Utsav", true)

	reg := models.Registration{EventID: event.ID, Email: "x@y.com", Status: models.StatusPending, Timestamp: time.Now().UTC()}
	require.NoError(t, database.DB.Create(&reg).Error)
	path := fmt.Sprintf("/api/admin/registrations/%d/status", reg.ID)

	t.Run("requires auth", func(t *testing.T) {
		rec := doJSON(router, http.MethodPut, path, map[string]string{"status": "verified"}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		rec := doJSON(router, http.MethodPut, path, map[string]string{"status": "approved"}, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid status", decodeMap(t, rec)["message"])
	})

	t.Run("verifies a registration", func(t *testing.T) {
		rec := doJSON(router, http.MethodPut, path, map[string]string{"status": "verified"}, token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var updated models.Registration
		require.NoError(t, database.DB.First(&updated, reg.ID).Error)
		assert.Equal(t, models.StatusVerified, updated.Status)
	})
}

func TestGetRegistrations(t *testing.T) {
	router := setupAPI(t)
	token := adminToken(t)
	event := createTestEvent(t, "Kavi Sammelan", true,
		models.EventFormField{Label: "Full Name", FieldType: "text", IsRequired: true, Order: 0},
	)
	field := event.FormFields[0]

	older := models.Registration{EventID: event.ID, Email: "first@x.com", Status: models.StatusPending, Timestamp: time.Now().Add(-time.Hour).UTC()}
	newer := models.Registration{EventID: event.ID, Email: "second@x.com", Status: models.StatusPending, Timestamp: time.Now().UTC()}
	require.NoError(t, database.DB.Create(&older).Error)
	require.NoError(t, database.DB.Create(&newer).Error)
	require.NoError(t, database.DB.Create(&models.RegistrationFieldResponse{
		RegistrationID: older.ID, FieldID: field.ID, Value: "Arjun",
	}).Error)

	rec := doJSON(router, http.MethodGet, fmt.Sprintf("/api/admin/registrations/%d", event.ID), nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	list := decodeList(t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, "second@x.com", list[0]["email"], "newest first")
	assert.Equal(t, "first@x.com", list[1]["email"])

	responses, _ := list[1]["responses"].(map[string]any)
	assert.Equal(t, "Arjun", responses["Full Name"], "responses keyed by field label")
}

func TestDownloadRegistrations(t *testing.T) {
	router := setupAPI(t)
	token := adminToken(t)
	event := createTestEvent(t, "Hindi Diwas", true,
		models.EventFormField{Label: "Full Name", FieldType: "text", IsRequired: true, Order: 0},
		models.EventFormField{Label: "College", FieldType: "text", IsRequired: false, Order: 1},
	)

	reg := models.Registration{
		EventID:       event.ID,
		Email:         "student@college.edu",
		ScreenshotURL: "/uploads/screenshots/s.png",
		Status:        models.StatusPending,
		Timestamp:     time.Now().UTC(),
	}
	require.NoError(t, database.DB.Create(&reg).Error)
	require.NoError(t, database.DB.Create(&models.RegistrationFieldResponse{
		RegistrationID: reg.ID, FieldID: event.FormFields[0].ID, Value: "Ravi Kumar",
	}).Error)

	rec := doJSON(router, http.MethodGet, fmt.Sprintf("/api/admin/registrations/%d/download", event.ID), nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), fmt.Sprintf("registrations_event_%d_", event.ID))

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Email", "Timestamp", "Status", "Screenshot URL", "Full Name", "College"}, rows[0])
	assert.Equal(t, "student@college.edu", rows[1][0])
	assert.Equal(t, "pending", rows[1][2])
	assert.Equal(t, "Ravi Kumar", rows[1][4])
	assert.Equal(t, "N/A", rows[1][5], "unanswered field exports as N/A")
}
