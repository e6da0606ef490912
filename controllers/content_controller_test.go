package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hindisamiti/hindisamiti-mitsdu/database"
	"github.com/hindisamiti/hindisamiti-mitsdu/models"
)

func TestIntro(t *testing.T) {
	router := setupAPI(t)
	token := adminToken(t)

	t.Run("empty database yields empty text", func(t *testing.T) {
		rec := doJSON(router, http.MethodGet, "/api/intro", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "", decodeMap(t, rec)["text"])
	})

	t.Run("update then read back", func(t *testing.T) {
		rec := doJSON(router, http.MethodPut, "/api/admin/intro", map[string]string{
			"text": "Hindi Samiti welcomes you",
		}, token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		get := doJSON(router, http.MethodGet, "/api/intro", nil, "")
		assert.Equal(t, "Hindi Samiti welcomes you", decodeMap(t, get)["text"])
	})

	t.Run("second update replaces the first", func(t *testing.T) {
		rec := doJSON(router, http.MethodPut, "/api/admin/intro", map[string]string{"text": "Updated"}, token)
		require.Equal(t, http.StatusOK, rec.Code)

		var count int64
		database.DB.Model(&models.Intro{}).Count(&count)
		assert.EqualValues(t, 1, count, "intro row must be upserted, not duplicated")
	})
}

func TestGalleryImages(t *testing.T) {
	router := setupAPI(t)
	token := adminToken(t)
	t.Setenv("UPLOAD_FOLDER", t.TempDir())

	t.Run("upload with caption", func(t *testing.T) {
		rec := doMultipart(router, "/api/admin/images", "image", "diwali.jpg", []byte("jpg bytes"),
			map[string]string{"caption": "Diwali 2025"}, token)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		body := decodeMap(t, rec)
		assert.Equal(t, "Diwali 2025", body["caption"])

		list := doJSON(router, http.MethodGet, "/api/images", nil, "")
		require.Equal(t, http.StatusOK, list.Code)
		images := decodeList(t, list)
		require.Len(t, images, 1)
		assert.Equal(t, "Diwali 2025", images[0]["caption"])
	})

	t.Run("rejects non-image upload", func(t *testing.T) {
		rec := doMultipart(router, "/api/admin/images", "image", "notes.txt", []byte("text"), nil, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete removes the record", func(t *testing.T) {
		var img models.Image
		require.NoError(t, database.DB.First(&img).Error)

		rec := doJSON(router, http.MethodDelete, fmt.Sprintf("/api/admin/images/%d", img.ID), nil, token)
		require.Equal(t, http.StatusOK, rec.Code)

		var count int64
		database.DB.Model(&models.Image{}).Count(&count)
		assert.EqualValues(t, 0, count)
	})
}

func TestTeamMembers(t *testing.T) {
	router := setupAPI(t)
	token := adminToken(t)

	t.Run("create requires name and role", func(t *testing.T) {
		rec := doJSON(router, http.MethodPost, "/api/admin/team", map[string]string{"name": "Asha"}, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("create and list", func(t *testing.T) {
		rec := doJSON(router, http.MethodPost, "/api/admin/team", map[string]string{
			"name": "Asha Verma",
			"role": "President",
		}, token)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		list := doJSON(router, http.MethodGet, "/api/team-members", nil, "")
		require.Equal(t, http.StatusOK, list.Code)
		members := decodeList(t, list)
		require.Len(t, members, 1)
		assert.Equal(t, "Asha Verma", members[0]["name"])
		assert.Equal(t, "President", members[0]["role"])
	})

	t.Run("update and delete", func(t *testing.T) {
		var member models.TeamMember
		require.NoError(t, database.DB.First(&member).Error)

		rec := doJSON(router, http.MethodPut, fmt.Sprintf("/api/admin/team/%d", member.ID), map[string]string{
			"name": "Asha Verma",
			"role": "Faculty Coordinator",
		}, token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		require.NoError(t, database.DB.First(&member, member.ID).Error)
		assert.Equal(t, "Faculty Coordinator", member.Role)

		del := doJSON(router, http.MethodDelete, fmt.Sprintf("/api/admin/team/%d", member.ID), nil, token)
		require.Equal(t, http.StatusOK, del.Code)
	})
}

func TestBlogs(t *testing.T) {
	router := setupAPI(t)
	token := adminToken(t)

	t.Run("author falls back to the logged-in admin", func(t *testing.T) {
		rec := doJSON(router, http.MethodPost, "/api/admin/blogs", map[string]any{
			"title":   "Hindi Diwas Recap",
			"content": "What a week it was.",
		}, token)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var blog models.Blog
		require.NoError(t, database.DB.First(&blog).Error)
		assert.Equal(t, "admin", blog.Author)
	})

	t.Run("buttons round trip", func(t *testing.T) {
		rec := doJSON(router, http.MethodPost, "/api/admin/blogs", map[string]any{
			"title":   "Auditions Open",
			"content": "Sign up now.",
			"author":  "Cultural Secretary",
			"button1": map[string]string{"label": "Register", "link": "https://forms.example.com/audition"},
		}, token)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		blogID := decodeMap(t, rec)["id"]

		get := doJSON(router, http.MethodGet, fmt.Sprintf("/api/blogs/%v", blogID), nil, "")
		require.Equal(t, http.StatusOK, get.Code)
		body := decodeMap(t, get)
		assert.Equal(t, "Cultural Secretary", body["author"])

		button1, _ := body["button1"].(map[string]any)
		require.NotNil(t, button1)
		assert.Equal(t, "Register", button1["label"])
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		var blog models.Blog
		require.NoError(t, database.DB.Where("title = ?", "Hindi Diwas Recap").First(&blog).Error)

		rec := doJSON(router, http.MethodPut, fmt.Sprintf("/api/admin/blogs/%d", blog.ID), map[string]any{
			"title": "Hindi Diwas 2026 Recap",
		}, token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		require.NoError(t, database.DB.First(&blog, blog.ID).Error)
		assert.Equal(t, "Hindi Diwas 2026 Recap", blog.Title)
		assert.Equal(t, "What a week it was.", blog.Content, "content must survive a title-only update")
	})

	t.Run("delete", func(t *testing.T) {
		var blog models.Blog
		require.NoError(t, database.DB.First(&blog).Error)

		rec := doJSON(router, http.MethodDelete, fmt.Sprintf("/api/admin/blogs/%d", blog.ID), nil, token)
		require.Equal(t, http.StatusOK, rec.Code)

		get := doJSON(router, http.MethodGet, fmt.Sprintf("/api/blogs/%d", blog.ID), nil, "")
		assert.Equal(t, http.StatusNotFound, get.Code)
	})
}
