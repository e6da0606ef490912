package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hindisamiti/hindisamiti-mitsdu/database"
	"github.com/hindisamiti/hindisamiti-mitsdu/models"
)

// GetBlogs returns all blog posts, newest first
func GetBlogs(c *gin.Context) {
	var blogs []models.Blog
	if err := database.DB.Order("created_at desc").Find(&blogs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, blogs)
}

// GetBlogDetails returns a single blog post
func GetBlogDetails(c *gin.Context) {
	var blog models.Blog
	if err := database.DB.First(&blog, c.Param("blogId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Blog not found"})
		return
	}
	c.JSON(http.StatusOK, blog)
}

type blogInput struct {
	Title         string             `json:"title" binding:"required"`
	Content       string             `json:"content" binding:"required"`
	Author        string             `json:"author"`
	CoverImageURL string             `json:"cover_image_url"`
	Button1       *models.BlogButton `json:"button1"`
	Button2       *models.BlogButton `json:"button2"`
}

// CreateBlog creates a blog post; a blank author falls back to the
// logged-in admin's username
func CreateBlog(c *gin.Context) {
	var input blogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	author := input.Author
	if author == "" {
		author = c.GetString("username")
	}
	if author == "" {
		author = "Admin"
	}

	blog := models.Blog{
		Title:         input.Title,
		Content:       input.Content,
		Author:        author,
		CoverImageURL: input.CoverImageURL,
	}
	if input.Button1 != nil {
		blog.Button1 = *input.Button1
	}
	if input.Button2 != nil {
		blog.Button2 = *input.Button2
	}

	if err := database.DB.Create(&blog).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Blog created successfully",
		"id":      blog.ID,
	})
}

// UpdateBlog updates the provided fields of a blog post
func UpdateBlog(c *gin.Context) {
	var blog models.Blog
	if err := database.DB.First(&blog, c.Param("blogId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Blog not found"})
		return
	}

	var input struct {
		Title         *string            `json:"title"`
		Content       *string            `json:"content"`
		Author        *string            `json:"author"`
		CoverImageURL *string            `json:"cover_image_url"`
		Button1       *models.BlogButton `json:"button1"`
		Button2       *models.BlogButton `json:"button2"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if input.Title != nil {
		blog.Title = *input.Title
	}
	if input.Content != nil {
		blog.Content = *input.Content
	}
	if input.Author != nil {
		blog.Author = *input.Author
	}
	if input.CoverImageURL != nil {
		blog.CoverImageURL = *input.CoverImageURL
	}
	if input.Button1 != nil {
		blog.Button1 = *input.Button1
	}
	if input.Button2 != nil {
		blog.Button2 = *input.Button2
	}

	if err := database.DB.Save(&blog).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Blog updated successfully"})
}

// DeleteBlog deletes a blog post
func DeleteBlog(c *gin.Context) {
	var blog models.Blog
	if err := database.DB.First(&blog, c.Param("blogId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Blog not found"})
		return
	}

	if err := database.DB.Delete(&blog).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Blog deleted successfully"})
}

// UploadBlogCover stores a blog cover image and returns its URL
func UploadBlogCover(c *gin.Context) {
	uploadNamedImage(c, "blog_covers")
}
