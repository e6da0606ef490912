package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/hindisamiti/hindisamiti-mitsdu/controllers"
	"github.com/hindisamiti/hindisamiti-mitsdu/middleware"
)

func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	// Public routes
	api.GET("/intro", controllers.GetIntro)
	api.GET("/images", controllers.GetImages)
	api.GET("/team-members", controllers.GetTeamMembers)
	api.GET("/events", controllers.GetPublicEvents)
	api.GET("/events/:eventId", controllers.GetPublicEventDetails)
	api.GET("/events/:eventId/check-registration", controllers.CheckRegistrationStatus)
	api.POST("/events/:eventId/register", controllers.RegisterForEvent)
	api.GET("/registrations/check/:eventId", controllers.CheckExistingRegistration)
	api.POST("/registrations", controllers.CreateRegistration)
	api.GET("/registrations/:registrationId", controllers.GetRegistrationDetails)
	api.POST("/upload", controllers.UploadScreenshot)
	api.GET("/blogs", controllers.GetBlogs)
	api.GET("/blogs/:blogId", controllers.GetBlogDetails)
	api.POST("/auth/login", controllers.Login)

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	{
		admin.GET("/verify-token", controllers.VerifyToken)
		admin.POST("/fix-schema", controllers.FixSchema)

		admin.GET("/intro", controllers.GetIntro)
		admin.PUT("/intro", controllers.UpdateIntro)

		admin.GET("/images", controllers.GetImages)
		admin.POST("/images", controllers.UploadGalleryImage)
		admin.DELETE("/images/:imageId", controllers.DeleteImage)

		admin.GET("/events", controllers.GetAdminEvents)
		admin.POST("/events", controllers.CreateEvent)
		admin.PUT("/events/:eventId", controllers.UpdateEvent)
		admin.DELETE("/events/:eventId", controllers.DeleteEvent)
		admin.POST("/events/upload-cover-image", controllers.UploadEventCover)
		admin.POST("/events/upload-qr", controllers.UploadEventQR)

		// The :id segment is an event id for the list/download routes
		// and a registration id for status/screenshot
		admin.GET("/registrations/:id", controllers.GetRegistrations)
		admin.PUT("/registrations/:id/status", controllers.UpdateRegistrationStatus)
		admin.GET("/registrations/:id/download", controllers.DownloadRegistrations)
		admin.GET("/registrations/:id/screenshot", controllers.ViewScreenshot)

		admin.GET("/team", controllers.GetTeamMembers)
		admin.POST("/team", controllers.CreateTeamMember)
		admin.PUT("/team/:memberId", controllers.UpdateTeamMember)
		admin.DELETE("/team/:memberId", controllers.DeleteTeamMember)
		admin.POST("/team/upload-image", controllers.UploadTeamMemberImage)

		admin.POST("/blogs", controllers.CreateBlog)
		admin.PUT("/blogs/:blogId", controllers.UpdateBlog)
		admin.DELETE("/blogs/:blogId", controllers.DeleteBlog)
		admin.POST("/blogs/upload-cover", controllers.UploadBlogCover)
	}
}
