package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hindisamiti/hindisamiti-mitsdu/database"
	"github.com/hindisamiti/hindisamiti-mitsdu/models"
	"github.com/hindisamiti/hindisamiti-mitsdu/utils"
)

// AuthMiddleware guards admin routes with a bearer token. The admin
// referenced by the token must still exist.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Token is missing"})
			c.Abort()
			return
		}

		tokenString = strings.TrimPrefix(tokenString, "Bearer ")
		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			if err.Error() == "token has expired" {
				c.JSON(http.StatusUnauthorized, gin.H{"message": "Token has expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"message": "Token is invalid"})
			}
			c.Abort()
			return
		}

		adminID, err := claims.AdminID()
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Token payload missing admin id"})
			c.Abort()
			return
		}

		var admin models.Admin
		if err := database.DB.First(&admin, adminID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token: admin not found"})
			c.Abort()
			return
		}

		c.Set("admin_id", admin.ID)
		c.Set("username", admin.Username)
		c.Next()
	}
}
