package httpserver

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"featherlite/internal/service/admin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func loginHandler(deps Deps, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
		token, session, err := deps.Admin.Login(c.Request.Context(), clientIdentifier(c), req.Email, req.Password)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		maxAge := int(time.Until(session.ExpiresAt()).Seconds())
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(admin.SessionCookie, token, maxAge, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"session": gin.H{"email": session.Email, "expires": session.Expires}})
	}
}

func logoutHandler(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(admin.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func sessionHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := deps.Admin.Verify(sessionToken(c))
		if !ok {
			c.JSON(http.StatusOK, gin.H{"authenticated": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"authenticated": true,
			"email":         session.Email,
			"expires":       session.Expires,
		})
	}
}
