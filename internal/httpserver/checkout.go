package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"featherlite/internal/service/checkout"
)

type checkoutRequest struct {
	Items []checkout.Item `json:"items"`
}

func checkoutHandler(deps Deps, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
		result, err := deps.Checkout.Build(c.Request.Context(), req.Items)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
