package httpserver

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"featherlite/internal/domain"
	"featherlite/internal/service/cart"
)

type addToCartRequest struct {
	CartID string           `json:"cartId"`
	Lines  []cart.LineInput `json:"lines"`
}

type updateCartRequest struct {
	CartID string            `json:"cartId"`
	Lines  []cart.LineUpdate `json:"lines"`
}

type removeFromCartRequest struct {
	CartID  string   `json:"cartId"`
	LineIDs []string `json:"lineIds"`
}

type clearCartRequest struct {
	CartID string `json:"cartId"`
}

func fetchCartHandler(deps Deps, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID := strings.TrimSpace(c.Query("id"))
		if cartID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
			return
		}
		result, err := deps.Carts.Fetch(c.Request.Context(), cartID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		// A nil cart means the remote reported it gone; clients drop
		// their stored id on this response.
		c.JSON(http.StatusOK, gin.H{"cart": result})
	}
}

// addToCartHandler creates a cart when no id is supplied, otherwise adds
// lines to the existing one.
func addToCartHandler(deps Deps, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
		ctx := c.Request.Context()
		var (
			result *domain.Cart
			err    error
		)
		if strings.TrimSpace(req.CartID) == "" {
			result, err = deps.Carts.Create(ctx, req.Lines)
		} else {
			result, err = deps.Carts.AddLines(ctx, req.CartID, req.Lines)
		}
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": result})
	}
}

func updateCartHandler(deps Deps, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
		if strings.TrimSpace(req.CartID) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cartId is required"})
			return
		}
		result, err := deps.Carts.UpdateLines(c.Request.Context(), req.CartID, req.Lines)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": result})
	}
}

func removeFromCartHandler(deps Deps, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req removeFromCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
		if strings.TrimSpace(req.CartID) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cartId is required"})
			return
		}
		if len(req.LineIDs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lineIds is required"})
			return
		}
		result, err := deps.Carts.RemoveLines(c.Request.Context(), req.CartID, req.LineIDs)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": result})
	}
}

func clearCartHandler(deps Deps, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req clearCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
		if strings.TrimSpace(req.CartID) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cartId is required"})
			return
		}
		result, err := deps.Carts.Clear(c.Request.Context(), req.CartID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": result})
	}
}
