package httpserver

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// webhookBodyLimit caps raw webhook payloads; real order documents are a
// few kilobytes.
const webhookBodyLimit = 1 << 20

// webhookHandler verifies the delivery signature against the raw body
// before anything is parsed. Unsupported topics are acknowledged so the
// platform does not retry them.
func webhookHandler(deps Deps, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, webhookBodyLimit))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}
		ignored, err := deps.Orders.HandleWebhook(
			c.Request.Context(),
			c.GetHeader("X-Shopify-Topic"),
			body,
			c.GetHeader("X-Shopify-Hmac-Sha256"),
		)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		if ignored {
			c.JSON(http.StatusOK, gin.H{"ignored": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// listOrdersHandler refreshes from the platform when the admin API is
// configured, then serves the stored orders. A failed refresh degrades to
// the last synced state instead of failing the read.
func listOrdersHandler(deps Deps, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Config.AdminAPIConfigured() {
			if _, err := deps.Sync.Orders(c.Request.Context()); err != nil {
				logger.Printf("http: order refresh failed error=%v", err)
			}
		}
		orders, err := deps.Orders.List(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func syncProductsHandler(deps Deps, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := deps.Sync.Products(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"synced": count})
	}
}
