package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type subsystemStatus struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Category   string `json:"category"`
	Configured bool   `json:"configured"`
	Help       string `json:"help,omitempty"`
}

// statusHandler reports per-subsystem configuration readiness so operators
// can tell at a glance which integrations are live and which are running
// in mock mode.
func statusHandler(deps Deps, db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := deps.Config

		dbReady := false
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
			dbReady = db.Ping(ctx) == nil
			cancel()
		}

		subsystems := []subsystemStatus{
			{
				ID:         "database",
				Label:      "PostgreSQL",
				Category:   "core",
				Configured: dbReady,
				Help:       "set DB_DSN and run migrations",
			},
			{
				ID:         "adminCredentials",
				Label:      "Admin login",
				Category:   "auth",
				Configured: cfg.AdminCredentialsConfigured(),
				Help:       "set REVIEW_ADMIN_EMAIL, REVIEW_ADMIN_PASSWORD_HASH and a 32+ character REVIEW_ADMIN_SECRET",
			},
			{
				ID:         "storefrontApi",
				Label:      "Storefront API",
				Category:   "platform",
				Configured: cfg.StorefrontConfigured(),
				Help:       "set SHOPIFY_STORE_DOMAIN and SHOPIFY_STOREFRONT_ACCESS_TOKEN for live carts",
			},
			{
				ID:         "adminApi",
				Label:      "Admin API",
				Category:   "platform",
				Configured: cfg.AdminAPIConfigured(),
				Help:       "set SHOPIFY_ADMIN_ACCESS_TOKEN to enable product and order sync",
			},
			{
				ID:         "webhooks",
				Label:      "Order webhooks",
				Category:   "platform",
				Configured: cfg.WebhooksConfigured(),
				Help:       "set SHOPIFY_WEBHOOK_SECRET to verify deliveries",
			},
		}

		configured := 0
		for _, s := range subsystems {
			if s.Configured {
				configured++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"subsystems": subsystems,
			"summary": gin.H{
				"configured": configured,
				"total":      len(subsystems),
				"mockMode":   !cfg.StorefrontConfigured(),
			},
		})
	}
}
