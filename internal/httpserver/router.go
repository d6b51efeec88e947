package httpserver

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"featherlite/internal/config"
	"featherlite/internal/service/admin"
	"featherlite/internal/service/cart"
	"featherlite/internal/service/catalog"
	"featherlite/internal/service/checkout"
	"featherlite/internal/service/orders"
	"featherlite/internal/service/review"
	"featherlite/internal/service/sync"
)

// Deps carries the wired services into the router.
type Deps struct {
	Config   config.Config
	Carts    *cart.Service
	Catalog  *catalog.Service
	Checkout *checkout.Service
	Orders   *orders.Service
	Reviews  *review.Service
	Sync     *sync.Service
	Admin    *admin.Service
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/products", listProductsHandler(deps, logger))
	router.GET("/products/:slug", getProductHandler(deps, logger))

	router.GET("/cart", fetchCartHandler(deps, logger))
	router.POST("/cart", addToCartHandler(deps, logger))
	router.PATCH("/cart", updateCartHandler(deps, logger))
	router.DELETE("/cart", removeFromCartHandler(deps, logger))
	router.POST("/cart/clear", clearCartHandler(deps, logger))

	router.POST("/checkout", checkoutHandler(deps, logger))
	router.POST("/shopify/webhook", webhookHandler(deps, logger))

	router.GET("/reviews", listReviewsHandler(deps, logger))
	router.POST("/reviews", submitReviewHandler(deps, logger))

	router.POST("/auth/login", loginHandler(deps, logger))
	router.POST("/auth/logout", logoutHandler)
	router.GET("/auth/session", sessionHandler(deps))

	router.GET("/status", statusHandler(deps, db))

	authed := router.Group("/", requireAdmin(deps.Admin))
	authed.PATCH("/reviews/:id", moderateReviewHandler(deps, logger))
	authed.GET("/orders", listOrdersHandler(deps, logger))
	authed.POST("/sync/products", syncProductsHandler(deps, logger))

	return router, nil
}

const adminEmailKey = "adminEmail"

// sessionToken pulls the admin token from the session cookie, falling back
// to a bearer Authorization header for non-browser clients.
func sessionToken(c *gin.Context) string {
	if token, err := c.Cookie(admin.SessionCookie); err == nil && token != "" {
		return token
	}
	const prefix = "Bearer "
	header := c.GetHeader("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}

func requireAdmin(admins *admin.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := admins.Verify(sessionToken(c))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(adminEmailKey, session.Email)
		c.Next()
	}
}
