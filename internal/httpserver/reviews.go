package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"featherlite/internal/service/review"
)

type submitReviewRequest struct {
	ProductSlug string `json:"productSlug"`
	Name        string `json:"name"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
}

type moderateReviewRequest struct {
	Status string `json:"status"`
}

func submitReviewHandler(deps Deps, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req submitReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
		created, err := deps.Reviews.Submit(c.Request.Context(), review.SubmitInput{
			ProductSlug: req.ProductSlug,
			Name:        req.Name,
			Rating:      req.Rating,
			Comment:     req.Comment,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"review": created})
	}
}

// listReviewsHandler serves both audiences: a valid admin session may list
// any status across all products, everyone else gets approved reviews of
// one product.
func listReviewsHandler(deps Deps, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, isAdmin := deps.Admin.Verify(sessionToken(c))
		reviews, err := deps.Reviews.List(c.Request.Context(), review.ListInput{
			ProductSlug:    c.Query("slug"),
			Status:         c.Query("status"),
			IncludeProduct: c.Query("include") == "product",
			Admin:          isAdmin,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reviews": reviews})
	}
}

func moderateReviewHandler(deps Deps, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req moderateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
		updated, err := deps.Reviews.Moderate(c.Request.Context(), c.Param("id"), req.Status, c.GetString(adminEmailKey))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"review": updated})
	}
}
