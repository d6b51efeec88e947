package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"featherlite/internal/service/catalog"
)

func listProductsHandler(deps Deps, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := catalog.Filter{
			Query:    c.Query("query"),
			Category: c.Query("category"),
			Season:   c.Query("season"),
			Finish:   c.Query("finish"),
			Coverage: c.Query("coverage"),
			Concern:  c.Query("concern"),
			Sort:     c.Query("sort"),
		}
		items, total, err := deps.Catalog.List(c.Request.Context(), filter)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
	}
}

func getProductHandler(deps Deps, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := deps.Catalog.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": product})
	}
}
