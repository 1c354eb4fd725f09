package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.GET("/listings", handler.GetListings)
		api.GET("/listings/:id", handler.GetListing)
		api.POST("/listings", handler.CreateListing)
		api.POST("/listings/:id/contact", handler.ContactSeller)
		api.GET("/categories", handler.GetCategories)
	}
}
