package http_swagger

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Controller serves the Swagger UI. The document itself is produced by
// `swag init` from the handler annotations.
type Controller struct {
	docURL string
}

func New() *Controller {
	return &Controller{
		docURL: "/api/swagger/doc.json",
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL(c.docURL),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}
