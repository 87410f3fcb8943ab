package router

import "github.com/gin-gonic/gin"

// Module registers its routes on the group it is given: /api for modules
// added with Add, the engine root for AddRoot.
type Module interface {
	Register(rg *gin.RouterGroup)
}
