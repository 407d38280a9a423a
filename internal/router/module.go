package router

import "github.com/gin-gonic/gin"

// Module is a feature unit (users, debug) that registers its own
// routes on the shared root group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
