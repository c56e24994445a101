package router

import "github.com/gin-gonic/gin"

// Module is one routable feature slice (auth, user, admin, content). Each
// module owns its handlers and per-route rate limiters; the registry only
// hands it the /api group to mount on.
type Module interface {
	Register(rg *gin.RouterGroup)
}
