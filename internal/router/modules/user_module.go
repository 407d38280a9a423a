package modules

import (
	"github.com/gin-gonic/gin"

	userapp "github.com/oksasatya/go-user-service/internal/application"
	handlers "github.com/oksasatya/go-user-service/internal/interface/http"
	"github.com/oksasatya/go-user-service/internal/interface/middleware"
	"github.com/oksasatya/go-user-service/pkg/helpers"
)

// UserModule wires user HTTP handlers and the auth guard into routes.
// Public: POST /users (register), POST /token (login).
// Protected: GET/PUT/DELETE /users/:id. Delete additionally requires
// the admin role, enforced by the service.
type UserModule struct {
	Handler *handlers.UserHandler
	Tokens  *helpers.TokenManager
	Svc     *userapp.Service
}

func NewUserModule(h *handlers.UserHandler, tokens *helpers.TokenManager, svc *userapp.Service) *UserModule {
	return &UserModule{Handler: h, Tokens: tokens, Svc: svc}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.POST("/users", m.Handler.Register)
	rg.POST("/token", m.Handler.Login)

	auth := rg.Group("/users")
	auth.Use(middleware.Auth(m.Tokens, m.Svc))
	{
		auth.GET("/:id", m.Handler.Get)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
