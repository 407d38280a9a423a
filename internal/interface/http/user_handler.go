package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-user-service/internal/application"
	"github.com/oksasatya/go-user-service/internal/interface/middleware"
	"github.com/oksasatya/go-user-service/pkg/response"
	"github.com/oksasatya/go-user-service/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// Register handles POST /users
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, userapp.ErrMissingFields):
			response.Error[any](c, http.StatusUnprocessableEntity, "missing required fields", nil)
		case errors.Is(err, userapp.ErrEmailTaken):
			response.Error[any](c, http.StatusBadRequest, "email already registered", nil)
		default:
			h.storageError(c, err)
		}
		return
	}
	response.Success(c, http.StatusOK, userapp.ViewOf(u), "user created", nil)
}

// Login handles POST /token
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "invalid payload", validation.ToDetails(err))
		return
	}

	token, exp, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, userapp.ErrInvalidCredentials) {
			if h.Logger != nil {
				h.Logger.WithField("ip", middleware.ClientIP(c)).Warn("failed login attempt")
			}
			response.Error[any](c, http.StatusUnauthorized, "incorrect email or password", nil)
			return
		}
		h.storageError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	}, "login successful", map[string]any{"expires_at": exp})
}

// Get handles GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}
	v, err := h.Svc.GetView(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.storageError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v, "user", nil)
}

// Update handles PUT /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Update(c.Request.Context(), id, userapp.UpdateInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, userapp.ErrNoFieldsToUpdate):
			response.Error[any](c, http.StatusUnprocessableEntity, "at least one field must be provided", nil)
		case errors.Is(err, userapp.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		case errors.Is(err, userapp.ErrEmailTaken):
			response.Error[any](c, http.StatusBadRequest, "email already registered", nil)
		default:
			h.storageError(c, err)
		}
		return
	}
	response.Success(c, http.StatusOK, userapp.ViewOf(u), "user updated", nil)
}

// Delete handles DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}
	caller := middleware.CurrentUser(c)
	if err := h.Svc.Delete(c.Request.Context(), id, caller); err != nil {
		switch {
		case errors.Is(err, userapp.ErrAdminRequired):
			response.Error[any](c, http.StatusForbidden, "admin role required", nil)
		case errors.Is(err, userapp.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		default:
			h.storageError(c, err)
		}
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "user deleted", nil)
}

func (h *UserHandler) userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "invalid user id", nil)
		return 0, false
	}
	return id, true
}

func (h *UserHandler) storageError(c *gin.Context, err error) {
	if h.Logger != nil {
		h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("storage failure")
	}
	response.Error[any](c, http.StatusInternalServerError, "storage failure", nil)
}
