package routers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"khawam-pro/pkg/middleware/render"
	"khawam-pro/internal/service"
)

// AuthHandler serves registration and login. Both return a signed token
// alongside the user so the client can store the session in one step.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) RegisterRoutes(api *gin.RouterGroup) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register creates an account and returns a session token.
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param account body RegisterRequest true "account details"
// @Success 200 {object} render.Response
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		render.BadRequest(c, err.Error())
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, gin.H{"user": user, "token": token})
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates and returns a session token.
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "credentials"
// @Success 200 {object} render.Response
// @Failure 401 {object} render.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		render.BadRequest(c, err.Error())
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			render.Unauthorized(c, err.Error())
			return
		}
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, gin.H{"user": user, "token": token})
}
