package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
	appErrors "github.com/noah-isme/silverleaf-workload-api/pkg/errors"
	"github.com/noah-isme/silverleaf-workload-api/pkg/response"
)

type authService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context)
	ForgotPassword(ctx context.Context) (*models.ForgotPasswordResponse, error)
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate user by email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Register godoc
// @Summary Sign-up stub
// @Description Accepts any payload and stores nothing
// @Tags Authentication
// @Produce json
// @Success 201 {object} map[string]string
// @Failure 405 {object} map[string]string
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	if !allowPostOnly(c) {
		return
	}
	h.service.Register(c.Request.Context())
	response.Message(c, http.StatusCreated, "created")
}

// Forgot godoc
// @Summary Password reset stub
// @Description Returns a demo reset link; nothing is sent
// @Tags Authentication
// @Produce json
// @Success 200 {object} models.ForgotPasswordResponse
// @Failure 405 {object} map[string]string
// @Router /api/auth/forgot [post]
func (h *AuthHandler) Forgot(c *gin.Context) {
	if !allowPostOnly(c) {
		return
	}
	res, err := h.service.ForgotPassword(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, res.Msg, gin.H{"demo_link": res.DemoLink})
}

func allowPostOnly(c *gin.Context) bool {
	if c.Request.Method == http.MethodPost {
		return true
	}
	c.Header("Allow", http.MethodPost)
	response.Message(c, http.StatusMethodNotAllowed, "method not allowed")
	return false
}
