package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
	appErrors "github.com/noah-isme/silverleaf-workload-api/pkg/errors"
)

type fakeAuthSrv struct {
	loginResp *models.LoginResponse
	loginErr  error
	lastLogin models.LoginRequest
	registers int
}

func (f *fakeAuthSrv) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.lastLogin = req
	return f.loginResp, f.loginErr
}

func (f *fakeAuthSrv) Register(context.Context) { f.registers++ }

func (f *fakeAuthSrv) ForgotPassword(context.Context) (*models.ForgotPasswordResponse, error) {
	return &models.ForgotPasswordResponse{Msg: "sent", DemoLink: "/reset?token=0123456789abcdef0123456789abcdef"}, nil
}

func TestAuthHandlerLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeAuthSrv{loginResp: &models.LoginResponse{AccessToken: "token", ExpiresIn: 3600}}
	handler := NewAuthHandler(srv)

	payload, _ := json.Marshal(models.LoginRequest{Email: "john.smith@silverleaf.edu", Password: "demo"})
	c, w := newGinContext(http.MethodPost, "/auth/login", payload)
	handler.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "john.smith@silverleaf.edu", srv.lastLogin.Email)
	assert.Contains(t, w.Body.String(), `"access_token":"token"`)
}

func TestAuthHandlerLoginErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(&fakeAuthSrv{loginErr: appErrors.ErrInvalidCredentials})

	c, w := newGinContext(http.MethodPost, "/auth/login", []byte("{"))
	handler.Login(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	payload, _ := json.Marshal(models.LoginRequest{Email: "john.smith@silverleaf.edu", Password: "wrong"})
	c, w = newGinContext(http.MethodPost, "/auth/login", payload)
	handler.Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerRegisterStub(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeAuthSrv{}
	handler := NewAuthHandler(srv)

	c, w := newGinContext(http.MethodPost, "/api/auth/register", []byte(`{"email":"x@y.z"}`))
	handler.Register(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"msg":"created"}`, w.Body.String())
	assert.Equal(t, 1, srv.registers)
}

func TestAuthHandlerForgotStub(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(&fakeAuthSrv{})

	c, w := newGinContext(http.MethodPost, "/api/auth/forgot", nil)
	handler.Forgot(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "sent", body["msg"])
	assert.Regexp(t, `^/reset\?token=[0-9a-f]{32}$`, body["demo_link"])
}

func TestAuthHandlerStubsRejectOtherMethods(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeAuthSrv{}
	handler := NewAuthHandler(srv)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		c, w := newGinContext(method, "/api/auth/register", nil)
		handler.Register(c)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
		assert.Equal(t, http.MethodPost, w.Header().Get("Allow"))

		c, w = newGinContext(method, "/api/auth/forgot", nil)
		handler.Forgot(c)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
	}
	assert.Zero(t, srv.registers)
}
