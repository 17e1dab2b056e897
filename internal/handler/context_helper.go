package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/silverleaf-workload-api/internal/middleware"
	"github.com/noah-isme/silverleaf-workload-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil
	}
	return claims
}
