// internal/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stylelens/catalogue-backend/internal/services"
	"github.com/stylelens/catalogue-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req services.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Email and password are required", err)
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Email and password are required",
			"details": validationErrors,
		})
		return
	}

	resp, err := h.authService.SignUp(&req)
	if err != nil {
		utils.BadRequestResponse(c, "Signup failed", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Signup successful",
		"user":    resp.User,
	})
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Email and password are required", err)
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Email and password are required",
			"details": validationErrors,
		})
		return
	}

	session, err := h.authService.Login(&req)
	if err != nil {
		utils.UnauthorizedResponse(c, "Invalid credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"session": session,
		"user":    session.User,
	})
}
