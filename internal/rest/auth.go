package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/systemink/api/domain"
	"github.com/systemink/api/internal/rest/request"
	"github.com/systemink/api/internal/rest/response"
)

// AuthHandler represent the httphandler for auth
type AuthHandler struct {
	Service domain.AuthUsecase
}

func NewAuthHandler(svc domain.AuthUsecase) *AuthHandler {
	return &AuthHandler{Service: svc}
}

func authPayload(u domain.User, t domain.AuthTokens) gin.H {
	return gin.H{
		"user":         response.NewAccountFromDomain(&u),
		"accessToken":  t.AccessToken,
		"refreshToken": t.RefreshToken,
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req request.Signup
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, tokens, err := h.Service.Signup(c.Request.Context(), req.Name, req.Username, req.Email, req.Password)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, authPayload(user, tokens))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req request.Login
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, tokens, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, authPayload(user, tokens))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req request.Logout
	_ = c.ShouldBindJSON(&req)

	userID, _ := currentUser(c)
	if err := h.Service.Logout(c.Request.Context(), userID, req.RefreshToken); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req request.Refresh
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, tokens, err := h.Service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, authPayload(user, tokens))
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req request.ForgotPassword
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.Service.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	// 统一应答，避免探测邮箱
	c.JSON(http.StatusOK, gin.H{"message": "If the email exists, a reset link has been sent"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req request.ResetPassword
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, _ := currentUser(c)
	user, err := h.Service.GetMe(c.Request.Context(), userID)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.NewAccountFromDomain(&user))
}
