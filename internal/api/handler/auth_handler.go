package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gestion-formacion/backend/internal/dto"
	"gestion-formacion/backend/internal/service"
	"gestion-formacion/backend/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 用户登录，兼容表单（username/password）与 JSON（correo/password）
// POST /api/v1/access/token
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout 吊销当前访问令牌
// POST /api/v1/access/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}

	response.OKMessage(c, "Sesión cerrada correctamente", nil)
}

// Me 当前用户
// GET /api/v1/access/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.authSvc.Me(c.Request.Context(), userID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, user)
}

// ChangePassword 修改密码
// PUT /api/v1/access/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OKMessage(c, "Contraseña actualizada correctamente", nil)
}

// ForgotPassword 忘记密码：无论邮箱是否注册都返回 200 与同一提示
// POST /api/v1/access/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	msg := h.authSvc.ForgotPassword(c.Request.Context(), &req)
	response.OK(c, dto.MessageResponse{Message: msg})
}

// ValidateResetToken 校验重置令牌
// POST /api/v1/access/validate-reset-token
func (h *AuthHandler) ValidateResetToken(c *gin.Context) {
	var req dto.ValidateResetTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	response.OK(c, h.authSvc.ValidateResetToken(c.Request.Context(), req.Token))
}

// ResetPassword 使用重置令牌设置新密码
// POST /api/v1/access/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.ResetPassword(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// handleAuthError 统一处理认证模块业务错误
func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, 11001, err.Error())
	case errors.Is(err, service.ErrWrongPassword):
		response.BadRequest(c, 11002, err.Error())
	case errors.Is(err, service.ErrResetFieldsRequired):
		response.BadRequest(c, 11003, err.Error())
	case errors.Is(err, service.ErrPasswordTooShort):
		response.BadRequest(c, 11004, err.Error())
	case errors.Is(err, service.ErrResetTokenInvalid):
		response.BadRequest(c, 11005, err.Error())
	case errors.Is(err, service.ErrPasswordTooLong):
		response.BadRequest(c, 11006, err.Error())
	case errors.Is(err, service.ErrUsuarioNotFound):
		response.NotFound(c, 12001, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/auth_handler.go
