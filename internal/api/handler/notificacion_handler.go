package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"gestion-formacion/backend/internal/service"
	"gestion-formacion/backend/pkg/response"
)

// NotificacionHandler 站内通知 HTTP 处理器
type NotificacionHandler struct {
	notificacionSvc service.NotificacionService
}

// NewNotificacionHandler 创建 NotificacionHandler
func NewNotificacionHandler(notificacionSvc service.NotificacionService) *NotificacionHandler {
	return &NotificacionHandler{notificacionSvc: notificacionSvc}
}

// List 当前用户的通知，最新在前
// GET /api/v1/notificaciones
func (h *NotificacionHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.notificacionSvc.List(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, list)
}

// MarkRead 标记已读
// PUT /api/v1/notificaciones/:id/leer
func (h *NotificacionHandler) MarkRead(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParamInt(c, "id")
	if !ok {
		return
	}

	if err := h.notificacionSvc.MarkRead(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, service.ErrNotificacionNotFound) {
			response.NotFound(c, 20001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OKMessage(c, "Notificación marcada como leída", nil)
}
