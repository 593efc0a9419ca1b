package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"gestion-formacion/backend/internal/dto"
	"gestion-formacion/backend/internal/repository"
)

var ErrNotificacionNotFound = errors.New("Notificación no encontrada o no tienes permiso para modificarla")

// NotificacionService 站内通知业务接口
type NotificacionService interface {
	List(ctx context.Context, idUsuario int) ([]dto.NotificacionResponse, error)
	MarkRead(ctx context.Context, id, idUsuario int) error
}

type notificacionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificacionService 创建 NotificacionService 实例
func NewNotificacionService(repo *repository.Repository, logger *zap.Logger) NotificacionService {
	return &notificacionService{repo: repo, logger: logger}
}

func (s *notificacionService) List(ctx context.Context, idUsuario int) ([]dto.NotificacionResponse, error) {
	list, err := s.repo.Notificacion.ListByUsuario(ctx, idUsuario)
	if err != nil {
		s.logger.Error("列出通知失败", zap.Int("id_usuario", idUsuario), zap.Error(err))
		return nil, err
	}

	result := make([]dto.NotificacionResponse, 0, len(list))
	for _, n := range list {
		result = append(result, dto.NotificacionResponse{
			IDNotificacion: n.IDNotificacion,
			Mensaje:        n.Mensaje,
			Leida:          n.Leida,
			FechaCreacion:  n.FechaCreacion.Format(time.RFC3339),
		})
	}
	return result, nil
}

// MarkRead 不属于当前用户的通知与不存在的通知一样返回 404
func (s *notificacionService) MarkRead(ctx context.Context, id, idUsuario int) error {
	n, err := s.repo.Notificacion.MarkRead(ctx, id, idUsuario)
	if err != nil {
		s.logger.Error("标记通知已读失败", zap.Int("id", id), zap.Error(err))
		return err
	}
	if n == 0 {
		return ErrNotificacionNotFound
	}
	return nil
}
