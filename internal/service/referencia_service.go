package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gestion-formacion/backend/internal/dto"
	"gestion-formacion/backend/internal/model"
	"gestion-formacion/backend/internal/repository"
)

// ReferenciaService 角色、区域、培训中心等只读参考数据
type ReferenciaService interface {
	ListRoles(ctx context.Context) ([]dto.RolResponse, error)
	ListRegionales(ctx context.Context) ([]dto.RegionalResponse, error)
	ListCentros(ctx context.Context) ([]dto.CentroResponse, error)
	GetCentro(ctx context.Context, codCentro int) (*dto.CentroResponse, error)
	GetCentroByNombre(ctx context.Context, nombre string) (*dto.CentroResponse, error)
	ListCentrosByRegional(ctx context.Context, codRegional int) ([]dto.CentroResponse, error)
}

type referenciaService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReferenciaService 创建 ReferenciaService 实例
func NewReferenciaService(repo *repository.Repository, logger *zap.Logger) ReferenciaService {
	return &referenciaService{repo: repo, logger: logger}
}

func (s *referenciaService) ListRoles(ctx context.Context) ([]dto.RolResponse, error) {
	roles, err := s.repo.Rol.List(ctx)
	if err != nil {
		s.logger.Error("列出角色失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.RolResponse, 0, len(roles))
	for _, r := range roles {
		result = append(result, dto.RolResponse{IDRol: r.IDRol, Nombre: r.Nombre})
	}
	return result, nil
}

func (s *referenciaService) ListRegionales(ctx context.Context) ([]dto.RegionalResponse, error) {
	regs, err := s.repo.Regional.List(ctx)
	if err != nil {
		s.logger.Error("列出区域失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.RegionalResponse, 0, len(regs))
	for _, r := range regs {
		result = append(result, dto.RegionalResponse{CodRegional: r.CodRegional, Nombre: r.Nombre})
	}
	return result, nil
}

func (s *referenciaService) ListCentros(ctx context.Context) ([]dto.CentroResponse, error) {
	centros, err := s.repo.Centro.List(ctx)
	if err != nil {
		s.logger.Error("列出培训中心失败", zap.Error(err))
		return nil, err
	}
	return toCentroResponses(centros), nil
}

func (s *referenciaService) GetCentro(ctx context.Context, codCentro int) (*dto.CentroResponse, error) {
	c, err := s.repo.Centro.GetByID(ctx, codCentro)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCentroNotFound
		}
		s.logger.Error("查询培训中心失败", zap.Int("cod_centro", codCentro), zap.Error(err))
		return nil, err
	}
	resp := toCentroResponse(c)
	return &resp, nil
}

func (s *referenciaService) GetCentroByNombre(ctx context.Context, nombre string) (*dto.CentroResponse, error) {
	c, err := s.repo.Centro.GetByNombre(ctx, nombre)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCentroNotFound
		}
		s.logger.Error("查询培训中心失败", zap.String("nombre", nombre), zap.Error(err))
		return nil, err
	}
	resp := toCentroResponse(c)
	return &resp, nil
}

// ListCentrosByRegional 区域下没有中心时视为未找到
func (s *referenciaService) ListCentrosByRegional(ctx context.Context, codRegional int) ([]dto.CentroResponse, error) {
	centros, err := s.repo.Centro.ListByRegional(ctx, codRegional)
	if err != nil {
		s.logger.Error("列出区域培训中心失败", zap.Int("cod_regional", codRegional), zap.Error(err))
		return nil, err
	}
	if len(centros) == 0 {
		return nil, ErrCentroNotFound
	}
	return toCentroResponses(centros), nil
}

func toCentroResponse(c *model.CentroFormacion) dto.CentroResponse {
	return dto.CentroResponse{CodCentro: c.CodCentro, NombreCentro: c.NombreCentro, CodRegional: c.CodRegional}
}

func toCentroResponses(centros []model.CentroFormacion) []dto.CentroResponse {
	result := make([]dto.CentroResponse, 0, len(centros))
	for i := range centros {
		result = append(result, toCentroResponse(&centros[i]))
	}
	return result
}
