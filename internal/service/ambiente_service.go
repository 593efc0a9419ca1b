package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gestion-formacion/backend/internal/dto"
	"gestion-formacion/backend/internal/model"
	"gestion-formacion/backend/internal/repository"
	apperrors "gestion-formacion/backend/pkg/errors"
)

// ── 教学场地业务错误 ──

var (
	ErrAmbienteNotFound       = errors.New("Ambiente no encontrado")
	ErrAmbienteNothingToApply = errors.New("No se proporcionaron campos para actualizar")
)

// AmbienteService 教学场地业务接口
type AmbienteService interface {
	Create(ctx context.Context, req *dto.CreateAmbienteRequest) (*dto.AmbienteResponse, error)
	GetByID(ctx context.Context, id int) (*dto.AmbienteResponse, error)
	List(ctx context.Context, req *dto.AmbienteListRequest) ([]dto.AmbienteResponse, error)
	Update(ctx context.Context, id int, req *dto.UpdateAmbienteRequest) (*dto.AmbienteResponse, error)
	SetEstado(ctx context.Context, id int, estado bool) (*dto.AmbienteResponse, error)
}

type ambienteService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAmbienteService 创建 AmbienteService 实例
func NewAmbienteService(repo *repository.Repository, logger *zap.Logger) AmbienteService {
	return &ambienteService{repo: repo, logger: logger}
}

func (s *ambienteService) Create(ctx context.Context, req *dto.CreateAmbienteRequest) (*dto.AmbienteResponse, error) {
	if _, err := s.repo.Centro.GetByID(ctx, req.CodCentro); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCentroNotFound
		}
		return nil, err
	}

	// 未指定状态时默认启用
	estado := true
	if req.Estado != nil {
		estado = *req.Estado
	}

	a := &model.AmbienteFormacion{
		NombreAmbiente:   strings.TrimSpace(req.NombreAmbiente),
		NumMaxAprendices: req.NumMaxAprendices,
		Municipio:        req.Municipio,
		Ubicacion:        req.Ubicacion,
		CodCentro:        req.CodCentro,
		Estado:           estado,
	}
	if err := s.repo.Ambiente.Create(ctx, a); err != nil {
		if errors.Is(apperrors.Translate(err), apperrors.ErrForeignKey) {
			return nil, ErrCentroNotFound
		}
		s.logger.Error("创建场地失败", zap.Error(err))
		return nil, err
	}

	resp := toAmbienteResponse(a)
	return &resp, nil
}

func (s *ambienteService) GetByID(ctx context.Context, id int) (*dto.AmbienteResponse, error) {
	a, err := s.repo.Ambiente.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAmbienteNotFound
		}
		s.logger.Error("查询场地失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	resp := toAmbienteResponse(a)
	return &resp, nil
}

func (s *ambienteService) List(ctx context.Context, req *dto.AmbienteListRequest) ([]dto.AmbienteResponse, error) {
	ambientes, err := s.repo.Ambiente.List(ctx, req.CodCentro, req.IncluirInactivos)
	if err != nil {
		s.logger.Error("列出场地失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.AmbienteResponse, 0, len(ambientes))
	for i := range ambientes {
		result = append(result, toAmbienteResponse(&ambientes[i]))
	}
	return result, nil
}

func (s *ambienteService) Update(ctx context.Context, id int, req *dto.UpdateAmbienteRequest) (*dto.AmbienteResponse, error) {
	upd := &repository.AmbienteUpdate{
		NombreAmbiente:   req.NombreAmbiente,
		NumMaxAprendices: req.NumMaxAprendices,
		Municipio:        req.Municipio,
		Ubicacion:        req.Ubicacion,
	}
	if upd.NombreAmbiente == nil && upd.NumMaxAprendices == nil && upd.Municipio == nil && upd.Ubicacion == nil {
		return nil, ErrAmbienteNothingToApply
	}
	return s.apply(ctx, id, upd)
}

func (s *ambienteService) SetEstado(ctx context.Context, id int, estado bool) (*dto.AmbienteResponse, error) {
	return s.apply(ctx, id, &repository.AmbienteUpdate{Estado: &estado})
}

func (s *ambienteService) apply(ctx context.Context, id int, upd *repository.AmbienteUpdate) (*dto.AmbienteResponse, error) {
	n, err := s.repo.Ambiente.Update(ctx, id, upd)
	if err != nil {
		s.logger.Error("更新场地失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	if n == 0 {
		return nil, ErrAmbienteNotFound
	}
	return s.GetByID(ctx, id)
}

func toAmbienteResponse(a *model.AmbienteFormacion) dto.AmbienteResponse {
	return dto.AmbienteResponse{
		IDAmbiente:       a.IDAmbiente,
		NombreAmbiente:   a.NombreAmbiente,
		NumMaxAprendices: a.NumMaxAprendices,
		Municipio:        a.Municipio,
		Ubicacion:        a.Ubicacion,
		CodCentro:        a.CodCentro,
		Estado:           a.Estado,
	}
}
