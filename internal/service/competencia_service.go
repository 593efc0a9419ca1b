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

// ── 能力单元业务错误 ──

var (
	ErrCompetenciaNotFound       = errors.New("Competencia no encontrada")
	ErrCompetenciaExists         = errors.New("La competencia ya existe")
	ErrCompetenciaInUse          = errors.New("La competencia tiene resultados, programas o programaciones asociadas")
	ErrCompetenciaNothingToApply = errors.New("No se proporcionaron campos para actualizar")
)

// CompetenciaService 能力单元 / 学习成果业务接口
type CompetenciaService interface {
	List(ctx context.Context) ([]dto.CompetenciaResponse, error)
	GetByID(ctx context.Context, cod int64) (*dto.CompetenciaResponse, error)
	ListByPrograma(ctx context.Context, codPrograma int) ([]dto.CompetenciaResponse, error)
	ListProgramas(ctx context.Context, cod int64) ([]dto.ProgramaResponse, error)
	Create(ctx context.Context, req *dto.CreateCompetenciaRequest) (*dto.CompetenciaResponse, error)
	Update(ctx context.Context, cod int64, req *dto.UpdateCompetenciaRequest) (*dto.CompetenciaResponse, error)
	Delete(ctx context.Context, cod int64) error
	LinkPrograma(ctx context.Context, cod int64, req *dto.LinkProgramaRequest) (*dto.LinkProgramaResponse, error)
	ListResultados(ctx context.Context, codCompetencia int64) ([]dto.ResultadoResponse, error)
}

type competenciaService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCompetenciaService 创建 CompetenciaService 实例
func NewCompetenciaService(repo *repository.Repository, logger *zap.Logger) CompetenciaService {
	return &competenciaService{repo: repo, logger: logger}
}

func (s *competenciaService) List(ctx context.Context) ([]dto.CompetenciaResponse, error) {
	list, err := s.repo.Competencia.List(ctx)
	if err != nil {
		s.logger.Error("列出能力单元失败", zap.Error(err))
		return nil, err
	}
	return toCompetenciaResponses(list), nil
}

func (s *competenciaService) GetByID(ctx context.Context, cod int64) (*dto.CompetenciaResponse, error) {
	c, err := s.repo.Competencia.GetByID(ctx, cod)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompetenciaNotFound
		}
		s.logger.Error("查询能力单元失败", zap.Int64("cod_competencia", cod), zap.Error(err))
		return nil, err
	}
	resp := toCompetenciaResponse(c)
	return &resp, nil
}

// ListByPrograma 关联按项目代码建立，与版本无关
func (s *competenciaService) ListByPrograma(ctx context.Context, codPrograma int) ([]dto.CompetenciaResponse, error) {
	list, err := s.repo.Competencia.ListByPrograma(ctx, codPrograma)
	if err != nil {
		s.logger.Error("列出项目能力单元失败", zap.Int("cod_programa", codPrograma), zap.Error(err))
		return nil, err
	}
	return toCompetenciaResponses(list), nil
}

func (s *competenciaService) ListProgramas(ctx context.Context, cod int64) ([]dto.ProgramaResponse, error) {
	if _, err := s.GetByID(ctx, cod); err != nil {
		return nil, err
	}

	rows, err := s.repo.Competencia.ListProgramas(ctx, cod)
	if err != nil {
		s.logger.Error("列出能力单元项目失败", zap.Int64("cod_competencia", cod), zap.Error(err))
		return nil, err
	}

	result := make([]dto.ProgramaResponse, 0, len(rows))
	for _, r := range rows {
		result = append(result, dto.ProgramaResponse{CodPrograma: r.CodPrograma, LaVersion: r.LaVersion, Nombre: r.Nombre})
	}
	return result, nil
}

func (s *competenciaService) Create(ctx context.Context, req *dto.CreateCompetenciaRequest) (*dto.CompetenciaResponse, error) {
	if _, err := s.repo.Competencia.GetByID(ctx, req.CodCompetencia); err == nil {
		return nil, ErrCompetenciaExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	c := &model.Competencia{
		CodCompetencia: req.CodCompetencia,
		Nombre:         strings.TrimSpace(req.Nombre),
		Horas:          req.Horas,
	}
	if err := s.repo.Competencia.Create(ctx, c); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrCompetenciaExists
		}
		s.logger.Error("创建能力单元失败", zap.Int64("cod_competencia", req.CodCompetencia), zap.Error(err))
		return nil, err
	}

	resp := toCompetenciaResponse(c)
	return &resp, nil
}

func (s *competenciaService) Update(ctx context.Context, cod int64, req *dto.UpdateCompetenciaRequest) (*dto.CompetenciaResponse, error) {
	if req.Nombre == nil && req.Horas == nil {
		return nil, ErrCompetenciaNothingToApply
	}

	n, err := s.repo.Competencia.Update(ctx, cod, &repository.CompetenciaUpdate{Nombre: req.Nombre, Horas: req.Horas})
	if err != nil {
		s.logger.Error("更新能力单元失败", zap.Int64("cod_competencia", cod), zap.Error(err))
		return nil, err
	}
	if n == 0 {
		return nil, ErrCompetenciaNotFound
	}
	return s.GetByID(ctx, cod)
}

func (s *competenciaService) Delete(ctx context.Context, cod int64) error {
	n, err := s.repo.Competencia.Delete(ctx, cod)
	if err != nil {
		if errors.Is(apperrors.Translate(err), apperrors.ErrForeignKey) {
			return ErrCompetenciaInUse
		}
		s.logger.Error("删除能力单元失败", zap.Int64("cod_competencia", cod), zap.Error(err))
		return err
	}
	if n == 0 {
		return ErrCompetenciaNotFound
	}
	return nil
}

// LinkPrograma 幂等地关联项目，已存在时 Created 为 false
func (s *competenciaService) LinkPrograma(ctx context.Context, cod int64, req *dto.LinkProgramaRequest) (*dto.LinkProgramaResponse, error) {
	if _, err := s.GetByID(ctx, cod); err != nil {
		return nil, err
	}
	if _, err := s.repo.Programa.GetLatest(ctx, req.CodPrograma); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramaNotFound
		}
		return nil, err
	}

	created, err := s.repo.ProgramaCompetencia.Link(ctx, req.CodPrograma, cod)
	if err != nil {
		s.logger.Error("关联项目失败", zap.Int64("cod_competencia", cod), zap.Int("cod_programa", req.CodPrograma), zap.Error(err))
		return nil, err
	}

	return &dto.LinkProgramaResponse{CodPrograma: req.CodPrograma, CodCompetencia: cod, Created: created}, nil
}

func (s *competenciaService) ListResultados(ctx context.Context, codCompetencia int64) ([]dto.ResultadoResponse, error) {
	list, err := s.repo.Resultado.ListByCompetencia(ctx, codCompetencia)
	if err != nil {
		s.logger.Error("列出学习成果失败", zap.Int64("cod_competencia", codCompetencia), zap.Error(err))
		return nil, err
	}

	result := make([]dto.ResultadoResponse, 0, len(list))
	for _, r := range list {
		result = append(result, dto.ResultadoResponse{CodResultado: r.CodResultado, Nombre: r.Nombre, CodCompetencia: r.CodCompetencia})
	}
	return result, nil
}

func toCompetenciaResponse(c *model.Competencia) dto.CompetenciaResponse {
	return dto.CompetenciaResponse{CodCompetencia: c.CodCompetencia, Nombre: c.Nombre, Horas: c.Horas}
}

func toCompetenciaResponses(list []model.Competencia) []dto.CompetenciaResponse {
	result := make([]dto.CompetenciaResponse, 0, len(list))
	for i := range list {
		result = append(result, toCompetenciaResponse(&list[i]))
	}
	return result
}
