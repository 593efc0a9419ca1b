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

// ── 培训项目业务错误 ──

var (
	ErrProgramaNotFound = errors.New("Programa no encontrado")
	ErrProgramaExists   = errors.New("El programa ya existe con esa versión")
	ErrProgramaInUse    = errors.New("El programa tiene grupos o competencias asociadas")
)

// ProgramaService 培训项目业务接口
type ProgramaService interface {
	Create(ctx context.Context, req *dto.CreateProgramaRequest) (*dto.ProgramaResponse, error)
	List(ctx context.Context, req *dto.PaginationRequest) ([]dto.ProgramaResponse, int64, error)
	Search(ctx context.Context, req *dto.ProgramaSearchRequest) ([]dto.ProgramaResponse, int64, error)
	GetLatest(ctx context.Context, codPrograma int) (*dto.ProgramaResponse, error)
	UpdateLatest(ctx context.Context, codPrograma int, req *dto.UpdateProgramaRequest) (*dto.ProgramaResponse, error)
	Delete(ctx context.Context, codPrograma, laVersion int) error
}

type programaService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProgramaService 创建 ProgramaService 实例
func NewProgramaService(repo *repository.Repository, logger *zap.Logger) ProgramaService {
	return &programaService{repo: repo, logger: logger}
}

func (s *programaService) Create(ctx context.Context, req *dto.CreateProgramaRequest) (*dto.ProgramaResponse, error) {
	if _, err := s.repo.Programa.Get(ctx, req.CodPrograma, req.LaVersion); err == nil {
		return nil, ErrProgramaExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p := &model.ProgramaFormacion{
		CodPrograma:      req.CodPrograma,
		LaVersion:        req.LaVersion,
		Nombre:           strings.TrimSpace(req.Nombre),
		HorasLectivas:    req.HorasLectivas,
		HorasProductivas: req.HorasProductivas,
	}
	if err := s.repo.Programa.Create(ctx, p); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrProgramaExists
		}
		s.logger.Error("创建培训项目失败", zap.Int("cod_programa", req.CodPrograma), zap.Error(err))
		return nil, err
	}

	resp := toProgramaResponse(p)
	return &resp, nil
}

func (s *programaService) List(ctx context.Context, req *dto.PaginationRequest) ([]dto.ProgramaResponse, int64, error) {
	programas, total, err := s.repo.Programa.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出培训项目失败", zap.Error(err))
		return nil, 0, err
	}
	return toProgramaResponses(programas), total, nil
}

func (s *programaService) Search(ctx context.Context, req *dto.ProgramaSearchRequest) ([]dto.ProgramaResponse, int64, error) {
	programas, total, err := s.repo.Programa.Search(ctx, req.Query, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("搜索培训项目失败", zap.String("query", req.Query), zap.Error(err))
		return nil, 0, err
	}
	return toProgramaResponses(programas), total, nil
}

func (s *programaService) GetLatest(ctx context.Context, codPrograma int) (*dto.ProgramaResponse, error) {
	p, err := s.repo.Programa.GetLatest(ctx, codPrograma)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramaNotFound
		}
		s.logger.Error("查询培训项目失败", zap.Int("cod_programa", codPrograma), zap.Error(err))
		return nil, err
	}
	resp := toProgramaResponse(p)
	return &resp, nil
}

// UpdateLatest 只修改最新版本的学时
func (s *programaService) UpdateLatest(ctx context.Context, codPrograma int, req *dto.UpdateProgramaRequest) (*dto.ProgramaResponse, error) {
	upd := &repository.ProgramaHorasUpdate{
		HorasLectivas:    req.HorasLectivas,
		HorasProductivas: req.HorasProductivas,
	}
	n, err := s.repo.Programa.UpdateLatestHoras(ctx, codPrograma, upd)
	if err != nil {
		s.logger.Error("更新培训项目失败", zap.Int("cod_programa", codPrograma), zap.Error(err))
		return nil, err
	}
	if n == 0 {
		return nil, ErrProgramaNotFound
	}
	return s.GetLatest(ctx, codPrograma)
}

func (s *programaService) Delete(ctx context.Context, codPrograma, laVersion int) error {
	n, err := s.repo.Programa.Delete(ctx, codPrograma, laVersion)
	if err != nil {
		if errors.Is(apperrors.Translate(err), apperrors.ErrForeignKey) {
			return ErrProgramaInUse
		}
		s.logger.Error("删除培训项目失败", zap.Int("cod_programa", codPrograma), zap.Int("la_version", laVersion), zap.Error(err))
		return err
	}
	if n == 0 {
		return ErrProgramaNotFound
	}
	return nil
}

func toProgramaResponse(p *model.ProgramaFormacion) dto.ProgramaResponse {
	return dto.ProgramaResponse{
		CodPrograma:      p.CodPrograma,
		LaVersion:        p.LaVersion,
		Nombre:           p.Nombre,
		HorasLectivas:    p.HorasLectivas,
		HorasProductivas: p.HorasProductivas,
	}
}

func toProgramaResponses(programas []model.ProgramaFormacion) []dto.ProgramaResponse {
	result := make([]dto.ProgramaResponse, 0, len(programas))
	for i := range programas {
		result = append(result, toProgramaResponse(&programas[i]))
	}
	return result
}
