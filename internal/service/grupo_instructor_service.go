package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gestion-formacion/backend/internal/dto"
	"gestion-formacion/backend/internal/model"
	"gestion-formacion/backend/internal/repository"
	apperrors "gestion-formacion/backend/pkg/errors"
)

// ── 班级-讲师分配业务错误 ──

var (
	ErrInstructorNotFound = errors.New("Instructor no encontrado o no tiene rol de instructor")
	ErrAsignacionExists   = errors.New("El instructor ya está asignado a este grupo")
	ErrAsignacionNotFound = errors.New("Asignación no encontrada")
)

// GrupoInstructorService 班级-讲师分配业务接口
type GrupoInstructorService interface {
	Assign(ctx context.Context, req *dto.GrupoInstructorRequest) (*dto.GrupoInstructorResponse, error)
	ListInstructores(ctx context.Context, codFicha int) ([]dto.InstructorDetalladoResponse, error)
	ListGrupos(ctx context.Context, idInstructor int) ([]dto.GrupoDetalladoResponse, error)
	Move(ctx context.Context, codFicha, idInstructor int, req *dto.GrupoInstructorRequest) (*dto.GrupoInstructorResponse, error)
	Delete(ctx context.Context, codFicha, idInstructor int) error
}

type grupoInstructorService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGrupoInstructorService 创建 GrupoInstructorService 实例
func NewGrupoInstructorService(repo *repository.Repository, logger *zap.Logger) GrupoInstructorService {
	return &grupoInstructorService{repo: repo, logger: logger}
}

func (s *grupoInstructorService) Assign(ctx context.Context, req *dto.GrupoInstructorRequest) (*dto.GrupoInstructorResponse, error) {
	if err := s.validate(ctx, req.CodFicha, req.IDInstructor); err != nil {
		return nil, err
	}

	exists, err := s.repo.GrupoInstructor.Exists(ctx, req.CodFicha, req.IDInstructor)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAsignacionExists
	}

	gi := &model.GrupoInstructor{CodFicha: req.CodFicha, IDInstructor: req.IDInstructor}
	if err := s.repo.GrupoInstructor.Create(ctx, gi); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrAsignacionExists
		}
		s.logger.Error("分配讲师失败", zap.Int("cod_ficha", req.CodFicha), zap.Int("id_instructor", req.IDInstructor), zap.Error(err))
		return nil, err
	}

	return &dto.GrupoInstructorResponse{CodFicha: gi.CodFicha, IDInstructor: gi.IDInstructor}, nil
}

func (s *grupoInstructorService) ListInstructores(ctx context.Context, codFicha int) ([]dto.InstructorDetalladoResponse, error) {
	rows, err := s.repo.GrupoInstructor.ListInstructoresByGrupo(ctx, codFicha)
	if err != nil {
		s.logger.Error("列出班级讲师失败", zap.Int("cod_ficha", codFicha), zap.Error(err))
		return nil, err
	}

	result := make([]dto.InstructorDetalladoResponse, 0, len(rows))
	for _, r := range rows {
		result = append(result, dto.InstructorDetalladoResponse{
			CodFicha:       r.CodFicha,
			IDInstructor:   r.IDInstructor,
			NombreCompleto: r.NombreCompleto,
			Correo:         r.Correo,
			Identificacion: r.Identificacion,
			Telefono:       r.Telefono,
			TipoContrato:   r.TipoContrato,
			NombreRol:      r.NombreRol,
		})
	}
	return result, nil
}

func (s *grupoInstructorService) ListGrupos(ctx context.Context, idInstructor int) ([]dto.GrupoDetalladoResponse, error) {
	rows, err := s.repo.GrupoInstructor.ListGruposByInstructor(ctx, idInstructor)
	if err != nil {
		s.logger.Error("列出讲师班级失败", zap.Int("id_instructor", idInstructor), zap.Error(err))
		return nil, err
	}

	result := make([]dto.GrupoDetalladoResponse, 0, len(rows))
	for _, r := range rows {
		result = append(result, dto.GrupoDetalladoResponse{
			CodFicha:       r.CodFicha,
			IDInstructor:   r.IDInstructor,
			EstadoGrupo:    r.EstadoGrupo,
			Jornada:        r.Jornada,
			FechaInicio:    r.FechaInicio.String(),
			FechaFin:       r.FechaFin.String(),
			Etapa:          r.Etapa,
			NombrePrograma: r.NombrePrograma,
			NombreCentro:   r.NombreCentro,
		})
	}
	return result, nil
}

// Move 将分配改到新的班级或讲师
func (s *grupoInstructorService) Move(ctx context.Context, codFicha, idInstructor int, req *dto.GrupoInstructorRequest) (*dto.GrupoInstructorResponse, error) {
	if req.CodFicha != codFicha || req.IDInstructor != idInstructor {
		if err := s.validate(ctx, req.CodFicha, req.IDInstructor); err != nil {
			return nil, err
		}
		exists, err := s.repo.GrupoInstructor.Exists(ctx, req.CodFicha, req.IDInstructor)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrAsignacionExists
		}
	}

	old := &model.GrupoInstructor{CodFicha: codFicha, IDInstructor: idInstructor}
	nuevo := &model.GrupoInstructor{CodFicha: req.CodFicha, IDInstructor: req.IDInstructor}
	n, err := s.repo.GrupoInstructor.Move(ctx, old, nuevo)
	if err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrAsignacionExists
		}
		s.logger.Error("修改讲师分配失败", zap.Int("cod_ficha", codFicha), zap.Int("id_instructor", idInstructor), zap.Error(err))
		return nil, err
	}
	if n == 0 {
		return nil, ErrAsignacionNotFound
	}

	return &dto.GrupoInstructorResponse{CodFicha: nuevo.CodFicha, IDInstructor: nuevo.IDInstructor}, nil
}

func (s *grupoInstructorService) Delete(ctx context.Context, codFicha, idInstructor int) error {
	n, err := s.repo.GrupoInstructor.Delete(ctx, codFicha, idInstructor)
	if err != nil {
		s.logger.Error("删除讲师分配失败", zap.Int("cod_ficha", codFicha), zap.Int("id_instructor", idInstructor), zap.Error(err))
		return err
	}
	if n == 0 {
		return ErrAsignacionNotFound
	}
	return nil
}

// validate 班级必须存在，用户必须存在且为讲师
func (s *grupoInstructorService) validate(ctx context.Context, codFicha, idInstructor int) error {
	if _, err := s.repo.Grupo.GetByID(ctx, codFicha); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGrupoNotFound
		}
		return err
	}

	u, err := s.repo.Usuario.GetByID(ctx, idInstructor)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInstructorNotFound
		}
		return err
	}
	if u.IDRol != model.RolInstructor {
		return ErrInstructorNotFound
	}
	return nil
}
