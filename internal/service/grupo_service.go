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

// ── 班级模块业务错误 ──

var (
	ErrGrupoNotFound        = errors.New("Grupo no encontrado")
	ErrGrupoNothingToApply  = errors.New("Grupo no encontrado o sin cambios para aplicar")
	ErrHorarioInvalido      = errors.New("La hora de fin debe ser posterior a la hora de inicio")
	ErrDimensionNoSoportada = errors.New("Dimensión de distribución no soportada")
)

const defaultSelectLimit = 10

// 仪表盘分组维度
var dimensionesDistribucion = map[string]string{
	"por-municipio": "municipio",
	"por-jornada":   "jornada",
	"por-modalidad": "modalidad",
	"por-etapa":     "etapa",
	"por-nivel":     "nivel",
}

// GrupoService 班级业务接口
type GrupoService interface {
	List(ctx context.Context, req *dto.PaginationRequest) ([]dto.GrupoResponse, int64, error)
	ListByCentro(ctx context.Context, codCentro int, req *dto.PaginationRequest) ([]dto.GrupoResponse, int64, error)
	SearchForSelect(ctx context.Context, req *dto.GrupoSelectRequest) ([]dto.GrupoSelectResponse, error)
	AdvancedSearch(ctx context.Context, req *dto.GrupoAdvancedSearchRequest) ([]dto.GrupoAdvancedResponse, int64, error)
	GetDetalle(ctx context.Context, codFicha int) (*dto.GrupoDetalleResponse, error)
	Update(ctx context.Context, codFicha int, req *dto.UpdateGrupoRequest) (*dto.GrupoDetalleResponse, error)
	KPIs(ctx context.Context, req *dto.GrupoDashboardRequest) (*dto.DashboardKPIResponse, error)
	Distribucion(ctx context.Context, dimension string, req *dto.GrupoDashboardRequest) ([]dto.DistribucionResponse, error)
}

type grupoService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGrupoService 创建 GrupoService 实例
func NewGrupoService(repo *repository.Repository, logger *zap.Logger) GrupoService {
	return &grupoService{repo: repo, logger: logger}
}

// ────────────────────── 列表与搜索 ──────────────────────

func (s *grupoService) List(ctx context.Context, req *dto.PaginationRequest) ([]dto.GrupoResponse, int64, error) {
	grupos, total, err := s.repo.Grupo.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出班级失败", zap.Error(err))
		return nil, 0, err
	}
	return toGrupoResponses(grupos), total, nil
}

func (s *grupoService) ListByCentro(ctx context.Context, codCentro int, req *dto.PaginationRequest) ([]dto.GrupoResponse, int64, error) {
	grupos, total, err := s.repo.Grupo.ListByCentro(ctx, codCentro, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出中心班级失败", zap.Int("cod_centro", codCentro), zap.Error(err))
		return nil, 0, err
	}
	return toGrupoResponses(grupos), total, nil
}

func (s *grupoService) SearchForSelect(ctx context.Context, req *dto.GrupoSelectRequest) ([]dto.GrupoSelectResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSelectLimit
	}

	rows, err := s.repo.Grupo.SearchForSelect(ctx, req.Search, limit)
	if err != nil {
		s.logger.Error("搜索班级失败", zap.String("search", req.Search), zap.Error(err))
		return nil, err
	}

	result := make([]dto.GrupoSelectResponse, 0, len(rows))
	for _, r := range rows {
		result = append(result, dto.GrupoSelectResponse{
			CodFicha:       r.CodFicha,
			EstadoGrupo:    r.EstadoGrupo,
			Jornada:        r.Jornada,
			FechaInicio:    r.FechaInicio,
			FechaFin:       r.FechaFin,
			Etapa:          r.Etapa,
			Responsable:    r.Responsable,
			NombrePrograma: r.NombrePrograma,
			NombreAmbiente: r.NombreAmbiente,
		})
	}
	return result, nil
}

func (s *grupoService) AdvancedSearch(ctx context.Context, req *dto.GrupoAdvancedSearchRequest) ([]dto.GrupoAdvancedResponse, int64, error) {
	rows, total, err := s.repo.Grupo.AdvancedSearch(ctx, req.Query, req.CodCentro, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("高级搜索班级失败", zap.String("query", req.Query), zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.GrupoAdvancedResponse, 0, len(rows))
	for i := range rows {
		result = append(result, dto.GrupoAdvancedResponse{
			GrupoResponse:  toGrupoResponse(&rows[i].Grupo),
			ProgramaNombre: rows[i].NombrePrograma,
		})
	}
	return result, total, nil
}

// ────────────────────── 详情与更新 ──────────────────────

func (s *grupoService) GetDetalle(ctx context.Context, codFicha int) (*dto.GrupoDetalleResponse, error) {
	g, err := s.repo.Grupo.GetDetalle(ctx, codFicha)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGrupoNotFound
		}
		s.logger.Error("查询班级失败", zap.Int("cod_ficha", codFicha), zap.Error(err))
		return nil, err
	}

	resp := &dto.GrupoDetalleResponse{
		GrupoResponse:  toGrupoResponse(&g.Grupo),
		NombrePrograma: g.NombrePrograma,
		NombreAmbiente: g.NombreAmbiente,
	}

	// 统计数据可能尚未导入
	datos, err := s.repo.DatosGrupo.Get(ctx, codFicha)
	switch {
	case err == nil:
		resp.DatosGrupo = datos
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("查询班级统计失败", zap.Int("cod_ficha", codFicha), zap.Error(err))
		return nil, err
	}

	return resp, nil
}

func (s *grupoService) Update(ctx context.Context, codFicha int, req *dto.UpdateGrupoRequest) (*dto.GrupoDetalleResponse, error) {
	upd := &repository.GrupoUpdate{IDAmbiente: req.IDAmbiente}

	if req.HoraInicio != nil {
		c, err := model.ParseClock(*req.HoraInicio)
		if err != nil {
			return nil, err
		}
		upd.HoraInicio = &c
	}
	if req.HoraFin != nil {
		c, err := model.ParseClock(*req.HoraFin)
		if err != nil {
			return nil, err
		}
		upd.HoraFin = &c
	}
	if upd.HoraInicio != nil && upd.HoraFin != nil && *upd.HoraFin <= *upd.HoraInicio {
		return nil, ErrHorarioInvalido
	}

	if req.IDAmbiente != nil {
		if _, err := s.repo.Ambiente.GetByID(ctx, *req.IDAmbiente); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAmbienteNotFound
			}
			return nil, err
		}
	}

	n, err := s.repo.Grupo.Update(ctx, codFicha, upd)
	if err != nil {
		if errors.Is(apperrors.Translate(err), apperrors.ErrForeignKey) {
			return nil, ErrAmbienteNotFound
		}
		s.logger.Error("更新班级失败", zap.Int("cod_ficha", codFicha), zap.Error(err))
		return nil, err
	}
	if n == 0 {
		return nil, ErrGrupoNothingToApply
	}

	return s.GetDetalle(ctx, codFicha)
}

// ────────────────────── 仪表盘 ──────────────────────

func (s *grupoService) KPIs(ctx context.Context, req *dto.GrupoDashboardRequest) (*dto.DashboardKPIResponse, error) {
	kpi, err := s.repo.Grupo.KPIs(ctx, toDashboardFilter(req))
	if err != nil {
		s.logger.Error("查询仪表盘指标失败", zap.Int("cod_centro", req.CodCentro), zap.Error(err))
		return nil, err
	}
	return &dto.DashboardKPIResponse{
		TotalGrupo:               kpi.TotalGrupo,
		TotalAprendicesFormacion: kpi.TotalAprendicesFormacion,
	}, nil
}

// Distribucion dimension 取值 por-municipio / por-jornada / por-modalidad / por-etapa / por-nivel
func (s *grupoService) Distribucion(ctx context.Context, dimension string, req *dto.GrupoDashboardRequest) ([]dto.DistribucionResponse, error) {
	dim, ok := dimensionesDistribucion[dimension]
	if !ok {
		return nil, ErrDimensionNoSoportada
	}

	rows, err := s.repo.Grupo.Distribucion(ctx, dim, toDashboardFilter(req))
	if err != nil {
		s.logger.Error("查询仪表盘分布失败", zap.String("dimension", dim), zap.Error(err))
		return nil, err
	}

	result := make([]dto.DistribucionResponse, 0, len(rows))
	for _, r := range rows {
		key := ""
		if r.Key != nil {
			key = *r.Key
		}
		result = append(result, dto.DistribucionResponse{
			Key:                      key,
			Cantidad:                 r.Cantidad,
			TotalAprendicesFormacion: r.TotalAprendicesFormacion,
		})
	}
	return result, nil
}

// ── 辅助函数 ──

func toDashboardFilter(req *dto.GrupoDashboardRequest) *repository.GrupoDashboardFilter {
	return &repository.GrupoDashboardFilter{
		CodCentro:       req.CodCentro,
		EstadoGrupo:     req.EstadoGrupo,
		NombreNivel:     req.NombreNivel,
		Etapa:           req.Etapa,
		Modalidad:       req.Modalidad,
		Jornada:         req.Jornada,
		NombreMunicipio: req.NombreMunicipio,
		Anio:            req.Anio,
	}
}

func toGrupoResponse(g *model.Grupo) dto.GrupoResponse {
	return dto.GrupoResponse{
		CodFicha:               g.CodFicha,
		CodCentro:              g.CodCentro,
		CodPrograma:            g.CodPrograma,
		LaVersion:              g.LaVersion,
		EstadoGrupo:            g.EstadoGrupo,
		NombreNivel:            g.NombreNivel,
		Jornada:                g.Jornada,
		FechaInicio:            g.FechaInicio,
		FechaFin:               g.FechaFin,
		Etapa:                  g.Etapa,
		Modalidad:              g.Modalidad,
		Responsable:            g.Responsable,
		NombreEmpresa:          g.NombreEmpresa,
		NombreMunicipio:        g.NombreMunicipio,
		NombreProgramaEspecial: g.NombreProgramaEspecial,
		HoraInicio:             g.HoraInicio,
		HoraFin:                g.HoraFin,
		IDAmbiente:             g.IDAmbiente,
	}
}

func toGrupoResponses(grupos []model.Grupo) []dto.GrupoResponse {
	result := make([]dto.GrupoResponse, 0, len(grupos))
	for i := range grupos {
		result = append(result, toGrupoResponse(&grupos[i]))
	}
	return result
}
