package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gestion-formacion/backend/internal/dto"
	"gestion-formacion/backend/internal/model"
	"gestion-formacion/backend/internal/repository"
	apperrors "gestion-formacion/backend/pkg/errors"
)

// ── 排课模块业务错误 ──

var (
	ErrProgramacionNotFound       = errors.New("Programación no encontrada")
	ErrProgramacionNothingToApply = errors.New("Programación no encontrada o sin cambios para aplicar")
	ErrCruceHorario               = errors.New("El instructor ya tiene una programación que se cruza en este horario")
	ErrProgramacionVerOtro        = errors.New("No autorizado para ver las programaciones de otro instructor")
	ErrProgramacionActualizar     = errors.New("No autorizado para actualizar esta programación")
	ErrProgramacionCrearOtro      = errors.New("No autorizado para crear programaciones de otro instructor")
	ErrProgramacionReferencia     = errors.New("Instructor, ficha, competencia o resultado inexistente")
)

const (
	msgSinCruce = "No hay conflictos de horario"

	icsProductID = "-//Gestion Formacion//Programacion//ES"
)

// ProgramacionService 排课业务接口
type ProgramacionService interface {
	Create(ctx context.Context, req *dto.CreateProgramacionRequest, callerID, callerRole int) (*dto.ProgramacionResponse, error)
	GetDetalle(ctx context.Context, id, callerID, callerRole int) (*dto.ProgramacionResponse, error)
	ListByFicha(ctx context.Context, codFicha int) ([]dto.ProgramacionResponse, error)
	ListByInstructor(ctx context.Context, idInstructor, callerID, callerRole int) ([]dto.ProgramacionResponse, error)
	ListAll(ctx context.Context, req *dto.ProgramacionListRequest) ([]dto.ProgramacionResponse, int64, error)
	Update(ctx context.Context, id int, req *dto.UpdateProgramacionRequest, callerID, callerRole int) (*dto.ProgramacionResponse, error)
	Delete(ctx context.Context, id int) error
	ValidarCruce(ctx context.Context, req *dto.ValidarCruceRequest) (*dto.ValidarCruceResponse, error)
	CompetenciasByPrograma(ctx context.Context, codPrograma int) ([]dto.CompetenciaResponse, error)
	ResultadosByCompetencia(ctx context.Context, codCompetencia int64) ([]dto.ResultadoResponse, error)
	// CalendarioInstructor 讲师排课的 iCalendar 订阅内容
	CalendarioInstructor(ctx context.Context, idInstructor, callerID, callerRole int) (string, error)
}

type programacionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProgramacionService 创建 ProgramacionService 实例
func NewProgramacionService(repo *repository.Repository, logger *zap.Logger) ProgramacionService {
	return &programacionService{repo: repo, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Create: 加锁 → 冲突检查 → 插入，同一事务内完成
// ════════════════════════════════════════════════════════════

func (s *programacionService) Create(ctx context.Context, req *dto.CreateProgramacionRequest, callerID, callerRole int) (*dto.ProgramacionResponse, error) {
	// 讲师只能为自己排课
	if callerRole == model.RolInstructor && req.IDInstructor != callerID {
		return nil, ErrProgramacionCrearOtro
	}

	fecha, err := model.ParseDate(req.FechaProgramada)
	if err != nil {
		return nil, err
	}
	inicio, fin, err := parseHorario(req.HoraInicio, req.HoraFin)
	if err != nil {
		return nil, err
	}

	creador := callerID
	p := &model.Programacion{
		IDInstructor:     req.IDInstructor,
		CodFicha:         req.CodFicha,
		FechaProgramada:  fecha,
		HorasProgramadas: req.HorasProgramadas,
		HoraInicio:       inicio,
		HoraFin:          fin,
		CodCompetencia:   req.CodCompetencia,
		CodResultado:     req.CodResultado,
		IDUser:           &creador,
	}

	err = runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := s.checkCruce(ctx, txRepo, p.IDInstructor, fecha, inicio, fin, nil); err != nil {
			return err
		}
		return txRepo.Programacion.Create(ctx, p)
	})
	if err != nil {
		return nil, s.mapWriteError(err, "创建排课失败")
	}

	s.logger.Info("已创建排课",
		zap.Int("id_programacion", p.IDProgramacion),
		zap.Int("id_instructor", p.IDInstructor),
		zap.String("fecha", fecha.String()),
	)

	// 事务提交后通知讲师，失败只记录日志
	s.notificarAsignacion(ctx, p)

	return s.detalle(ctx, p.IDProgramacion)
}

// checkCruce 先获取 (讲师, 日期) 咨询锁，再在锁内检查冲突
func (s *programacionService) checkCruce(ctx context.Context, txRepo *repository.Repository, idInstructor int, fecha model.Date, inicio, fin model.Clock, excludeID *int) error {
	if err := txRepo.Programacion.LockInstructorDay(ctx, idInstructor, fecha); err != nil {
		s.logger.Error("获取排课锁失败", zap.Int("id_instructor", idInstructor), zap.Error(err))
		return err
	}
	cruce, err := txRepo.Programacion.HasOverlap(ctx, idInstructor, fecha, inicio, fin, excludeID)
	if err != nil {
		s.logger.Error("检查排课冲突失败", zap.Int("id_instructor", idInstructor), zap.Error(err))
		return err
	}
	if cruce {
		return ErrCruceHorario
	}
	return nil
}

func (s *programacionService) notificarAsignacion(ctx context.Context, p *model.Programacion) {
	competencia := strconv.FormatInt(p.CodCompetencia, 10)
	if c, err := s.repo.Competencia.GetByID(ctx, p.CodCompetencia); err == nil {
		competencia = c.Nombre
	}

	n := &model.Notificacion{
		IDUsuario: p.IDInstructor,
		Mensaje: fmt.Sprintf("Has sido asignado a la ficha %d en la competencia %s para el día %s de %s a %s.",
			p.CodFicha, competencia, p.FechaProgramada.String(), p.HoraInicio, p.HoraFin),
	}
	if err := s.repo.Notificacion.Create(ctx, n); err != nil {
		s.logger.Warn("创建排课通知失败", zap.Int("id_programacion", p.IDProgramacion), zap.Error(err))
	}
}

// ────────────────────── 查询 ──────────────────────

func (s *programacionService) GetDetalle(ctx context.Context, id, callerID, callerRole int) (*dto.ProgramacionResponse, error) {
	resp, err := s.detalle(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerRole == model.RolInstructor && resp.IDInstructor != callerID {
		return nil, ErrProgramacionVerOtro
	}
	return resp, nil
}

func (s *programacionService) detalle(ctx context.Context, id int) (*dto.ProgramacionResponse, error) {
	row, err := s.repo.Programacion.GetDetalle(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramacionNotFound
		}
		s.logger.Error("查询排课失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	resp := toProgramacionResponse(row)
	return &resp, nil
}

func (s *programacionService) ListByFicha(ctx context.Context, codFicha int) ([]dto.ProgramacionResponse, error) {
	rows, err := s.repo.Programacion.ListByFicha(ctx, codFicha)
	if err != nil {
		s.logger.Error("列出班级排课失败", zap.Int("cod_ficha", codFicha), zap.Error(err))
		return nil, err
	}
	return toProgramacionResponses(rows), nil
}

func (s *programacionService) ListByInstructor(ctx context.Context, idInstructor, callerID, callerRole int) ([]dto.ProgramacionResponse, error) {
	if callerRole == model.RolInstructor && idInstructor != callerID {
		return nil, ErrProgramacionVerOtro
	}

	rows, err := s.repo.Programacion.ListByInstructor(ctx, idInstructor)
	if err != nil {
		s.logger.Error("列出讲师排课失败", zap.Int("id_instructor", idInstructor), zap.Error(err))
		return nil, err
	}
	return toProgramacionResponses(rows), nil
}

func (s *programacionService) ListAll(ctx context.Context, req *dto.ProgramacionListRequest) ([]dto.ProgramacionResponse, int64, error) {
	rows, total, err := s.repo.Programacion.ListAll(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出全部排课失败", zap.Error(err))
		return nil, 0, err
	}
	return toProgramacionResponses(rows), total, nil
}

// ════════════════════════════════════════════════════════════
// Update: 合并当前值后重新检查冲突（排除自身）
// ════════════════════════════════════════════════════════════

func (s *programacionService) Update(ctx context.Context, id int, req *dto.UpdateProgramacionRequest, callerID, callerRole int) (*dto.ProgramacionResponse, error) {
	current, err := s.repo.Programacion.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramacionNothingToApply
		}
		s.logger.Error("查询排课失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}

	// 讲师只能修改自己的排课，且不能转给他人
	if callerRole == model.RolInstructor {
		if current.IDInstructor != callerID || (req.IDInstructor != nil && *req.IDInstructor != callerID) {
			return nil, ErrProgramacionActualizar
		}
	}

	upd, err := toProgramacionUpdate(req)
	if err != nil {
		return nil, err
	}
	if upd.IsEmpty() {
		return nil, ErrProgramacionNothingToApply
	}

	// 合并后的目标值
	instructor := current.IDInstructor
	if upd.IDInstructor != nil {
		instructor = *upd.IDInstructor
	}
	fecha := current.FechaProgramada
	if upd.FechaProgramada != nil {
		fecha = *upd.FechaProgramada
	}
	inicio, fin := current.HoraInicio, current.HoraFin
	if upd.HoraInicio != nil {
		inicio = *upd.HoraInicio
	}
	if upd.HoraFin != nil {
		fin = *upd.HoraFin
	}
	if fin <= inicio {
		return nil, ErrHorarioInvalido
	}

	recheck := upd.IDInstructor != nil || upd.FechaProgramada != nil || upd.HoraInicio != nil || upd.HoraFin != nil

	err = runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if recheck {
			if err := s.checkCruce(ctx, txRepo, instructor, fecha, inicio, fin, &id); err != nil {
				return err
			}
		}
		n, err := txRepo.Programacion.Update(ctx, id, upd)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrProgramacionNothingToApply
		}
		return nil
	})
	if err != nil {
		return nil, s.mapWriteError(err, "更新排课失败")
	}

	return s.detalle(ctx, id)
}

func (s *programacionService) Delete(ctx context.Context, id int) error {
	n, err := s.repo.Programacion.Delete(ctx, id)
	if err != nil {
		s.logger.Error("删除排课失败", zap.Int("id", id), zap.Error(err))
		return err
	}
	if n == 0 {
		return ErrProgramacionNotFound
	}
	return nil
}

// ValidarCruce 只读预检，不加锁
func (s *programacionService) ValidarCruce(ctx context.Context, req *dto.ValidarCruceRequest) (*dto.ValidarCruceResponse, error) {
	fecha, err := model.ParseDate(req.FechaProgramada)
	if err != nil {
		return nil, err
	}
	inicio, fin, err := parseHorario(req.HoraInicio, req.HoraFin)
	if err != nil {
		return nil, err
	}

	cruce, err := s.repo.Programacion.HasOverlap(ctx, req.IDInstructor, fecha, inicio, fin, req.IDProgramacionActual)
	if err != nil {
		s.logger.Error("检查排课冲突失败", zap.Int("id_instructor", req.IDInstructor), zap.Error(err))
		return nil, err
	}

	if cruce {
		return &dto.ValidarCruceResponse{Conflicto: true, Mensaje: ErrCruceHorario.Error()}, nil
	}
	return &dto.ValidarCruceResponse{Conflicto: false, Mensaje: msgSinCruce}, nil
}

// ────────────────────── 下拉辅助 ──────────────────────

func (s *programacionService) CompetenciasByPrograma(ctx context.Context, codPrograma int) ([]dto.CompetenciaResponse, error) {
	list, err := s.repo.Competencia.ListByPrograma(ctx, codPrograma)
	if err != nil {
		s.logger.Error("列出项目能力单元失败", zap.Int("cod_programa", codPrograma), zap.Error(err))
		return nil, err
	}
	return toCompetenciaResponses(list), nil
}

func (s *programacionService) ResultadosByCompetencia(ctx context.Context, codCompetencia int64) ([]dto.ResultadoResponse, error) {
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

// ────────────────────── iCalendar ──────────────────────

func (s *programacionService) CalendarioInstructor(ctx context.Context, idInstructor, callerID, callerRole int) (string, error) {
	rows, err := s.ListByInstructor(ctx, idInstructor, callerID, callerRole)
	if err != nil {
		return "", err
	}

	loc, err := time.LoadLocation(bogotaTimezone)
	if err != nil {
		loc = time.UTC
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName(fmt.Sprintf("Programación instructor %d", idInstructor))
	cal.SetXWRTimezone(bogotaTimezone)

	now := time.Now()
	for _, p := range rows {
		inicio, errIni := combinarFechaHora(p.FechaProgramada, p.HoraInicio, loc)
		fin, errFin := combinarFechaHora(p.FechaProgramada, p.HoraFin, loc)
		if errIni != nil || errFin != nil {
			s.logger.Warn("排课时间无法转换为日历事件", zap.Int("id_programacion", p.IDProgramacion))
			continue
		}

		evt := cal.AddEvent(fmt.Sprintf("programacion-%d@gestion-formacion", p.IDProgramacion))
		evt.SetDtStampTime(now)
		evt.SetStartAt(inicio)
		evt.SetEndAt(fin)
		evt.SetSummary(fmt.Sprintf("Ficha %d - %s", p.CodFicha, nombreOCodigo(p.NombreCompetencia, p.CodCompetencia)))
		evt.SetDescription(fmt.Sprintf("Resultado: %s\nHoras programadas: %d",
			nombreOCodigo(p.NombreResultado, p.CodResultado), p.HorasProgramadas))
	}

	return cal.Serialize(), nil
}

// ── 辅助函数 ──

func (s *programacionService) mapWriteError(err error, logMsg string) error {
	switch {
	case errors.Is(err, ErrCruceHorario), errors.Is(err, ErrProgramacionNothingToApply):
		return err
	case errors.Is(apperrors.Translate(err), apperrors.ErrForeignKey):
		return ErrProgramacionReferencia
	}
	s.logger.Error(logMsg, zap.Error(err))
	return err
}

// parseHorario 解析起止时间并要求结束晚于开始
func parseHorario(horaInicio, horaFin string) (model.Clock, model.Clock, error) {
	inicio, err := model.ParseClock(horaInicio)
	if err != nil {
		return "", "", err
	}
	fin, err := model.ParseClock(horaFin)
	if err != nil {
		return "", "", err
	}
	if fin <= inicio {
		return "", "", ErrHorarioInvalido
	}
	return inicio, fin, nil
}

func toProgramacionUpdate(req *dto.UpdateProgramacionRequest) (*repository.ProgramacionUpdate, error) {
	upd := &repository.ProgramacionUpdate{
		IDInstructor:     req.IDInstructor,
		CodFicha:         req.CodFicha,
		HorasProgramadas: req.HorasProgramadas,
		CodCompetencia:   req.CodCompetencia,
		CodResultado:     req.CodResultado,
	}
	if req.FechaProgramada != nil {
		d, err := model.ParseDate(*req.FechaProgramada)
		if err != nil {
			return nil, err
		}
		upd.FechaProgramada = &d
	}
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
	return upd, nil
}

func combinarFechaHora(fecha model.Date, hora model.Clock, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04:05", string(hora))
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := fecha.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, loc), nil
}

func nombreOCodigo(nombre *string, cod int64) string {
	if nombre != nil && *nombre != "" {
		return *nombre
	}
	return strconv.FormatInt(cod, 10)
}

func toProgramacionResponse(r *repository.ProgramacionDetalle) dto.ProgramacionResponse {
	return dto.ProgramacionResponse{
		IDProgramacion:    r.IDProgramacion,
		IDInstructor:      r.IDInstructor,
		CodFicha:          r.CodFicha,
		FechaProgramada:   r.FechaProgramada,
		HorasProgramadas:  r.HorasProgramadas,
		HoraInicio:        r.HoraInicio,
		HoraFin:           r.HoraFin,
		CodCompetencia:    r.CodCompetencia,
		CodResultado:      r.CodResultado,
		IDUser:            r.IDUser,
		NombreInstructor:  r.NombreInstructor,
		NombreCompetencia: r.NombreCompetencia,
		NombreResultado:   r.NombreResultado,
	}
}

func toProgramacionResponses(rows []repository.ProgramacionDetalle) []dto.ProgramacionResponse {
	result := make([]dto.ProgramacionResponse, 0, len(rows))
	for i := range rows {
		result = append(result, toProgramacionResponse(&rows[i]))
	}
	return result
}
