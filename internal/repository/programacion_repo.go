package repository

import (
	"context"

	"gorm.io/gorm"

	"gestion-formacion/backend/internal/model"
)

// ProgramacionDetalle 排课记录及讲师、能力单元、学习成果名称
type ProgramacionDetalle struct {
	model.Programacion
	NombreInstructor  *string `gorm:"column:nombre_instructor"`
	NombreCompetencia *string `gorm:"column:nombre_competencia"`
	NombreResultado   *string `gorm:"column:nombre_resultado"`
}

// ProgramacionUpdate 排课可更新字段白名单
type ProgramacionUpdate struct {
	IDInstructor     *int
	CodFicha         *int
	FechaProgramada  *model.Date
	HorasProgramadas *int
	HoraInicio       *model.Clock
	HoraFin          *model.Clock
	CodCompetencia   *int64
	CodResultado     *int64
}

func (u *ProgramacionUpdate) columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if u.IDInstructor != nil {
		cols["id_instructor"] = *u.IDInstructor
	}
	if u.CodFicha != nil {
		cols["cod_ficha"] = *u.CodFicha
	}
	if u.FechaProgramada != nil {
		cols["fecha_programada"] = *u.FechaProgramada
	}
	if u.HorasProgramadas != nil {
		cols["horas_programadas"] = *u.HorasProgramadas
	}
	if u.HoraInicio != nil {
		cols["hora_inicio"] = *u.HoraInicio
	}
	if u.HoraFin != nil {
		cols["hora_fin"] = *u.HoraFin
	}
	if u.CodCompetencia != nil {
		cols["cod_competencia"] = *u.CodCompetencia
	}
	if u.CodResultado != nil {
		cols["cod_resultado"] = *u.CodResultado
	}
	return cols
}

// IsEmpty 没有任何待更新字段
func (u *ProgramacionUpdate) IsEmpty() bool {
	return len(u.columns()) == 0
}

// ProgramacionRepository 排课数据访问接口
type ProgramacionRepository interface {
	Create(ctx context.Context, p *model.Programacion) error
	GetByID(ctx context.Context, id int) (*model.Programacion, error)
	GetDetalle(ctx context.Context, id int) (*ProgramacionDetalle, error)
	ListByFicha(ctx context.Context, codFicha int) ([]ProgramacionDetalle, error)
	ListByInstructor(ctx context.Context, idInstructor int) ([]ProgramacionDetalle, error)
	ListAll(ctx context.Context, offset, limit int) ([]ProgramacionDetalle, int64, error)
	Update(ctx context.Context, id int, upd *ProgramacionUpdate) (int64, error)
	Delete(ctx context.Context, id int) (int64, error)

	// HasOverlap 同一讲师同一天是否存在与 [inicio, fin) 相交的排课
	// excludeID 非空时排除该记录（更新场景）
	HasOverlap(ctx context.Context, idInstructor int, fecha model.Date, inicio, fin model.Clock, excludeID *int) (bool, error)
	// LockInstructorDay 获取 (讲师, 日期) 事务级咨询锁，事务结束自动释放
	LockInstructorDay(ctx context.Context, idInstructor int, fecha model.Date) error
}

type programacionRepo struct {
	db *gorm.DB
}

// NewProgramacionRepo 创建 ProgramacionRepository 实例
func NewProgramacionRepo(db *gorm.DB) ProgramacionRepository {
	return &programacionRepo{db: db}
}

func (r *programacionRepo) Create(ctx context.Context, p *model.Programacion) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *programacionRepo) GetByID(ctx context.Context, id int) (*model.Programacion, error) {
	var p model.Programacion
	if err := r.db.WithContext(ctx).Where("id_programacion = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *programacionRepo) detalle(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("programacion p").
		Select("p.*, u.nombre_completo AS nombre_instructor, c.nombre AS nombre_competencia, ra.nombre AS nombre_resultado").
		Joins("LEFT JOIN usuario u ON p.id_instructor = u.id_usuario").
		Joins("LEFT JOIN competencia c ON p.cod_competencia = c.cod_competencia").
		Joins("LEFT JOIN resultado_aprendizaje ra ON p.cod_resultado = ra.cod_resultado")
}

func (r *programacionRepo) GetDetalle(ctx context.Context, id int) (*ProgramacionDetalle, error) {
	var rows []ProgramacionDetalle
	if err := r.detalle(ctx).Where("p.id_programacion = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *programacionRepo) ListByFicha(ctx context.Context, codFicha int) ([]ProgramacionDetalle, error) {
	var rows []ProgramacionDetalle
	err := r.detalle(ctx).
		Where("p.cod_ficha = ?", codFicha).
		Order("p.fecha_programada, p.hora_inicio").
		Scan(&rows).Error
	return rows, err
}

func (r *programacionRepo) ListByInstructor(ctx context.Context, idInstructor int) ([]ProgramacionDetalle, error) {
	var rows []ProgramacionDetalle
	err := r.detalle(ctx).
		Where("p.id_instructor = ?", idInstructor).
		Order("p.fecha_programada, p.hora_inicio").
		Scan(&rows).Error
	return rows, err
}

func (r *programacionRepo) ListAll(ctx context.Context, offset, limit int) ([]ProgramacionDetalle, int64, error) {
	var rows []ProgramacionDetalle
	var total int64

	if err := r.db.WithContext(ctx).Model(&model.Programacion{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.detalle(ctx).
		Order("p.fecha_programada DESC, p.hora_inicio").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *programacionRepo) Update(ctx context.Context, id int, upd *ProgramacionUpdate) (int64, error) {
	cols := upd.columns()
	if len(cols) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&model.Programacion{}).
		Where("id_programacion = ?", id).
		Updates(cols)
	return res.RowsAffected, res.Error
}

func (r *programacionRepo) Delete(ctx context.Context, id int) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id_programacion = ?", id).
		Delete(&model.Programacion{})
	return res.RowsAffected, res.Error
}

func (r *programacionRepo) HasOverlap(ctx context.Context, idInstructor int, fecha model.Date, inicio, fin model.Clock, excludeID *int) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&model.Programacion{}).
		Where("id_instructor = ? AND fecha_programada = ?", idInstructor, fecha).
		Where("hora_inicio < ? AND ? < hora_fin", fin, inicio)
	if excludeID != nil {
		db = db.Where("id_programacion <> ?", *excludeID)
	}

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *programacionRepo) LockInstructorDay(ctx context.Context, idInstructor int, fecha model.Date) error {
	// 两个 int4 参数的重载：讲师 ID 与自 1970-01-01 起的天数
	day := int32(fecha.Unix() / 86400)
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(?, ?)", int32(idInstructor), day).Error
}
