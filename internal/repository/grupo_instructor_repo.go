package repository

import (
	"context"

	"gorm.io/gorm"

	"gestion-formacion/backend/internal/model"
)

// InstructorAsignado 班级下的讲师
type InstructorAsignado struct {
	CodFicha       int
	IDInstructor   int
	NombreCompleto string
	Correo         string
	Identificacion string
	Telefono       string
	TipoContrato   string
	NombreRol      *string
}

// GrupoAsignado 讲师负责的班级
type GrupoAsignado struct {
	CodFicha       int
	IDInstructor   int
	EstadoGrupo    string
	Jornada        string
	FechaInicio    model.Date
	FechaFin       model.Date
	Etapa          string
	NombrePrograma *string
	NombreCentro   *string
}

// GrupoInstructorRepository 班级-讲师分配数据访问接口
type GrupoInstructorRepository interface {
	Create(ctx context.Context, gi *model.GrupoInstructor) error
	Exists(ctx context.Context, codFicha, idInstructor int) (bool, error)
	Move(ctx context.Context, old, nuevo *model.GrupoInstructor) (int64, error)
	Delete(ctx context.Context, codFicha, idInstructor int) (int64, error)
	ListInstructoresByGrupo(ctx context.Context, codFicha int) ([]InstructorAsignado, error)
	ListGruposByInstructor(ctx context.Context, idInstructor int) ([]GrupoAsignado, error)
}

type grupoInstructorRepo struct {
	db *gorm.DB
}

// NewGrupoInstructorRepo 创建 GrupoInstructorRepository 实例
func NewGrupoInstructorRepo(db *gorm.DB) GrupoInstructorRepository {
	return &grupoInstructorRepo{db: db}
}

func (r *grupoInstructorRepo) Create(ctx context.Context, gi *model.GrupoInstructor) error {
	return r.db.WithContext(ctx).Create(gi).Error
}

func (r *grupoInstructorRepo) Exists(ctx context.Context, codFicha, idInstructor int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.GrupoInstructor{}).
		Where("cod_ficha = ? AND id_instructor = ?", codFicha, idInstructor).
		Count(&count).Error
	return count > 0, err
}

// Move 修改分配的主键，返回受影响行数
func (r *grupoInstructorRepo) Move(ctx context.Context, old, nuevo *model.GrupoInstructor) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.GrupoInstructor{}).
		Where("cod_ficha = ? AND id_instructor = ?", old.CodFicha, old.IDInstructor).
		Updates(map[string]interface{}{
			"cod_ficha":     nuevo.CodFicha,
			"id_instructor": nuevo.IDInstructor,
		})
	return res.RowsAffected, res.Error
}

func (r *grupoInstructorRepo) Delete(ctx context.Context, codFicha, idInstructor int) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("cod_ficha = ? AND id_instructor = ?", codFicha, idInstructor).
		Delete(&model.GrupoInstructor{})
	return res.RowsAffected, res.Error
}

func (r *grupoInstructorRepo) ListInstructoresByGrupo(ctx context.Context, codFicha int) ([]InstructorAsignado, error) {
	var rows []InstructorAsignado
	err := r.db.WithContext(ctx).
		Table("grupo_instructor gi").
		Select("gi.cod_ficha, gi.id_instructor, u.nombre_completo, u.correo, u.identificacion, u.telefono, u.tipo_contrato, r.nombre AS nombre_rol").
		Joins("JOIN usuario u ON gi.id_instructor = u.id_usuario").
		Joins("LEFT JOIN rol r ON u.id_rol = r.id_rol").
		Where("gi.cod_ficha = ?", codFicha).
		Order("u.nombre_completo").
		Scan(&rows).Error
	return rows, err
}

func (r *grupoInstructorRepo) ListGruposByInstructor(ctx context.Context, idInstructor int) ([]GrupoAsignado, error) {
	var rows []GrupoAsignado
	err := r.db.WithContext(ctx).
		Table("grupo_instructor gi").
		Select("g.cod_ficha, gi.id_instructor, g.estado_grupo, g.jornada, g.fecha_inicio, g.fecha_fin, g.etapa, " +
			"pf.nombre AS nombre_programa, cf.nombre_centro").
		Joins("JOIN grupo g ON gi.cod_ficha = g.cod_ficha").
		Joins("LEFT JOIN programa_formacion pf ON g.cod_programa = pf.cod_programa AND g.la_version = pf.la_version").
		Joins("LEFT JOIN centro_formacion cf ON g.cod_centro = cf.cod_centro").
		Where("gi.id_instructor = ?", idInstructor).
		Order("g.cod_ficha DESC").
		Scan(&rows).Error
	return rows, err
}
