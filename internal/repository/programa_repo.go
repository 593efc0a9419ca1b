package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gestion-formacion/backend/internal/model"
)

// ProgramaHorasUpdate 项目学时可更新字段
type ProgramaHorasUpdate struct {
	HorasLectivas    *int
	HorasProductivas *int
}

func (u *ProgramaHorasUpdate) columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if u.HorasLectivas != nil {
		cols["horas_lectivas"] = *u.HorasLectivas
	}
	if u.HorasProductivas != nil {
		cols["horas_productivas"] = *u.HorasProductivas
	}
	return cols
}

// ProgramaRepository 培训项目数据访问接口
type ProgramaRepository interface {
	Create(ctx context.Context, p *model.ProgramaFormacion) error
	Get(ctx context.Context, codPrograma, laVersion int) (*model.ProgramaFormacion, error)
	GetLatest(ctx context.Context, codPrograma int) (*model.ProgramaFormacion, error)
	List(ctx context.Context, offset, limit int) ([]model.ProgramaFormacion, int64, error)
	Search(ctx context.Context, query string, offset, limit int) ([]model.ProgramaFormacion, int64, error)
	UpdateLatestHoras(ctx context.Context, codPrograma int, upd *ProgramaHorasUpdate) (int64, error)
	UpdateHoras(ctx context.Context, codPrograma, laVersion int, upd *ProgramaHorasUpdate) (int64, error)
	Delete(ctx context.Context, codPrograma, laVersion int) (int64, error)
	UpsertNombre(ctx context.Context, p *model.ProgramaFormacion) error
}

type programaRepo struct {
	db *gorm.DB
}

// NewProgramaRepo 创建 ProgramaRepository 实例
func NewProgramaRepo(db *gorm.DB) ProgramaRepository {
	return &programaRepo{db: db}
}

func (r *programaRepo) Create(ctx context.Context, p *model.ProgramaFormacion) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *programaRepo) Get(ctx context.Context, codPrograma, laVersion int) (*model.ProgramaFormacion, error) {
	var p model.ProgramaFormacion
	err := r.db.WithContext(ctx).
		Where("cod_programa = ? AND la_version = ?", codPrograma, laVersion).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetLatest 返回最新版本
func (r *programaRepo) GetLatest(ctx context.Context, codPrograma int) (*model.ProgramaFormacion, error) {
	var p model.ProgramaFormacion
	err := r.db.WithContext(ctx).
		Where("cod_programa = ?", codPrograma).
		Order("la_version DESC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *programaRepo) List(ctx context.Context, offset, limit int) ([]model.ProgramaFormacion, int64, error) {
	return r.page(r.db.WithContext(ctx).Model(&model.ProgramaFormacion{}), offset, limit)
}

func (r *programaRepo) Search(ctx context.Context, query string, offset, limit int) ([]model.ProgramaFormacion, int64, error) {
	db := r.db.WithContext(ctx).
		Model(&model.ProgramaFormacion{}).
		Where("nombre ILIKE ?", "%"+escapeLike(query)+"%")
	return r.page(db, offset, limit)
}

func (r *programaRepo) page(db *gorm.DB, offset, limit int) ([]model.ProgramaFormacion, int64, error) {
	var programas []model.ProgramaFormacion
	var total int64

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Order("cod_programa, la_version").
		Offset(offset).Limit(limit).
		Find(&programas).Error; err != nil {
		return nil, 0, err
	}
	return programas, total, nil
}

// UpdateLatestHoras 只更新最新版本的学时
func (r *programaRepo) UpdateLatestHoras(ctx context.Context, codPrograma int, upd *ProgramaHorasUpdate) (int64, error) {
	cols := upd.columns()
	if len(cols) == 0 {
		return 0, nil
	}
	latest := r.db.Model(&model.ProgramaFormacion{}).
		Select("MAX(la_version)").
		Where("cod_programa = ?", codPrograma)
	res := r.db.WithContext(ctx).
		Model(&model.ProgramaFormacion{}).
		Where("cod_programa = ? AND la_version = (?)", codPrograma, latest).
		Updates(cols)
	return res.RowsAffected, res.Error
}

func (r *programaRepo) UpdateHoras(ctx context.Context, codPrograma, laVersion int, upd *ProgramaHorasUpdate) (int64, error) {
	cols := upd.columns()
	if len(cols) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&model.ProgramaFormacion{}).
		Where("cod_programa = ? AND la_version = ?", codPrograma, laVersion).
		Updates(cols)
	return res.RowsAffected, res.Error
}

func (r *programaRepo) Delete(ctx context.Context, codPrograma, laVersion int) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("cod_programa = ? AND la_version = ?", codPrograma, laVersion).
		Delete(&model.ProgramaFormacion{})
	return res.RowsAffected, res.Error
}

// UpsertNombre 导入用：新项目学时为 0，已存在时只刷新名称
func (r *programaRepo) UpsertNombre(ctx context.Context, p *model.ProgramaFormacion) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cod_programa"}, {Name: "la_version"}},
			DoUpdates: clause.AssignmentColumns([]string{"nombre"}),
		}).
		Create(p).Error
}
