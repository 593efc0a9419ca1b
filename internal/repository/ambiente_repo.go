package repository

import (
	"context"

	"gorm.io/gorm"

	"gestion-formacion/backend/internal/model"
)

// AmbienteUpdate 场地可更新字段白名单
type AmbienteUpdate struct {
	NombreAmbiente   *string
	NumMaxAprendices *int
	Municipio        *string
	Ubicacion        *string
	Estado           *bool
}

func (u *AmbienteUpdate) columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if u.NombreAmbiente != nil {
		cols["nombre_ambiente"] = *u.NombreAmbiente
	}
	if u.NumMaxAprendices != nil {
		cols["num_max_aprendices"] = *u.NumMaxAprendices
	}
	if u.Municipio != nil {
		cols["municipio"] = *u.Municipio
	}
	if u.Ubicacion != nil {
		cols["ubicacion"] = *u.Ubicacion
	}
	if u.Estado != nil {
		cols["estado"] = *u.Estado
	}
	return cols
}

// AmbienteRepository 教学场地数据访问接口
type AmbienteRepository interface {
	Create(ctx context.Context, a *model.AmbienteFormacion) error
	GetByID(ctx context.Context, id int) (*model.AmbienteFormacion, error)
	List(ctx context.Context, codCentro *int, incluirInactivos bool) ([]model.AmbienteFormacion, error)
	Update(ctx context.Context, id int, upd *AmbienteUpdate) (int64, error)
}

type ambienteRepo struct {
	db *gorm.DB
}

// NewAmbienteRepo 创建 AmbienteRepository 实例
func NewAmbienteRepo(db *gorm.DB) AmbienteRepository {
	return &ambienteRepo{db: db}
}

func (r *ambienteRepo) Create(ctx context.Context, a *model.AmbienteFormacion) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ambienteRepo) GetByID(ctx context.Context, id int) (*model.AmbienteFormacion, error) {
	var a model.AmbienteFormacion
	if err := r.db.WithContext(ctx).Where("id_ambiente = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ambienteRepo) List(ctx context.Context, codCentro *int, incluirInactivos bool) ([]model.AmbienteFormacion, error) {
	var ambientes []model.AmbienteFormacion
	db := r.db.WithContext(ctx)
	if codCentro != nil {
		db = db.Where("cod_centro = ?", *codCentro)
	}
	if !incluirInactivos {
		db = db.Where("estado = ?", true)
	}
	err := db.Order("nombre_ambiente").Find(&ambientes).Error
	return ambientes, err
}

func (r *ambienteRepo) Update(ctx context.Context, id int, upd *AmbienteUpdate) (int64, error) {
	cols := upd.columns()
	if len(cols) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&model.AmbienteFormacion{}).
		Where("id_ambiente = ?", id).
		Updates(cols)
	return res.RowsAffected, res.Error
}
