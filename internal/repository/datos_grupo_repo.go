package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gestion-formacion/backend/internal/model"
)

// 两类导入各自负责的 datos_grupo 列
var (
	DatosGrupoColumnasGenero = []string{
		"num_aprendices_masculinos", "num_aprendices_femenino", "num_aprendices_no_binario",
		"num_total_aprendices", "num_total_aprendices_activos",
	}
	DatosGrupoColumnasEstado = []string{
		"cupo_total", "en_transito", "induccion", "formacion", "condicionado",
		"aplazado", "retiro_voluntario", "cancelado", "cancelamiento_vit_comp",
		"desercion_vit_comp", "por_certificar", "certificados", "traslados", "otro",
	}
)

// DatosGrupoRepository 班级统计数据访问接口
type DatosGrupoRepository interface {
	Get(ctx context.Context, codFicha int) (*model.DatosGrupo, error)
	// Upsert 插入或仅覆盖 cols 中列出的列
	Upsert(ctx context.Context, d *model.DatosGrupo, cols []string) error
}

type datosGrupoRepo struct {
	db *gorm.DB
}

// NewDatosGrupoRepo 创建 DatosGrupoRepository 实例
func NewDatosGrupoRepo(db *gorm.DB) DatosGrupoRepository {
	return &datosGrupoRepo{db: db}
}

func (r *datosGrupoRepo) Get(ctx context.Context, codFicha int) (*model.DatosGrupo, error) {
	var d model.DatosGrupo
	if err := r.db.WithContext(ctx).Where("cod_ficha = ?", codFicha).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *datosGrupoRepo) Upsert(ctx context.Context, d *model.DatosGrupo, cols []string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cod_ficha"}},
			DoUpdates: clause.AssignmentColumns(cols),
		}).
		Select(append([]string{"cod_ficha"}, cols...)).
		Create(d).Error
}
