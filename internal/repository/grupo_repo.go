package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gestion-formacion/backend/internal/model"
)

// ── 查询结果结构 ──

// GrupoDetalle 班级及项目、场地名称
type GrupoDetalle struct {
	model.Grupo
	NombrePrograma *string `gorm:"column:nombre_programa"`
	NombreAmbiente *string `gorm:"column:nombre_ambiente"`
}

// GrupoOpcion 下拉选择用的精简班级信息
type GrupoOpcion struct {
	CodFicha       int
	EstadoGrupo    string
	Jornada        string
	FechaInicio    model.Date
	FechaFin       model.Date
	Etapa          string
	Responsable    string
	NombrePrograma *string
	NombreAmbiente *string
}

// GrupoKPI 仪表盘指标
type GrupoKPI struct {
	TotalGrupo               int64
	TotalAprendicesFormacion int64
}

// DistribucionRow 仪表盘分组统计行
type DistribucionRow struct {
	Key                      *string
	Cantidad                 int64
	TotalAprendicesFormacion int64
}

// GrupoDashboardFilter 仪表盘筛选条件，cod_centro 必填
type GrupoDashboardFilter struct {
	CodCentro       int
	EstadoGrupo     *string
	NombreNivel     *string
	Etapa           *string
	Modalidad       *string
	Jornada         *string
	NombreMunicipio *string
	Anio            *int
}

// 可分组的维度与列名的固定映射
var distribucionColumns = map[string]string{
	"municipio": "g.nombre_municipio",
	"jornada":   "g.jornada",
	"modalidad": "g.modalidad",
	"etapa":     "g.etapa",
	"nivel":     "g.nombre_nivel",
}

// GrupoUpdate 班级可更新字段白名单
type GrupoUpdate struct {
	HoraInicio *model.Clock
	HoraFin    *model.Clock
	IDAmbiente *int
}

func (u *GrupoUpdate) columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if u.HoraInicio != nil {
		cols["hora_inicio"] = *u.HoraInicio
	}
	if u.HoraFin != nil {
		cols["hora_fin"] = *u.HoraFin
	}
	if u.IDAmbiente != nil {
		cols["id_ambiente"] = *u.IDAmbiente
	}
	return cols
}

// GrupoRepository 班级数据访问接口
type GrupoRepository interface {
	GetByID(ctx context.Context, codFicha int) (*model.Grupo, error)
	GetDetalle(ctx context.Context, codFicha int) (*GrupoDetalle, error)
	List(ctx context.Context, offset, limit int) ([]model.Grupo, int64, error)
	ListByCentro(ctx context.Context, codCentro, offset, limit int) ([]model.Grupo, int64, error)
	SearchForSelect(ctx context.Context, term string, limit int) ([]GrupoOpcion, error)
	AdvancedSearch(ctx context.Context, term string, codCentro *int, offset, limit int) ([]GrupoDetalle, int64, error)
	Update(ctx context.Context, codFicha int, upd *GrupoUpdate) (int64, error)
	Upsert(ctx context.Context, g *model.Grupo) error
	KPIs(ctx context.Context, f *GrupoDashboardFilter) (*GrupoKPI, error)
	Distribucion(ctx context.Context, dimension string, f *GrupoDashboardFilter) ([]DistribucionRow, error)
}

type grupoRepo struct {
	db *gorm.DB
}

// NewGrupoRepo 创建 GrupoRepository 实例
func NewGrupoRepo(db *gorm.DB) GrupoRepository {
	return &grupoRepo{db: db}
}

const grupoJoins = "LEFT JOIN programa_formacion pf ON g.cod_programa = pf.cod_programa AND g.la_version = pf.la_version " +
	"LEFT JOIN ambiente_formacion af ON g.id_ambiente = af.id_ambiente"

func (r *grupoRepo) GetByID(ctx context.Context, codFicha int) (*model.Grupo, error) {
	var g model.Grupo
	if err := r.db.WithContext(ctx).Where("cod_ficha = ?", codFicha).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *grupoRepo) GetDetalle(ctx context.Context, codFicha int) (*GrupoDetalle, error) {
	var rows []GrupoDetalle
	err := r.db.WithContext(ctx).
		Table("grupo g").
		Select("g.*, pf.nombre AS nombre_programa, af.nombre_ambiente").
		Joins(grupoJoins).
		Where("g.cod_ficha = ?", codFicha).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *grupoRepo) List(ctx context.Context, offset, limit int) ([]model.Grupo, int64, error) {
	return r.page(r.db.WithContext(ctx).Model(&model.Grupo{}), offset, limit)
}

func (r *grupoRepo) ListByCentro(ctx context.Context, codCentro, offset, limit int) ([]model.Grupo, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Grupo{}).Where("cod_centro = ?", codCentro)
	return r.page(db, offset, limit)
}

func (r *grupoRepo) page(db *gorm.DB, offset, limit int) ([]model.Grupo, int64, error) {
	var grupos []model.Grupo
	var total int64

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Order("cod_ficha DESC").
		Offset(offset).Limit(limit).
		Find(&grupos).Error; err != nil {
		return nil, 0, err
	}
	return grupos, total, nil
}

// SearchForSelect 下拉搜索
// 纯数字按 ficha 前缀匹配；否则在项目名、负责人、场地名中模糊匹配，前缀命中优先
func (r *grupoRepo) SearchForSelect(ctx context.Context, term string, limit int) ([]GrupoOpcion, error) {
	var rows []GrupoOpcion
	term = strings.TrimSpace(term)

	db := r.db.WithContext(ctx).
		Table("grupo g").
		Select("g.cod_ficha, g.estado_grupo, g.jornada, g.fecha_inicio, g.fecha_fin, g.etapa, g.responsable, " +
			"pf.nombre AS nombre_programa, af.nombre_ambiente").
		Joins(grupoJoins).
		Where("COALESCE(g.estado_grupo, '') NOT IN ?", []string{model.EstadoGrupoCancelado, model.EstadoGrupoCerrado})

	switch {
	case term == "":
		db = db.Order("g.cod_ficha DESC")
	case isDigits(term):
		db = db.Where("CAST(g.cod_ficha AS TEXT) LIKE ?", term+"%").
			Order("g.cod_ficha ASC")
	default:
		contains := "%" + escapeLike(term) + "%"
		prefix := escapeLike(term) + "%"
		db = db.Where("(pf.nombre ILIKE ? OR g.responsable ILIKE ? OR af.nombre_ambiente ILIKE ?)", contains, contains, contains).
			Order(clause.Expr{
				SQL: "CASE WHEN pf.nombre ILIKE ? THEN 1 WHEN g.responsable ILIKE ? THEN 2 WHEN af.nombre_ambiente ILIKE ? THEN 3 ELSE 4 END, g.cod_ficha DESC",
				Vars: []interface{}{prefix, prefix, prefix},
			})
	}

	err := db.Limit(limit).Scan(&rows).Error
	return rows, err
}

func (r *grupoRepo) AdvancedSearch(ctx context.Context, term string, codCentro *int, offset, limit int) ([]GrupoDetalle, int64, error) {
	var rows []GrupoDetalle
	var total int64

	db := r.db.WithContext(ctx).Table("grupo g").Joins(grupoJoins)
	if term = strings.TrimSpace(term); term != "" {
		like := "%" + escapeLike(term) + "%"
		db = db.Where("(CAST(g.cod_ficha AS TEXT) LIKE ? OR g.responsable ILIKE ? OR pf.nombre ILIKE ?)", like, like, like)
	}
	if codCentro != nil {
		db = db.Where("g.cod_centro = ?", *codCentro)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Select("g.*, pf.nombre AS nombre_programa, af.nombre_ambiente").
		Order("g.cod_ficha DESC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *grupoRepo) Update(ctx context.Context, codFicha int, upd *GrupoUpdate) (int64, error) {
	cols := upd.columns()
	if len(cols) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&model.Grupo{}).
		Where("cod_ficha = ?", codFicha).
		Updates(cols)
	return res.RowsAffected, res.Error
}

// Upsert 导入用：按 cod_ficha 插入或整体覆盖（id_ambiente 保留）
func (r *grupoRepo) Upsert(ctx context.Context, g *model.Grupo) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cod_ficha"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"cod_centro", "cod_programa", "la_version", "estado_grupo",
				"nombre_nivel", "jornada", "fecha_inicio", "fecha_fin", "etapa",
				"modalidad", "responsable", "nombre_empresa", "nombre_municipio",
				"nombre_programa_especial", "hora_inicio", "hora_fin",
			}),
		}).
		Omit("id_ambiente").
		Create(g).Error
}

// ────────────────────── 仪表盘 ──────────────────────

func (r *grupoRepo) dashboardBase(ctx context.Context, f *GrupoDashboardFilter) *gorm.DB {
	db := r.db.WithContext(ctx).
		Table("grupo g").
		Joins("LEFT JOIN datos_grupo dg ON g.cod_ficha = dg.cod_ficha").
		Where("g.cod_centro = ?", f.CodCentro)

	if f.EstadoGrupo != nil {
		db = db.Where("g.estado_grupo = ?", *f.EstadoGrupo)
	}
	if f.NombreNivel != nil {
		db = db.Where("g.nombre_nivel = ?", *f.NombreNivel)
	}
	if f.Etapa != nil {
		db = db.Where("g.etapa = ?", *f.Etapa)
	}
	if f.Modalidad != nil {
		db = db.Where("g.modalidad = ?", *f.Modalidad)
	}
	if f.Jornada != nil {
		db = db.Where("g.jornada = ?", *f.Jornada)
	}
	if f.NombreMunicipio != nil {
		db = db.Where("g.nombre_municipio = ?", *f.NombreMunicipio)
	}
	if f.Anio != nil {
		db = db.Where("EXTRACT(YEAR FROM g.fecha_inicio) = ?", *f.Anio)
	}
	return db
}

func (r *grupoRepo) KPIs(ctx context.Context, f *GrupoDashboardFilter) (*GrupoKPI, error) {
	var kpi GrupoKPI
	err := r.dashboardBase(ctx, f).
		Select("COUNT(g.cod_ficha) AS total_grupo, COALESCE(SUM(dg.formacion), 0) AS total_aprendices_formacion").
		Scan(&kpi).Error
	if err != nil {
		return nil, err
	}
	return &kpi, nil
}

func (r *grupoRepo) Distribucion(ctx context.Context, dimension string, f *GrupoDashboardFilter) ([]DistribucionRow, error) {
	col, ok := distribucionColumns[dimension]
	if !ok {
		return nil, fmt.Errorf("dimensión no soportada: %s", dimension)
	}

	var rows []DistribucionRow
	err := r.dashboardBase(ctx, f).
		Select(col + " AS key, COUNT(g.cod_ficha) AS cantidad, COALESCE(SUM(dg.formacion), 0) AS total_aprendices_formacion").
		Group(col).
		Order("cantidad DESC").
		Scan(&rows).Error
	return rows, err
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}
