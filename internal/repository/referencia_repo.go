package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gestion-formacion/backend/internal/model"
)

// ────────────────────── Rol ──────────────────────

// RolRepository 角色数据访问接口
type RolRepository interface {
	List(ctx context.Context) ([]model.Rol, error)
	GetByID(ctx context.Context, id int) (*model.Rol, error)
}

type rolRepo struct {
	db *gorm.DB
}

// NewRolRepo 创建 RolRepository 实例
func NewRolRepo(db *gorm.DB) RolRepository {
	return &rolRepo{db: db}
}

func (r *rolRepo) List(ctx context.Context) ([]model.Rol, error) {
	var roles []model.Rol
	err := r.db.WithContext(ctx).Order("id_rol").Find(&roles).Error
	return roles, err
}

func (r *rolRepo) GetByID(ctx context.Context, id int) (*model.Rol, error) {
	var rol model.Rol
	if err := r.db.WithContext(ctx).Where("id_rol = ?", id).First(&rol).Error; err != nil {
		return nil, err
	}
	return &rol, nil
}

// ────────────────────── Regional ──────────────────────

// RegionalRepository 区域数据访问接口
type RegionalRepository interface {
	List(ctx context.Context) ([]model.Regional, error)
	Upsert(ctx context.Context, reg *model.Regional) error
}

type regionalRepo struct {
	db *gorm.DB
}

// NewRegionalRepo 创建 RegionalRepository 实例
func NewRegionalRepo(db *gorm.DB) RegionalRepository {
	return &regionalRepo{db: db}
}

func (r *regionalRepo) List(ctx context.Context) ([]model.Regional, error) {
	var regs []model.Regional
	err := r.db.WithContext(ctx).Order("nombre").Find(&regs).Error
	return regs, err
}

func (r *regionalRepo) Upsert(ctx context.Context, reg *model.Regional) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cod_regional"}},
			DoUpdates: clause.AssignmentColumns([]string{"nombre"}),
		}).
		Create(reg).Error
}

// ────────────────────── CentroFormacion ──────────────────────

// CentroRepository 培训中心数据访问接口
type CentroRepository interface {
	List(ctx context.Context) ([]model.CentroFormacion, error)
	GetByID(ctx context.Context, codCentro int) (*model.CentroFormacion, error)
	GetByNombre(ctx context.Context, nombre string) (*model.CentroFormacion, error)
	ListByRegional(ctx context.Context, codRegional int) ([]model.CentroFormacion, error)
	Upsert(ctx context.Context, centro *model.CentroFormacion) error
}

type centroRepo struct {
	db *gorm.DB
}

// NewCentroRepo 创建 CentroRepository 实例
func NewCentroRepo(db *gorm.DB) CentroRepository {
	return &centroRepo{db: db}
}

func (r *centroRepo) List(ctx context.Context) ([]model.CentroFormacion, error) {
	var centros []model.CentroFormacion
	err := r.db.WithContext(ctx).Order("nombre_centro").Find(&centros).Error
	return centros, err
}

func (r *centroRepo) GetByID(ctx context.Context, codCentro int) (*model.CentroFormacion, error) {
	var c model.CentroFormacion
	if err := r.db.WithContext(ctx).Where("cod_centro = ?", codCentro).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *centroRepo) GetByNombre(ctx context.Context, nombre string) (*model.CentroFormacion, error) {
	var c model.CentroFormacion
	if err := r.db.WithContext(ctx).Where("nombre_centro = ?", nombre).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *centroRepo) ListByRegional(ctx context.Context, codRegional int) ([]model.CentroFormacion, error) {
	var centros []model.CentroFormacion
	err := r.db.WithContext(ctx).
		Where("cod_regional = ?", codRegional).
		Order("nombre_centro").
		Find(&centros).Error
	return centros, err
}

func (r *centroRepo) Upsert(ctx context.Context, centro *model.CentroFormacion) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cod_centro"}},
			DoUpdates: clause.AssignmentColumns([]string{"nombre_centro", "cod_regional"}),
		}).
		Create(centro).Error
}
