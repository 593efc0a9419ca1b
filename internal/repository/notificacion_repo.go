package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gestion-formacion/backend/internal/model"
)

// ────────────────────── Notificacion ──────────────────────

// NotificacionRepository 通知数据访问接口
type NotificacionRepository interface {
	Create(ctx context.Context, n *model.Notificacion) error
	ListByUsuario(ctx context.Context, idUsuario int) ([]model.Notificacion, error)
	// MarkRead 仅当通知属于 idUsuario 时标记已读，返回受影响行数
	MarkRead(ctx context.Context, id, idUsuario int) (int64, error)
}

type notificacionRepo struct {
	db *gorm.DB
}

// NewNotificacionRepo 创建 NotificacionRepository 实例
func NewNotificacionRepo(db *gorm.DB) NotificacionRepository {
	return &notificacionRepo{db: db}
}

func (r *notificacionRepo) Create(ctx context.Context, n *model.Notificacion) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificacionRepo) ListByUsuario(ctx context.Context, idUsuario int) ([]model.Notificacion, error) {
	var list []model.Notificacion
	err := r.db.WithContext(ctx).
		Where("id_usuario = ?", idUsuario).
		Order("fecha_creacion DESC").
		Find(&list).Error
	return list, err
}

func (r *notificacionRepo) MarkRead(ctx context.Context, id, idUsuario int) (int64, error) {
	// 已读的通知再次标记也计入受影响行
	res := r.db.WithContext(ctx).
		Model(&model.Notificacion{}).
		Where("id_notificacion = ? AND id_usuario = ?", id, idUsuario).
		Update("leida", true)
	return res.RowsAffected, res.Error
}

// ────────────────────── Festivo ──────────────────────

// FestivoRepository 节假日数据访问接口
type FestivoRepository interface {
	List(ctx context.Context) ([]model.Festivo, error)
	ListByYear(ctx context.Context, year int) ([]model.Festivo, error)
	// Upsert 已存在的日期忽略，返回是否新增
	Upsert(ctx context.Context, f *model.Festivo) (bool, error)
}

type festivoRepo struct {
	db *gorm.DB
}

// NewFestivoRepo 创建 FestivoRepository 实例
func NewFestivoRepo(db *gorm.DB) FestivoRepository {
	return &festivoRepo{db: db}
}

func (r *festivoRepo) List(ctx context.Context) ([]model.Festivo, error) {
	var list []model.Festivo
	err := r.db.WithContext(ctx).Order("festivo").Find(&list).Error
	return list, err
}

func (r *festivoRepo) ListByYear(ctx context.Context, year int) ([]model.Festivo, error) {
	var list []model.Festivo
	err := r.db.WithContext(ctx).
		Where("EXTRACT(YEAR FROM festivo) = ?", year).
		Order("festivo").
		Find(&list).Error
	return list, err
}

func (r *festivoRepo) Upsert(ctx context.Context, f *model.Festivo) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(f)
	return res.RowsAffected > 0, res.Error
}
