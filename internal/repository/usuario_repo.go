package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gestion-formacion/backend/internal/model"
)

// UsuarioUpdate 用户可更新字段白名单，nil 表示不修改
type UsuarioUpdate struct {
	NombreCompleto *string
	TipoContrato   *string
	Telefono       *string
	Correo         *string
}

func (u *UsuarioUpdate) columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if u.NombreCompleto != nil {
		cols["nombre_completo"] = *u.NombreCompleto
	}
	if u.TipoContrato != nil {
		cols["tipo_contrato"] = *u.TipoContrato
	}
	if u.Telefono != nil {
		cols["telefono"] = *u.Telefono
	}
	if u.Correo != nil {
		cols["correo"] = *u.Correo
	}
	return cols
}

// UsuarioRepository 用户数据访问接口
type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	GetByID(ctx context.Context, id int) (*model.Usuario, error)
	GetByCorreo(ctx context.Context, correo string) (*model.Usuario, error)
	GetByIdentificacion(ctx context.Context, identificacion string) (*model.Usuario, error)
	Update(ctx context.Context, id int, upd *UsuarioUpdate) (int64, error)
	UpdatePassword(ctx context.Context, id int, passHash string, changedAt time.Time) error
	ToggleEstado(ctx context.Context, id int) error
	ListByCentro(ctx context.Context, codCentro, offset, limit int) ([]model.Usuario, int64, error)
	ListInstructores(ctx context.Context, codCentro *int) ([]model.Usuario, error)
}

// usuarioRepo UsuarioRepository 的 GORM 实现
type usuarioRepo struct {
	db *gorm.DB
}

// NewUsuarioRepo 创建 UsuarioRepository 实例
func NewUsuarioRepo(db *gorm.DB) UsuarioRepository {
	return &usuarioRepo{db: db}
}

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Omit("Rol").Create(u).Error
}

func (r *usuarioRepo) GetByID(ctx context.Context, id int) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).
		Preload("Rol").
		Where("id_usuario = ?", id).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) GetByCorreo(ctx context.Context, correo string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).
		Preload("Rol").
		Where("LOWER(correo) = LOWER(?)", correo).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) GetByIdentificacion(ctx context.Context, identificacion string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).
		Where("identificacion = ?", identificacion).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) Update(ctx context.Context, id int, upd *UsuarioUpdate) (int64, error) {
	cols := upd.columns()
	if len(cols) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&model.Usuario{}).
		Where("id_usuario = ?", id).
		Updates(cols)
	return res.RowsAffected, res.Error
}

// UpdatePassword 修改密码并推进 password_changed_at 水位线
func (r *usuarioRepo) UpdatePassword(ctx context.Context, id int, passHash string, changedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Usuario{}).
		Where("id_usuario = ?", id).
		Updates(map[string]interface{}{
			"pass_hash":           passHash,
			"password_changed_at": changedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ToggleEstado 在数据库中原子取反 estado
func (r *usuarioRepo) ToggleEstado(ctx context.Context, id int) error {
	res := r.db.WithContext(ctx).
		Model(&model.Usuario{}).
		Where("id_usuario = ?", id).
		Update("estado", gorm.Expr("NOT estado"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *usuarioRepo) ListByCentro(ctx context.Context, codCentro, offset, limit int) ([]model.Usuario, int64, error) {
	var users []model.Usuario
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("cod_centro = ?", codCentro)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Rol").
		Offset(offset).Limit(limit).
		Order("nombre_completo").
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *usuarioRepo) ListInstructores(ctx context.Context, codCentro *int) ([]model.Usuario, error) {
	var users []model.Usuario
	db := r.db.WithContext(ctx).
		Where("id_rol = ? AND estado = ?", model.RolInstructor, true)
	if codCentro != nil {
		db = db.Where("cod_centro = ?", *codCentro)
	}
	err := db.Order("nombre_completo").Find(&users).Error
	return users, err
}
