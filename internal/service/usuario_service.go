package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gestion-formacion/backend/internal/dto"
	"gestion-formacion/backend/internal/model"
	"gestion-formacion/backend/internal/repository"
	apperrors "gestion-formacion/backend/pkg/errors"
)

// ── 用户模块业务错误 ──

var (
	ErrUsuarioNotFound       = errors.New("Usuario no encontrado")
	ErrCorreoExists          = errors.New("El correo ya está registrado")
	ErrIdentificacionExists  = errors.New("La identificación ya está registrada")
	ErrNoPermission          = errors.New("No autorizado para realizar esta acción")
	ErrCentroNotFound        = errors.New("Centro de formación no encontrado")
	ErrUsuarioNothingToApply = errors.New("No se proporcionaron campos para actualizar")
)

// UsuarioService 用户业务接口
type UsuarioService interface {
	Create(ctx context.Context, req *dto.CreateUsuarioRequest, callerRole int) (*dto.UsuarioResponse, error)
	GetByID(ctx context.Context, id int) (*dto.UsuarioResponse, error)
	GetByCorreo(ctx context.Context, correo string) (*dto.UsuarioResponse, error)
	Update(ctx context.Context, id int, req *dto.UpdateUsuarioRequest, callerID, callerRole int) (*dto.UsuarioResponse, error)
	ToggleEstado(ctx context.Context, id int, callerRole int) (*dto.UsuarioResponse, error)
	ListByCentro(ctx context.Context, codCentro int, req *dto.PaginationRequest) ([]dto.UsuarioResponse, int64, error)
	ListInstructores(ctx context.Context, codCentro *int) ([]dto.UsuarioResponse, error)
}

type usuarioService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUsuarioService 创建 UsuarioService 实例
func NewUsuarioService(repo *repository.Repository, logger *zap.Logger) UsuarioService {
	return &usuarioService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *usuarioService) Create(ctx context.Context, req *dto.CreateUsuarioRequest, callerRole int) (*dto.UsuarioResponse, error) {
	// 管理员不能创建超级管理员
	if req.IDRol == model.RolSuperadmin && callerRole != model.RolSuperadmin {
		return nil, ErrNoPermission
	}
	if err := checkPasswordBytes(req.Password); err != nil {
		return nil, err
	}

	// 检查邮箱唯一性
	if _, err := s.repo.Usuario.GetByCorreo(ctx, req.Correo); err == nil {
		return nil, ErrCorreoExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 检查证件号唯一性
	if _, err := s.repo.Usuario.GetByIdentificacion(ctx, req.Identificacion); err == nil {
		return nil, ErrIdentificacionExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 检查培训中心存在
	if _, err := s.repo.Centro.GetByID(ctx, req.CodCentro); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCentroNotFound
		}
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	codCentro := req.CodCentro
	user := &model.Usuario{
		NombreCompleto: strings.TrimSpace(req.NombreCompleto),
		Identificacion: strings.TrimSpace(req.Identificacion),
		IDRol:          req.IDRol,
		Correo:         strings.ToLower(strings.TrimSpace(req.Correo)),
		PassHash:       string(hash),
		TipoContrato:   req.TipoContrato,
		Telefono:       req.Telefono,
		Estado:         *req.Estado,
		CodCentro:      &codCentro,
	}

	if err := s.repo.Usuario.Create(ctx, user); err != nil {
		// 并发插入时由唯一约束兜底
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrCorreoExists
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	// 重新加载以获取角色名称
	return s.GetByID(ctx, user.IDUsuario)
}

// ────────────────────── 查询 ──────────────────────

func (s *usuarioService) GetByID(ctx context.Context, id int) (*dto.UsuarioResponse, error) {
	user, err := s.repo.Usuario.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUsuarioNotFound
		}
		s.logger.Error("查询用户失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	resp := toUsuarioResponse(user)
	return &resp, nil
}

func (s *usuarioService) GetByCorreo(ctx context.Context, correo string) (*dto.UsuarioResponse, error) {
	user, err := s.repo.Usuario.GetByCorreo(ctx, correo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUsuarioNotFound
		}
		s.logger.Error("查询用户失败", zap.String("correo", correo), zap.Error(err))
		return nil, err
	}
	resp := toUsuarioResponse(user)
	return &resp, nil
}

func (s *usuarioService) ListByCentro(ctx context.Context, codCentro int, req *dto.PaginationRequest) ([]dto.UsuarioResponse, int64, error) {
	users, total, err := s.repo.Usuario.ListByCentro(ctx, codCentro, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出中心用户失败", zap.Int("cod_centro", codCentro), zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UsuarioResponse, 0, len(users))
	for i := range users {
		result = append(result, toUsuarioResponse(&users[i]))
	}
	return result, total, nil
}

func (s *usuarioService) ListInstructores(ctx context.Context, codCentro *int) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.Usuario.ListInstructores(ctx, codCentro)
	if err != nil {
		s.logger.Error("列出讲师失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UsuarioResponse, 0, len(users))
	for i := range users {
		result = append(result, toUsuarioResponse(&users[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *usuarioService) Update(ctx context.Context, id int, req *dto.UpdateUsuarioRequest, callerID, callerRole int) (*dto.UsuarioResponse, error) {
	// 讲师只能修改自己
	if callerRole == model.RolInstructor && callerID != id {
		return nil, ErrNoPermission
	}

	if _, err := s.loadTarget(ctx, id, callerRole); err != nil {
		return nil, err
	}

	upd := &repository.UsuarioUpdate{
		NombreCompleto: req.NombreCompleto,
		TipoContrato:   req.TipoContrato,
		Telefono:       req.Telefono,
	}
	if req.Correo != nil {
		correo := strings.ToLower(strings.TrimSpace(*req.Correo))
		existing, err := s.repo.Usuario.GetByCorreo(ctx, correo)
		if err == nil && existing.IDUsuario != id {
			return nil, ErrCorreoExists
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		upd.Correo = &correo
	}

	if upd.NombreCompleto == nil && upd.TipoContrato == nil && upd.Telefono == nil && upd.Correo == nil {
		return nil, ErrUsuarioNothingToApply
	}

	if _, err := s.repo.Usuario.Update(ctx, id, upd); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrCorreoExists
		}
		s.logger.Error("更新用户失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// ToggleEstado 启用/停用用户
func (s *usuarioService) ToggleEstado(ctx context.Context, id int, callerRole int) (*dto.UsuarioResponse, error) {
	if _, err := s.loadTarget(ctx, id, callerRole); err != nil {
		return nil, err
	}

	if err := s.repo.Usuario.ToggleEstado(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUsuarioNotFound
		}
		s.logger.Error("修改用户状态失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// ── 辅助函数 ──

// loadTarget 读取被操作的用户；管理员不能修改超级管理员
func (s *usuarioService) loadTarget(ctx context.Context, id, callerRole int) (*model.Usuario, error) {
	target, err := s.repo.Usuario.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUsuarioNotFound
		}
		s.logger.Error("查询用户失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	if target.IDRol == model.RolSuperadmin && callerRole != model.RolSuperadmin {
		s.logger.Warn("拒绝修改超级管理员", zap.Int("id", id), zap.Int("caller_role", callerRole))
		return nil, ErrNoPermission
	}
	return target, nil
}

func toUsuarioResponse(u *model.Usuario) dto.UsuarioResponse {
	resp := dto.UsuarioResponse{
		IDUsuario:      u.IDUsuario,
		NombreCompleto: u.NombreCompleto,
		Identificacion: u.Identificacion,
		IDRol:          u.IDRol,
		Correo:         u.Correo,
		TipoContrato:   u.TipoContrato,
		Telefono:       u.Telefono,
		Estado:         u.Estado,
		CodCentro:      u.CodCentro,
	}
	if u.Rol != nil {
		nombre := u.Rol.Nombre
		resp.NombreRol = &nombre
	}
	return resp
}
