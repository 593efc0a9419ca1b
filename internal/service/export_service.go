package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gestion-formacion/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportSinProgramacion = errors.New("La ficha no tiene programaciones para exportar")
	ErrExportGenerateFail    = errors.New("No se pudo generar el archivo Excel")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 按班级导出排课明细为 Excel (.xlsx)
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - 每行一条排课，按日期与开始时间排序，末行为课时合计
type ExportService interface {
	// ExportFicha 导出班级排课为 Excel
	ExportFicha(ctx context.Context, codFicha int) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

var exportHeaders = []string{
	"Fecha", "Hora inicio", "Hora fin", "Horas", "Instructor", "Competencia", "Resultado de aprendizaje",
}

// ═══════════════════════════════════════════════════════════
// ExportFicha 导出班级排课
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "Programacion"
//   - 第 1 行：标题（班级号 + 项目名称），跨列合并
//   - 第 2 行：表头
//   - 第 3 行起：排课明细
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportFicha(ctx context.Context, codFicha int) (*bytes.Buffer, string, error) {
	// 1. 查询班级
	grupo, err := s.repo.Grupo.GetDetalle(ctx, codFicha)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrGrupoNotFound
		}
		s.logger.Error("查询班级失败", zap.Int("cod_ficha", codFicha), zap.Error(err))
		return nil, "", err
	}

	// 2. 查询排课
	rows, err := s.repo.Programacion.ListByFicha(ctx, codFicha)
	if err != nil {
		s.logger.Error("查询班级排课失败", zap.Int("cod_ficha", codFicha), zap.Error(err))
		return nil, "", err
	}
	if len(rows) == 0 {
		return nil, "", ErrExportSinProgramacion
	}

	// 3. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Programacion"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	widths := []float64{12, 11, 11, 8, 30, 45, 45}
	for i, w := range widths {
		col := colName(i)
		f.SetColWidth(sheetName, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#39A900"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	titulo := fmt.Sprintf("Programación ficha %d", codFicha)
	if grupo.NombrePrograma != nil && *grupo.NombrePrograma != "" {
		titulo += " - " + *grupo.NombrePrograma
	}
	lastCol := colName(len(exportHeaders) - 1)
	f.SetCellValue(sheetName, "A1", titulo)
	f.MergeCell(sheetName, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheetName, "A1", cell(lastCol, 1), headerStyle)

	// 表头
	for i, h := range exportHeaders {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", cell(lastCol, 2), headerStyle)

	// 数据行
	row := 3
	totalHoras := 0
	for _, p := range rows {
		f.SetCellValue(sheetName, cell("A", row), p.FechaProgramada.String())
		f.SetCellValue(sheetName, cell("B", row), p.HoraInicio.Short())
		f.SetCellValue(sheetName, cell("C", row), p.HoraFin.Short())
		f.SetCellValue(sheetName, cell("D", row), p.HorasProgramadas)
		f.SetCellValue(sheetName, cell("E", row), textoOVacio(p.NombreInstructor))
		f.SetCellValue(sheetName, cell("F", row), nombreOCodigo(p.NombreCompetencia, p.CodCompetencia))
		f.SetCellValue(sheetName, cell("G", row), nombreOCodigo(p.NombreResultado, p.CodResultado))
		totalHoras += p.HorasProgramadas
		row++
	}

	// 合计
	f.SetCellValue(sheetName, cell("C", row), "Total")
	f.SetCellValue(sheetName, cell("D", row), totalHoras)

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("programacion_ficha_%d.xlsx", codFicha)
	return buf, filename, nil
}

// ── 辅助函数 ──

// colName 0 起始的列序号转列名
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func textoOVacio(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
