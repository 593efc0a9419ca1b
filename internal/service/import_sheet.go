package service

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"gestion-formacion/backend/internal/dto"
	"gestion-formacion/backend/internal/model"
)

// ── 表格读取辅助 ──────────────────────────────────────────────
//
// 三类导入共用：
//   - 只读取第一个工作表，单元格取原始值（日期可能是 Excel 序列号）
//   - 表头按名称定位列，列序可以任意
//   - 行号统一为表格中的实际行号（从 1 开始）
// ─────────────────────────────────────────────────────────────

const maxImportRows = 50000

var (
	ErrImportArchivoInvalido = errors.New("No se pudo leer el archivo Excel")
	ErrImportSinDatos        = errors.New("El archivo no contiene filas de datos")
	ErrImportDemasiadasFilas = fmt.Errorf("El archivo supera el máximo de %d filas", maxImportRows)
)

// sheetRows 读取第一个工作表的所有行
func sheetRows(reader io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, ErrImportArchivoInvalido
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, ErrImportArchivoInvalido
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportDemasiadasFilas
	}
	return rows, nil
}

// missingHeaderError 表头缺少必需列
type missingHeaderError struct {
	columnas []string
}

func (e *missingHeaderError) Error() string {
	return "Faltan columnas obligatorias en el encabezado: " + strings.Join(e.columnas, ", ")
}

// IsMissingHeader 判断是否为表头缺列错误
func IsMissingHeader(err error) bool {
	var target *missingHeaderError
	return errors.As(err, &target)
}

// headerIndex 解析表头，返回列名 -> 列索引映射；required 中缺失的列报错
func headerIndex(header []string, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToUpper(strings.TrimSpace(h))
		if name == "" {
			continue
		}
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}

	var faltantes []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			faltantes = append(faltantes, col)
		}
	}
	if len(faltantes) > 0 {
		return nil, &missingHeaderError{columnas: faltantes}
	}
	return idx, nil
}

// sheetRow 一行数据及其列索引
type sheetRow struct {
	fila  int
	cells []string
	index map[string]int
}

// get 按列名取值，列不存在或越界时返回空串
func (r sheetRow) get(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

// at 按位置取值
func (r sheetRow) at(i int) string {
	if i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func (r sheetRow) empty() bool {
	for _, c := range r.cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ── 单元格转换 ──

// parseIntCell 数字单元格可能以 "9121" 或 "9121.0" 形式出现
func parseIntCell(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("valor vacío")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%q no es un número entero", s)
	}
	return int(f), nil
}

// optionalIntCell 空单元格返回 nil；无法解析的值同样视为缺失
func optionalIntCell(s string) *int {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	n, err := parseIntCell(s)
	if err != nil {
		return nil
	}
	return &n
}

// parseDateCell 依次尝试 dd/mm/YYYY、YYYY-MM-DD 与 Excel 序列号
func parseDateCell(s string) (model.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Date{}, errors.New("fecha vacía")
	}
	for _, layout := range []string{"02/01/2006", "2/1/2006", model.DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return model.NewDate(t), nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return model.NewDate(t), nil
		}
	}
	return model.Date{}, fmt.Errorf("fecha inválida %q", s)
}

func rowError(fila int, format string, args ...interface{}) dto.ImportRowError {
	return dto.ImportRowError{Fila: fila, Motivo: fmt.Sprintf(format, args...)}
}
