package service

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gestion-formacion/backend/internal/dto"
	"gestion-formacion/backend/internal/model"
	"gestion-formacion/backend/internal/repository"
	apperrors "gestion-formacion/backend/pkg/errors"
)

// ════════════════════════════════════════════════════════════
// 表格导入
// ════════════════════════════════════════════════════════════
//
// 三种来源文件：
//   - 班级数据（regional / centro / programa / grupo / datos_grupo 性别统计）
//   - DF-14（项目学时与 datos_grupo 状态统计）
//   - 评估表（competencia / resultado / programa_competencia）
//
// 先整体预校验，不合格的行记入 errores，其余行逐条 upsert；
// 单条写入失败同样记入 errores，不影响其它行。重复导入同一文件结果不变。

const (
	// 班级与 DF-14 表头位于第 5 行
	headerRowGrupos = 5
	headerRowDF14   = 5
	// 评估表：C3 为班级号，第 14 行为表头
	headerRowEvaluaciones = 14

	msgCargaConErrores  = "Carga completada con errores"
	msgCargaExitosa     = "Carga completada exitosamente"
	msgDF14Procesado    = "Archivo DF-14 procesado y datos actualizados correctamente"
	msgEvalProcesado    = "Archivo de evaluaciones procesado correctamente"
	sufijoConErrores    = " (con algunos errores)"
	horaGrupoPorDefecto = model.Clock("00:00:00")
)

var ErrImportFichaNoEncontrada = errors.New("No se encontró el número de ficha en la celda C3")

// "12345 - Nombre" → (12345, "Nombre")
var codigoNombreRe = regexp.MustCompile(`^(\d+)\s*-\s*(.+)$`)

// ImportService 表格导入业务接口
type ImportService interface {
	ImportGrupos(ctx context.Context, r io.Reader) (*dto.ImportGruposResponse, error)
	ImportDF14(ctx context.Context, r io.Reader) (*dto.ImportDF14Response, error)
	ImportEvaluaciones(ctx context.Context, r io.Reader) (*dto.ImportEvaluacionesResponse, error)
}

type importService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewImportService 创建 ImportService 实例
func NewImportService(repo *repository.Repository, logger *zap.Logger) ImportService {
	return &importService{repo: repo, logger: logger}
}

// ────────────────────── 班级数据 ──────────────────────

var columnasObligatoriasGrupos = []string{
	"IDENTIFICADOR_FICHA", "CODIGO_CENTRO", "CODIGO_PROGRAMA", "VERSION_PROGRAMA",
	"NOMBRE_PROGRAMA_FORMACION", "FECHA_INICIO_FICHA", "FECHA_TERMINACION_FICHA",
	"ETAPA_FICHA", "NOMBRE_RESPONSABLE", "NOMBRE_MUNICIPIO_CURSO",
}

// grupoImportRow 预校验通过的一行
type grupoImportRow struct {
	fila           int
	grupo          model.Grupo
	nombrePrograma string
	regional       *model.Regional
	centro         *model.CentroFormacion
	datos          *model.DatosGrupo
}

func (s *importService) ImportGrupos(ctx context.Context, r io.Reader) (*dto.ImportGruposResponse, error) {
	rows, index, err := readTable(r, headerRowGrupos, columnasObligatoriasGrupos)
	if err != nil {
		return nil, err
	}

	resp := &dto.ImportGruposResponse{Errores: []dto.ImportRowError{}}

	// 第一阶段：预校验
	var valid []grupoImportRow
	for _, row := range rows {
		item, rowErr := parseGrupoRow(sheetRow{fila: row.fila, cells: row.cells, index: index})
		if rowErr != nil {
			resp.Errores = append(resp.Errores, *rowErr)
			continue
		}
		valid = append(valid, item)
	}

	// 第二阶段：按依赖顺序写入
	seenRegional := make(map[int]bool)
	for _, item := range valid {
		if item.regional == nil || seenRegional[item.regional.CodRegional] {
			continue
		}
		seenRegional[item.regional.CodRegional] = true
		if err := s.repo.Regional.Upsert(ctx, item.regional); err != nil {
			resp.Errores = append(resp.Errores, rowError(item.fila, "Error procesando regional %d: %s", item.regional.CodRegional, s.motivo(err)))
			continue
		}
		resp.RegionalesProcesadas++
	}

	seenCentro := make(map[int]bool)
	for _, item := range valid {
		if item.centro == nil || seenCentro[item.centro.CodCentro] {
			continue
		}
		seenCentro[item.centro.CodCentro] = true
		if err := s.repo.Centro.Upsert(ctx, item.centro); err != nil {
			resp.Errores = append(resp.Errores, rowError(item.fila, "Error procesando centro %d: %s", item.centro.CodCentro, s.motivo(err)))
			continue
		}
		resp.CentrosProcesados++
	}

	type programaKey struct{ cod, ver int }
	seenPrograma := make(map[programaKey]bool)
	for _, item := range valid {
		key := programaKey{*item.grupo.CodPrograma, *item.grupo.LaVersion}
		if seenPrograma[key] {
			continue
		}
		seenPrograma[key] = true
		p := &model.ProgramaFormacion{CodPrograma: key.cod, LaVersion: key.ver, Nombre: item.nombrePrograma}
		if err := s.repo.Programa.UpsertNombre(ctx, p); err != nil {
			resp.Errores = append(resp.Errores, rowError(item.fila, "Error procesando programa %d-%d: %s", key.cod, key.ver, s.motivo(err)))
			continue
		}
		resp.ProgramasProcesados++
	}

	for i := range valid {
		item := &valid[i]
		if err := s.repo.Grupo.Upsert(ctx, &item.grupo); err != nil {
			resp.Errores = append(resp.Errores, rowError(item.fila, "Error procesando ficha %d: %s", item.grupo.CodFicha, s.motivo(err)))
			item.datos = nil
			continue
		}
		resp.GruposProcesados++
	}

	for _, item := range valid {
		if item.datos == nil {
			continue
		}
		if err := s.repo.DatosGrupo.Upsert(ctx, item.datos, repository.DatosGrupoColumnasGenero); err != nil {
			resp.Errores = append(resp.Errores, rowError(item.fila, "Error procesando datos de la ficha %d: %s", item.datos.CodFicha, s.motivo(err)))
			continue
		}
		resp.DatosGrupoProcesados++
	}

	resp.Mensaje = msgCargaExitosa
	if len(resp.Errores) > 0 {
		resp.Mensaje = msgCargaConErrores
	}

	s.logger.Info("班级数据导入完成",
		zap.Int("grupos", resp.GruposProcesados),
		zap.Int("errores", len(resp.Errores)),
	)
	return resp, nil
}

func parseGrupoRow(row sheetRow) (grupoImportRow, *dto.ImportRowError) {
	item := grupoImportRow{fila: row.fila}

	for _, col := range columnasObligatoriasGrupos {
		if row.get(col) == "" {
			e := rowError(row.fila, "Falta el valor obligatorio %s", col)
			return item, &e
		}
	}

	ints := map[string]int{}
	for _, col := range []string{"IDENTIFICADOR_FICHA", "CODIGO_CENTRO", "CODIGO_PROGRAMA", "VERSION_PROGRAMA"} {
		n, err := parseIntCell(row.get(col))
		if err != nil {
			e := rowError(row.fila, "Valor inválido en %s: %s", col, err.Error())
			return item, &e
		}
		ints[col] = n
	}

	fechaInicio, err := parseDateCell(row.get("FECHA_INICIO_FICHA"))
	if err != nil {
		e := rowError(row.fila, "FECHA_INICIO_FICHA: %s", err.Error())
		return item, &e
	}
	fechaFin, err := parseDateCell(row.get("FECHA_TERMINACION_FICHA"))
	if err != nil {
		e := rowError(row.fila, "FECHA_TERMINACION_FICHA: %s", err.Error())
		return item, &e
	}

	codCentro := ints["CODIGO_CENTRO"]
	codPrograma := ints["CODIGO_PROGRAMA"]
	laVersion := ints["VERSION_PROGRAMA"]

	item.nombrePrograma = truncate(row.get("NOMBRE_PROGRAMA_FORMACION"), 255)
	item.grupo = model.Grupo{
		CodFicha:               ints["IDENTIFICADOR_FICHA"],
		CodCentro:              &codCentro,
		CodPrograma:            &codPrograma,
		LaVersion:              &laVersion,
		EstadoGrupo:            row.get("ESTADO_CURSO"),
		NombreNivel:            row.get("NIVEL_FORMACION"),
		Jornada:                row.get("NOMBRE_JORNADA"),
		FechaInicio:            fechaInicio,
		FechaFin:               fechaFin,
		Etapa:                  row.get("ETAPA_FICHA"),
		Modalidad:              row.get("MODALIDAD_FORMACION"),
		Responsable:            row.get("NOMBRE_RESPONSABLE"),
		NombreEmpresa:          row.get("NOMBRE_EMPRESA"),
		NombreMunicipio:        row.get("NOMBRE_MUNICIPIO_CURSO"),
		NombreProgramaEspecial: row.get("NOMBRE_PROGRAMA_ESPECIAL"),
		HoraInicio:             horaGrupoPorDefecto,
		HoraFin:                horaGrupoPorDefecto,
	}

	// regional 与 centro 只在相关列齐全时处理
	codRegional := optionalIntCell(row.get("CODIGO_REGIONAL"))
	if codRegional != nil {
		if nombre := row.get("NOMBRE_REGIONAL"); nombre != "" {
			item.regional = &model.Regional{CodRegional: *codRegional, Nombre: truncate(nombre, 80)}
		}
		if nombre := row.get("NOMBRE_CENTRO"); nombre != "" {
			item.centro = &model.CentroFormacion{CodCentro: codCentro, NombreCentro: truncate(nombre, 80), CodRegional: *codRegional}
		}
	}

	datos := &model.DatosGrupo{
		CodFicha:                  item.grupo.CodFicha,
		NumAprendicesMasculinos:   optionalIntCell(row.get("TOTAL_APRENDICES_MASCULINOS")),
		NumAprendicesFemenino:     optionalIntCell(row.get("TOTAL_APRENDICES_FEMENINOS")),
		NumAprendicesNoBinario:    optionalIntCell(row.get("TOTAL_APRENDICES_NOBINARIO")),
		NumTotalAprendices:        optionalIntCell(row.get("TOTAL_APRENDICES")),
		NumTotalAprendicesActivos: optionalIntCell(row.get("TOTAL_APRENDICES_ACTIVOS")),
	}
	if datos.NumAprendicesMasculinos != nil || datos.NumAprendicesFemenino != nil ||
		datos.NumAprendicesNoBinario != nil || datos.NumTotalAprendices != nil ||
		datos.NumTotalAprendicesActivos != nil {
		item.datos = datos
	}

	return item, nil
}

// ────────────────────── DF-14 ──────────────────────

var columnasObligatoriasDF14 = []string{"FICHA", "CODIGO_PROGRAMA", "VERSION_PROGRAMA"}

// DF-14 表头 → datos_grupo 状态列
var columnasEstadoDF14 = []struct {
	header string
	set    func(d *model.DatosGrupo, v *int)
}{
	{"CUPO", func(d *model.DatosGrupo, v *int) { d.CupoTotal = v }},
	{"EN_TRANSITO", func(d *model.DatosGrupo, v *int) { d.EnTransito = v }},
	{"INDUCCION", func(d *model.DatosGrupo, v *int) { d.Induccion = v }},
	{"FORMACION", func(d *model.DatosGrupo, v *int) { d.Formacion = v }},
	{"CONDICIONADO", func(d *model.DatosGrupo, v *int) { d.Condicionado = v }},
	{"APLAZADO", func(d *model.DatosGrupo, v *int) { d.Aplazado = v }},
	{"RETIRO_VOLUNTARIO", func(d *model.DatosGrupo, v *int) { d.RetiroVoluntario = v }},
	{"CANCELAMIENTO_VIRT_COMP", func(d *model.DatosGrupo, v *int) { d.CancelamientoVitComp = v }},
	{"DESERCION_VIRT_COMP", func(d *model.DatosGrupo, v *int) { d.DesercionVitComp = v }},
	{"CANCELADO", func(d *model.DatosGrupo, v *int) { d.Cancelado = v }},
	{"POR_CERTIFICAR", func(d *model.DatosGrupo, v *int) { d.PorCertificar = v }},
	{"CERTIFICADO", func(d *model.DatosGrupo, v *int) { d.Certificados = v }},
	{"TRASLADADO", func(d *model.DatosGrupo, v *int) { d.Traslados = v }},
	{"OTRO", func(d *model.DatosGrupo, v *int) { d.Otro = v }},
}

func (s *importService) ImportDF14(ctx context.Context, r io.Reader) (*dto.ImportDF14Response, error) {
	rows, index, err := readTable(r, headerRowDF14, columnasObligatoriasDF14)
	if err != nil {
		return nil, err
	}

	resp := &dto.ImportDF14Response{Errores: []dto.ImportRowError{}}

	type programaKey struct{ cod, ver int }
	seenPrograma := make(map[programaKey]bool)

	for _, raw := range rows {
		row := sheetRow{fila: raw.fila, cells: raw.cells, index: index}

		ficha, err1 := parseIntCell(row.get("FICHA"))
		cod, err2 := parseIntCell(row.get("CODIGO_PROGRAMA"))
		ver, err3 := parseIntCell(row.get("VERSION_PROGRAMA"))
		if err := errors.Join(err1, err2, err3); err != nil {
			resp.Errores = append(resp.Errores, rowError(row.fila, "FICHA, CODIGO_PROGRAMA y VERSION_PROGRAMA deben ser números enteros"))
			continue
		}

		// 1. 项目学时（同一项目版本只更新一次）
		key := programaKey{cod, ver}
		if !seenPrograma[key] {
			seenPrograma[key] = true
			upd := &repository.ProgramaHorasUpdate{
				HorasLectivas:    optionalIntCell(row.get("DURACION_ETAPA_LECTIVA")),
				HorasProductivas: optionalIntCell(row.get("DURACION_ETAPA_PRODUCTIVA")),
			}
			if upd.HorasLectivas != nil || upd.HorasProductivas != nil {
				n, err := s.repo.Programa.UpdateHoras(ctx, cod, ver, upd)
				switch {
				case err != nil:
					resp.Errores = append(resp.Errores, rowError(row.fila, "Error actualizando programa %d-%d: %s", cod, ver, s.motivo(err)))
				case n == 0:
					resp.Errores = append(resp.Errores, rowError(row.fila, "Programa %d-%d no encontrado", cod, ver))
				default:
					resp.ProgramasActualizados++
				}
			}
		}

		// 2. datos_grupo 状态统计
		datos := &model.DatosGrupo{CodFicha: ficha}
		tieneDatos := false
		for _, c := range columnasEstadoDF14 {
			v := optionalIntCell(row.get(c.header))
			if v != nil {
				tieneDatos = true
			}
			c.set(datos, v)
		}
		if !tieneDatos {
			continue
		}
		if err := s.repo.DatosGrupo.Upsert(ctx, datos, repository.DatosGrupoColumnasEstado); err != nil {
			resp.Errores = append(resp.Errores, rowError(row.fila, "Error actualizando datos de la ficha %d: %s", ficha, s.motivo(err)))
			continue
		}
		resp.DatosGrupoActualizados++
	}

	resp.Mensaje = msgDF14Procesado
	if len(resp.Errores) > 0 {
		resp.Mensaje += sufijoConErrores
	}

	s.logger.Info("DF-14 导入完成",
		zap.Int("programas", resp.ProgramasActualizados),
		zap.Int("datos_grupo", resp.DatosGrupoActualizados),
		zap.Int("errores", len(resp.Errores)),
	)
	return resp, nil
}

// ────────────────────── 评估表 ──────────────────────

// 评估表数据区按位置取列
const (
	colEvalCompetencia = 5
	colEvalResultado   = 6
)

func (s *importService) ImportEvaluaciones(ctx context.Context, r io.Reader) (*dto.ImportEvaluacionesResponse, error) {
	all, err := sheetRows(r)
	if err != nil {
		return nil, err
	}

	codFicha, err := fichaDeEvaluaciones(all)
	if err != nil {
		return nil, err
	}

	resp := &dto.ImportEvaluacionesResponse{FichaCaracterizacion: codFicha, Errores: []dto.ImportRowError{}}

	// 第一阶段：提取能力单元与学习成果，按代码去重
	var competencias []model.Competencia
	var resultados []model.ResultadoAprendizaje
	seenComp := make(map[int64]bool)
	seenResultado := make(map[int64]bool)
	filaCompetencia := make(map[int64]int)
	for i := headerRowEvaluaciones; i < len(all); i++ {
		row := sheetRow{fila: i + 1, cells: all[i]}
		compText, resText := row.at(colEvalCompetencia), row.at(colEvalResultado)
		if compText == "" || resText == "" {
			continue
		}
		resp.RegistrosEvaluaciones++

		codComp, nombreComp, ok := splitCodigoNombre(compText)
		if !ok {
			resp.Errores = append(resp.Errores, rowError(row.fila, "Competencia sin código: %q", compText))
			continue
		}
		if !seenComp[codComp] {
			seenComp[codComp] = true
			filaCompetencia[codComp] = row.fila
			competencias = append(competencias, model.Competencia{
				CodCompetencia: codComp,
				Nombre:         truncate(nombreComp, model.MaxNombreCompetencia),
			})
		}

		codRes, nombreRes, ok := splitCodigoNombre(resText)
		if !ok {
			resp.Errores = append(resp.Errores, rowError(row.fila, "Resultado de aprendizaje sin código: %q", resText))
			continue
		}
		if !seenResultado[codRes] {
			seenResultado[codRes] = true
			resultados = append(resultados, model.ResultadoAprendizaje{
				CodResultado:   codRes,
				Nombre:         truncate(nombreRes, model.MaxNombreCompetencia),
				CodCompetencia: codComp,
			})
		}
	}

	// 第二阶段：写入
	guardadas := make(map[int64]bool, len(competencias))
	for i := range competencias {
		c := &competencias[i]
		if err := s.repo.Competencia.Upsert(ctx, c); err != nil {
			resp.Errores = append(resp.Errores, rowError(filaCompetencia[c.CodCompetencia], "Error procesando competencia %d: %s", c.CodCompetencia, s.motivo(err)))
			continue
		}
		guardadas[c.CodCompetencia] = true
		resp.CompetenciasProcesadas++
	}

	for i := range resultados {
		res := &resultados[i]
		if !guardadas[res.CodCompetencia] {
			continue
		}
		if err := s.repo.Resultado.Upsert(ctx, res); err != nil {
			resp.Errores = append(resp.Errores, rowError(filaCompetencia[res.CodCompetencia], "Error procesando resultado %d: %s", res.CodResultado, s.motivo(err)))
			continue
		}
		resp.ResultadosProcesados++
	}

	// 项目取自班级本身的 cod_programa
	codPrograma, motivo := s.programaDeFicha(ctx, codFicha)
	if codPrograma == nil {
		if len(guardadas) > 0 {
			resp.Errores = append(resp.Errores, rowError(3, "%s", motivo))
		}
	} else {
		for _, c := range competencias {
			if !guardadas[c.CodCompetencia] {
				continue
			}
			created, err := s.repo.ProgramaCompetencia.Link(ctx, *codPrograma, c.CodCompetencia)
			if err != nil {
				resp.Errores = append(resp.Errores, rowError(filaCompetencia[c.CodCompetencia], "Error asociando competencia %d al programa %d: %s", c.CodCompetencia, *codPrograma, s.motivo(err)))
				continue
			}
			if created {
				resp.ProgramaCompetenciaProcesadas++
			}
		}
	}

	resp.Mensaje = msgEvalProcesado
	if len(resp.Errores) > 0 {
		resp.Mensaje += sufijoConErrores
	}

	s.logger.Info("评估表导入完成",
		zap.Int("cod_ficha", codFicha),
		zap.Int("competencias", resp.CompetenciasProcesadas),
		zap.Int("resultados", resp.ResultadosProcesados),
		zap.Int("errores", len(resp.Errores)),
	)
	return resp, nil
}

func (s *importService) programaDeFicha(ctx context.Context, codFicha int) (*int, string) {
	g, err := s.repo.Grupo.GetByID(ctx, codFicha)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "La ficha " + strconv.Itoa(codFicha) + " no existe; no se asociaron competencias al programa"
		}
		s.logger.Error("查询班级失败", zap.Int("cod_ficha", codFicha), zap.Error(err))
		return nil, "No se pudo consultar la ficha " + strconv.Itoa(codFicha)
	}
	if g.CodPrograma == nil {
		return nil, "La ficha " + strconv.Itoa(codFicha) + " no tiene programa asociado"
	}
	return g.CodPrograma, ""
}

// ── 辅助函数 ──

// readTable 读取表头在 headerRow 行（从 1 开始）的表格，跳过全空行
func readTable(r io.Reader, headerRow int, required []string) ([]sheetRow, map[string]int, error) {
	all, err := sheetRows(r)
	if err != nil {
		return nil, nil, err
	}
	if len(all) < headerRow {
		return nil, nil, ErrImportSinDatos
	}

	index, err := headerIndex(all[headerRow-1], required)
	if err != nil {
		return nil, nil, err
	}

	var rows []sheetRow
	for i := headerRow; i < len(all); i++ {
		row := sheetRow{fila: i + 1, cells: all[i]}
		if row.empty() {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, nil, ErrImportSinDatos
	}
	return rows, index, nil
}

// fichaDeEvaluaciones C3 只保留数字
func fichaDeEvaluaciones(all [][]string) (int, error) {
	if len(all) < 3 || len(all[2]) < 3 {
		return 0, ErrImportFichaNoEncontrada
	}
	raw := strings.TrimSpace(all[2][2])
	// 原始值可能是 "2876543.0"
	if i := strings.IndexByte(raw, '.'); i >= 0 {
		raw = raw[:i]
	}
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	ficha, err := strconv.Atoi(b.String())
	if err != nil || ficha <= 0 {
		return 0, ErrImportFichaNoEncontrada
	}
	return ficha, nil
}

func splitCodigoNombre(texto string) (int64, string, bool) {
	m := codigoNombreRe.FindStringSubmatch(strings.TrimSpace(texto))
	if m == nil {
		return 0, "", false
	}
	cod, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, "", false
	}
	return cod, strings.TrimSpace(m[2]), true
}

// truncate 按字符截断
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// motivo 将写入错误转为面向用户的原因，未知错误只记录日志
func (s *importService) motivo(err error) string {
	switch {
	case errors.Is(apperrors.Translate(err), apperrors.ErrForeignKey):
		return "referencia a un registro inexistente"
	case errors.Is(apperrors.Translate(err), apperrors.ErrDuplicateKey):
		return "registro duplicado"
	}
	s.logger.Warn("导入写入失败", zap.Error(err))
	return "error de base de datos"
}
