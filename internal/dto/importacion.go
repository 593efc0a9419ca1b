package dto

// ── 表格导入结果 ──

// ImportGruposResponse 班级数据导入结果
type ImportGruposResponse struct {
	RegionalesProcesadas int              `json:"regionales_procesadas"`
	CentrosProcesados    int              `json:"centros_procesados"`
	ProgramasProcesados  int              `json:"programas_procesados"`
	GruposProcesados     int              `json:"grupos_procesados"`
	DatosGrupoProcesados int              `json:"datos_grupo_procesados"`
	Errores              []ImportRowError `json:"errores"`
	Mensaje              string           `json:"mensaje"`
}

// ImportDF14Response DF-14 导入结果
type ImportDF14Response struct {
	ProgramasActualizados  int              `json:"programas_actualizados"`
	DatosGrupoActualizados int              `json:"datos_grupo_actualizados"`
	Errores                []ImportRowError `json:"errores"`
	Mensaje                string           `json:"mensaje"`
}

// ImportEvaluacionesResponse 评估表导入结果
type ImportEvaluacionesResponse struct {
	FichaCaracterizacion          int              `json:"ficha_caracterizacion"`
	CompetenciasProcesadas        int              `json:"competencias_procesadas"`
	ResultadosProcesados          int              `json:"resultados_procesados"`
	ProgramaCompetenciaProcesadas int              `json:"programa_competencia_procesadas"`
	RegistrosEvaluaciones         int              `json:"registros_evaluaciones"`
	Errores                       []ImportRowError `json:"errores"`
	Mensaje                       string           `json:"mensaje"`
}
