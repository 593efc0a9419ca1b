package dto

import "gestion-formacion/backend/internal/model"

// ── 班级 DTO ──

// UpdateGrupoRequest 更新班级请求
type UpdateGrupoRequest struct {
	HoraInicio *string `json:"hora_inicio" binding:"omitempty,clock"`
	HoraFin    *string `json:"hora_fin"    binding:"omitempty,clock"`
	IDAmbiente *int    `json:"id_ambiente" binding:"omitempty,min=1"`
}

// GrupoSelectRequest 下拉搜索参数
type GrupoSelectRequest struct {
	Search string `form:"search" binding:"omitempty,max=100"`
	Limit  int    `form:"limit"  binding:"omitempty,min=1,max=100"`
}

// GrupoAdvancedSearchRequest 高级搜索参数
type GrupoAdvancedSearchRequest struct {
	PaginationRequest
	Query     string `form:"query"      binding:"omitempty,max=100"`
	CodCentro *int   `form:"cod_centro"`
}

// GrupoDashboardRequest 仪表盘筛选参数
type GrupoDashboardRequest struct {
	CodCentro       int     `form:"cod_centro"       binding:"required"`
	EstadoGrupo     *string `form:"estado_grupo"`
	NombreNivel     *string `form:"nombre_nivel"`
	Etapa           *string `form:"etapa"`
	Modalidad       *string `form:"modalidad"`
	Jornada         *string `form:"jornada"`
	NombreMunicipio *string `form:"nombre_municipio"`
	Anio            *int    `form:"año"              binding:"omitempty,min=1900,max=2100"`
}

// GrupoResponse 班级基础信息
type GrupoResponse struct {
	CodFicha               int         `json:"cod_ficha"`
	CodCentro              *int        `json:"cod_centro"`
	CodPrograma            *int        `json:"cod_programa"`
	LaVersion              *int        `json:"la_version"`
	EstadoGrupo            string      `json:"estado_grupo"`
	NombreNivel            string      `json:"nombre_nivel"`
	Jornada                string      `json:"jornada"`
	FechaInicio            model.Date  `json:"fecha_inicio"`
	FechaFin               model.Date  `json:"fecha_fin"`
	Etapa                  string      `json:"etapa"`
	Modalidad              string      `json:"modalidad"`
	Responsable            string      `json:"responsable"`
	NombreEmpresa          string      `json:"nombre_empresa"`
	NombreMunicipio        string      `json:"nombre_municipio"`
	NombreProgramaEspecial string      `json:"nombre_programa_especial"`
	HoraInicio             model.Clock `json:"hora_inicio"`
	HoraFin                model.Clock `json:"hora_fin"`
	IDAmbiente             *int        `json:"id_ambiente"`
}

// GrupoDetalleResponse 班级详情，附带项目、场地名称与学员统计
type GrupoDetalleResponse struct {
	GrupoResponse
	NombrePrograma *string           `json:"nombre_programa"`
	NombreAmbiente *string           `json:"nombre_ambiente"`
	DatosGrupo     *model.DatosGrupo `json:"datos_grupo"`
}

// GrupoSelectResponse 下拉选项
type GrupoSelectResponse struct {
	CodFicha       int        `json:"cod_ficha"`
	EstadoGrupo    string     `json:"estado_grupo"`
	Jornada        string     `json:"jornada"`
	FechaInicio    model.Date `json:"fecha_inicio"`
	FechaFin       model.Date `json:"fecha_fin"`
	Etapa          string     `json:"etapa"`
	Responsable    string     `json:"responsable"`
	NombrePrograma *string    `json:"nombre_programa"`
	NombreAmbiente *string    `json:"nombre_ambiente"`
}

// GrupoAdvancedResponse 高级搜索结果
type GrupoAdvancedResponse struct {
	GrupoResponse
	ProgramaNombre *string `json:"programa_nombre"`
}

// DashboardKPIResponse 仪表盘指标
type DashboardKPIResponse struct {
	TotalGrupo               int64 `json:"total_grupo"`
	TotalAprendicesFormacion int64 `json:"total_aprendices_formacion"`
}

// DistribucionResponse 仪表盘分组统计
type DistribucionResponse struct {
	Key                      string `json:"key"`
	Cantidad                 int64  `json:"cantidad"`
	TotalAprendicesFormacion int64  `json:"total_aprendices_formacion"`
}
