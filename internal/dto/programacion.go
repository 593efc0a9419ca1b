package dto

import "gestion-formacion/backend/internal/model"

// ── 排课 DTO ──

// CreateProgramacionRequest 创建排课请求
type CreateProgramacionRequest struct {
	IDInstructor     int    `json:"id_instructor"     binding:"required"`
	CodFicha         int    `json:"cod_ficha"         binding:"required"`
	FechaProgramada  string `json:"fecha_programada"  binding:"required,datetime=2006-01-02"`
	HorasProgramadas int    `json:"horas_programadas" binding:"required,min=1"`
	HoraInicio       string `json:"hora_inicio"       binding:"required,clock"`
	HoraFin          string `json:"hora_fin"          binding:"required,clock"`
	CodCompetencia   int64  `json:"cod_competencia"   binding:"required"`
	CodResultado     int64  `json:"cod_resultado"     binding:"required"`
}

// UpdateProgramacionRequest 部分更新排课
type UpdateProgramacionRequest struct {
	IDInstructor     *int    `json:"id_instructor"`
	CodFicha         *int    `json:"cod_ficha"`
	FechaProgramada  *string `json:"fecha_programada"  binding:"omitempty,datetime=2006-01-02"`
	HorasProgramadas *int    `json:"horas_programadas" binding:"omitempty,min=1"`
	HoraInicio       *string `json:"hora_inicio"       binding:"omitempty,clock"`
	HoraFin          *string `json:"hora_fin"          binding:"omitempty,clock"`
	CodCompetencia   *int64  `json:"cod_competencia"`
	CodResultado     *int64  `json:"cod_resultado"`
}

// ValidarCruceRequest 冲突预检请求
type ValidarCruceRequest struct {
	IDInstructor         int    `json:"id_instructor"          binding:"required"`
	FechaProgramada      string `json:"fecha_programada"       binding:"required,datetime=2006-01-02"`
	HoraInicio           string `json:"hora_inicio"            binding:"required,clock"`
	HoraFin              string `json:"hora_fin"               binding:"required,clock"`
	IDProgramacionActual *int   `json:"id_programacion_actual"`
}

// ValidarCruceResponse 冲突预检结果
type ValidarCruceResponse struct {
	Conflicto bool   `json:"conflicto"`
	Mensaje   string `json:"mensaje"`
}

// ProgramacionListRequest 全量排课分页参数，单页上限放宽到 1000
type ProgramacionListRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=1000"`
}

// GetPage 获取页码
func (p *ProgramacionListRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量
func (p *ProgramacionListRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 100
	}
	return p.PageSize
}

// GetOffset 计算偏移量
func (p *ProgramacionListRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// ProgramacionResponse 排课响应，附带讲师、能力单元与学习成果名称
type ProgramacionResponse struct {
	IDProgramacion    int         `json:"id_programacion"`
	IDInstructor      int         `json:"id_instructor"`
	CodFicha          int         `json:"cod_ficha"`
	FechaProgramada   model.Date  `json:"fecha_programada"`
	HorasProgramadas  int         `json:"horas_programadas"`
	HoraInicio        model.Clock `json:"hora_inicio"`
	HoraFin           model.Clock `json:"hora_fin"`
	CodCompetencia    int64       `json:"cod_competencia"`
	CodResultado      int64       `json:"cod_resultado"`
	IDUser            *int        `json:"id_user"`
	NombreInstructor  *string     `json:"nombre_instructor"`
	NombreCompetencia *string     `json:"nombre_competencia"`
	NombreResultado   *string     `json:"nombre_resultado"`
}

// ── 通知 ──

// NotificacionResponse 通知响应
type NotificacionResponse struct {
	IDNotificacion int    `json:"id_notificacion"`
	Mensaje        string `json:"mensaje"`
	Leida          bool   `json:"leida"`
	FechaCreacion  string `json:"fecha_creacion"`
}

// ── 节假日 ──

// FestivosYDomingosResponse 节假日与周日
type FestivosYDomingosResponse struct {
	Festivos  []model.Date `json:"festivos"`
	Domingos  []model.Date `json:"domingos"`
	TotalDias int          `json:"total_dias"`
}

// DomingosResponse 某年全部周日
type DomingosResponse struct {
	Year          int          `json:"year"`
	Domingos      []model.Date `json:"domingos"`
	TotalDomingos int          `json:"total_domingos"`
}

// ImportFestivosResponse .ics 导入结果
type ImportFestivosResponse struct {
	Total      int `json:"total"`
	Insertados int `json:"insertados"`
	Omitidos   int `json:"omitidos"`
}
