package dto

// ── 能力单元 / 学习成果 DTO ──

// CreateCompetenciaRequest 创建能力单元请求
type CreateCompetenciaRequest struct {
	CodCompetencia int64  `json:"cod_competencia" binding:"required"`
	Nombre         string `json:"nombre"          binding:"required,notblank,max=500"`
	Horas          int    `json:"horas"           binding:"min=0"`
}

// UpdateCompetenciaRequest 更新能力单元请求
type UpdateCompetenciaRequest struct {
	Nombre *string `json:"nombre" binding:"omitempty,max=500"`
	Horas  *int    `json:"horas"  binding:"omitempty,min=0"`
}

// LinkProgramaRequest 关联项目请求
type LinkProgramaRequest struct {
	CodPrograma int `json:"cod_programa" binding:"required"`
}

// LinkProgramaResponse 关联结果，created 为 false 表示关联已存在
type LinkProgramaResponse struct {
	CodPrograma    int   `json:"cod_programa"`
	CodCompetencia int64 `json:"cod_competencia"`
	Created        bool  `json:"created"`
}

// CompetenciaResponse 能力单元响应
type CompetenciaResponse struct {
	CodCompetencia int64  `json:"cod_competencia"`
	Nombre         string `json:"nombre"`
	Horas          int    `json:"horas"`
}

// ResultadoResponse 学习成果响应
type ResultadoResponse struct {
	CodResultado   int64  `json:"cod_resultado"`
	Nombre         string `json:"nombre"`
	CodCompetencia int64  `json:"cod_competencia"`
}
