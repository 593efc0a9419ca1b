package dto

// ── 教学场地 DTO ──

// CreateAmbienteRequest 创建场地请求
type CreateAmbienteRequest struct {
	NombreAmbiente   string `json:"nombre_ambiente"    binding:"required,notblank,max=80"`
	NumMaxAprendices int    `json:"num_max_aprendices" binding:"required,min=1"`
	Municipio        string `json:"municipio"          binding:"omitempty,max=80"`
	Ubicacion        string `json:"ubicacion"          binding:"omitempty,max=120"`
	CodCentro        int    `json:"cod_centro"         binding:"required"`
	Estado           *bool  `json:"estado"`
}

// UpdateAmbienteRequest 更新场地请求
type UpdateAmbienteRequest struct {
	NombreAmbiente   *string `json:"nombre_ambiente"    binding:"omitempty,max=80"`
	NumMaxAprendices *int    `json:"num_max_aprendices" binding:"omitempty,min=1"`
	Municipio        *string `json:"municipio"          binding:"omitempty,max=80"`
	Ubicacion        *string `json:"ubicacion"          binding:"omitempty,max=120"`
}

// SetEstadoRequest 启用/停用请求
type SetEstadoRequest struct {
	Estado *bool `json:"estado" binding:"required"`
}

// AmbienteListRequest 场地列表参数
type AmbienteListRequest struct {
	CodCentro        *int `form:"cod_centro"`
	IncluirInactivos bool `form:"incluir_inactivos"`
}

// AmbienteResponse 场地响应
type AmbienteResponse struct {
	IDAmbiente       int    `json:"id_ambiente"`
	NombreAmbiente   string `json:"nombre_ambiente"`
	NumMaxAprendices int    `json:"num_max_aprendices"`
	Municipio        string `json:"municipio"`
	Ubicacion        string `json:"ubicacion"`
	CodCentro        int    `json:"cod_centro"`
	Estado           bool   `json:"estado"`
}

// ── 班级-讲师分配 ──

// GrupoInstructorRequest 分配或移动请求
type GrupoInstructorRequest struct {
	CodFicha     int `json:"cod_ficha"     binding:"required"`
	IDInstructor int `json:"id_instructor" binding:"required"`
}

// GrupoInstructorResponse 分配记录
type GrupoInstructorResponse struct {
	CodFicha     int `json:"cod_ficha"`
	IDInstructor int `json:"id_instructor"`
}

// InstructorDetalladoResponse 班级下的讲师详情
type InstructorDetalladoResponse struct {
	CodFicha       int     `json:"cod_ficha"`
	IDInstructor   int     `json:"id_instructor"`
	NombreCompleto string  `json:"nombre_completo"`
	Correo         string  `json:"correo"`
	Identificacion string  `json:"identificacion"`
	Telefono       string  `json:"telefono"`
	TipoContrato   string  `json:"tipo_contrato"`
	NombreRol      *string `json:"nombre_rol"`
}

// GrupoDetalladoResponse 讲师负责的班级详情
type GrupoDetalladoResponse struct {
	CodFicha       int     `json:"cod_ficha"`
	IDInstructor   int     `json:"id_instructor"`
	EstadoGrupo    string  `json:"estado_grupo"`
	Jornada        string  `json:"jornada"`
	FechaInicio    string  `json:"fecha_inicio,omitempty"`
	FechaFin       string  `json:"fecha_fin,omitempty"`
	Etapa          string  `json:"etapa"`
	NombrePrograma *string `json:"nombre_programa"`
	NombreCentro   *string `json:"nombre_centro"`
}
