package dto

// ── 培训项目 DTO ──

// CreateProgramaRequest 创建培训项目请求
type CreateProgramaRequest struct {
	CodPrograma      int    `json:"cod_programa"      binding:"required"`
	LaVersion        int    `json:"la_version"        binding:"required"`
	Nombre           string `json:"nombre"            binding:"required,notblank,max=255"`
	HorasLectivas    int    `json:"horas_lectivas"    binding:"min=0"`
	HorasProductivas int    `json:"horas_productivas" binding:"min=0"`
}

// UpdateProgramaRequest 更新最新版本的学时
type UpdateProgramaRequest struct {
	HorasLectivas    *int `json:"horas_lectivas"    binding:"omitempty,min=0"`
	HorasProductivas *int `json:"horas_productivas" binding:"omitempty,min=0"`
}

// ProgramaSearchRequest 项目名称搜索参数
type ProgramaSearchRequest struct {
	PaginationRequest
	Query string `form:"query" binding:"required,max=100"`
}

// ProgramaResponse 培训项目响应
type ProgramaResponse struct {
	CodPrograma      int    `json:"cod_programa"`
	LaVersion        int    `json:"la_version"`
	Nombre           string `json:"nombre"`
	HorasLectivas    int    `json:"horas_lectivas"`
	HorasProductivas int    `json:"horas_productivas"`
}
