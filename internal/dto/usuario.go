package dto

// ── 用户模块 DTO ──

// CreateUsuarioRequest 创建用户请求
type CreateUsuarioRequest struct {
	NombreCompleto string `json:"nombre_completo" binding:"required,notblank,min=3,max=80"`
	Identificacion string `json:"identificacion"  binding:"required,min=6,max=12"`
	IDRol          int    `json:"id_rol"          binding:"required,oneof=1 2 3"`
	Correo         string `json:"correo"          binding:"required,email,max=100"`
	TipoContrato   string `json:"tipo_contrato"   binding:"required,min=6,max=50"`
	Telefono       string `json:"telefono"        binding:"required,min=7,max=15"`
	Estado         *bool  `json:"estado"          binding:"required"`
	CodCentro      int    `json:"cod_centro"      binding:"required"`
	Password       string `json:"password"        binding:"required,min=8,max=50"`
}

// UpdateUsuarioRequest 更新用户信息请求，未提供的字段保持不变
type UpdateUsuarioRequest struct {
	NombreCompleto *string `json:"nombre_completo" binding:"omitempty,min=3,max=80"`
	TipoContrato   *string `json:"tipo_contrato"   binding:"omitempty,min=6,max=50"`
	Telefono       *string `json:"telefono"        binding:"omitempty,min=7,max=15"`
	Correo         *string `json:"correo"          binding:"omitempty,email,min=7,max=100"`
}

// InstructorListRequest 讲师列表查询参数
type InstructorListRequest struct {
	CodCentro *int `form:"cod_centro"`
}

// UsuarioResponse 用户信息响应（不含密码）
type UsuarioResponse struct {
	IDUsuario      int     `json:"id_usuario"`
	NombreCompleto string  `json:"nombre_completo"`
	Identificacion string  `json:"identificacion"`
	IDRol          int     `json:"id_rol"`
	NombreRol      *string `json:"nombre_rol"`
	Correo         string  `json:"correo"`
	TipoContrato   string  `json:"tipo_contrato"`
	Telefono       string  `json:"telefono"`
	Estado         bool    `json:"estado"`
	CodCentro      *int    `json:"cod_centro"`
}

// ── 参考数据 ──

// RolResponse 角色
type RolResponse struct {
	IDRol  int    `json:"id_rol"`
	Nombre string `json:"nombre"`
}

// RegionalResponse 区域
type RegionalResponse struct {
	CodRegional int    `json:"cod_regional"`
	Nombre      string `json:"nombre"`
}

// CentroResponse 培训中心
type CentroResponse struct {
	CodCentro    int    `json:"cod_centro"`
	NombreCentro string `json:"nombre_centro"`
	CodRegional  int    `json:"cod_regional"`
}
