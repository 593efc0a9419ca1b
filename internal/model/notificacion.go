package model

import "time"

// Notificacion 站内通知，对应 notificacion
// 仅允许 leida 从 false 变为 true
type Notificacion struct {
	IDNotificacion int       `gorm:"column:id_notificacion;primaryKey;autoIncrement" json:"id_notificacion"`
	IDUsuario      int       `gorm:"column:id_usuario;not null"                      json:"id_usuario"`
	Mensaje        string    `gorm:"type:text;not null"                              json:"mensaje"`
	Leida          bool      `gorm:"not null"                                        json:"leida"`
	FechaCreacion  time.Time `gorm:"autoCreateTime"                                  json:"fecha_creacion"`
}

// TableName 指定表名
func (Notificacion) TableName() string { return "notificacion" }

// Festivo 节假日，对应 festivos
type Festivo struct {
	Fecha Date `gorm:"column:festivo;type:date;primaryKey" json:"festivo"`
}

// TableName 指定表名
func (Festivo) TableName() string { return "festivos" }
