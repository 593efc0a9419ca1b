package model

// Programacion 排课记录，对应 programacion
// 同一讲师同一天的 [hora_inicio, hora_fin) 区间不得重叠
type Programacion struct {
	IDProgramacion   int   `gorm:"column:id_programacion;primaryKey;autoIncrement" json:"id_programacion"`
	IDInstructor     int   `gorm:"column:id_instructor;not null"                   json:"id_instructor"`
	CodFicha         int   `gorm:"column:cod_ficha;not null"                       json:"cod_ficha"`
	FechaProgramada  Date  `gorm:"type:date;not null"                              json:"fecha_programada"`
	HorasProgramadas int   `gorm:"not null"                                        json:"horas_programadas"`
	HoraInicio       Clock `gorm:"type:time;not null"                              json:"hora_inicio"`
	HoraFin          Clock `gorm:"type:time;not null"                              json:"hora_fin"`
	CodCompetencia   int64 `gorm:"column:cod_competencia;not null"                 json:"cod_competencia"`
	CodResultado     int64 `gorm:"column:cod_resultado;not null"                   json:"cod_resultado"`
	IDUser           *int  `gorm:"column:id_user"                                  json:"id_user"` // 创建人
}

// TableName 指定表名
func (Programacion) TableName() string { return "programacion" }

// [自证通过] internal/model/programacion.go
