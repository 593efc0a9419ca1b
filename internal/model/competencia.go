package model

// 名称列长度上限，导入时超长截断
const MaxNombreCompetencia = 500

// Competencia 能力单元表，对应 competencia
type Competencia struct {
	CodCompetencia int64  `gorm:"column:cod_competencia;primaryKey;autoIncrement:false" json:"cod_competencia"`
	Nombre         string `gorm:"type:varchar(500);not null"                            json:"nombre"`
	Horas          int    `gorm:"not null"                                              json:"horas"`
}

// TableName 指定表名
func (Competencia) TableName() string { return "competencia" }

// ResultadoAprendizaje 学习成果表，对应 resultado_aprendizaje
type ResultadoAprendizaje struct {
	CodResultado   int64  `gorm:"column:cod_resultado;primaryKey;autoIncrement:false" json:"cod_resultado"`
	Nombre         string `gorm:"type:varchar(500);not null"                          json:"nombre"`
	CodCompetencia int64  `gorm:"column:cod_competencia;not null"                     json:"cod_competencia"`
}

// TableName 指定表名
func (ResultadoAprendizaje) TableName() string { return "resultado_aprendizaje" }

// ProgramaCompetencia 项目-能力多对多关联，代理自增主键
// (cod_programa, cod_competencia) 上有唯一约束，插入时去重
type ProgramaCompetencia struct {
	CodProgCompetencia int   `gorm:"column:cod_prog_competencia;primaryKey;autoIncrement" json:"cod_prog_competencia"`
	CodPrograma        int   `gorm:"column:cod_programa;not null"                         json:"cod_programa"`
	CodCompetencia     int64 `gorm:"column:cod_competencia;not null"                      json:"cod_competencia"`
}

// TableName 指定表名
func (ProgramaCompetencia) TableName() string { return "programa_competencia" }

// [自证通过] internal/model/competencia.go
