package model

// AmbienteFormacion 教学场地表，对应 ambiente_formacion
type AmbienteFormacion struct {
	IDAmbiente       int    `gorm:"column:id_ambiente;primaryKey;autoIncrement" json:"id_ambiente"`
	NombreAmbiente   string `gorm:"type:varchar(80);not null"                   json:"nombre_ambiente"`
	NumMaxAprendices int    `gorm:"not null"                                    json:"num_max_aprendices"`
	Municipio        string `gorm:"type:varchar(80)"                            json:"municipio"`
	Ubicacion        string `gorm:"type:varchar(120)"                           json:"ubicacion"`
	CodCentro        int    `gorm:"column:cod_centro;not null"                  json:"cod_centro"`
	Estado           bool   `gorm:"not null"                                    json:"estado"`
}

// TableName 指定表名
func (AmbienteFormacion) TableName() string { return "ambiente_formacion" }

// GrupoInstructor 班级-讲师分配，对应 grupo_instructor（复合主键）
type GrupoInstructor struct {
	CodFicha     int `gorm:"column:cod_ficha;primaryKey;autoIncrement:false"     json:"cod_ficha"`
	IDInstructor int `gorm:"column:id_instructor;primaryKey;autoIncrement:false" json:"id_instructor"`
}

// TableName 指定表名
func (GrupoInstructor) TableName() string { return "grupo_instructor" }
