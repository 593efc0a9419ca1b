package model

// 不再参与排课的班级状态
const (
	EstadoGrupoCancelado = "CANCELADO"
	EstadoGrupoCerrado   = "CERRADO"
)

// Grupo 班级表，对应 grupo，以 cod_ficha 标识
type Grupo struct {
	CodFicha               int    `gorm:"column:cod_ficha;primaryKey;autoIncrement:false" json:"cod_ficha"`
	CodCentro              *int   `gorm:"column:cod_centro"                               json:"cod_centro"`
	CodPrograma            *int   `gorm:"column:cod_programa"                             json:"cod_programa"`
	LaVersion              *int   `gorm:"column:la_version"                               json:"la_version"`
	EstadoGrupo            string `gorm:"type:varchar(50)"                                json:"estado_grupo"`
	NombreNivel            string `gorm:"type:varchar(50)"                                json:"nombre_nivel"`
	Jornada                string `gorm:"type:varchar(50)"                                json:"jornada"`
	FechaInicio            Date   `gorm:"type:date"                                       json:"fecha_inicio"`
	FechaFin               Date   `gorm:"type:date"                                       json:"fecha_fin"`
	Etapa                  string `gorm:"type:varchar(50)"                                json:"etapa"`
	Modalidad              string `gorm:"type:varchar(50)"                                json:"modalidad"`
	Responsable            string `gorm:"type:varchar(150)"                               json:"responsable"`
	NombreEmpresa          string `gorm:"type:varchar(255)"                               json:"nombre_empresa"`
	NombreMunicipio        string `gorm:"type:varchar(100)"                               json:"nombre_municipio"`
	NombreProgramaEspecial string `gorm:"type:varchar(255)"                               json:"nombre_programa_especial"`
	HoraInicio             Clock  `gorm:"type:time"                                       json:"hora_inicio"`
	HoraFin                Clock  `gorm:"type:time"                                       json:"hora_fin"`
	IDAmbiente             *int   `gorm:"column:id_ambiente"                              json:"id_ambiente"`
}

// TableName 指定表名
func (Grupo) TableName() string { return "grupo" }

// DatosGrupo 班级学员统计，对应 datos_grupo（与 grupo 1:1）
// 所有计数可为空：导入来源不同，只填写各自掌握的列
type DatosGrupo struct {
	CodFicha                  int  `gorm:"column:cod_ficha;primaryKey;autoIncrement:false" json:"cod_ficha"`
	NumAprendicesMasculinos   *int `gorm:"column:num_aprendices_masculinos"                json:"num_aprendices_masculinos"`
	NumAprendicesFemenino     *int `gorm:"column:num_aprendices_femenino"                  json:"num_aprendices_femenino"`
	NumAprendicesNoBinario    *int `gorm:"column:num_aprendices_no_binario"                json:"num_aprendices_no_binario"`
	NumTotalAprendices        *int `gorm:"column:num_total_aprendices"                     json:"num_total_aprendices"`
	NumTotalAprendicesActivos *int `gorm:"column:num_total_aprendices_activos"             json:"num_total_aprendices_activos"`
	CupoTotal                 *int `gorm:"column:cupo_total"                               json:"cupo_total"`
	EnTransito                *int `gorm:"column:en_transito"                              json:"en_transito"`
	Induccion                 *int `gorm:"column:induccion"                                json:"induccion"`
	Formacion                 *int `gorm:"column:formacion"                                json:"formacion"`
	Condicionado              *int `gorm:"column:condicionado"                             json:"condicionado"`
	Aplazado                  *int `gorm:"column:aplazado"                                 json:"aplazado"`
	RetiroVoluntario          *int `gorm:"column:retiro_voluntario"                        json:"retiro_voluntario"`
	Cancelado                 *int `gorm:"column:cancelado"                                json:"cancelado"`
	CancelamientoVitComp      *int `gorm:"column:cancelamiento_vit_comp"                   json:"cancelamiento_vit_comp"`
	DesercionVitComp          *int `gorm:"column:desercion_vit_comp"                       json:"desercion_vit_comp"`
	PorCertificar             *int `gorm:"column:por_certificar"                           json:"por_certificar"`
	Certificados              *int `gorm:"column:certificados"                             json:"certificados"`
	Traslados                 *int `gorm:"column:traslados"                                json:"traslados"`
	Otro                      *int `gorm:"column:otro"                                     json:"otro"`
}

// TableName 指定表名
func (DatosGrupo) TableName() string { return "datos_grupo" }

// [自证通过] internal/model/grupo.go
