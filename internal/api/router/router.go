package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gestion-formacion/backend/config"
	"gestion-formacion/backend/internal/api/handler"
	"gestion-formacion/backend/internal/api/middleware"
	"gestion-formacion/backend/internal/model"
	"gestion-formacion/backend/pkg/jwt"
	"gestion-formacion/backend/pkg/redis"
)

// jsonBodyLimit 普通 JSON 请求体上限
const jsonBodyLimit int64 = 1 << 20

// Pinger 健康检查依赖
type Pinger interface {
	Ping(ctx context.Context) error
}

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时限流与令牌吊销降级为放行
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db Pinger, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	if err := handler.RegisterValidators(); err != nil {
		logger.Fatal("注册自定义校验规则失败", zap.Error(err))
	}

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	uploadLimit := jsonBodyLimit
	if cfg.Import.MaxUploadMB > 0 {
		uploadLimit = (cfg.Import.MaxUploadMB << 20) + jsonBodyLimit
	}
	jsonLimit := middleware.BodyLimit(jsonBodyLimit)
	fileLimit := middleware.BodyLimit(uploadLimit)

	var counter middleware.RateCounter
	if rdb != nil {
		counter = rdb
	}
	rl := cfg.RateLimit
	loginLimit := middleware.RateLimit(counter, "login", rl.Login, middleware.ByClientIP)
	forgotIPLimit := middleware.RateLimit(counter, "forgot:ip", rl.ForgotIP, middleware.ByClientIP)
	forgotEmailLimit := middleware.RateLimit(counter, "forgot:email", rl.ForgotEmail, middleware.ByJSONField("email"))
	resetLimit := middleware.RateLimit(counter, "reset", rl.ResetToken, middleware.ByClientIP)

	admins := middleware.RoleAuth(model.RolSuperadmin, model.RolAdmin)
	staff := middleware.RoleAuth(model.RolSuperadmin, model.RolAdmin, model.RolInstructor)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		access := v1.Group("/access", jsonLimit)
		{
			access.POST("/token", loginLimit, h.Auth.Login)
			access.POST("/forgot-password", forgotIPLimit, forgotEmailLimit, h.Auth.ForgotPassword)
			access.POST("/validate-reset-token", resetLimit, h.Auth.ValidateResetToken)
			access.POST("/reset-password", resetLimit, h.Auth.ResetPassword)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/access/logout", h.Auth.Logout)
			authorized.GET("/access/me", h.Auth.Me)
			authorized.PUT("/access/change-password", jsonLimit, h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users", jsonLimit)
			{
				users.POST("", admins, h.Usuario.Create)
				users.GET("/instructores", h.Usuario.ListInstructores)
				users.GET("/email/:correo", admins, h.Usuario.GetByCorreo)
				users.GET("/centro/:cod_centro", admins, h.Usuario.ListByCentro)
				users.GET("/:id", h.Usuario.GetByID)
				users.PUT("/:id", h.Usuario.Update) // 管理员或本人（Service 层鉴权）
				users.PUT("/:id/estado", admins, h.Usuario.ToggleEstado)
			}

			// 基础数据
			authorized.GET("/roles", h.Referencia.ListRoles)
			authorized.GET("/regionales", h.Referencia.ListRegionales)
			centros := authorized.Group("/centro-formacion")
			{
				centros.GET("/centros", h.Referencia.ListCentros)
				centros.GET("/nombre/:nombre_centro", h.Referencia.GetCentroByNombre)
				centros.GET("/regional/:cod_regional", h.Referencia.ListCentrosByRegional)
				centros.GET("/:cod_centro", h.Referencia.GetCentro)
			}

			// 培训项目
			programas := authorized.Group("/programas", jsonLimit)
			{
				programas.POST("", admins, h.Programa.Create)
				programas.GET("", h.Programa.List)
				programas.GET("/search", h.Programa.Search)
				programas.GET("/:cod_programa", h.Programa.GetLatest)
				programas.PUT("/:cod_programa", admins, h.Programa.UpdateLatest)
				programas.DELETE("/:cod_programa/:la_version", admins, h.Programa.Delete)
			}

			// 班级
			grupos := authorized.Group("/grupos", jsonLimit)
			{
				grupos.GET("", admins, h.Grupo.List)
				grupos.GET("/centro/:cod_centro", h.Grupo.ListByCentro)
				grupos.GET("/search", h.Grupo.SearchForSelect)
				grupos.GET("/advanced-search", h.Grupo.AdvancedSearch)
				grupos.GET("/kpis", h.Grupo.KPIs)
				grupos.GET("/distribucion/:dimension", h.Grupo.Distribucion)
				grupos.GET("/:cod_ficha", h.Grupo.GetDetalle)
				grupos.PUT("/:cod_ficha", admins, h.Grupo.Update)
			}

			// 教学场地
			ambientes := authorized.Group("/ambientes", jsonLimit)
			{
				ambientes.GET("", h.Ambiente.List)
				ambientes.GET("/:id", h.Ambiente.GetByID)
				ambientes.POST("", admins, h.Ambiente.Create)
				ambientes.PUT("/:id", admins, h.Ambiente.Update)
				ambientes.PUT("/:id/estado", admins, h.Ambiente.SetEstado)
			}

			// 班级-讲师分配
			gi := authorized.Group("/grupo-instructor", jsonLimit)
			{
				gi.POST("", admins, h.GrupoInstructor.Assign)
				gi.GET("/grupo/:cod_ficha", h.GrupoInstructor.ListInstructores)
				gi.GET("/instructor/:id_instructor", h.GrupoInstructor.ListGrupos)
				gi.PUT("/:cod_ficha/:id_instructor", admins, h.GrupoInstructor.Move)
				gi.DELETE("/:cod_ficha/:id_instructor", admins, h.GrupoInstructor.Delete)
			}

			// 能力单元与学习成果
			competencias := authorized.Group("/competencias", jsonLimit)
			{
				competencias.GET("", h.Competencia.List)
				competencias.GET("/programa/:cod_programa/:la_version", h.Competencia.ListByPrograma)
				competencias.GET("/:cod_competencia", h.Competencia.GetByID)
				competencias.GET("/:cod_competencia/programas", h.Competencia.ListProgramas)
				competencias.POST("", admins, h.Competencia.Create)
				competencias.PUT("/:cod_competencia", admins, h.Competencia.Update)
				competencias.DELETE("/:cod_competencia", admins, h.Competencia.Delete)
				competencias.POST("/:cod_competencia/programas", admins, h.Competencia.LinkPrograma)
			}
			authorized.GET("/resultados/competencia/:cod_competencia", h.Competencia.ListResultados)

			// 排课
			programacion := authorized.Group("/programacion", jsonLimit)
			{
				programacion.POST("", staff, h.Programacion.Create)
				programacion.POST("/validar-cruce", staff, h.Programacion.ValidarCruce)
				programacion.GET("/all", admins, h.Programacion.ListAll)
				programacion.GET("/detalle/:id", h.Programacion.GetDetalle)
				programacion.GET("/ficha/:cod_ficha", h.Programacion.ListByFicha)
				programacion.GET("/ficha/:cod_ficha/export", admins, h.Export.ExportFicha)
				programacion.GET("/instructor/:id", h.Programacion.ListByInstructor)
				programacion.GET("/instructor/:id/calendar.ics", h.Programacion.Calendario)
				programacion.GET("/competencias/:cod_programa/:la_version", h.Programacion.CompetenciasByPrograma)
				programacion.GET("/resultados/:cod_competencia", h.Programacion.ResultadosByCompetencia)
				programacion.PUT("/:id", staff, h.Programacion.Update)
				programacion.DELETE("/:id", admins, h.Programacion.Delete)
			}

			// 通知
			notificaciones := authorized.Group("/notificaciones")
			{
				notificaciones.GET("", h.Notificacion.List)
				notificaciones.PUT("/:id/leer", h.Notificacion.MarkRead)
			}

			// 节假日
			festivos := authorized.Group("/festivos")
			{
				festivos.GET("", h.Festivo.List)
				festivos.GET("/year/:year", h.Festivo.ListByYear)
				festivos.GET("/festivos-y-domingos", h.Festivo.FestivosYDomingos)
				festivos.GET("/domingos/:year", h.Festivo.Domingos)
				festivos.POST("/import", admins, fileLimit, h.Festivo.ImportICS)
			}

			// 表格导入
			files := authorized.Group("/files", admins, fileLimit)
			{
				files.POST("/upload-excel", h.Import.ImportGrupos)
				files.POST("/upload-df14-excel", h.Import.ImportDF14)
				files.POST("/upload-evaluaciones-excel", h.Import.ImportEvaluaciones)
			}
		}
	}

	return r
}
