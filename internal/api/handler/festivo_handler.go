package handler

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"gestion-formacion/backend/internal/service"
	"gestion-formacion/backend/pkg/response"
)

// FestivoHandler 节假日 HTTP 处理器
type FestivoHandler struct {
	festivoSvc service.FestivoService
}

// NewFestivoHandler 创建 FestivoHandler
func NewFestivoHandler(festivoSvc service.FestivoService) *FestivoHandler {
	return &FestivoHandler{festivoSvc: festivoSvc}
}

// List 全部节假日
// GET /api/v1/festivos
func (h *FestivoHandler) List(c *gin.Context) {
	list, err := h.festivoSvc.List(c.Request.Context())
	if err != nil {
		h.handleFestivoError(c, err)
		return
	}
	response.OK(c, list)
}

// ListByYear 某年节假日
// GET /api/v1/festivos/year/:year
func (h *FestivoHandler) ListByYear(c *gin.Context) {
	year, ok := ParamInt(c, "year")
	if !ok {
		return
	}

	list, err := h.festivoSvc.ListByYear(c.Request.Context(), year)
	if err != nil {
		h.handleFestivoError(c, err)
		return
	}

	response.OK(c, list)
}

// FestivosYDomingos 节假日与周日合集
// GET /api/v1/festivos/festivos-y-domingos?year=
func (h *FestivoHandler) FestivosYDomingos(c *gin.Context) {
	var year *int
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, 10001, "Parámetro year inválido")
			return
		}
		year = &y
	}

	res, err := h.festivoSvc.FestivosYDomingos(c.Request.Context(), year)
	if err != nil {
		h.handleFestivoError(c, err)
		return
	}

	response.OK(c, res)
}

// Domingos 某年全部周日
// GET /api/v1/festivos/domingos/:year
func (h *FestivoHandler) Domingos(c *gin.Context) {
	year, ok := ParamInt(c, "year")
	if !ok {
		return
	}

	res, err := h.festivoSvc.Domingos(year)
	if err != nil {
		h.handleFestivoError(c, err)
		return
	}

	response.OK(c, res)
}

// ImportICS 上传 .ics 导入节假日
// POST /api/v1/festivos/import
func (h *FestivoHandler) ImportICS(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 21001, "Debe adjuntar un archivo en el campo file")
		return
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".ics") {
		response.BadRequest(c, 21002, "El archivo debe tener extensión .ics")
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, 21001, "No se pudo leer el archivo")
		return
	}
	defer f.Close()

	res, err := h.festivoSvc.ImportICS(c.Request.Context(), f)
	if err != nil {
		h.handleFestivoError(c, err)
		return
	}

	response.OK(c, res)
}

func (h *FestivoHandler) handleFestivoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrYearInvalido):
		response.BadRequest(c, 21003, err.Error())
	case errors.Is(err, service.ErrICSInvalido), errors.Is(err, service.ErrICSSinFechas):
		response.BadRequest(c, 21004, err.Error())
	default:
		response.InternalError(c)
	}
}
