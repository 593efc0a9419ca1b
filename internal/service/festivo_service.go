package service

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"gestion-formacion/backend/internal/dto"
	"gestion-formacion/backend/internal/model"
	"gestion-formacion/backend/internal/repository"
)

// ── 节假日模块业务错误 ──

var (
	ErrYearInvalido = errors.New("El año debe estar entre 1900 y 2100")
	ErrICSSinFechas = errors.New("El archivo no contiene eventos con fecha válida")
	ErrICSInvalido  = errors.New("El archivo .ics no es válido")
)

const (
	minYear = 1900
	maxYear = 2100
)

// FestivoService 节假日业务接口
type FestivoService interface {
	List(ctx context.Context) ([]model.Date, error)
	ListByYear(ctx context.Context, year int) ([]model.Date, error)
	// FestivosYDomingos year 为 nil 时返回全部节假日与当年周日
	FestivosYDomingos(ctx context.Context, year *int) (*dto.FestivosYDomingosResponse, error)
	Domingos(year int) (*dto.DomingosResponse, error)
	ImportICS(ctx context.Context, r io.Reader) (*dto.ImportFestivosResponse, error)
}

type festivoService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewFestivoService 创建 FestivoService 实例
func NewFestivoService(repo *repository.Repository, logger *zap.Logger) FestivoService {
	return &festivoService{repo: repo, logger: logger, now: time.Now}
}

func (s *festivoService) List(ctx context.Context) ([]model.Date, error) {
	list, err := s.repo.Festivo.List(ctx)
	if err != nil {
		s.logger.Error("列出节假日失败", zap.Error(err))
		return nil, err
	}
	return festivoFechas(list), nil
}

func (s *festivoService) ListByYear(ctx context.Context, year int) ([]model.Date, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	list, err := s.repo.Festivo.ListByYear(ctx, year)
	if err != nil {
		s.logger.Error("按年列出节假日失败", zap.Int("year", year), zap.Error(err))
		return nil, err
	}
	return festivoFechas(list), nil
}

func (s *festivoService) FestivosYDomingos(ctx context.Context, year *int) (*dto.FestivosYDomingosResponse, error) {
	var (
		festivos []model.Date
		err      error
		anio     int
	)
	if year != nil {
		anio = *year
		festivos, err = s.ListByYear(ctx, anio)
	} else {
		anio = s.now().Year()
		festivos, err = s.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	domingos := domingosDelAnio(anio)
	return &dto.FestivosYDomingosResponse{
		Festivos:  festivos,
		Domingos:  domingos,
		TotalDias: len(festivos) + len(domingos),
	}, nil
}

func (s *festivoService) Domingos(year int) (*dto.DomingosResponse, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	domingos := domingosDelAnio(year)
	return &dto.DomingosResponse{Year: year, Domingos: domingos, TotalDomingos: len(domingos)}, nil
}

// ImportICS 已存在的日期计入 omitidos，重复导入结果不变
func (s *festivoService) ImportICS(ctx context.Context, r io.Reader) (*dto.ImportFestivosResponse, error) {
	fechas, err := ParseFestivosICS(r)
	if err != nil {
		s.logger.Warn("解析 .ics 文件失败", zap.Error(err))
		return nil, ErrICSInvalido
	}
	if len(fechas) == 0 {
		return nil, ErrICSSinFechas
	}

	resp := &dto.ImportFestivosResponse{Total: len(fechas)}
	err = runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		for _, f := range fechas {
			created, err := txRepo.Festivo.Upsert(ctx, &model.Festivo{Fecha: f})
			if err != nil {
				return err
			}
			if created {
				resp.Insertados++
			} else {
				resp.Omitidos++
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("导入节假日失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("节假日导入完成",
		zap.Int("total", resp.Total),
		zap.Int("insertados", resp.Insertados),
	)
	return resp, nil
}

// ── 辅助函数 ──

func validateYear(year int) error {
	if year < minYear || year > maxYear {
		return ErrYearInvalido
	}
	return nil
}

func festivoFechas(list []model.Festivo) []model.Date {
	result := make([]model.Date, 0, len(list))
	for _, f := range list {
		result = append(result, f.Fecha)
	}
	return result
}

// domingosDelAnio 某年全部周日，升序
func domingosDelAnio(year int) []model.Date {
	d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	d = d.AddDate(0, 0, (7-int(d.Weekday()))%7)

	result := make([]model.Date, 0, 53)
	for d.Year() == year {
		result = append(result, model.NewDate(d))
		d = d.AddDate(0, 0, 7)
	}
	return result
}
