package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gestion-formacion/backend/internal/model"
	"gestion-formacion/backend/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// 内存版 Repository，仅供 service 包单元测试使用
// ═══════════════════════════════════════════════════════════

// mockRepos 一组共享状态的内存仓库
type mockRepos struct {
	rol          *mockRolRepo
	usuario      *mockUsuarioRepo
	regional     *mockRegionalRepo
	centro       *mockCentroRepo
	programa     *mockProgramaRepo
	grupo        *mockGrupoRepo
	datosGrupo   *mockDatosGrupoRepo
	ambiente     *mockAmbienteRepo
	gi           *mockGrupoInstructorRepo
	competencia  *mockCompetenciaRepo
	resultado    *mockResultadoRepo
	progComp     *mockProgramaCompetenciaRepo
	programacion *mockProgramacionRepo
	notificacion *mockNotificacionRepo
	festivo      *mockFestivoRepo
	tx           *mockTransactor
}

func newMockRepos() *mockRepos {
	m := &mockRepos{
		rol:          &mockRolRepo{roles: []model.Rol{{IDRol: 1, Nombre: "superadmin"}, {IDRol: 2, Nombre: "admin"}, {IDRol: 3, Nombre: "instructor"}}},
		usuario:      &mockUsuarioRepo{users: make(map[int]*model.Usuario)},
		regional:     &mockRegionalRepo{items: make(map[int]model.Regional)},
		centro:       &mockCentroRepo{items: make(map[int]model.CentroFormacion)},
		programa:     &mockProgramaRepo{items: make(map[[2]int]*model.ProgramaFormacion)},
		grupo:        &mockGrupoRepo{items: make(map[int]*model.Grupo)},
		datosGrupo:   &mockDatosGrupoRepo{items: make(map[int]*model.DatosGrupo)},
		ambiente:     &mockAmbienteRepo{items: make(map[int]*model.AmbienteFormacion)},
		gi:           &mockGrupoInstructorRepo{items: make(map[[2]int]bool)},
		competencia:  &mockCompetenciaRepo{items: make(map[int64]*model.Competencia)},
		resultado:    &mockResultadoRepo{items: make(map[int64]*model.ResultadoAprendizaje)},
		progComp:     &mockProgramaCompetenciaRepo{links: make(map[progCompKey]bool)},
		programacion: &mockProgramacionRepo{items: make(map[int]*model.Programacion)},
		notificacion: &mockNotificacionRepo{},
		festivo:      &mockFestivoRepo{items: make(map[string]model.Date)},
	}
	m.competencia.links = m.progComp
	m.competencia.programas = m.programa
	m.programacion.usuarios = m.usuario
	m.programacion.competencias = m.competencia
	m.grupo.programas = m.programa
	return m
}

// mockTransactor 直接在同一聚合上执行 fn，记录调用次数
type mockTransactor struct {
	repo  *repository.Repository
	calls int
}

func (t *mockTransactor) InTx(_ context.Context, fn func(txRepo *repository.Repository) error) error {
	t.calls++
	return fn(t.repo)
}

// repository 组装不绑定数据库的聚合，事务由 mockTransactor 代替
func (m *mockRepos) repository() *repository.Repository {
	repo := &repository.Repository{
		Rol:                 m.rol,
		Usuario:             m.usuario,
		Regional:            m.regional,
		Centro:              m.centro,
		Programa:            m.programa,
		Grupo:               m.grupo,
		DatosGrupo:          m.datosGrupo,
		Ambiente:            m.ambiente,
		GrupoInstructor:     m.gi,
		Competencia:         m.competencia,
		Resultado:           m.resultado,
		ProgramaCompetencia: m.progComp,
		Programacion:        m.programacion,
		Notificacion:        m.notificacion,
		Festivo:             m.festivo,
	}
	m.tx = &mockTransactor{repo: repo}
	repo.Tx = m.tx
	return repo
}

// 与 PostgreSQL 驱动返回的约束错误一致，便于 apperrors.Translate 识别
var (
	errDuplicado  = &pgconn.PgError{Code: "23505"}
	errForeignKey = &pgconn.PgError{Code: "23503"}
)

func testLogger() *zap.Logger { return zap.NewNop() }

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

func mustDate(s string) model.Date {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func paginate[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

// ── Rol ──

type mockRolRepo struct {
	roles []model.Rol
}

func (m *mockRolRepo) List(_ context.Context) ([]model.Rol, error) { return m.roles, nil }

func (m *mockRolRepo) GetByID(_ context.Context, id int) (*model.Rol, error) {
	for i := range m.roles {
		if m.roles[i].IDRol == id {
			return &m.roles[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Usuario ──

type mockUsuarioRepo struct {
	users  map[int]*model.Usuario
	nextID int
}

func (m *mockUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	m.nextID++
	u.IDUsuario = m.nextID
	cp := *u
	m.users[u.IDUsuario] = &cp
	return nil
}

func (m *mockUsuarioRepo) GetByID(_ context.Context, id int) (*model.Usuario, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUsuarioRepo) GetByCorreo(_ context.Context, correo string) (*model.Usuario, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Correo, correo) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUsuarioRepo) GetByIdentificacion(_ context.Context, identificacion string) (*model.Usuario, error) {
	for _, u := range m.users {
		if u.Identificacion == identificacion {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUsuarioRepo) Update(_ context.Context, id int, upd *repository.UsuarioUpdate) (int64, error) {
	u, ok := m.users[id]
	if !ok {
		return 0, nil
	}
	if upd.NombreCompleto != nil {
		u.NombreCompleto = *upd.NombreCompleto
	}
	if upd.TipoContrato != nil {
		u.TipoContrato = *upd.TipoContrato
	}
	if upd.Telefono != nil {
		u.Telefono = *upd.Telefono
	}
	if upd.Correo != nil {
		u.Correo = *upd.Correo
	}
	return 1, nil
}

func (m *mockUsuarioRepo) UpdatePassword(_ context.Context, id int, passHash string, changedAt time.Time) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PassHash = passHash
	u.PasswordChangedAt = &changedAt
	return nil
}

func (m *mockUsuarioRepo) ToggleEstado(_ context.Context, id int) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Estado = !u.Estado
	return nil
}

func (m *mockUsuarioRepo) sorted() []model.Usuario {
	var all []model.Usuario
	for _, u := range m.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].IDUsuario < all[j].IDUsuario })
	return all
}

func (m *mockUsuarioRepo) ListByCentro(_ context.Context, codCentro, offset, limit int) ([]model.Usuario, int64, error) {
	var all []model.Usuario
	for _, u := range m.sorted() {
		if u.CodCentro != nil && *u.CodCentro == codCentro {
			all = append(all, u)
		}
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockUsuarioRepo) ListInstructores(_ context.Context, codCentro *int) ([]model.Usuario, error) {
	var all []model.Usuario
	for _, u := range m.sorted() {
		if u.IDRol != model.RolInstructor || !u.Estado {
			continue
		}
		if codCentro != nil && (u.CodCentro == nil || *u.CodCentro != *codCentro) {
			continue
		}
		all = append(all, u)
	}
	return all, nil
}

// ── Regional / Centro ──

type mockRegionalRepo struct {
	items   map[int]model.Regional
	upserts int
}

func (m *mockRegionalRepo) List(_ context.Context) ([]model.Regional, error) {
	var all []model.Regional
	for _, r := range m.items {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CodRegional < all[j].CodRegional })
	return all, nil
}

func (m *mockRegionalRepo) Upsert(_ context.Context, reg *model.Regional) error {
	m.upserts++
	m.items[reg.CodRegional] = *reg
	return nil
}

type mockCentroRepo struct {
	items map[int]model.CentroFormacion
}

func (m *mockCentroRepo) List(_ context.Context) ([]model.CentroFormacion, error) {
	var all []model.CentroFormacion
	for _, c := range m.items {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CodCentro < all[j].CodCentro })
	return all, nil
}

func (m *mockCentroRepo) GetByID(_ context.Context, codCentro int) (*model.CentroFormacion, error) {
	if c, ok := m.items[codCentro]; ok {
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCentroRepo) GetByNombre(_ context.Context, nombre string) (*model.CentroFormacion, error) {
	for _, c := range m.items {
		if strings.EqualFold(c.NombreCentro, nombre) {
			cp := c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCentroRepo) ListByRegional(_ context.Context, codRegional int) ([]model.CentroFormacion, error) {
	var all []model.CentroFormacion
	for _, c := range m.items {
		if c.CodRegional == codRegional {
			all = append(all, c)
		}
	}
	return all, nil
}

func (m *mockCentroRepo) Upsert(_ context.Context, centro *model.CentroFormacion) error {
	m.items[centro.CodCentro] = *centro
	return nil
}

// ── Programa ──

type mockProgramaRepo struct {
	items     map[[2]int]*model.ProgramaFormacion
	deleteErr error
}

func (m *mockProgramaRepo) Create(_ context.Context, p *model.ProgramaFormacion) error {
	key := [2]int{p.CodPrograma, p.LaVersion}
	if _, ok := m.items[key]; ok {
		return errDuplicado
	}
	cp := *p
	m.items[key] = &cp
	return nil
}

func (m *mockProgramaRepo) Get(_ context.Context, codPrograma, laVersion int) (*model.ProgramaFormacion, error) {
	if p, ok := m.items[[2]int{codPrograma, laVersion}]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgramaRepo) latest(codPrograma int) *model.ProgramaFormacion {
	var best *model.ProgramaFormacion
	for _, p := range m.items {
		if p.CodPrograma == codPrograma && (best == nil || p.LaVersion > best.LaVersion) {
			best = p
		}
	}
	return best
}

func (m *mockProgramaRepo) GetLatest(_ context.Context, codPrograma int) (*model.ProgramaFormacion, error) {
	if p := m.latest(codPrograma); p != nil {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgramaRepo) sorted() []model.ProgramaFormacion {
	var all []model.ProgramaFormacion
	for _, p := range m.items {
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CodPrograma != all[j].CodPrograma {
			return all[i].CodPrograma < all[j].CodPrograma
		}
		return all[i].LaVersion < all[j].LaVersion
	})
	return all
}

func (m *mockProgramaRepo) List(_ context.Context, offset, limit int) ([]model.ProgramaFormacion, int64, error) {
	all := m.sorted()
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockProgramaRepo) Search(_ context.Context, query string, offset, limit int) ([]model.ProgramaFormacion, int64, error) {
	var all []model.ProgramaFormacion
	for _, p := range m.sorted() {
		if strings.Contains(strings.ToLower(p.Nombre), strings.ToLower(query)) {
			all = append(all, p)
		}
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

func applyHoras(p *model.ProgramaFormacion, upd *repository.ProgramaHorasUpdate) {
	if upd.HorasLectivas != nil {
		p.HorasLectivas = *upd.HorasLectivas
	}
	if upd.HorasProductivas != nil {
		p.HorasProductivas = *upd.HorasProductivas
	}
}

func (m *mockProgramaRepo) UpdateLatestHoras(_ context.Context, codPrograma int, upd *repository.ProgramaHorasUpdate) (int64, error) {
	p := m.latest(codPrograma)
	if p == nil {
		return 0, nil
	}
	applyHoras(p, upd)
	return 1, nil
}

func (m *mockProgramaRepo) UpdateHoras(_ context.Context, codPrograma, laVersion int, upd *repository.ProgramaHorasUpdate) (int64, error) {
	p, ok := m.items[[2]int{codPrograma, laVersion}]
	if !ok {
		return 0, nil
	}
	applyHoras(p, upd)
	return 1, nil
}

func (m *mockProgramaRepo) Delete(_ context.Context, codPrograma, laVersion int) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	key := [2]int{codPrograma, laVersion}
	if _, ok := m.items[key]; !ok {
		return 0, nil
	}
	delete(m.items, key)
	return 1, nil
}

// UpsertNombre 新建时学时为 0，已存在时只刷新名称
func (m *mockProgramaRepo) UpsertNombre(_ context.Context, p *model.ProgramaFormacion) error {
	key := [2]int{p.CodPrograma, p.LaVersion}
	if cur, ok := m.items[key]; ok {
		cur.Nombre = p.Nombre
		return nil
	}
	m.items[key] = &model.ProgramaFormacion{CodPrograma: p.CodPrograma, LaVersion: p.LaVersion, Nombre: p.Nombre}
	return nil
}

// ── Grupo / DatosGrupo ──

type mockGrupoRepo struct {
	items     map[int]*model.Grupo
	programas *mockProgramaRepo
}

func (m *mockGrupoRepo) GetByID(_ context.Context, codFicha int) (*model.Grupo, error) {
	if g, ok := m.items[codFicha]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGrupoRepo) detalle(g *model.Grupo) repository.GrupoDetalle {
	d := repository.GrupoDetalle{Grupo: *g}
	if g.CodPrograma != nil && g.LaVersion != nil {
		if p, ok := m.programas.items[[2]int{*g.CodPrograma, *g.LaVersion}]; ok {
			nombre := p.Nombre
			d.NombrePrograma = &nombre
		}
	}
	return d
}

func (m *mockGrupoRepo) GetDetalle(_ context.Context, codFicha int) (*repository.GrupoDetalle, error) {
	g, ok := m.items[codFicha]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	d := m.detalle(g)
	return &d, nil
}

func (m *mockGrupoRepo) sortedDesc() []model.Grupo {
	var all []model.Grupo
	for _, g := range m.items {
		all = append(all, *g)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CodFicha > all[j].CodFicha })
	return all
}

func (m *mockGrupoRepo) List(_ context.Context, offset, limit int) ([]model.Grupo, int64, error) {
	all := m.sortedDesc()
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockGrupoRepo) ListByCentro(_ context.Context, codCentro, offset, limit int) ([]model.Grupo, int64, error) {
	var all []model.Grupo
	for _, g := range m.sortedDesc() {
		if g.CodCentro != nil && *g.CodCentro == codCentro {
			all = append(all, g)
		}
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockGrupoRepo) SearchForSelect(_ context.Context, term string, limit int) ([]repository.GrupoOpcion, error) {
	var out []repository.GrupoOpcion
	for _, g := range m.sortedDesc() {
		if g.EstadoGrupo == model.EstadoGrupoCancelado || g.EstadoGrupo == model.EstadoGrupoCerrado {
			continue
		}
		if term != "" && !strings.Contains(strconv.Itoa(g.CodFicha), term) {
			continue
		}
		out = append(out, repository.GrupoOpcion{CodFicha: g.CodFicha, EstadoGrupo: g.EstadoGrupo, Jornada: g.Jornada})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockGrupoRepo) AdvancedSearch(_ context.Context, term string, codCentro *int, offset, limit int) ([]repository.GrupoDetalle, int64, error) {
	var all []repository.GrupoDetalle
	for _, g := range m.sortedDesc() {
		g := g
		if codCentro != nil && (g.CodCentro == nil || *g.CodCentro != *codCentro) {
			continue
		}
		d := m.detalle(&g)
		if term != "" {
			nombre := ""
			if d.NombrePrograma != nil {
				nombre = *d.NombrePrograma
			}
			if !strings.Contains(strconv.Itoa(g.CodFicha), term) && !strings.Contains(strings.ToLower(nombre), strings.ToLower(term)) {
				continue
			}
		}
		all = append(all, d)
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockGrupoRepo) Update(_ context.Context, codFicha int, upd *repository.GrupoUpdate) (int64, error) {
	g, ok := m.items[codFicha]
	if !ok {
		return 0, nil
	}
	if upd.HoraInicio != nil {
		g.HoraInicio = *upd.HoraInicio
	}
	if upd.HoraFin != nil {
		g.HoraFin = *upd.HoraFin
	}
	if upd.IDAmbiente != nil {
		g.IDAmbiente = upd.IDAmbiente
	}
	return 1, nil
}

func (m *mockGrupoRepo) Upsert(_ context.Context, g *model.Grupo) error {
	cp := *g
	m.items[g.CodFicha] = &cp
	return nil
}

func (m *mockGrupoRepo) KPIs(_ context.Context, f *repository.GrupoDashboardFilter) (*repository.GrupoKPI, error) {
	kpi := &repository.GrupoKPI{}
	for _, g := range m.items {
		if g.CodCentro != nil && *g.CodCentro == f.CodCentro {
			kpi.TotalGrupo++
		}
	}
	return kpi, nil
}

func (m *mockGrupoRepo) Distribucion(_ context.Context, dimension string, f *repository.GrupoDashboardFilter) ([]repository.DistribucionRow, error) {
	counts := make(map[string]int64)
	for _, g := range m.items {
		if g.CodCentro == nil || *g.CodCentro != f.CodCentro {
			continue
		}
		switch dimension {
		case "jornada":
			counts[g.Jornada]++
		case "municipio":
			counts[g.NombreMunicipio]++
		}
	}
	var rows []repository.DistribucionRow
	for k, v := range counts {
		k := k
		rows = append(rows, repository.DistribucionRow{Key: &k, Cantidad: v})
	}
	return rows, nil
}

type mockDatosGrupoRepo struct {
	items   map[int]*model.DatosGrupo
	upserts int
}

func (m *mockDatosGrupoRepo) Get(_ context.Context, codFicha int) (*model.DatosGrupo, error) {
	if d, ok := m.items[codFicha]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// Upsert 只覆盖 cols 中的列（按 gorm 列名匹配）
func (m *mockDatosGrupoRepo) Upsert(_ context.Context, d *model.DatosGrupo, cols []string) error {
	m.upserts++
	cur, ok := m.items[d.CodFicha]
	if !ok {
		cp := *d
		m.items[d.CodFicha] = &cp
		return nil
	}
	setters := map[string]func(){
		"num_aprendices_masculinos":    func() { cur.NumAprendicesMasculinos = d.NumAprendicesMasculinos },
		"num_aprendices_femenino":      func() { cur.NumAprendicesFemenino = d.NumAprendicesFemenino },
		"num_aprendices_no_binario":    func() { cur.NumAprendicesNoBinario = d.NumAprendicesNoBinario },
		"num_total_aprendices":         func() { cur.NumTotalAprendices = d.NumTotalAprendices },
		"num_total_aprendices_activos": func() { cur.NumTotalAprendicesActivos = d.NumTotalAprendicesActivos },
		"cupo_total":                   func() { cur.CupoTotal = d.CupoTotal },
		"formacion":                    func() { cur.Formacion = d.Formacion },
		"certificados":                 func() { cur.Certificados = d.Certificados },
	}
	for _, c := range cols {
		if set, ok := setters[c]; ok {
			set()
		}
	}
	return nil
}

// ── Ambiente ──

type mockAmbienteRepo struct {
	items  map[int]*model.AmbienteFormacion
	nextID int
}

func (m *mockAmbienteRepo) Create(_ context.Context, a *model.AmbienteFormacion) error {
	m.nextID++
	a.IDAmbiente = m.nextID
	cp := *a
	m.items[a.IDAmbiente] = &cp
	return nil
}

func (m *mockAmbienteRepo) GetByID(_ context.Context, id int) (*model.AmbienteFormacion, error) {
	if a, ok := m.items[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAmbienteRepo) List(_ context.Context, codCentro *int, incluirInactivos bool) ([]model.AmbienteFormacion, error) {
	var all []model.AmbienteFormacion
	for _, a := range m.items {
		if codCentro != nil && a.CodCentro != *codCentro {
			continue
		}
		if !incluirInactivos && !a.Estado {
			continue
		}
		all = append(all, *a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].IDAmbiente < all[j].IDAmbiente })
	return all, nil
}

func (m *mockAmbienteRepo) Update(_ context.Context, id int, upd *repository.AmbienteUpdate) (int64, error) {
	a, ok := m.items[id]
	if !ok {
		return 0, nil
	}
	if upd.NombreAmbiente != nil {
		a.NombreAmbiente = *upd.NombreAmbiente
	}
	if upd.NumMaxAprendices != nil {
		a.NumMaxAprendices = *upd.NumMaxAprendices
	}
	if upd.Municipio != nil {
		a.Municipio = *upd.Municipio
	}
	if upd.Ubicacion != nil {
		a.Ubicacion = *upd.Ubicacion
	}
	if upd.Estado != nil {
		a.Estado = *upd.Estado
	}
	return 1, nil
}

// ── GrupoInstructor ──

type mockGrupoInstructorRepo struct {
	items map[[2]int]bool
}

func (m *mockGrupoInstructorRepo) Create(_ context.Context, gi *model.GrupoInstructor) error {
	key := [2]int{gi.CodFicha, gi.IDInstructor}
	if m.items[key] {
		return errDuplicado
	}
	m.items[key] = true
	return nil
}

func (m *mockGrupoInstructorRepo) Exists(_ context.Context, codFicha, idInstructor int) (bool, error) {
	return m.items[[2]int{codFicha, idInstructor}], nil
}

func (m *mockGrupoInstructorRepo) Move(_ context.Context, old, nuevo *model.GrupoInstructor) (int64, error) {
	key := [2]int{old.CodFicha, old.IDInstructor}
	if !m.items[key] {
		return 0, nil
	}
	delete(m.items, key)
	m.items[[2]int{nuevo.CodFicha, nuevo.IDInstructor}] = true
	return 1, nil
}

func (m *mockGrupoInstructorRepo) Delete(_ context.Context, codFicha, idInstructor int) (int64, error) {
	key := [2]int{codFicha, idInstructor}
	if !m.items[key] {
		return 0, nil
	}
	delete(m.items, key)
	return 1, nil
}

func (m *mockGrupoInstructorRepo) ListInstructoresByGrupo(_ context.Context, codFicha int) ([]repository.InstructorAsignado, error) {
	var out []repository.InstructorAsignado
	for key := range m.items {
		if key[0] == codFicha {
			out = append(out, repository.InstructorAsignado{CodFicha: key[0], IDInstructor: key[1]})
		}
	}
	return out, nil
}

func (m *mockGrupoInstructorRepo) ListGruposByInstructor(_ context.Context, idInstructor int) ([]repository.GrupoAsignado, error) {
	var out []repository.GrupoAsignado
	for key := range m.items {
		if key[1] == idInstructor {
			out = append(out, repository.GrupoAsignado{CodFicha: key[0], IDInstructor: key[1]})
		}
	}
	return out, nil
}

// ── Competencia / Resultado / ProgramaCompetencia ──

type mockCompetenciaRepo struct {
	items     map[int64]*model.Competencia
	links     *mockProgramaCompetenciaRepo
	programas *mockProgramaRepo
	// upsertErr 非空时 Upsert 对该代码返回错误
	upsertErr map[int64]error
	deleteErr error
}

func (m *mockCompetenciaRepo) Create(_ context.Context, c *model.Competencia) error {
	if _, ok := m.items[c.CodCompetencia]; ok {
		return errDuplicado
	}
	cp := *c
	m.items[c.CodCompetencia] = &cp
	return nil
}

func (m *mockCompetenciaRepo) GetByID(_ context.Context, cod int64) (*model.Competencia, error) {
	if c, ok := m.items[cod]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCompetenciaRepo) List(_ context.Context) ([]model.Competencia, error) {
	var all []model.Competencia
	for _, c := range m.items {
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CodCompetencia < all[j].CodCompetencia })
	return all, nil
}

func (m *mockCompetenciaRepo) Update(_ context.Context, cod int64, upd *repository.CompetenciaUpdate) (int64, error) {
	c, ok := m.items[cod]
	if !ok {
		return 0, nil
	}
	if upd.Nombre != nil {
		c.Nombre = *upd.Nombre
	}
	if upd.Horas != nil {
		c.Horas = *upd.Horas
	}
	return 1, nil
}

func (m *mockCompetenciaRepo) Delete(_ context.Context, cod int64) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	if _, ok := m.items[cod]; !ok {
		return 0, nil
	}
	delete(m.items, cod)
	return 1, nil
}

func (m *mockCompetenciaRepo) ListByPrograma(_ context.Context, codPrograma int) ([]model.Competencia, error) {
	var all []model.Competencia
	for key := range m.links.links {
		if key.programa != codPrograma {
			continue
		}
		if c, ok := m.items[key.competencia]; ok {
			all = append(all, *c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CodCompetencia < all[j].CodCompetencia })
	return all, nil
}

func (m *mockCompetenciaRepo) ListProgramas(_ context.Context, cod int64) ([]repository.ProgramaDeCompetencia, error) {
	var out []repository.ProgramaDeCompetencia
	for key := range m.links.links {
		if key.competencia != cod {
			continue
		}
		if p := m.programas.latest(key.programa); p != nil {
			out = append(out, repository.ProgramaDeCompetencia{CodPrograma: p.CodPrograma, LaVersion: p.LaVersion, Nombre: p.Nombre})
		}
	}
	return out, nil
}

// Upsert 已存在时只刷新名称
func (m *mockCompetenciaRepo) Upsert(_ context.Context, c *model.Competencia) error {
	if err := m.upsertErr[c.CodCompetencia]; err != nil {
		return err
	}
	if cur, ok := m.items[c.CodCompetencia]; ok {
		cur.Nombre = c.Nombre
		return nil
	}
	cp := *c
	m.items[c.CodCompetencia] = &cp
	return nil
}

type mockResultadoRepo struct {
	items map[int64]*model.ResultadoAprendizaje
}

func (m *mockResultadoRepo) GetByID(_ context.Context, cod int64) (*model.ResultadoAprendizaje, error) {
	if r, ok := m.items[cod]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockResultadoRepo) ListByCompetencia(_ context.Context, codCompetencia int64) ([]model.ResultadoAprendizaje, error) {
	var all []model.ResultadoAprendizaje
	for _, r := range m.items {
		if r.CodCompetencia == codCompetencia {
			all = append(all, *r)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CodResultado < all[j].CodResultado })
	return all, nil
}

func (m *mockResultadoRepo) Upsert(_ context.Context, res *model.ResultadoAprendizaje) error {
	cp := *res
	m.items[res.CodResultado] = &cp
	return nil
}

type progCompKey struct {
	programa    int
	competencia int64
}

type mockProgramaCompetenciaRepo struct {
	links map[progCompKey]bool
}

func (m *mockProgramaCompetenciaRepo) Link(_ context.Context, codPrograma int, codCompetencia int64) (bool, error) {
	key := progCompKey{codPrograma, codCompetencia}
	if m.links[key] {
		return false, nil
	}
	m.links[key] = true
	return true, nil
}

// ── Programacion ──

type mockProgramacionRepo struct {
	items        map[int]*model.Programacion
	nextID       int
	locks        int
	usuarios     *mockUsuarioRepo
	competencias *mockCompetenciaRepo
	// createErr 非空时 Create 返回该错误
	createErr error
}

func (m *mockProgramacionRepo) Create(_ context.Context, p *model.Programacion) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	p.IDProgramacion = m.nextID
	cp := *p
	m.items[p.IDProgramacion] = &cp
	return nil
}

func (m *mockProgramacionRepo) GetByID(_ context.Context, id int) (*model.Programacion, error) {
	if p, ok := m.items[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgramacionRepo) detalle(p *model.Programacion) repository.ProgramacionDetalle {
	d := repository.ProgramacionDetalle{Programacion: *p}
	if u, ok := m.usuarios.users[p.IDInstructor]; ok {
		d.NombreInstructor = strPtr(u.NombreCompleto)
	}
	if c, ok := m.competencias.items[p.CodCompetencia]; ok {
		d.NombreCompetencia = strPtr(c.Nombre)
	}
	return d
}

func (m *mockProgramacionRepo) GetDetalle(_ context.Context, id int) (*repository.ProgramacionDetalle, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	d := m.detalle(p)
	return &d, nil
}

func (m *mockProgramacionRepo) filter(keep func(p *model.Programacion) bool) []repository.ProgramacionDetalle {
	var out []repository.ProgramacionDetalle
	for _, p := range m.items {
		if keep(p) {
			out = append(out, m.detalle(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].FechaProgramada.Equal(out[j].FechaProgramada.Time) {
			return out[i].FechaProgramada.Before(out[j].FechaProgramada.Time)
		}
		return out[i].HoraInicio < out[j].HoraInicio
	})
	return out
}

func (m *mockProgramacionRepo) ListByFicha(_ context.Context, codFicha int) ([]repository.ProgramacionDetalle, error) {
	return m.filter(func(p *model.Programacion) bool { return p.CodFicha == codFicha }), nil
}

func (m *mockProgramacionRepo) ListByInstructor(_ context.Context, idInstructor int) ([]repository.ProgramacionDetalle, error) {
	return m.filter(func(p *model.Programacion) bool { return p.IDInstructor == idInstructor }), nil
}

func (m *mockProgramacionRepo) ListAll(_ context.Context, offset, limit int) ([]repository.ProgramacionDetalle, int64, error) {
	all := m.filter(func(*model.Programacion) bool { return true })
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockProgramacionRepo) Update(_ context.Context, id int, upd *repository.ProgramacionUpdate) (int64, error) {
	p, ok := m.items[id]
	if !ok {
		return 0, nil
	}
	if upd.IDInstructor != nil {
		p.IDInstructor = *upd.IDInstructor
	}
	if upd.CodFicha != nil {
		p.CodFicha = *upd.CodFicha
	}
	if upd.FechaProgramada != nil {
		p.FechaProgramada = *upd.FechaProgramada
	}
	if upd.HorasProgramadas != nil {
		p.HorasProgramadas = *upd.HorasProgramadas
	}
	if upd.HoraInicio != nil {
		p.HoraInicio = *upd.HoraInicio
	}
	if upd.HoraFin != nil {
		p.HoraFin = *upd.HoraFin
	}
	if upd.CodCompetencia != nil {
		p.CodCompetencia = *upd.CodCompetencia
	}
	if upd.CodResultado != nil {
		p.CodResultado = *upd.CodResultado
	}
	return 1, nil
}

func (m *mockProgramacionRepo) Delete(_ context.Context, id int) (int64, error) {
	if _, ok := m.items[id]; !ok {
		return 0, nil
	}
	delete(m.items, id)
	return 1, nil
}

func (m *mockProgramacionRepo) HasOverlap(_ context.Context, idInstructor int, fecha model.Date, inicio, fin model.Clock, excludeID *int) (bool, error) {
	for _, p := range m.items {
		if excludeID != nil && p.IDProgramacion == *excludeID {
			continue
		}
		if p.IDInstructor != idInstructor || !p.FechaProgramada.Equal(fecha.Time) {
			continue
		}
		if p.HoraInicio < fin && inicio < p.HoraFin {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockProgramacionRepo) LockInstructorDay(_ context.Context, _ int, _ model.Date) error {
	m.locks++
	return nil
}

// ── Notificacion ──

type mockNotificacionRepo struct {
	items  []model.Notificacion
	nextID int
}

func (m *mockNotificacionRepo) Create(_ context.Context, n *model.Notificacion) error {
	m.nextID++
	n.IDNotificacion = m.nextID
	if n.FechaCreacion.IsZero() {
		n.FechaCreacion = time.Now()
	}
	m.items = append(m.items, *n)
	return nil
}

func (m *mockNotificacionRepo) ListByUsuario(_ context.Context, idUsuario int) ([]model.Notificacion, error) {
	var out []model.Notificacion
	for i := len(m.items) - 1; i >= 0; i-- {
		if m.items[i].IDUsuario == idUsuario {
			out = append(out, m.items[i])
		}
	}
	return out, nil
}

func (m *mockNotificacionRepo) MarkRead(_ context.Context, id, idUsuario int) (int64, error) {
	for i := range m.items {
		if m.items[i].IDNotificacion == id && m.items[i].IDUsuario == idUsuario {
			m.items[i].Leida = true
			return 1, nil
		}
	}
	return 0, nil
}

// ── Festivo ──

type mockFestivoRepo struct {
	items map[string]model.Date
}

func (m *mockFestivoRepo) sorted() []model.Festivo {
	var all []model.Festivo
	for _, d := range m.items {
		all = append(all, model.Festivo{Fecha: d})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Fecha.Before(all[j].Fecha.Time) })
	return all
}

func (m *mockFestivoRepo) List(_ context.Context) ([]model.Festivo, error) { return m.sorted(), nil }

func (m *mockFestivoRepo) ListByYear(_ context.Context, year int) ([]model.Festivo, error) {
	var out []model.Festivo
	for _, f := range m.sorted() {
		if f.Fecha.Year() == year {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *mockFestivoRepo) Upsert(_ context.Context, f *model.Festivo) (bool, error) {
	key := f.Fecha.String()
	if _, ok := m.items[key]; ok {
		return false, nil
	}
	m.items[key] = f.Fecha
	return true, nil
}
