package service_test

// In-memory repositories shared by the venta, factura and cobranza tests.
// They mimic the Postgres behavior the services rely on: sort orders,
// saldo filters and the emitida-only aggregation in cobranza.

import (
	"context"
	"sort"
	"strings"
	"time"

	"edapos/internal/dto"
	"edapos/internal/model"
	"edapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── FacturaRepository ────────────────────────────────────────────────────────

type fakeFacturaRepo struct {
	facturas map[uuid.UUID]*model.Factura
	clientes map[uuid.UUID]*model.Cliente
	// failCreate injects an insert failure inside the checkout transaction
	failCreate error
}

func newFakeFacturaRepo() *fakeFacturaRepo {
	return &fakeFacturaRepo{
		facturas: make(map[uuid.UUID]*model.Factura),
		clientes: make(map[uuid.UUID]*model.Cliente),
	}
}

func (r *fakeFacturaRepo) CreateTx(_ *gorm.DB, f *model.Factura) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.CreatedAt = time.Now()
	cloned := *f
	r.facturas[f.ID] = &cloned
	return nil
}

func (r *fakeFacturaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Factura, error) {
	f, ok := r.facturas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return f, nil
}

func (r *fakeFacturaRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Factura, error) {
	return r.FindByID(context.Background(), id)
}

func (r *fakeFacturaRepo) Update(_ context.Context, f *model.Factura) error {
	r.facturas[f.ID] = f
	return nil
}

func (r *fakeFacturaRepo) UpdateTx(_ *gorm.DB, f *model.Factura) error {
	r.facturas[f.ID] = f
	return nil
}

func (r *fakeFacturaRepo) CreatePagoTx(_ *gorm.DB, p *model.FacturaPago) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	return nil
}

func (r *fakeFacturaRepo) List(_ context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error) {
	var out []model.Factura
	for _, f := range r.facturas {
		if filter.Estado != "" && filter.Estado != "all" && f.Estado != filter.Estado {
			continue
		}
		if filter.ClienteID != "" && (f.ClienteID == nil || f.ClienteID.String() != filter.ClienteID) {
			continue
		}
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r *fakeFacturaRepo) ListDeudores(_ context.Context, term string) ([]repository.DeudorRow, error) {
	grouped := make(map[uuid.UUID]*repository.DeudorRow)
	for _, f := range r.facturas {
		if f.Estado != model.FacturaEmitida || !f.SaldoPendiente.IsPositive() || f.ClienteID == nil {
			continue
		}
		cliente, ok := r.clientes[*f.ClienteID]
		if !ok {
			continue
		}
		if term != "" {
			matchNombre := strings.Contains(strings.ToLower(cliente.Nombre), strings.ToLower(term))
			matchRTN := cliente.RTN != nil && strings.Contains(*cliente.RTN, term)
			if !matchNombre && !matchRTN {
				continue
			}
		}
		row, ok := grouped[cliente.ID]
		if !ok {
			row = &repository.DeudorRow{ClienteID: cliente.ID, Nombre: cliente.Nombre, RTN: cliente.RTN}
			grouped[cliente.ID] = row
		}
		row.FacturasPendientes++
		row.SaldoTotal = row.SaldoTotal.Add(f.SaldoPendiente)
	}
	rows := make([]repository.DeudorRow, 0, len(grouped))
	for _, row := range grouped {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Nombre < rows[j].Nombre })
	return rows, nil
}

func (r *fakeFacturaRepo) ListPendientesPorCliente(_ context.Context, clienteID uuid.UUID) ([]model.Factura, error) {
	var out []model.Factura
	for _, f := range r.facturas {
		if f.ClienteID != nil && *f.ClienteID == clienteID &&
			f.Estado == model.FacturaEmitida && f.SaldoPendiente.IsPositive() {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].FechaVencimiento, out[j].FechaVencimiento
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		default:
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
	})
	return out, nil
}

func (r *fakeFacturaRepo) ListEntregasPendientes(_ context.Context, limit int) ([]model.Factura, error) {
	now := time.Now()
	var out []model.Factura
	for _, f := range r.facturas {
		if f.EmailEstado == model.EntregaPendiente && f.NextRetryAt != nil && !f.NextRetryAt.After(now) {
			out = append(out, *f)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *fakeFacturaRepo) DB() *gorm.DB { return nil }

var _ repository.FacturaRepository = (*fakeFacturaRepo)(nil)

// ── ClienteRepository ────────────────────────────────────────────────────────

type fakeClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newFakeClienteRepo() *fakeClienteRepo {
	return &fakeClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *fakeClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *fakeClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeClienteRepo) List(_ context.Context, term string, page, limit int) ([]model.Cliente, int64, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		if term != "" && !strings.Contains(strings.ToLower(c.Nombre), strings.ToLower(term)) {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *fakeClienteRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if c, ok := r.clientes[id]; ok {
		c.Activo = false
	}
	return nil
}

var _ repository.ClienteRepository = (*fakeClienteRepo)(nil)

// ── ProductoRepository ───────────────────────────────────────────────────────

type fakeProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newFakeProductoRepo() *fakeProductoRepo {
	return &fakeProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *fakeProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *fakeProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeProductoRepo) FindByCodigoBarras(_ context.Context, codigo string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.CodigoBarras == codigo {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductoRepo) List(_ context.Context, term string, page, limit int) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if term != "" && !strings.Contains(strings.ToLower(p.Nombre), strings.ToLower(term)) {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *fakeProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = false
	}
	return nil
}

func (r *fakeProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = true
	}
	return nil
}

var _ repository.ProductoRepository = (*fakeProductoRepo)(nil)

// ── VentaPendienteRepository ─────────────────────────────────────────────────

type fakeVentaPendienteRepo struct {
	ventas    map[uuid.UUID]*model.VentaPendiente
	productos *fakeProductoRepo
	seq       int
}

func newFakeVentaPendienteRepo(productos *fakeProductoRepo) *fakeVentaPendienteRepo {
	return &fakeVentaPendienteRepo{
		ventas:    make(map[uuid.UUID]*model.VentaPendiente),
		productos: productos,
	}
}

func (r *fakeVentaPendienteRepo) Create(_ context.Context, v *model.VentaPendiente) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	// Strictly increasing timestamps so FIFO ordering is deterministic
	r.seq++
	v.CreatedAt = time.Unix(int64(r.seq), 0)
	r.ventas[v.ID] = v
	return nil
}

func (r *fakeVentaPendienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.VentaPendiente, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	r.preload(v)
	return v, nil
}

func (r *fakeVentaPendienteRepo) ListByUsuario(_ context.Context, usuarioID uuid.UUID) ([]model.VentaPendiente, error) {
	var out []model.VentaPendiente
	for _, v := range r.ventas {
		if v.UsuarioID == usuarioID {
			r.preload(v)
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeVentaPendienteRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.ventas, id)
	return nil
}

func (r *fakeVentaPendienteRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.ventas, id)
	return nil
}

func (r *fakeVentaPendienteRepo) preload(v *model.VentaPendiente) {
	if r.productos == nil {
		return
	}
	for i := range v.Items {
		if p, ok := r.productos.productos[v.Items[i].ProductoID]; ok {
			v.Items[i].Producto = p
		}
	}
}

var _ repository.VentaPendienteRepository = (*fakeVentaPendienteRepo)(nil)
