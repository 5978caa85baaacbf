package service

import (
	"context"
	"encoding/json"
	"time"

	"edapos/internal/domainerr"
	"edapos/internal/dto"
	"edapos/internal/model"
	"edapos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// precioCacheTTL keeps the price-check endpoint fast on the barcode scanner
// hot path. Writes invalidate the key, so staleness is bounded by failures.
const precioCacheTTL = 5 * time.Minute

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	ConsultarPrecio(ctx context.Context, codigoBarras string) (*dto.PrecioResponse, error)
	Listar(ctx context.Context, term string, page, limit int) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo repository.ProductoRepository
	rdb  *redis.Client
}

func NewProductoService(repo repository.ProductoRepository, rdb *redis.Client) ProductoService {
	return &productoService{repo: repo, rdb: rdb}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	producto := &model.Producto{
		CodigoBarras: req.CodigoBarras,
		Nombre:       req.Nombre,
		Descripcion:  req.Descripcion,
		PrecioCosto:  req.PrecioCosto,
		PrecioVenta:  req.PrecioVenta,
		UnidadMedida: req.UnidadMedida,
		Activo:       true,
	}
	if producto.UnidadMedida == "" {
		producto.UnidadMedida = "unidad"
	}
	if req.ImpuestoID != nil {
		iid, err := uuid.Parse(*req.ImpuestoID)
		if err != nil {
			return nil, domainerr.NotFound("impuesto no encontrado")
		}
		producto.ImpuestoID = &iid
	}
	if err := s.repo.Create(ctx, producto); err != nil {
		return nil, err
	}
	return productoToResponse(producto), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domainerr.NotFound("producto no encontrado")
	}
	return productoToResponse(producto), nil
}

// ── ConsultarPrecio ───────────────────────────────────────────────────────────
// Cache-aside over Redis. A cache failure degrades to a DB read, never to an
// error for the terminal.

func (s *productoService) ConsultarPrecio(ctx context.Context, codigoBarras string) (*dto.PrecioResponse, error) {
	key := "precio:" + codigoBarras

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp dto.PrecioResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	producto, err := s.repo.FindByCodigoBarras(ctx, codigoBarras)
	if err != nil {
		return nil, domainerr.NotFound("producto no encontrado")
	}

	resp := &dto.PrecioResponse{
		CodigoBarras: producto.CodigoBarras,
		Nombre:       producto.Nombre,
		PrecioVenta:  producto.PrecioVenta,
	}
	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, key, data, precioCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("codigo", codigoBarras).Msg("no se pudo cachear el precio")
			}
		}
	}
	return resp, nil
}

func (s *productoService) Listar(ctx context.Context, term string, page, limit int) (*dto.ProductoListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	productos, total, err := s.repo.List(ctx, term, page, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		items = append(items, *productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domainerr.NotFound("producto no encontrado")
	}
	if req.Nombre != "" {
		producto.Nombre = req.Nombre
	}
	if req.Descripcion != nil {
		producto.Descripcion = req.Descripcion
	}
	if !req.PrecioCosto.IsZero() {
		producto.PrecioCosto = req.PrecioCosto
	}
	if !req.PrecioVenta.IsZero() {
		producto.PrecioVenta = req.PrecioVenta
	}
	if req.ImpuestoID != nil {
		iid, err := uuid.Parse(*req.ImpuestoID)
		if err != nil {
			return nil, domainerr.NotFound("impuesto no encontrado")
		}
		producto.ImpuestoID = &iid
	}
	if req.UnidadMedida != "" {
		producto.UnidadMedida = req.UnidadMedida
	}
	if err := s.repo.Update(ctx, producto); err != nil {
		return nil, err
	}
	s.invalidarPrecio(ctx, producto.CodigoBarras)
	return productoToResponse(producto), nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domainerr.NotFound("producto no encontrado")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidarPrecio(ctx, producto.CodigoBarras)
	return nil
}

func (s *productoService) invalidarPrecio(ctx context.Context, codigoBarras string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, "precio:"+codigoBarras).Err(); err != nil {
		log.Warn().Err(err).Str("codigo", codigoBarras).Msg("no se pudo invalidar el cache de precio")
	}
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:           p.ID.String(),
		CodigoBarras: p.CodigoBarras,
		Nombre:       p.Nombre,
		Descripcion:  p.Descripcion,
		PrecioCosto:  p.PrecioCosto,
		PrecioVenta:  p.PrecioVenta,
		UnidadMedida: p.UnidadMedida,
		Activo:       p.Activo,
	}
	if p.Impuesto != nil {
		resp.Impuesto = &p.Impuesto.Nombre
	}
	return resp
}
