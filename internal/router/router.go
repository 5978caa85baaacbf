package router

import (
	"time"

	"edapos/internal/config"
	"edapos/internal/handler"
	"edapos/internal/infra"
	"edapos/internal/middleware"
	"edapos/internal/repository"
	"edapos/internal/service"
	"edapos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	catalogoRepo := repository.NewCatalogoRepository(db)
	caiRepo := repository.NewCAIRepository(db)
	turnoRepo := repository.NewTurnoRepository(db)
	ventaPendienteRepo := repository.NewVentaPendienteRepository(db)
	facturaRepo := repository.NewFacturaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	clienteSvc := service.NewClienteService(clienteRepo)
	productoSvc := service.NewProductoService(productoRepo, rdb)
	catalogoSvc := service.NewCatalogoService(catalogoRepo)
	correlativoSvc := service.NewCorrelativoService(caiRepo)
	turnoSvc := service.NewTurnoService(turnoRepo)
	facturaSvc := service.NewFacturaService(facturaRepo)
	cobranzaSvc := service.NewCobranzaService(facturaRepo, clienteRepo)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	ventaPendienteSvc := service.NewVentaPendienteService(
		ventaPendienteRepo, facturaRepo, productoRepo, clienteRepo,
		correlativoSvc, turnoSvc, dispatcher,
	)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	catalogoH := handler.NewCatalogoHandler(catalogoSvc)
	caiH := handler.NewCAIHandler(correlativoSvc)
	turnosH := handler.NewTurnosHandler(turnoSvc)
	ventasH := handler.NewVentasPendientesHandler(ventaPendienteSvc)
	facturasH := handler.NewFacturasHandler(facturaSvc)
	cobranzaH := handler.NewCobranzaHandler(cobranzaSvc)
	consultaH := handler.NewConsultaPreciosHandler(productoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required, used by the floor price-checker kiosk
	r.GET("/v1/precio/:codigo", consultaH.ConsultarPrecio)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cajero, supervisor, administrador — declared per-endpoint
		turnos := v1.Group("/turnos")
		{
			turnos.POST("", middleware.RequireRole("cajero", "supervisor", "administrador"), turnosH.Abrir)
			turnos.GET("/activo", middleware.RequireRole("cajero", "supervisor", "administrador"), turnosH.Activo)
			turnos.GET("/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), turnosH.Obtener)
			turnos.POST("/:id/cerrar", middleware.RequireRole("cajero", "supervisor", "administrador"), turnosH.Cerrar)
			turnos.GET("", middleware.RequireRole("supervisor", "administrador"), turnosH.Historial)
			turnos.DELETE("/:id", middleware.RequireRole("administrador"), turnosH.Eliminar)
		}

		ventas := v1.Group("/ventas-pendientes", middleware.RequireRole("cajero", "supervisor", "administrador"))
		{
			ventas.POST("", ventasH.Crear)
			ventas.GET("", ventasH.Listar)
			ventas.GET("/:id", ventasH.Obtener)
			ventas.POST("/:id/finalizar", ventasH.Finalizar)
			ventas.DELETE("/:id", ventasH.Eliminar)
		}

		facturas := v1.Group("/facturas")
		{
			facturas.GET("", middleware.RequireRole("cajero", "supervisor", "administrador"), facturasH.Listar)
			facturas.GET("/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), facturasH.Obtener)
			facturas.GET("/:id/pdf", middleware.RequireRole("cajero", "supervisor", "administrador"), facturasH.DescargarPDF)
			facturas.POST("/:id/imprimir", middleware.RequireRole("cajero", "supervisor", "administrador"), facturasH.MarcarImpresa)
			facturas.POST("/:id/abonos", middleware.RequireRole("cajero", "supervisor", "administrador"), facturasH.RegistrarAbono)
			facturas.DELETE("/:id", middleware.RequireRole("supervisor", "administrador"), facturasH.Anular)
		}

		cobranza := v1.Group("/cobranza", middleware.RequireRole("cajero", "supervisor", "administrador"))
		{
			cobranza.GET("/deudores", cobranzaH.Deudores)
			cobranza.GET("/clientes/:cliente_id/facturas", cobranzaH.FacturasPendientes)
		}

		// Clientes — all authenticated roles can read and register walk-ins
		clientes := v1.Group("/clientes")
		{
			clientes.GET("", middleware.RequireRole("cajero", "supervisor", "administrador"), clientesH.Listar)
			clientes.GET("/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), clientesH.Obtener)
			clientes.POST("", middleware.RequireRole("cajero", "supervisor", "administrador"), clientesH.Crear)
			clientes.PUT("/:id", middleware.RequireRole("supervisor", "administrador"), clientesH.Actualizar)
			clientes.DELETE("/:id", middleware.RequireRole("administrador"), clientesH.Desactivar)
		}

		// Productos — reads for everyone, writes administrador only
		v1.GET("/productos", middleware.RequireRole("cajero", "supervisor", "administrador"), productosH.Listar)
		v1.GET("/productos/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), productosH.Obtener)
		prods := v1.Group("/productos", middleware.RequireRole("administrador"))
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
		}

		// CAI — fiscal authorization ranges, administrador only
		cai := v1.Group("/cai", middleware.RequireRole("administrador"))
		{
			cai.POST("", caiH.Crear)
			cai.GET("", caiH.Listar)
			cai.GET("/:id", caiH.Obtener)
			cai.POST("/:id/desactivar", caiH.Desactivar)
			cai.DELETE("/:id", caiH.Eliminar)
		}

		catalogo := v1.Group("/catalogo", middleware.RequireRole("administrador"))
		{
			catalogo.POST("/impuestos", catalogoH.CrearImpuesto)
			catalogo.GET("/impuestos", catalogoH.ListarImpuestos)
			catalogo.DELETE("/impuestos/:id", catalogoH.DesactivarImpuesto)
			catalogo.POST("/descuentos", catalogoH.CrearDescuento)
			catalogo.GET("/descuentos", catalogoH.ListarDescuentos)
			catalogo.DELETE("/descuentos/:id", catalogoH.DesactivarDescuento)
			catalogo.POST("/tipos-pago", catalogoH.CrearTipoPago)
			catalogo.GET("/tipos-pago", catalogoH.ListarTiposPago)
			catalogo.DELETE("/tipos-pago/:id", catalogoH.DesactivarTipoPago)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.DELETE("/:id", authH.DesactivarUsuario)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
