package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de factura. The fiscal number is assigned exactly once (at emission)
// and survives anulación — numbers are never erased or reused.
const (
	FacturaBorrador = "borrador"
	FacturaEmitida  = "emitida"
	FacturaAnulada  = "anulada"
)

// Estados de entrega por correo (retry_cron re-attempts "pendiente").
const (
	EntregaNoAplica  = "no_aplica"
	EntregaPendiente = "pendiente"
	EntregaEnviada   = "enviada"
	EntregaError     = "error"
)

// Factura is a fiscal invoice issued against a CAI block during an open turno.
// SaldoPendiente is the unpaid portion: 0 ≤ saldo ≤ Total, and once the invoice
// is emitida it only ever decreases (abonos) — never increases.
type Factura struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// NumeroFiscal is immutable after assignment from the CAI block
	NumeroFiscal int64     `gorm:"not null;uniqueIndex:idx_facturas_cai_numero"`
	CAIID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_facturas_cai_numero;column:cai_id"`
	TurnoID      uuid.UUID `gorm:"type:uuid;not null;index"`
	// ClienteID is nil for cash sales (consumidor final)
	ClienteID *uuid.UUID `gorm:"type:uuid;index"`
	UsuarioID uuid.UUID  `gorm:"type:uuid;not null"`
	Estado    string     `gorm:"type:varchar(20);not null;default:'borrador'"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DescuentoTotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ImpuestoTotal  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SaldoPendiente decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// FechaVencimiento drives the cobranza aging order; nil for cash sales
	FechaVencimiento *time.Time

	// Print state — ContadorImpresiones increments on EVERY mark-printed call
	Impresa             bool `gorm:"not null;default:false"`
	ImpresaAt           *time.Time
	ContadorImpresiones int `gorm:"not null;default:0"`

	// PDF / email delivery — used by the worker chain and retry_cron
	PDFPath      *string `gorm:"column:pdf_path"`
	ClienteEmail *string
	EmailEstado  string `gorm:"type:varchar(20);not null;default:'no_aplica'"`
	RetryCount   int    `gorm:"not null;default:0"`
	NextRetryAt  *time.Time
	LastError    *string

	CreatedAt time.Time
	UpdatedAt time.Time

	Items   []FacturaItem `gorm:"foreignKey:FacturaID"`
	Pagos   []FacturaPago `gorm:"foreignKey:FacturaID"`
	Cliente *Cliente      `gorm:"foreignKey:ClienteID"`
}

// FacturaItem is an immutable line of an issued invoice.
type FacturaItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FacturaID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// FacturaPago records money applied against an invoice — either at checkout or
// as a later abono. Payments are never modified or deleted.
type FacturaPago struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FacturaID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	TipoPagoID *uuid.UUID      `gorm:"type:uuid"`
	Metodo     string          `gorm:"type:varchar(20);not null"`
	Monto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time
}
