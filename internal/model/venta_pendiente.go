package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VentaPendiente is an in-progress cart owned by one cashier session.
// It exists only between cart-start and checkout-or-abandon: Finalizar converts
// it into a Factura and deletes it (same transaction); Eliminar abandons it.
type VentaPendiente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID uuid.UUID `gorm:"type:uuid;not null;index"`
	// ClienteID preselects the customer for credit sales; nil = consumidor final
	ClienteID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time

	Items []VentaPendienteItem `gorm:"foreignKey:VentaPendienteID;constraint:OnDelete:CASCADE"`
}

type VentaPendienteItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaPendienteID uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoID       uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad         int             `gorm:"not null"`
	PrecioUnitario   decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}
