package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a sellable item. Deactivation is a state transition
// (Activo true ⇄ false), never a hard delete — issued invoices keep
// referencing the row.
type Producto struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CodigoBarras string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"index;not null"`
	Descripcion  *string
	PrecioCosto  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecioVenta  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// ImpuestoID links the catalog tax rate applied at checkout
	ImpuestoID   *uuid.UUID `gorm:"type:uuid"`
	UnidadMedida string     `gorm:"not null;default:'unidad'"`
	Activo       bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Impuesto *Impuesto `gorm:"foreignKey:ImpuestoID"`
}
