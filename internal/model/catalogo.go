package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reference data: no invariants beyond existence and the Activo flag.

// Impuesto is a named tax rate (e.g. ISV 15%).
type Impuesto struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string          `gorm:"uniqueIndex;not null"`
	Tasa      decimal.Decimal `gorm:"type:decimal(5,4);not null"` // 0.15 = 15%
	Activo    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Descuento is a named discount applicable at checkout.
type Descuento struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string    `gorm:"uniqueIndex;not null"`
	// Porcentaje, 0.10 = 10% off
	Porcentaje decimal.Decimal `gorm:"type:decimal(5,4);not null"`
	Activo     bool            `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TipoPago is an accepted payment method (efectivo, tarjeta, transferencia…).
type TipoPago struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
