package model

import (
	"time"

	"github.com/google/uuid"
)

// CAI stores a tax-authority-issued correlative block (Clave de Autorización
// de Impresión). Each factura draws its número fiscal from exactly one block.
// Invariant: RangoInicial ≤ CorrelativoActual ≤ RangoFinal+1.
// CorrelativoActual = RangoFinal+1 means the block is exhausted.
type CAI struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// Codigo is the SAR authorization code printed verbatim on every invoice
	Codigo string `gorm:"type:varchar(40);uniqueIndex;not null"`
	// Caja ties the block to a register / punto de emisión
	Caja              int   `gorm:"not null;index"`
	RangoInicial      int64 `gorm:"not null"`
	CorrelativoActual int64 `gorm:"not null"`
	RangoFinal        int64 `gorm:"not null"`
	Activo            bool  `gorm:"not null;default:true"`
	// FechaLimite: emission deadline authorized by SAR — no numbers after this date
	FechaLimite time.Time `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Agotado reports whether the block has no remaining numbers.
func (c *CAI) Agotado() bool { return c.CorrelativoActual > c.RangoFinal }

// Vencido reports whether the emission deadline has passed.
func (c *CAI) Vencido(now time.Time) bool { return now.After(c.FechaLimite) }

// SinUso reports whether the block never issued a number (deletable).
func (c *CAI) SinUso() bool { return c.CorrelativoActual == c.RangoInicial }

// Restantes returns how many numbers are still available.
func (c *CAI) Restantes() int64 {
	if c.Agotado() {
		return 0
	}
	return c.RangoFinal - c.CorrelativoActual + 1
}
