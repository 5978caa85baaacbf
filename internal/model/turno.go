package model

import (
	"time"

	"github.com/google/uuid"
)

// Turno represents the lifecycle of a cash-register shift.
// Estado: "abierto" | "cerrado"
// At most one turno abierto per caja — enforced in TurnoService AND by a
// partial unique index (see infra.applySchemaPatches). The transition
// abierto → cerrado is terminal; a closed shift is never re-opened.
type Turno struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Caja      int       `gorm:"not null;index"`
	UsuarioID uuid.UUID `gorm:"type:uuid;not null"`
	Estado    string    `gorm:"type:varchar(20);not null;default:'abierto'"`
	OpenedAt  time.Time
	// ClosedAt stays nil while the shift is open
	ClosedAt *time.Time
}

// Abierto reports whether invoices may still be issued against this shift.
func (t *Turno) Abierto() bool { return t.Estado == TurnoAbierto }

const (
	TurnoAbierto = "abierto"
	TurnoCerrado = "cerrado"
)
