package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a registered customer. Cash sales do not require one; credit
// sales (saldo pendiente > 0) always do.
type Cliente struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string    `gorm:"index;not null"`
	// RTN is Honduras' tax registry number — printed on fiscal invoices
	RTN       *string `gorm:"type:varchar(20);index"`
	Email     *string
	Telefono  *string
	Direccion *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
