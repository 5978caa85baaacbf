package infra

import (
	"fmt"

	"edapos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates/updates the schema. Also used by integration tests
// against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Cliente{},
		&model.Impuesto{},
		&model.Descuento{},
		&model.TipoPago{},
		&model.Producto{},
		&model.CAI{},
		&model.Turno{},
		&model.VentaPendiente{},
		&model.VentaPendienteItem{},
		&model.Factura{},
		&model.FacturaItem{},
		&model.FacturaPago{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement uses IF NOT EXISTS semantics so re-running is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// One open shift per register, enforced at the DB level. The service
		// check alone loses the race between two terminals.
		{"partial unique idx turnos abiertos", `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_turnos_caja_abierto
		    ON turnos (caja)
		    WHERE estado = 'abierto'`},
		// retry_cron scans only invoices with a pending email delivery
		{"partial idx facturas entregas pendientes", `
		CREATE INDEX IF NOT EXISTS idx_facturas_email_retry
		    ON facturas (next_retry_at)
		    WHERE email_estado = 'pendiente' AND next_retry_at IS NOT NULL`},
		// cobranza aggregates emitted invoices with outstanding saldo
		{"partial idx facturas con saldo", `
		CREATE INDEX IF NOT EXISTS idx_facturas_saldo_pendiente
		    ON facturas (cliente_id)
		    WHERE estado = 'emitida' AND saldo_pendiente > 0`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
