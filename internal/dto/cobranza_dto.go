package dto

import "github.com/shopspring/decimal"

// ─── Response DTOs ───────────────────────────────────────────────────────────

// DeudorResponse is one row of the collections report: a customer with at
// least one emitida invoice carrying saldo pendiente > 0.
type DeudorResponse struct {
	ClienteID          string          `json:"cliente_id"`
	Nombre             string          `json:"nombre"`
	RTN                *string         `json:"rtn"`
	FacturasPendientes int64           `json:"facturas_pendientes"`
	SaldoTotal         decimal.Decimal `json:"saldo_total"`
}

// FacturaPendienteResponse is one unpaid invoice in aging order.
type FacturaPendienteResponse struct {
	FacturaID        string          `json:"factura_id"`
	NumeroFiscal     int64           `json:"numero_fiscal"`
	Total            decimal.Decimal `json:"total"`
	SaldoPendiente   decimal.Decimal `json:"saldo_pendiente"`
	FechaVencimiento *string         `json:"fecha_vencimiento"`
	EmitidaAt        string          `json:"emitida_at"`
	Vencida          bool            `json:"vencida"`
}
