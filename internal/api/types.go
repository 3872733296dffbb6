package api

// CreateAgreementRequest is the body of POST /api/agreements. Amounts are in
// octas, the penalty rate in basis points per day.
type CreateAgreementRequest struct {
	TotalAmount       uint64 `json:"total_amount"`
	NumInstallments   uint64 `json:"num_installments"`
	InstallmentAmount uint64 `json:"installment_amount"`
	IntervalDays      uint64 `json:"interval_days"`
	PenaltyRate       uint64 `json:"penalty_rate"`
	GracePeriodDays   uint64 `json:"grace_period_days"`
}

// CreateAgreementResponse reports a submitted create_agreement transaction.
// AgreementID is the best-effort inferred id of the new agreement; null means
// "unknown", not an error.
type CreateAgreementResponse struct {
	Success         bool    `json:"success"`
	TransactionHash string  `json:"transaction_hash"`
	Message         string  `json:"message"`
	AgreementID     *uint64 `json:"agreement_id"`
}

// PayResponse reports a submitted pay_next_installment transaction.
type PayResponse struct {
	Success         bool   `json:"success"`
	TransactionHash string `json:"transaction_hash"`
	Message         string `json:"message"`
}

// AgreementSummary describes one agreement. Only the id is populated today;
// the remaining fields await per-agreement resource parsing.
type AgreementSummary struct {
	ID                uint64 `json:"id"`
	Payer             string `json:"payer"`
	InstallmentAmount uint64 `json:"installment_amount"`
	TotalInstallments uint64 `json:"total_installments"`
	PaidInstallments  uint64 `json:"paid_installments"`
	StartTimeSecs     uint64 `json:"start_time_secs"`
	IntervalSecs      uint64 `json:"interval_secs"`
	PenaltyBps        uint64 `json:"penalty_bps"`
	GracePeriodSecs   uint64 `json:"grace_period_secs"`
	TotalPaid         uint64 `json:"total_paid"`
}

// NextIDResponse carries the Store counter; the newest agreement id is
// next_id - 1.
type NextIDResponse struct {
	NextID uint64 `json:"next_id"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every failure response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
