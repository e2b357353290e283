package funding

import "time"

// DepositRequest captures the amount to deposit over Lightning.
type DepositRequest struct {
	Amount int64 `json:"amount"`
}

// DepositResponse returns the payable invoice and its quote correlation.
type DepositResponse struct {
	QuoteID   string    `json:"quote_id"`
	Invoice   string    `json:"invoice"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CheckRequest identifies the deposit to reconcile.
type CheckRequest struct {
	QuoteID string `json:"quote_id"`
}

// CheckResponse reports the reconciled deposit state.
type CheckResponse struct {
	Paid       bool   `json:"paid"`
	Expired    bool   `json:"expired"`
	Status     string `json:"status"`
	Amount     int64  `json:"amount,omitempty"`
	NewBalance int64  `json:"new_balance,omitempty"`
}

// WithdrawRequest captures the amount to withdraw as a bearer token.
type WithdrawRequest struct {
	Amount int64 `json:"amount"`
}

// WithdrawResponse returns the produced bearer token.
type WithdrawResponse struct {
	Success    bool   `json:"success"`
	Token      string `json:"token"`
	Amount     int64  `json:"amount"`
	NewBalance int64  `json:"new_balance"`
}

// RedeemRequest carries an opaque bearer token to credit.
type RedeemRequest struct {
	Token string `json:"token"`
}

// RedeemResponse reports the credited redemption.
type RedeemResponse struct {
	Success    bool  `json:"success"`
	Amount     int64 `json:"amount"`
	NewBalance int64 `json:"new_balance"`
}
