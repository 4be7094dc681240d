package dto

// ErrorResponse carries an actionable message. MaxUsable is set when a wallet
// amount exceeds what may be used; Spendable and Required when there are not
// enough loyalty points.
type ErrorResponse struct {
	Error     string `json:"error"`
	MaxUsable string `json:"max_usable,omitempty"`
	Spendable *int64 `json:"spendable,omitempty"`
	Required  *int64 `json:"required,omitempty"`
}
