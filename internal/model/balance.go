package model

// BalanceResponse represents response for GET /qcc/balance
type BalanceResponse struct {
	Address   string `json:"address"`
	Balance   string `json:"balance"`   // QCC, 6 decimals
	BaseUnits string `json:"baseUnits"` // 10^-18 QCC
}
