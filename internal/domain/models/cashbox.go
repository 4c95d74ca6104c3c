package models

// Cashbox entry kinds.
const (
	CashboxIncome  = "income"
	CashboxExpense = "expense"
)

// CashboxEntry is one movement of the operator's cash box. Entries reference the
// reservation or package that produced them via RefType/RefID.
type CashboxEntry struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"user_id"`
	Kind          string  `json:"kind"`
	Concept       string  `json:"concept"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	RefType       string  `json:"ref_type,omitempty"`
	RefID         int64   `json:"ref_id,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// CashboxCutoff snapshots the open window of a user's cash box.
type CashboxCutoff struct {
	ID           int64   `json:"id"`
	UserID       int64   `json:"user_id"`
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Balance      float64 `json:"balance"`
	EntryCount   int     `json:"entry_count"`
	CreatedAt    string  `json:"created_at"`
}
