package models

// LedgerState is the full persisted state of the fee ledger: the
// transaction log, per-user earnings snapshots and the platform revenue
// aggregate. It round-trips through the snapshot store as three JSON
// sections.
type LedgerState struct {
	Transactions []*TransactionRecord   `json:"transactions"`
	Earnings     map[uint]*UserEarnings `json:"earnings"`
	Revenue      *PlatformRevenue       `json:"revenue"`
}

// NewLedgerState returns an empty, fully allocated state.
func NewLedgerState() *LedgerState {
	return &LedgerState{
		Transactions: []*TransactionRecord{},
		Earnings:     make(map[uint]*UserEarnings),
		Revenue:      NewPlatformRevenue(),
	}
}
