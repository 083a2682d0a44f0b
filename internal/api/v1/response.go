package v1

type CatalogResponse struct {
	Styles         []string          `json:"styles"`
	RoomTypes      []string          `json:"room_types"`
	TransformModes []string          `json:"transform_modes"`
	Packages       []PackageResponse `json:"packages"`
}

type PackageResponse struct {
	Slug    string `json:"slug"`
	Credits int64  `json:"credits"`
}

type CreditsResponse struct {
	Balance int64 `json:"balance"`
}

type CreditHistoryResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

type TransactionResponse struct {
	Amount       int64   `json:"amount"`
	TxType       string  `json:"tx_type"`
	GenerationID *string `json:"generation_id,omitempty"`
	Reason       string  `json:"reason,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type AuditResponse struct {
	LedgerSum  int64 `json:"ledger_sum"`
	Cached     int64 `json:"cached_balance"`
	Consistent bool  `json:"consistent"`
}
