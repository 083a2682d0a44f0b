package service

type CreateGenerationResponse struct {
	GenerationID string `json:"generation_id"`
	Status       string `json:"status"`
	Balance      int64  `json:"balance"`
}

type GetGenerationsResponse struct {
	Generations []GenerationView `json:"generations"`
	Total       int              `json:"total"`
}

type GenerationView struct {
	GenerationID  string  `json:"generation_id"`
	StyleSlug     string  `json:"style"`
	RoomType      string  `json:"room_type"`
	TransformMode string  `json:"transform_mode"`
	Status        string  `json:"status"`
	InputImageURL string  `json:"input_image_url"`
	OutputURL     *string `json:"output_url,omitempty"`
	FailureReason *string `json:"failure_reason,omitempty"`
	HDUnlocked    bool    `json:"hd_unlocked"`
	CreatedAt     string  `json:"created_at"`
}

type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}

type LedgerEntry struct {
	Amount       int64   `json:"amount"`
	TxType       string  `json:"tx_type"`
	GenerationID *string `json:"generation_id,omitempty"`
	Reason       string  `json:"reason,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type CheckoutResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

type UnlockStatusResponse struct {
	GenerationID string `json:"generation_id"`
	HDUnlocked   bool   `json:"hd_unlocked"`
}
