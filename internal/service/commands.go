package service

type CreateGenerationCommand struct {
	UserID        string
	StyleSlug     string
	RoomType      string
	TransformMode string
	ImageData     []byte
	ContentType   string
}

type DeductCreditsCommand struct {
	UserID       string
	GenerationID string
	Amount       int64
	Reason       string
}

type RefundCreditsCommand struct {
	UserID       string
	GenerationID string
	Amount       int64
	Reason       string
}

type TopUpCreditsCommand struct {
	UserID           string
	PaymentSessionID string
	Amount           int64
	Reason           string
}

type GetGenerationsQuery struct {
	UserID string
	Limit  int
	Offset int
}

type ReconcileGenerationCommand struct {
	GenerationID string `json:"generation_id"`
}
