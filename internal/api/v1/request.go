package v1

type CreateGenerationRequest struct {
	Style         string `form:"style"`
	RoomType      string `form:"room_type"`
	TransformMode string `form:"transform_mode"`
}

type BuyCreditsRequest struct {
	Package string `json:"package"`
}
