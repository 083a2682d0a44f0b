package model

import "time"

type GenerationStatus string

const (
	GenerationStatusPending    GenerationStatus = "PENDING"
	GenerationStatusProcessing GenerationStatus = "PROCESSING"
	GenerationStatusCompleted  GenerationStatus = "COMPLETED"
	GenerationStatusFailed     GenerationStatus = "FAILED"
)

// Terminal reports whether the status admits no further transitions.
func (s GenerationStatus) Terminal() bool {
	return s == GenerationStatusCompleted || s == GenerationStatusFailed
}

type Generation struct {
	ID                 string           `gorm:"primaryKey;type:char(36);column:id;<-:create"`
	UserID             string           `gorm:"column:user_id;index"`
	StyleSlug          string           `gorm:"column:style_slug"`
	RoomType           string           `gorm:"column:room_type"`
	TransformMode      string           `gorm:"column:transform_mode"`
	InputImageURL      string           `gorm:"column:input_image_url"`
	OutputImageURL     *string          `gorm:"column:output_image_url"`
	Status             GenerationStatus `gorm:"column:status"`
	ProviderJobID      *string          `gorm:"column:provider_job_id;uniqueIndex"`
	FailureReason      *string          `gorm:"column:failure_reason;type:text"`
	HDUnlocked         bool             `gorm:"column:hd_unlocked;default:false"`
	PaymentSessionID   *string          `gorm:"column:payment_session_id"`
	ReconcileQueuedAt  *time.Time       `gorm:"column:reconcile_queued_at"`
	CreatedAt          time.Time        `gorm:"column:created_at"`
	UpdatedAt          time.Time        `gorm:"column:updated_at"`
}
