package repository

import (
	"context"
	"errors"
	"time"

	"github.com/roomvista/decor-services/visualizer/internal/model"
	"gorm.io/gorm"
)

var ErrGenerationNotFound = errors.New("GENERATION_NOT_FOUND")
var ErrNoRowsAffected = errors.New("NO_ROWS_AFFECTED")

type GenerationRepository interface {
	Create(ctx context.Context, generation *model.Generation) error
	Update(ctx context.Context, generation *model.Generation) error
	GetByID(id string) (*model.Generation, error)
	GetByProviderJobID(jobID string) (*model.Generation, error)
	GetByPaymentSessionID(sessionID string) (*model.Generation, error)
	GetByUserID(userID string, limit, offset int) ([]model.Generation, error)
	CountByUserID(userID string) (int, error)
	FinalizeStatus(ctx context.Context, generation *model.Generation) error
	SetPaymentSession(ctx context.Context, id, sessionID string) error
	UnlockHD(ctx context.Context, id, sessionID string) error
	FindStaleProcessing(olderThan time.Time, requeueBefore time.Time, limit int) ([]model.Generation, error)
	MarkReconcileQueued(ctx context.Context, id string) error
}

type Generation struct {
	db *gorm.DB
}

func NewGenerationRepository(db *gorm.DB) GenerationRepository {
	return &Generation{db: db}
}

func (g *Generation) Create(ctx context.Context, generation *model.Generation) error {
	db := GetTx(ctx, g.db)
	return db.Create(generation).Error
}

func (g *Generation) Update(ctx context.Context, generation *model.Generation) error {
	db := GetTx(ctx, g.db)
	return db.Model(generation).Where("id = ?", generation.ID).Updates(generation).Error
}

func (g *Generation) GetByID(id string) (*model.Generation, error) {
	var generation model.Generation

	err := g.db.Where("id = ?", id).First(&generation).Error
	if err == nil {
		return &generation, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGenerationNotFound
	}

	return nil, err
}

func (g *Generation) GetByProviderJobID(jobID string) (*model.Generation, error) {
	var generation model.Generation

	err := g.db.Where("provider_job_id = ?", jobID).First(&generation).Error
	if err == nil {
		return &generation, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGenerationNotFound
	}

	return nil, err
}

func (g *Generation) GetByPaymentSessionID(sessionID string) (*model.Generation, error) {
	var generation model.Generation

	err := g.db.Where("payment_session_id = ?", sessionID).First(&generation).Error
	if err == nil {
		return &generation, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGenerationNotFound
	}

	return nil, err
}

func (g *Generation) GetByUserID(userID string, limit, offset int) ([]model.Generation, error) {
	var generations []model.Generation

	err := g.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&generations).Error
	if err != nil {
		return nil, err
	}

	return generations, nil
}

func (g *Generation) CountByUserID(userID string) (int, error) {
	var count int64

	err := g.db.Model(&model.Generation{}).
		Where("user_id = ?", userID).
		Count(&count).Error

	if err != nil {
		return 0, err
	}

	return int(count), nil
}

// FinalizeStatus writes a terminal status only while the persisted row is
// still non-terminal. Racing callers observe RowsAffected == 0 and must
// treat the row as already finalized by the winner.
func (g *Generation) FinalizeStatus(ctx context.Context, generation *model.Generation) error {
	db := GetTx(ctx, g.db)
	result := db.Model(generation).Where("id = ? AND status IN (?, ?)",
		generation.ID,
		model.GenerationStatusPending,
		model.GenerationStatusProcessing).Updates(generation)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

func (g *Generation) SetPaymentSession(ctx context.Context, id, sessionID string) error {
	db := GetTx(ctx, g.db)
	result := db.Model(&model.Generation{}).
		Where("id = ? AND hd_unlocked = ?", id, false).
		Updates(map[string]interface{}{"payment_session_id": sessionID, "updated_at": time.Now()})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

// UnlockHD flips hd_unlocked exactly once; a replayed webhook or a second
// confirm call finds hd_unlocked already set and gets ErrNoRowsAffected.
func (g *Generation) UnlockHD(ctx context.Context, id, sessionID string) error {
	db := GetTx(ctx, g.db)
	result := db.Model(&model.Generation{}).
		Where("id = ? AND hd_unlocked = ?", id, false).
		Updates(map[string]interface{}{
			"hd_unlocked":        true,
			"payment_session_id": sessionID,
			"updated_at":         time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

func (g *Generation) FindStaleProcessing(olderThan time.Time, requeueBefore time.Time, limit int) ([]model.Generation, error) {
	var generations []model.Generation

	err := g.db.Where("status = ? AND updated_at < ? AND (reconcile_queued_at IS NULL OR reconcile_queued_at < ?)",
		model.GenerationStatusProcessing, olderThan, requeueBefore).
		Order("updated_at ASC").
		Limit(limit).
		Find(&generations).Error
	if err != nil {
		return nil, err
	}

	return generations, nil
}

func (g *Generation) MarkReconcileQueued(ctx context.Context, id string) error {
	db := GetTx(ctx, g.db)
	now := time.Now()
	return db.Model(&model.Generation{}).
		Where("id = ?", id).
		Update("reconcile_queued_at", now).Error
}
