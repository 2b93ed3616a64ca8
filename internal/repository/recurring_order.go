package repository

import (
	"billing-checkout/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type RecurringOrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, recurring *model.RecurringOrder) error
	// LatestForOrder returns the most recent recurring order created by orderID.
	LatestForOrder(ctx context.Context, orderID uint) (*model.RecurringOrder, error)
}

type recurringOrderRepoImpl struct {
	db *gorm.DB
}

func NewRecurringOrderRepository(db *gorm.DB) RecurringOrderRepository {
	return &recurringOrderRepoImpl{
		db: db,
	}
}

func (r *recurringOrderRepoImpl) Create(ctx context.Context, tx *gorm.DB, recurring *model.RecurringOrder) error {
	return tx.WithContext(ctx).Create(recurring).Error
}

func (r *recurringOrderRepoImpl) LatestForOrder(ctx context.Context, orderID uint) (*model.RecurringOrder, error) {
	var recurring model.RecurringOrder
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id DESC").
		First(&recurring).
		Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &recurring, nil
}
