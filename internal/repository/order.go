package repository

import (
	"billing-checkout/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	FindByID(ctx context.Context, orderID uint) (*model.Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status, note string) error
	AddMeta(ctx context.Context, orderID uint, key, value string) error
	GetMeta(ctx context.Context, orderID uint) ([]*model.OrderMeta, error)
	AddNote(ctx context.Context, orderID uint, note string) error
	GetNotes(ctx context.Context, orderID uint) ([]*model.OrderNote, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &order, nil
}

// UpdateStatus moves the order to status and records note next to it.
func (r *orderRepoImpl) UpdateStatus(ctx context.Context, orderID uint, status, note string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Order{}).
			Where("id = ?", orderID).
			Updates(map[string]interface{}{
				"status":     status,
				"updated_at": time.Now(),
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		if note == "" {
			return nil
		}
		return tx.Create(&model.OrderNote{OrderID: orderID, Note: note}).Error
	})
}

func (r *orderRepoImpl) AddMeta(ctx context.Context, orderID uint, key, value string) error {
	return r.db.WithContext(ctx).Create(&model.OrderMeta{
		OrderID: orderID,
		Key:     key,
		Value:   value,
	}).Error
}

func (r *orderRepoImpl) GetMeta(ctx context.Context, orderID uint) ([]*model.OrderMeta, error) {
	var meta []*model.OrderMeta
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id").
		Find(&meta).Error

	if err != nil {
		return nil, err
	}

	return meta, nil
}

func (r *orderRepoImpl) AddNote(ctx context.Context, orderID uint, note string) error {
	return r.db.WithContext(ctx).Create(&model.OrderNote{
		OrderID: orderID,
		Note:    note,
	}).Error
}

func (r *orderRepoImpl) GetNotes(ctx context.Context, orderID uint) ([]*model.OrderNote, error) {
	var notes []*model.OrderNote
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id").
		Find(&notes).Error

	if err != nil {
		return nil, err
	}

	return notes, nil
}
