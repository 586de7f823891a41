package repository

import (
	"context"
	"errors"
	"strings"

	"shopease-backend/internal/model"

	"gorm.io/gorm"
)

// ErrDuplicateOrder reports that an order already exists for the session id.
// The unique index on orders.session_id is what makes the webhook's
// check-then-insert safe under concurrent delivery.
var ErrDuplicateOrder = errors.New("order already exists for session")

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindBySessionID(ctx context.Context, sessionID string) (*model.Order, error)
	FindByID(ctx context.Context, id uint) (*model.Order, error)
	List(ctx context.Context) ([]*model.Order, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, order *model.Order) error {
	err := r.db.WithContext(ctx).Create(order).Error
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateOrder
		}
		return err
	}
	return nil
}

func (r *orderRepoImpl) FindBySessionID(ctx context.Context, sessionID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("session_id = ?", sessionID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) List(ctx context.Context) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}
