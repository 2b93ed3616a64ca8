package service

import (
	"billing-checkout/internal/model"
	"billing-checkout/internal/repository"
	"context"
	"fmt"
)

// MaxItemQuantity caps the units of a single product in a cart or order.
const MaxItemQuantity int32 = 999

func validQuantity(quantity int32) bool {
	return quantity > 0 && quantity <= MaxItemQuantity
}

type CartService interface {
	ListProducts(ctx context.Context) ([]*model.Product, error)
	AddItem(ctx context.Context, userID, productID string, quantity int32) error
	GetCart(ctx context.Context, userID string) ([]*model.CartItem, error)
}

type cartServiceImpl struct {
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
}

func NewCartService(
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
) CartService {
	return &cartServiceImpl{
		productRepo: productRepo,
		cartRepo:    cartRepo,
	}
}

func (s *cartServiceImpl) ListProducts(ctx context.Context) ([]*model.Product, error) {
	return s.productRepo.List(ctx)
}

func (s *cartServiceImpl) AddItem(ctx context.Context, userID, productID string, quantity int32) error {
	if !validQuantity(quantity) {
		return ErrInvalidQuantity
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return fmt.Errorf("find product %s: %w", productID, err)
	}

	items, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("get cart: %w", err)
	}
	for _, item := range items {
		if item.ProductID == productID && !validQuantity(item.Quantity+quantity) {
			return ErrInvalidQuantity
		}
	}

	return s.cartRepo.Upsert(ctx, &model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	})
}

func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) ([]*model.CartItem, error) {
	return s.cartRepo.Get(ctx, userID)
}
