package service

import (
	"billing-checkout/internal/dto"
	"billing-checkout/internal/model"
	"billing-checkout/internal/repository"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, userID string, req *dto.PlaceOrderRequest) (*model.Order, error)
	GetOrder(ctx context.Context, userID string, orderID uint) (*dto.OrderResponse, error)
}

type orderServiceImpl struct {
	db                 *gorm.DB
	productRepo        repository.ProductRepository
	cartRepo           repository.CartRepository
	orderRepo          repository.OrderRepository
	recurringOrderRepo repository.RecurringOrderRepository
}

func NewOrderService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	recurringOrderRepo repository.RecurringOrderRepository,
) OrderService {
	return &orderServiceImpl{
		db:                 db,
		productRepo:        productRepo,
		cartRepo:           cartRepo,
		orderRepo:          orderRepo,
		recurringOrderRepo: recurringOrderRepo,
	}
}

// PlaceOrder turns the user's cart into a pending order. The cart itself is
// kept until the order is paid.
func (s *orderServiceImpl) PlaceOrder(ctx context.Context, userID string, req *dto.PlaceOrderRequest) (*model.Order, error) {
	switch req.Billing.PersonType {
	case model.PersonTypeIndividual, model.PersonTypeCompany:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPersonType, req.Billing.PersonType)
	}

	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	productIDs := make([]string, len(cart))
	for i, item := range cart {
		productIDs[i] = item.ProductID
	}
	products, err := s.productRepo.FindMany(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	productByID := make(map[string]*model.Product, len(products))
	for _, product := range products {
		productByID[product.ID] = product
	}

	order := &model.Order{
		Key:            uuid.NewString(),
		UserID:         userID,
		Status:         model.OrderStatusPending,
		Billing:        req.Billing,
		ShippingMethod: req.ShippingMethod,
		ShippingTotal:  req.ShippingTotal,
		DiscountTotal:  req.DiscountTotal,
	}

	total := decimal.Zero
	var subscriptionProducts []string
	for _, item := range cart {
		product, ok := productByID[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID)
		}
		if !validQuantity(item.Quantity) {
			return nil, ErrInvalidQuantity
		}

		total = total.Add(product.Price.Mul(decimal.NewFromInt32(item.Quantity)))
		order.Items = append(order.Items, &model.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
		if product.IsSubscription() {
			subscriptionProducts = append(subscriptionProducts, product.ID)
		}
	}
	order.Total = total.Add(req.ShippingTotal).Sub(req.DiscountTotal)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order in db: %w", err)
		}

		for _, productID := range subscriptionProducts {
			err := s.recurringOrderRepo.Create(ctx, tx, &model.RecurringOrder{
				OrderID:   order.ID,
				UserID:    userID,
				ProductID: productID,
				Status:    model.OrderStatusPending,
			})
			if err != nil {
				return fmt.Errorf("store recurring order in db: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, userID string, orderID uint) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("find order %d: %w", orderID, err)
	}
	if order.UserID != userID {
		return nil, ErrOrderNotOwned
	}

	meta, err := s.orderRepo.GetMeta(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order meta: %w", err)
	}
	notes, err := s.orderRepo.GetNotes(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order notes: %w", err)
	}

	return &dto.OrderResponse{
		Order: order,
		Meta:  meta,
		Notes: notes,
	}, nil
}
