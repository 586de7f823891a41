package service

import (
	"context"
	"errors"
	"fmt"

	"shopease-backend/internal/model"
	"shopease-backend/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrOutOfStock        = errors.New("product is out of stock")
	ErrInsufficientStock = errors.New("not enough items in stock")
	ErrLineNotFound      = errors.New("item not found in cart")
	ErrQuantityTooLow    = errors.New("quantity must be at least 1")
)

type CartService interface {
	Get(ctx context.Context, sessionID string) (*model.Cart, error)
	Add(ctx context.Context, sessionID, productID string) (*model.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, productID string, change int) (*model.CartLine, error)
	Remove(ctx context.Context, sessionID, productID string) (*model.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type cartServiceImpl struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartServiceImpl{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartServiceImpl) Get(ctx context.Context, sessionID string) (*model.Cart, error) {
	cart, err := s.cartRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if cart == nil {
		cart = &model.Cart{SessionID: sessionID}
	}
	return cart, nil
}

// Add puts one unit of the product into the session cart. Stock is re-read
// from the catalog, not trusted from the cached snapshot.
func (s *cartServiceImpl) Add(ctx context.Context, sessionID, productID string) (*model.Cart, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Stock <= 0 {
		return nil, ErrOutOfStock
	}

	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if line := findLine(cart, productID); line != nil {
		if line.Quantity >= product.Stock {
			return nil, fmt.Errorf("%w: only %d available", ErrInsufficientStock, product.Stock)
		}
		line.Quantity++
		line.Stock = product.Stock
	} else {
		cart.Lines = append(cart.Lines, model.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.Image,
			Stock:     product.Stock,
			Quantity:  1,
		})
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}

func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, sessionID, productID string, change int) (*model.CartLine, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	line := findLine(cart, productID)
	if line == nil {
		return nil, ErrLineNotFound
	}

	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	newQuantity := line.Quantity + change
	if newQuantity < 1 {
		return nil, ErrQuantityTooLow
	}
	if newQuantity > product.Stock {
		return nil, fmt.Errorf("%w: only %d available", ErrInsufficientStock, product.Stock)
	}

	line.Quantity = newQuantity
	line.Stock = product.Stock

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return line, nil
}

func (s *cartServiceImpl) Remove(ctx context.Context, sessionID, productID string) (*model.Cart, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	kept := cart.Lines[:0]
	for _, line := range cart.Lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	cart.Lines = kept

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}

func (s *cartServiceImpl) Clear(ctx context.Context, sessionID string) error {
	return s.cartRepo.Delete(ctx, sessionID)
}

func (s *cartServiceImpl) findProduct(ctx context.Context, productID string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("load product: %w", err)
	}
	return product, nil
}

func findLine(cart *model.Cart, productID string) *model.CartLine {
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			return &cart.Lines[i]
		}
	}
	return nil
}
