package repository

import (
	"context"

	"shopease-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, productID string) (*model.Product, error)
	List(ctx context.Context) ([]*model.Product, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Seed(ctx context.Context) error {
	products := []model.Product{
		{ID: "wireless-headphones", Name: "Wireless Headphones", Price: 149.99, Description: "Studio-grade wireless headphones with noise cancellation.", Image: "/images/headphones.webp", Category: "Electronics", Stock: 25},
		{ID: "smart-fitness-watch", Name: "Smart Fitness Watch", Price: 199.99, Description: "Track your health metrics with this advanced smartwatch.", Image: "/images/smartwatch.jpg", Category: "Electronics", Stock: 18},
		{ID: "mechanical-keyboard", Name: "Mechanical Keyboard", Price: 89.99, Description: "RGB backlit mechanical keyboard for gaming and productivity.", Image: "/images/mechanicalkeyboard.jpg", Category: "Electronics", Stock: 30},
		{ID: "bluetooth-speaker", Name: "Portable Bluetooth Speaker", Price: 79.99, Description: "Compact speaker with deep bass and long battery life.", Image: "/images/portablespeaker.jpg", Category: "Electronics", Stock: 22},
		{ID: "laptop-backpack", Name: "Laptop Backpack", Price: 49.99, Description: "Durable 15.6-inch laptop backpack.", Image: "/images/backpack.png", Category: "Accessories", Stock: 40},
		{ID: "leather-wallet", Name: "Leather Wallet", Price: 39.99, Description: "Premium handcrafted leather wallet.", Image: "/images/leatherwallet.jpg", Category: "Accessories", Stock: 35},
		{ID: "yoga-mat", Name: "Yoga Mat Premium", Price: 49.99, Description: "Non-slip yoga mat for your daily practice.", Image: "/images/yogamats.jpeg", Category: "Fitness", Stock: 28},
		{ID: "resistance-bands", Name: "Resistance Bands Set", Price: 29.99, Description: "5-level resistance bands for strength workouts.", Image: "/images/resistance bands.jpg", Category: "Fitness", Stock: 45},
		{ID: "aroma-diffuser", Name: "Aroma Diffuser", Price: 39.99, Description: "Relax with calming scents for better sleep.", Image: "/images/diffusers.jpg.webp", Category: "Lifestyle", Stock: 20},
		{ID: "travel-mug", Name: "Travel Mug", Price: 22.99, Description: "Insulated stainless steel mug for coffee lovers.", Image: "/images/mugs.jpg.webp", Category: "Lifestyle", Stock: 50},
		{ID: "organic-coffee", Name: "Organic Coffee Beans", Price: 24.99, Description: "Premium coffee beans from sustainable farms.", Image: "/images/coffee.webp", Category: "Food & Beverage", Stock: 60},
		{ID: "green-tea", Name: "Green Tea Pack", Price: 19.99, Description: "Organic green tea with antioxidants.", Image: "/images/greentea.jpg.avif", Category: "Food & Beverage", Stock: 55},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) List(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}
