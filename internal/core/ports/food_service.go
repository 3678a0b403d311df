package ports

import (
	"context"

	"github.com/tastybite/food-ordering/internal/core/domain"
)

type FoodRepository interface {
	Create(ctx context.Context, item *domain.FoodItem) error
	List(ctx context.Context) ([]*domain.FoodItem, error)
	Delete(ctx context.Context, id string) (*domain.FoodItem, error)
}

// CreateFoodItemInput carries catalog entry fields plus its image.
type CreateFoodItemInput struct {
	Name        string
	Price       float64
	Description string
	Category    string
	Image       *Upload
}

type FoodService interface {
	List(ctx context.Context) ([]*domain.FoodItem, error)
	Create(ctx context.Context, input CreateFoodItemInput) (*domain.FoodItem, error)
	Delete(ctx context.Context, id string) (*domain.FoodItem, error)
}
