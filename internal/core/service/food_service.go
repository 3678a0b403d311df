package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/tastybite/food-ordering/internal/core/domain"
	"github.com/tastybite/food-ordering/internal/core/ports"
)

// FoodService implements catalog CRUD.
type FoodService struct {
	repo     ports.FoodRepository
	assets   ports.AssetStore
	sanitize *bluemonday.Policy
	logger   zerolog.Logger
}

func NewFoodService(repo ports.FoodRepository, assets ports.AssetStore, logger zerolog.Logger) *FoodService {
	return &FoodService{repo: repo, assets: assets, sanitize: bluemonday.StrictPolicy(), logger: logger}
}

func (s *FoodService) List(ctx context.Context) ([]*domain.FoodItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list food items: %w", err)
	}
	if items == nil {
		items = []*domain.FoodItem{}
	}
	return items, nil
}

// Create stores the image and then the catalog entry; the image is removed
// again if the entry cannot be stored.
func (s *FoodService) Create(ctx context.Context, in ports.CreateFoodItemInput) (*domain.FoodItem, error) {
	item := &domain.FoodItem{
		Name:        s.clean(in.Name),
		Price:       in.Price,
		Description: s.clean(in.Description),
		Category:    s.clean(in.Category),
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	if item.Name == "" || item.Description == "" || item.Category == "" {
		return nil, fmt.Errorf("%w: name, description and category are required", domain.ErrValidation)
	}
	if item.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be greater than 0", domain.ErrValidation)
	}
	if in.Image == nil {
		return nil, fmt.Errorf("%w: image is required", domain.ErrValidation)
	}

	path, err := s.assets.Save(ctx, in.Image.Filename, in.Image.Content)
	if err != nil {
		return nil, fmt.Errorf("create food item: store image: %w", err)
	}
	item.Image = path

	if err := s.repo.Create(ctx, item); err != nil {
		if delErr := s.assets.Delete(ctx, path); delErr != nil {
			s.logger.Warn().Err(delErr).Str("path", path).Msg("failed to remove orphaned food image")
		}
		return nil, fmt.Errorf("create food item: %w", err)
	}

	s.logger.Info().Str("food_item_id", item.ID).Str("category", item.Category).Msg("food item created")
	return item, nil
}

// Delete removes a catalog entry; its image is removed best-effort.
func (s *FoodService) Delete(ctx context.Context, id string) (*domain.FoodItem, error) {
	item, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete food item: %w", err)
	}
	if item.Image != "" {
		if err := s.assets.Delete(ctx, item.Image); err != nil {
			s.logger.Warn().Err(err).Str("path", item.Image).Msg("failed to remove food image")
		}
	}
	return item, nil
}

// clean strips markup; entities escaped by the policy are decoded again since
// values are served as JSON, not HTML.
func (s *FoodService) clean(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitize.Sanitize(v)))
}
