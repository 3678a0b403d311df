package domain

import (
	"errors"
	"time"
)

var ErrFoodItemNotFound = errors.New("food item not found")

// FoodItem is a catalog entry.
type FoodItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}
