package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tastybite/food-ordering/internal/core/domain"
)

const collectionFoodItems = "food_items"

type FoodRepository struct {
	col *mongo.Collection
}

func NewFoodRepository(db *mongo.Database) *FoodRepository {
	return &FoodRepository{col: db.Collection(collectionFoodItems)}
}

type foodDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Image       string             `bson:"image"`
	Price       float64            `bson:"price"`
	Description string             `bson:"description"`
	Category    string             `bson:"category"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d foodDoc) toDomain() *domain.FoodItem {
	return &domain.FoodItem{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Image:       d.Image,
		Price:       d.Price,
		Description: d.Description,
		Category:    d.Category,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

func (r *FoodRepository) Create(ctx context.Context, item *domain.FoodItem) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := foodDoc{
		ID:          primitive.NewObjectID(),
		Name:        item.Name,
		Image:       item.Image,
		Price:       item.Price,
		Description: item.Description,
		Category:    item.Category,
		CreatedAt:   item.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert food item: %w", err)
	}
	item.ID = doc.ID.Hex()
	return nil
}

func (r *FoodRepository) List(ctx context.Context) ([]*domain.FoodItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list food items: %w", err)
	}
	defer cur.Close(ctx)

	var docs []foodDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode food items: %w", err)
	}

	items := make([]*domain.FoodItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toDomain())
	}
	return items, nil
}

func (r *FoodRepository) Delete(ctx context.Context, id string) (*domain.FoodItem, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrFoodItemNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc foodDoc
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrFoodItemNotFound
		}
		return nil, fmt.Errorf("delete food item: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *FoodRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}}},
	})
	return err
}
