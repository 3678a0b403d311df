package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tastybite/food-ordering/internal/core/domain"
	"github.com/tastybite/food-ordering/internal/core/ports"
)

const collectionOrderEvents = "order_events"

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	db *mongo.Database
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) ports.EventRepository {
	return &EventRepository{db: db}
}

// InsertEvent persists an order event to the audit collection.
func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.OrderEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"order_id":     event.OrderID,
		"action":       string(event.Action),
		"timestamp":    event.Timestamp.UTC(),
		"processed_at": time.Now().UTC(),
	}
	if event.FromStatus != "" {
		doc["from_status"] = string(event.FromStatus)
	}
	if event.ToStatus != "" {
		doc["to_status"] = string(event.ToStatus)
	}
	if event.PurchaserEmail != "" {
		doc["purchaser_email"] = event.PurchaserEmail
	}

	_, err := r.db.Collection(collectionOrderEvents).InsertOne(ctx, doc)
	return err
}
