package appointmentRepo

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates the indexes the engine relies on. The partial unique
// index on (providerId, date, time) for active statuses is the authoritative
// double-booking guard: concurrent inserts race on it instead of on an
// application-level check.
func (repo *MongoAppointmentRepo) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("appointment_id_unique"),
		},
		{
			Keys: bson.D{
				{Key: "providerId", Value: 1},
				{Key: "date", Value: 1},
				{Key: "time", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("active_slot_unique").
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": bson.A{"pending", "confirmed"}},
				}),
		},
		{
			Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().
				SetName("client_date"),
		},
		{
			Keys: bson.D{{Key: "date", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().
				SetName("date_status"),
		},
	}

	if _, err := repo.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("appointmentRepo: failed to ensure indexes: %v", err)
	}
}
