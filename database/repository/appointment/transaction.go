package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"nexusschedule/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Reschedule moves an appointment to a new slot inside a single transaction:
// the occupancy check and the write share one session so a concurrent booking
// of the target slot cannot interleave. The partial unique index backstops
// the same invariant at the storage layer.
func (repo *MongoAppointmentRepo) Reschedule(
	ctx context.Context,
	id, newDate, newTime string,
	entry models.NegotiationLogEntry,
) (*models.Appointment, error) {
	client := repo.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	var updated models.Appointment

	txnFn := func(sc mongo.SessionContext) error {
		var current models.Appointment
		if err := repo.coll.FindOne(sc, bson.M{"id": id}).Decode(&current); err != nil {
			if err == mongo.ErrNoDocuments {
				return ErrNotFound
			}
			return fmt.Errorf("load appointment: %w", err)
		}

		count, err := repo.coll.CountDocuments(sc, bson.M{
			"providerId": current.ProviderID,
			"date":       newDate,
			"time":       newTime,
			"status":     activeStatuses,
			"id":         bson.M{"$ne": id},
		})
		if err != nil {
			return fmt.Errorf("occupancy check: %w", err)
		}
		if count > 0 {
			return ErrSlotTaken
		}

		update := bson.M{
			"$set": bson.M{
				"date":         newDate,
				"time":         newTime,
				"status":       models.StatusPending,
				"aiNegotiated": true,
				"updatedAt":    time.Now(),
			},
			"$push": bson.M{"negotiationLog": entry},
		}
		if _, err := repo.coll.UpdateOne(sc, bson.M{"id": id}, update); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrSlotTaken
			}
			return fmt.Errorf("apply reschedule: %w", err)
		}

		if err := repo.coll.FindOne(sc, bson.M{"id": id}).Decode(&updated); err != nil {
			return fmt.Errorf("reload appointment: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if err == ErrNotFound || err == ErrSlotTaken {
			return nil, err
		}
		return nil, fmt.Errorf("reschedule transaction failed: %w", err)
	}

	return &updated, nil
}
