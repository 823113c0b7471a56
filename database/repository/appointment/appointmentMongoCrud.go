package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"nexusschedule/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const opTimeout = 5 * time.Second

func (repo *MongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, appt); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// The partial unique index rejected the (providerId, date, time)
			// triple: an active appointment already holds the slot.
			return ErrSlotTaken
		}
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (repo *MongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var appt models.Appointment
	err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find appointment %s: %w", id, err)
	}
	return &appt, nil
}

func (repo *MongoAppointmentRepo) Query(ctx context.Context, q models.AppointmentQuery) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{}
	if q.ClientID != "" {
		filter["clientId"] = q.ClientID
	}
	if q.ProviderID != "" {
		filter["providerId"] = q.ProviderID
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Date != "" {
		filter["date"] = q.Date
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}
	return appts, nil
}

func (repo *MongoAppointmentRepo) UpdateStatus(
	ctx context.Context,
	id string,
	from, to models.AppointmentStatus,
	reason string,
	entry models.NegotiationLogEntry,
) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	set := bson.M{
		"status":    to,
		"updatedAt": time.Now(),
	}
	if reason != "" {
		set["cancellationReason"] = reason
	}
	update := bson.M{
		"$set":  set,
		"$push": bson.M{"negotiationLog": entry},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Appointment
	err := repo.coll.FindOneAndUpdate(ctx, bson.M{"id": id, "status": from}, update, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		// Distinguish a missing record from a lost status race.
		if _, getErr := repo.GetByID(ctx, id); getErr == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, ErrStaleStatus
	}
	if err != nil {
		return nil, fmt.Errorf("update appointment %s status: %w", id, err)
	}
	return &updated, nil
}

func (repo *MongoAppointmentRepo) AppendLog(ctx context.Context, id string, entry models.NegotiationLogEntry) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := repo.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$push": bson.M{"negotiationLog": entry}},
	)
	if err != nil {
		return fmt.Errorf("append negotiation log for %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
