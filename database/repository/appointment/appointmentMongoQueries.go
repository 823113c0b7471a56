package appointmentRepo

import (
	"context"
	"fmt"

	"nexusschedule/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// activeStatuses is the filter fragment for appointments that occupy a slot.
var activeStatuses = bson.M{"$in": bson.A{models.StatusPending, models.StatusConfirmed}}

func (repo *MongoAppointmentRepo) IsOccupied(ctx context.Context, providerID, date, timeLabel string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	count, err := repo.coll.CountDocuments(ctx, bson.M{
		"providerId": providerID,
		"date":       date,
		"time":       timeLabel,
		"status":     activeStatuses,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count occupants for %s %s %s: %w", providerID, date, timeLabel, err)
	}
	return count > 0, nil
}

func (repo *MongoAppointmentRepo) QueryOccupied(ctx context.Context, providerID, date string) ([]models.Occupant, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "time", Value: 1}}).
		SetProjection(bson.M{"time": 1, "id": 1})
	cursor, err := repo.coll.Find(ctx, bson.M{
		"providerId": providerID,
		"date":       date,
		"status":     activeStatuses,
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("query occupied slots for %s %s: %w", providerID, date, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID   string `bson:"id"`
		Time string `bson:"time"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode occupied slots: %w", err)
	}

	occupants := make([]models.Occupant, 0, len(rows))
	for _, r := range rows {
		occupants = append(occupants, models.Occupant{Time: r.Time, AppointmentID: r.ID})
	}
	return occupants, nil
}

func (repo *MongoAppointmentRepo) FindConfirmedOnDate(ctx context.Context, date string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := repo.coll.Find(ctx, bson.M{
		"date":   date,
		"status": models.StatusConfirmed,
	})
	if err != nil {
		return nil, fmt.Errorf("find confirmed appointments on %s: %w", date, err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("decode confirmed appointments: %w", err)
	}
	return appts, nil
}
