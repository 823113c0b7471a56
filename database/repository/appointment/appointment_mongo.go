package appointmentRepo

import (
	"nexusschedule/database"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoAppointmentRepo is the production AppointmentRepository.
type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo returns a repository over the appointments
// collection and ensures its indexes.
func NewMongoAppointmentRepo() *MongoAppointmentRepo {
	repo := &MongoAppointmentRepo{
		coll: database.Collection("appointments"),
	}
	repo.ensureIndexes()
	return repo
}
