package userRepo

import (
	"context"
	"fmt"
	"time"

	"nexusschedule/database"
	"nexusschedule/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const opTimeout = 5 * time.Second

// MongoUserRepo is the production UserRepository.
type MongoUserRepo struct {
	coll *mongo.Collection
}

func NewMongoUserRepo() *MongoUserRepo {
	return &MongoUserRepo{
		coll: database.Collection("users"),
	}
}

func (repo *MongoUserRepo) GetContact(ctx context.Context, id string) (*models.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var c models.Contact
	err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return &c, nil
}
