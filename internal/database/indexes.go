package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	_, err := indexes.CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	log.Println("EnsureUserIndexes: email_unique index created")
	return nil
}

func EnsureParcelIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("parcels").Indexes()

	parcelIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "customerEmail", Value: 1}},
			Options: options.Index().SetName("customerEmail_index"),
		},
		{
			Keys:    bson.D{{Key: "agentEmail", Value: 1}},
			Options: options.Index().SetName("agentEmail_index"),
		},
		{
			Keys: bson.D{{Key: "barcode", Value: 1}},
			Options: options.Index().
				SetName("barcode_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"barcode": bson.M{
						"$exists": true,
					},
				}),
		},
	}

	log.Println("EnsureParcelIndexes: creating parcel indexes")
	_, err := indexes.CreateMany(ctx, parcelIndexes)
	if err != nil {
		log.Println("EnsureParcelIndexes: parcel index error:", err)
		return err
	}
	log.Println("EnsureParcelIndexes: parcel indexes created")
	return nil
}
