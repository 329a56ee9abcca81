package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections bundles the handles the controllers work against. Built once
// at startup and injected; controllers never reach for package globals.
type Collections struct {
	Users          *mongo.Collection
	Blogs          *mongo.Collection
	Gyms           *mongo.Collection
	Parkings       *mongo.Collection
	ParkingReviews *mongo.Collection
	Properties     *mongo.Collection
	Wishlists      *mongo.Collection
}

func ConnectDB(uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, fmt.Errorf("MONGOURI not set in environment")
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("MongoDB ping failed: %v", err)
	}

	log.Println("Connected to MongoDB")
	return client, nil
}

func NewCollections(client *mongo.Client, dbName string) *Collections {
	db := client.Database(dbName)
	return &Collections{
		Users:          db.Collection("users"),
		Blogs:          db.Collection("blogs"),
		Gyms:           db.Collection("gyms"),
		Parkings:       db.Collection("parkings"),
		ParkingReviews: db.Collection("parkingreviews"),
		Properties:     db.Collection("properties"),
		Wishlists:      db.Collection("wishlists"),
	}
}

func CloseDBConnection(client *mongo.Client) {
	if err := client.Disconnect(context.TODO()); err != nil {
		log.Fatalf("Error closing database connection: %v", err)
	}
	log.Println("MongoDB connection closed")
}
