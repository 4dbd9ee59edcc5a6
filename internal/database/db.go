package database

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect opens the MongoDB connection and returns the application database.
// Returns nil when the database is unreachable so the server can still boot
// with limited functionality.
func Connect() *mongo.Database {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "servicehub"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		logrus.Errorf("Failed to connect to MongoDB: %v", err)
		return nil
	}
	if err := client.Ping(ctx, nil); err != nil {
		logrus.Errorf("Failed to ping MongoDB: %v", err)
		return nil
	}

	logrus.Info("Connected to MongoDB successfully")
	return client.Database(dbName)
}
