package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Run this script once to create database indexes
// Usage: go run scripts/create_indexes.go
func main() {
	_ = godotenv.Load()

	// Increase timeout for cloud connection (Atlas is slower than localhost)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("❌ MONGODB_URI is not set")
	}
	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "servicehub"
	}

	clientOptions := options.Client().ApplyURI(mongoURI).SetServerSelectionTimeout(30 * time.Second)

	log.Println("🔄 Connecting to MongoDB...")
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("❌ Failed to create client: %v", err)
	}
	defer client.Disconnect(ctx)

	// Verify connection works
	log.Println("🔄 Verifying connection...")
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v\nCheck your connection string and network access", err)
	}
	log.Println("✅ Connected to MongoDB successfully!")

	db := client.Database(dbName)

	createIndex := func(coll string, model mongo.IndexModel, label string) {
		_, err := db.Collection(coll).Indexes().CreateOne(ctx, model)
		if err != nil {
			log.Printf("Failed to create %s index: %v", label, err)
		} else {
			log.Printf("✅ Created index: %s on %s", label, coll)
		}
	}

	// ========================================
	// CATEGORIES COLLECTION INDEXES
	// ========================================

	// 1. Unique index on name: category names must not collide
	createIndex("categories", mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName("idx_category_name").SetUnique(true),
	}, "idx_category_name")

	// 2. Index on tags for tag filtering
	createIndex("categories", mongo.IndexModel{
		Keys:    bson.D{{Key: "tags", Value: 1}},
		Options: options.Index().SetName("idx_category_tags"),
	}, "idx_category_tags")

	// ========================================
	// SERVICES COLLECTION INDEXES
	// ========================================

	// 1. Index on categoryId for category listings and cascade deletes
	createIndex("services", mongo.IndexModel{
		Keys:    bson.D{{Key: "categoryId", Value: 1}},
		Options: options.Index().SetName("idx_service_categoryId"),
	}, "idx_service_categoryId")

	// 2. Compound index for the default catalog listing (newest first)
	createIndex("services", mongo.IndexModel{
		Keys: bson.D{
			{Key: "categoryId", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("idx_service_category_date"),
	}, "idx_service_category_date")

	// 3. Index on popular for the featured-services filter
	createIndex("services", mongo.IndexModel{
		Keys:    bson.D{{Key: "popular", Value: 1}},
		Options: options.Index().SetName("idx_service_popular"),
	}, "idx_service_popular")

	// 4. Text index for title/description search
	createIndex("services", mongo.IndexModel{
		Keys: bson.D{
			{Key: "title", Value: "text"},
			{Key: "description", Value: "text"},
		},
		Options: options.Index().SetName("idx_service_text"),
	}, "idx_service_text")

	// ========================================
	// PROVIDERS COLLECTION INDEXES
	// ========================================

	// 1. Unique index on userId: one provider profile per account
	createIndex("providers", mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetName("idx_provider_userId").SetUnique(true),
	}, "idx_provider_userId")

	// 2. Compound index for location queries
	createIndex("providers", mongo.IndexModel{
		Keys: bson.D{
			{Key: "location.region", Value: 1},
			{Key: "location.city", Value: 1},
		},
		Options: options.Index().SetName("idx_provider_location"),
	}, "idx_provider_location")

	// 3. Index on serviceIds for "who offers this service" lookups
	createIndex("providers", mongo.IndexModel{
		Keys:    bson.D{{Key: "serviceIds", Value: 1}},
		Options: options.Index().SetName("idx_provider_serviceIds"),
	}, "idx_provider_serviceIds")

	// 4. Index on rating.average for minRating filtering
	createIndex("providers", mongo.IndexModel{
		Keys:    bson.D{{Key: "rating.average", Value: -1}},
		Options: options.Index().SetName("idx_provider_rating"),
	}, "idx_provider_rating")

	// ========================================
	// CLIENTS COLLECTION INDEXES
	// ========================================

	// 1. Unique index on userId: one client profile per account
	createIndex("clients", mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetName("idx_client_userId").SetUnique(true),
	}, "idx_client_userId")

	// 2. Index on embedded request ids for webhook payment lookups
	createIndex("clients", mongo.IndexModel{
		Keys:    bson.D{{Key: "serviceRequests.id", Value: 1}},
		Options: options.Index().SetName("idx_client_requestId"),
	}, "idx_client_requestId")

	// ========================================
	// USERS COLLECTION INDEXES
	// ========================================

	// 1. Unique index on email for login lookups
	createIndex("users", mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("idx_user_email").SetUnique(true),
	}, "idx_user_email")

	log.Println("\n🎉 All indexes created successfully!")
	log.Println("Run 'db.services.getIndexes()' in the MongoDB shell to verify")
}
