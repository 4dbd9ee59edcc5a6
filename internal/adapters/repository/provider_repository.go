package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/developia-II/servicehub-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProviderRepository interface {
	CreateProvider(ctx context.Context, provider models.Provider) (models.Provider, error)
	GetProviderByID(ctx context.Context, id primitive.ObjectID) (models.Provider, error)
	GetProviderByUserID(ctx context.Context, userID primitive.ObjectID) (models.Provider, error)
	GetAllProviders(ctx context.Context, filter bson.M, limit, skip int64) ([]models.Provider, int64, error)
	SearchProviders(ctx context.Context, query string) ([]models.Provider, error)
	UpdateProvider(ctx context.Context, id primitive.ObjectID, input models.UpdateProviderInput) (models.Provider, error)
	DeleteProvider(ctx context.Context, id primitive.ObjectID) error
	AddWitness(ctx context.Context, id primitive.ObjectID, witness models.Witness) (models.Provider, error)
	RemoveWitness(ctx context.Context, id primitive.ObjectID, witnessID string) (models.Provider, error)
	ApplyRating(ctx context.Context, id primitive.ObjectID, rating int) (models.Provider, error)
	AppendServiceRequest(ctx context.Context, id primitive.ObjectID, request models.ServiceRequest) error
	UpdateServiceRequestStatus(ctx context.Context, id primitive.ObjectID, requestID string, status models.RequestStatus) error
	GetProviderStats(ctx context.Context) (models.ProviderStats, error)
}

type MongoProviderRepository struct {
	DB *mongo.Database
}

func NewProviderRepository(db *mongo.Database) ProviderRepository {
	return &MongoProviderRepository{DB: db}
}

func (r *MongoProviderRepository) CreateProvider(ctx context.Context, provider models.Provider) (models.Provider, error) {
	collection := r.DB.Collection("providers")

	count, _ := collection.CountDocuments(ctx, bson.M{"userId": provider.UserID})
	if count > 0 {
		return models.Provider{}, fmt.Errorf("a provider profile already exists for this user")
	}

	if provider.ServiceIDs == nil {
		provider.ServiceIDs = []primitive.ObjectID{}
	}
	if provider.ServiceRequests == nil {
		provider.ServiceRequests = []models.ServiceRequest{}
	}

	res, err := collection.InsertOne(ctx, provider)
	if err != nil {
		return models.Provider{}, err
	}
	provider.ID = res.InsertedID.(primitive.ObjectID)
	return provider, nil
}

func (r *MongoProviderRepository) GetProviderByID(ctx context.Context, id primitive.ObjectID) (models.Provider, error) {
	var provider models.Provider
	if err := r.DB.Collection("providers").FindOne(ctx, bson.M{"_id": id}).Decode(&provider); err != nil {
		return models.Provider{}, err
	}
	return provider, nil
}

func (r *MongoProviderRepository) GetProviderByUserID(ctx context.Context, userID primitive.ObjectID) (models.Provider, error) {
	var provider models.Provider
	if err := r.DB.Collection("providers").FindOne(ctx, bson.M{"userId": userID}).Decode(&provider); err != nil {
		return models.Provider{}, err
	}
	return provider, nil
}

func (r *MongoProviderRepository) GetAllProviders(ctx context.Context, filter bson.M, limit, skip int64) ([]models.Provider, int64, error) {
	collection := r.DB.Collection("providers")
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.M{"createdAt": -1})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	providers := []models.Provider{}
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, 0, err
	}

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return providers, total, nil
}

func (r *MongoProviderRepository) SearchProviders(ctx context.Context, query string) ([]models.Provider, error) {
	filter := bson.M{"fullName": bson.M{"$regex": query, "$options": "i"}}

	cursor, err := r.DB.Collection("providers").Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	providers := []models.Provider{}
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, err
	}
	return providers, nil
}

func (r *MongoProviderRepository) UpdateProvider(ctx context.Context, id primitive.ObjectID, input models.UpdateProviderInput) (models.Provider, error) {
	input.UpdatedAt = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Provider
	err := r.DB.Collection("providers").
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": input}, opts).
		Decode(&updated)
	if err != nil {
		return models.Provider{}, err
	}
	return updated, nil
}

func (r *MongoProviderRepository) DeleteProvider(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.DB.Collection("providers").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("provider not found")
	}
	return nil
}

func (r *MongoProviderRepository) AddWitness(ctx context.Context, id primitive.ObjectID, witness models.Witness) (models.Provider, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Provider
	err := r.DB.Collection("providers").FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"witnesses": witness},
		"$set":  bson.M{"updatedAt": time.Now()},
	}, opts).Decode(&updated)
	if err != nil {
		return models.Provider{}, err
	}
	return updated, nil
}

// RemoveWitness rejects the removal when it would leave the provider with an
// empty witness list.
func (r *MongoProviderRepository) RemoveWitness(ctx context.Context, id primitive.ObjectID, witnessID string) (models.Provider, error) {
	collection := r.DB.Collection("providers")

	var provider models.Provider
	if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&provider); err != nil {
		return models.Provider{}, fmt.Errorf("provider not found")
	}

	found := false
	for _, w := range provider.Witnesses {
		if w.ID == witnessID {
			found = true
			break
		}
	}
	if !found {
		return models.Provider{}, fmt.Errorf("witness not found")
	}
	if len(provider.Witnesses) <= 1 {
		return models.Provider{}, fmt.Errorf("a provider must keep at least one witness on file")
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Provider
	err := collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"witnesses": bson.M{"id": witnessID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}, opts).Decode(&updated)
	if err != nil {
		return models.Provider{}, err
	}
	return updated, nil
}

// ApplyRating folds a new rating into the provider's running average.
func (r *MongoProviderRepository) ApplyRating(ctx context.Context, id primitive.ObjectID, rating int) (models.Provider, error) {
	collection := r.DB.Collection("providers")

	var provider models.Provider
	if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&provider); err != nil {
		return models.Provider{}, fmt.Errorf("provider not found")
	}

	newCount := provider.Rating.Count + 1
	newAverage := (provider.Rating.Average*float64(provider.Rating.Count) + float64(rating)) / float64(newCount)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Provider
	err := collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"rating.average": newAverage,
			"rating.count":   newCount,
			"updatedAt":      time.Now(),
		},
	}, opts).Decode(&updated)
	if err != nil {
		return models.Provider{}, err
	}
	return updated, nil
}

func (r *MongoProviderRepository) AppendServiceRequest(ctx context.Context, id primitive.ObjectID, request models.ServiceRequest) error {
	_, err := r.DB.Collection("providers").UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"serviceRequests": request},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	return err
}

func (r *MongoProviderRepository) UpdateServiceRequestStatus(ctx context.Context, id primitive.ObjectID, requestID string, status models.RequestStatus) error {
	filter := bson.M{"_id": id, "serviceRequests.id": requestID}
	update := bson.M{"$set": bson.M{
		"serviceRequests.$.status": status,
		"updatedAt":                time.Now(),
	}}
	_, err := r.DB.Collection("providers").UpdateOne(ctx, filter, update)
	return err
}

func (r *MongoProviderRepository) GetProviderStats(ctx context.Context) (models.ProviderStats, error) {
	collection := r.DB.Collection("providers")

	total, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return models.ProviderStats{}, err
	}
	verified, err := collection.CountDocuments(ctx, bson.M{"verification.verified": true})
	if err != nil {
		return models.ProviderStats{}, err
	}

	avgPipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": nil, "avg": bson.M{"$avg": "$rating.average"}}}},
	}
	cursor, err := collection.Aggregate(ctx, avgPipeline)
	if err != nil {
		return models.ProviderStats{}, err
	}
	defer cursor.Close(ctx)

	avgRating := 0.0
	if cursor.Next(ctx) {
		var row struct {
			Avg float64 `bson:"avg"`
		}
		if err := cursor.Decode(&row); err == nil {
			avgRating = row.Avg
		}
	}

	statusPipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$serviceRequests"}},
		{{Key: "$group", Value: bson.M{"_id": "$serviceRequests.status", "count": bson.M{"$sum": 1}}}},
	}
	statusCursor, err := collection.Aggregate(ctx, statusPipeline)
	if err != nil {
		return models.ProviderStats{}, err
	}
	defer statusCursor.Close(ctx)

	byStatus := map[string]int{}
	for statusCursor.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int    `bson:"count"`
		}
		if err := statusCursor.Decode(&row); err == nil {
			byStatus[row.ID] = row.Count
		}
	}

	return models.ProviderStats{
		TotalProviders:    int(total),
		VerifiedProviders: int(verified),
		AverageRating:     avgRating,
		RequestsByStatus:  byStatus,
	}, nil
}
