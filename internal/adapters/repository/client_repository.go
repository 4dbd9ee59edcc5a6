package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/developia-II/servicehub-backend/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ClientRepository interface {
	CreateClient(ctx context.Context, client models.Client) (models.Client, error)
	GetClientByID(ctx context.Context, id primitive.ObjectID) (models.Client, error)
	GetClientByUserID(ctx context.Context, userID primitive.ObjectID) (models.Client, error)
	GetAllClients(ctx context.Context, filter bson.M, limit, skip int64) ([]models.Client, int64, error)
	SearchClients(ctx context.Context, query string) ([]models.Client, error)
	UpdateClient(ctx context.Context, id primitive.ObjectID, input models.UpdateClientInput) (models.Client, error)
	DeleteClient(ctx context.Context, id primitive.ObjectID) error
	AddServiceRequest(ctx context.Context, id primitive.ObjectID, input models.AddServiceRequestInput) (models.Client, error)
	UpdateServiceRequestStatus(ctx context.Context, id primitive.ObjectID, requestID string, status models.RequestStatus) (models.Client, error)
	AddRating(ctx context.Context, id primitive.ObjectID, providerID primitive.ObjectID, input models.RateProviderInput) (models.Client, error)
	MarkRequestPaid(ctx context.Context, requestID, paymentID string) error
	GetClientStats(ctx context.Context) (models.ClientStats, error)
}

type MongoClientRepository struct {
	DB           *mongo.Database
	ProviderRepo ProviderRepository
}

func NewClientRepository(db *mongo.Database) ClientRepository {
	return &MongoClientRepository{DB: db, ProviderRepo: NewProviderRepository(db)}
}

func (r *MongoClientRepository) CreateClient(ctx context.Context, client models.Client) (models.Client, error) {
	collection := r.DB.Collection("clients")

	count, _ := collection.CountDocuments(ctx, bson.M{"userId": client.UserID})
	if count > 0 {
		return models.Client{}, fmt.Errorf("a client profile already exists for this user")
	}

	if client.ServiceRequests == nil {
		client.ServiceRequests = []models.ServiceRequest{}
	}
	if client.Ratings == nil {
		client.Ratings = []models.ClientRating{}
	}

	res, err := collection.InsertOne(ctx, client)
	if err != nil {
		return models.Client{}, err
	}
	client.ID = res.InsertedID.(primitive.ObjectID)
	return client, nil
}

func (r *MongoClientRepository) GetClientByID(ctx context.Context, id primitive.ObjectID) (models.Client, error) {
	var client models.Client
	if err := r.DB.Collection("clients").FindOne(ctx, bson.M{"_id": id}).Decode(&client); err != nil {
		return models.Client{}, err
	}
	return client, nil
}

func (r *MongoClientRepository) GetClientByUserID(ctx context.Context, userID primitive.ObjectID) (models.Client, error) {
	var client models.Client
	if err := r.DB.Collection("clients").FindOne(ctx, bson.M{"userId": userID}).Decode(&client); err != nil {
		return models.Client{}, err
	}
	return client, nil
}

func (r *MongoClientRepository) GetAllClients(ctx context.Context, filter bson.M, limit, skip int64) ([]models.Client, int64, error) {
	collection := r.DB.Collection("clients")
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.M{"createdAt": -1})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	clients := []models.Client{}
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, 0, err
	}

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

func (r *MongoClientRepository) SearchClients(ctx context.Context, query string) ([]models.Client, error) {
	filter := bson.M{"fullName": bson.M{"$regex": query, "$options": "i"}}

	cursor, err := r.DB.Collection("clients").Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	clients := []models.Client{}
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *MongoClientRepository) UpdateClient(ctx context.Context, id primitive.ObjectID, input models.UpdateClientInput) (models.Client, error) {
	input.UpdatedAt = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Client
	err := r.DB.Collection("clients").
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": input}, opts).
		Decode(&updated)
	if err != nil {
		return models.Client{}, err
	}
	return updated, nil
}

func (r *MongoClientRepository) DeleteClient(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.DB.Collection("clients").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("client not found")
	}
	return nil
}

// AddServiceRequest records the request on the client and mirrors it onto
// the provider's request list in one transaction.
func (r *MongoClientRepository) AddServiceRequest(ctx context.Context, id primitive.ObjectID, input models.AddServiceRequestInput) (models.Client, error) {
	session, err := r.DB.Client().StartSession()
	if err != nil {
		return models.Client{}, fmt.Errorf("failed to start transaction: %v", err)
	}
	defer session.EndSession(ctx)

	request := models.ServiceRequest{
		ID:         uuid.New().String(),
		ServiceID:  input.ServiceID,
		ProviderID: input.ProviderID,
		Status:     models.RequestStatusPending,
		Date:       input.Date,
		Notes:      input.Notes,
	}

	callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var updated models.Client
		err := r.DB.Collection("clients").FindOneAndUpdate(sessCtx, bson.M{"_id": id}, bson.M{
			"$push": bson.M{"serviceRequests": request},
			"$set":  bson.M{"updatedAt": time.Now()},
		}, opts).Decode(&updated)
		if err != nil {
			return nil, fmt.Errorf("client not found")
		}

		if err := r.ProviderRepo.AppendServiceRequest(sessCtx, input.ProviderID, request); err != nil {
			return nil, err
		}
		return updated, nil
	}

	result, err := session.WithTransaction(ctx, callback)
	if err != nil {
		return models.Client{}, err
	}
	return result.(models.Client), nil
}

func (r *MongoClientRepository) UpdateServiceRequestStatus(ctx context.Context, id primitive.ObjectID, requestID string, status models.RequestStatus) (models.Client, error) {
	session, err := r.DB.Client().StartSession()
	if err != nil {
		return models.Client{}, fmt.Errorf("failed to start transaction: %v", err)
	}
	defer session.EndSession(ctx)

	callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
		filter := bson.M{"_id": id, "serviceRequests.id": requestID}
		update := bson.M{"$set": bson.M{
			"serviceRequests.$.status": status,
			"updatedAt":                time.Now(),
		}}

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var updated models.Client
		if err := r.DB.Collection("clients").FindOneAndUpdate(sessCtx, filter, update, opts).Decode(&updated); err != nil {
			return nil, fmt.Errorf("service request not found")
		}

		// Mirror the status on the provider copy.
		var providerID primitive.ObjectID
		for _, req := range updated.ServiceRequests {
			if req.ID == requestID {
				providerID = req.ProviderID
				break
			}
		}
		if !providerID.IsZero() {
			if err := r.ProviderRepo.UpdateServiceRequestStatus(sessCtx, providerID, requestID, status); err != nil {
				return nil, err
			}
		}
		return updated, nil
	}

	result, err := session.WithTransaction(ctx, callback)
	if err != nil {
		return models.Client{}, err
	}
	return result.(models.Client), nil
}

// AddRating stores the rating on the client and folds it into the provider
// aggregate in one transaction.
func (r *MongoClientRepository) AddRating(ctx context.Context, id primitive.ObjectID, providerID primitive.ObjectID, input models.RateProviderInput) (models.Client, error) {
	session, err := r.DB.Client().StartSession()
	if err != nil {
		return models.Client{}, fmt.Errorf("failed to start transaction: %v", err)
	}
	defer session.EndSession(ctx)

	rating := models.ClientRating{
		ProviderID: providerID,
		Rating:     input.Rating,
		Comment:    input.Comment,
		CreatedAt:  time.Now(),
	}

	callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var updated models.Client
		err := r.DB.Collection("clients").FindOneAndUpdate(sessCtx, bson.M{"_id": id}, bson.M{
			"$push": bson.M{"ratings": rating},
			"$set":  bson.M{"updatedAt": time.Now()},
		}, opts).Decode(&updated)
		if err != nil {
			return nil, fmt.Errorf("client not found")
		}

		if _, err := r.ProviderRepo.ApplyRating(sessCtx, providerID, input.Rating); err != nil {
			return nil, err
		}
		return updated, nil
	}

	result, err := session.WithTransaction(ctx, callback)
	if err != nil {
		return models.Client{}, err
	}
	return result.(models.Client), nil
}

// MarkRequestPaid flips the payment fields on the embedded request. Called
// from the Stripe webhook, so it matches on the request id alone.
func (r *MongoClientRepository) MarkRequestPaid(ctx context.Context, requestID, paymentID string) error {
	filter := bson.M{"serviceRequests.id": requestID}
	update := bson.M{"$set": bson.M{
		"serviceRequests.$.paymentStatus": "paid",
		"serviceRequests.$.paymentId":     paymentID,
		"updatedAt":                       time.Now(),
	}}
	res, err := r.DB.Collection("clients").UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("service request not found")
	}
	return nil
}

func (r *MongoClientRepository) GetClientStats(ctx context.Context) (models.ClientStats, error) {
	collection := r.DB.Collection("clients")

	total, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return models.ClientStats{}, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$serviceRequests"}},
		{{Key: "$group", Value: bson.M{"_id": "$serviceRequests.status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return models.ClientStats{}, err
	}
	defer cursor.Close(ctx)

	byStatus := map[string]int{}
	totalRequests := 0
	for cursor.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int    `bson:"count"`
		}
		if err := cursor.Decode(&row); err == nil {
			byStatus[row.ID] = row.Count
			totalRequests += row.Count
		}
	}

	return models.ClientStats{
		TotalClients:     int(total),
		TotalRequests:    totalRequests,
		RequestsByStatus: byStatus,
	}, nil
}
