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

type ServiceRepository interface {
	CreateService(ctx context.Context, service models.Service) (models.Service, error)
	GetServiceByID(ctx context.Context, id primitive.ObjectID) (models.Service, error)
	GetAllServices(ctx context.Context, filter bson.M, limit, skip int64, sort bson.D) ([]models.Service, int64, error)
	SearchServices(ctx context.Context, query string) ([]models.Service, error)
	UpdateService(ctx context.Context, id primitive.ObjectID, input models.UpdateServiceInput) (models.Service, error)
	DeleteService(ctx context.Context, id primitive.ObjectID) error
	GetServiceStats(ctx context.Context) (models.ServiceStats, error)
}

type MongoServiceRepository struct {
	DB *mongo.Database
}

func NewServiceRepository(db *mongo.Database) ServiceRepository {
	return &MongoServiceRepository{DB: db}
}

// CreateService inserts the service and registers it on its category in one
// transaction so serviceIds/serviceCount never drift.
func (r *MongoServiceRepository) CreateService(ctx context.Context, service models.Service) (models.Service, error) {
	session, err := r.DB.Client().StartSession()
	if err != nil {
		return models.Service{}, fmt.Errorf("failed to start transaction: %v", err)
	}
	defer session.EndSession(ctx)

	callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
		categoryColl := r.DB.Collection("categories")
		count, err := categoryColl.CountDocuments(sessCtx, bson.M{"_id": service.CategoryID})
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, fmt.Errorf("category not found")
		}

		res, err := r.DB.Collection("services").InsertOne(sessCtx, service)
		if err != nil {
			return nil, err
		}
		service.ID = res.InsertedID.(primitive.ObjectID)

		update := bson.M{
			"$push": bson.M{"serviceIds": service.ID},
			"$inc":  bson.M{"serviceCount": 1},
			"$set":  bson.M{"updatedAt": time.Now()},
		}
		if _, err := categoryColl.UpdateOne(sessCtx, bson.M{"_id": service.CategoryID}, update); err != nil {
			return nil, err
		}
		return service, nil
	}

	result, err := session.WithTransaction(ctx, callback)
	if err != nil {
		return models.Service{}, err
	}
	return result.(models.Service), nil
}

func (r *MongoServiceRepository) GetServiceByID(ctx context.Context, id primitive.ObjectID) (models.Service, error) {
	var service models.Service
	if err := r.DB.Collection("services").FindOne(ctx, bson.M{"_id": id}).Decode(&service); err != nil {
		return models.Service{}, err
	}
	return service, nil
}

func (r *MongoServiceRepository) GetAllServices(ctx context.Context, filter bson.M, limit, skip int64, sort bson.D) ([]models.Service, int64, error) {
	collection := r.DB.Collection("services")
	if len(sort) == 0 {
		sort = bson.D{{Key: "createdAt", Value: -1}}
	}
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(sort)

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	services := []models.Service{}
	if err := cursor.All(ctx, &services); err != nil {
		return nil, 0, err
	}

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return services, total, nil
}

func (r *MongoServiceRepository) SearchServices(ctx context.Context, query string) ([]models.Service, error) {
	filter := bson.M{"$or": []bson.M{
		{"title": bson.M{"$regex": query, "$options": "i"}},
		{"description": bson.M{"$regex": query, "$options": "i"}},
	}}

	cursor, err := r.DB.Collection("services").Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	services := []models.Service{}
	if err := cursor.All(ctx, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// UpdateService applies the update and, when the category changed, moves the
// back-reference from the old category to the new one transactionally.
func (r *MongoServiceRepository) UpdateService(ctx context.Context, id primitive.ObjectID, input models.UpdateServiceInput) (models.Service, error) {
	session, err := r.DB.Client().StartSession()
	if err != nil {
		return models.Service{}, fmt.Errorf("failed to start transaction: %v", err)
	}
	defer session.EndSession(ctx)

	input.UpdatedAt = time.Now()

	callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
		serviceColl := r.DB.Collection("services")

		var existing models.Service
		if err := serviceColl.FindOne(sessCtx, bson.M{"_id": id}).Decode(&existing); err != nil {
			return nil, fmt.Errorf("service not found")
		}

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var updated models.Service
		if err := serviceColl.FindOneAndUpdate(sessCtx, bson.M{"_id": id}, bson.M{"$set": input}, opts).Decode(&updated); err != nil {
			return nil, err
		}

		if !input.CategoryID.IsZero() && input.CategoryID != existing.CategoryID {
			categoryColl := r.DB.Collection("categories")
			if _, err := categoryColl.UpdateOne(sessCtx, bson.M{"_id": existing.CategoryID}, bson.M{
				"$pull": bson.M{"serviceIds": id},
				"$inc":  bson.M{"serviceCount": -1},
			}); err != nil {
				return nil, err
			}
			if _, err := categoryColl.UpdateOne(sessCtx, bson.M{"_id": input.CategoryID}, bson.M{
				"$push": bson.M{"serviceIds": id},
				"$inc":  bson.M{"serviceCount": 1},
			}); err != nil {
				return nil, err
			}
		}
		return updated, nil
	}

	result, err := session.WithTransaction(ctx, callback)
	if err != nil {
		return models.Service{}, err
	}
	return result.(models.Service), nil
}

func (r *MongoServiceRepository) DeleteService(ctx context.Context, id primitive.ObjectID) error {
	session, err := r.DB.Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %v", err)
	}
	defer session.EndSession(ctx)

	callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
		var service models.Service
		serviceColl := r.DB.Collection("services")
		if err := serviceColl.FindOne(sessCtx, bson.M{"_id": id}).Decode(&service); err != nil {
			return nil, fmt.Errorf("service not found")
		}

		if _, err := serviceColl.DeleteOne(sessCtx, bson.M{"_id": id}); err != nil {
			return nil, err
		}

		_, err := r.DB.Collection("categories").UpdateOne(sessCtx, bson.M{"_id": service.CategoryID}, bson.M{
			"$pull": bson.M{"serviceIds": id},
			"$inc":  bson.M{"serviceCount": -1},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
		if err != nil {
			return nil, err
		}
		return nil, nil
	}

	_, err = session.WithTransaction(ctx, callback)
	return err
}

func (r *MongoServiceRepository) GetServiceStats(ctx context.Context) (models.ServiceStats, error) {
	collection := r.DB.Collection("services")

	total, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return models.ServiceStats{}, err
	}
	active, err := collection.CountDocuments(ctx, bson.M{"isActive": true})
	if err != nil {
		return models.ServiceStats{}, err
	}
	popular, err := collection.CountDocuments(ctx, bson.M{"popular": true})
	if err != nil {
		return models.ServiceStats{}, err
	}

	return models.ServiceStats{
		TotalServices:   int(total),
		ActiveServices:  int(active),
		PopularServices: int(popular),
	}, nil
}
