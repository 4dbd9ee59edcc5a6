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

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category models.Category) (models.Category, error)
	GetCategoryByID(ctx context.Context, id primitive.ObjectID) (models.Category, error)
	GetCategoryWithServices(ctx context.Context, id primitive.ObjectID) (models.CategoryWithServices, error)
	GetAllCategories(ctx context.Context, filter bson.M, limit, skip int64) ([]models.Category, int64, error)
	UpdateCategory(ctx context.Context, id primitive.ObjectID, input models.UpdateCategoryInput) (models.Category, error)
	DeleteCategory(ctx context.Context, id primitive.ObjectID) (int64, error)
	GetCategoryStats(ctx context.Context) (models.CategoryStats, error)
}

type MongoCategoryRepository struct {
	DB *mongo.Database
}

func NewCategoryRepository(db *mongo.Database) CategoryRepository {
	return &MongoCategoryRepository{DB: db}
}

func (r *MongoCategoryRepository) CreateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	collection := r.DB.Collection("categories")

	count, _ := collection.CountDocuments(ctx, bson.M{"name": category.Name})
	if count > 0 {
		return models.Category{}, fmt.Errorf("category %q already exists", category.Name)
	}

	if category.ServiceIDs == nil {
		category.ServiceIDs = []primitive.ObjectID{}
	}
	res, err := collection.InsertOne(ctx, category)
	if err != nil {
		return models.Category{}, err
	}
	category.ID = res.InsertedID.(primitive.ObjectID)
	return category, nil
}

func (r *MongoCategoryRepository) GetCategoryByID(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	var category models.Category
	if err := r.DB.Collection("categories").FindOne(ctx, bson.M{"_id": id}).Decode(&category); err != nil {
		return models.Category{}, err
	}
	return category, nil
}

func (r *MongoCategoryRepository) GetCategoryWithServices(ctx context.Context, id primitive.ObjectID) (models.CategoryWithServices, error) {
	category, err := r.GetCategoryByID(ctx, id)
	if err != nil {
		return models.CategoryWithServices{}, err
	}

	cursor, err := r.DB.Collection("services").Find(ctx, bson.M{"categoryId": id})
	if err != nil {
		return models.CategoryWithServices{}, err
	}
	defer cursor.Close(ctx)

	services := []models.Service{}
	if err := cursor.All(ctx, &services); err != nil {
		return models.CategoryWithServices{}, err
	}

	return models.CategoryWithServices{Category: category, Services: services}, nil
}

func (r *MongoCategoryRepository) GetAllCategories(ctx context.Context, filter bson.M, limit, skip int64) ([]models.Category, int64, error) {
	collection := r.DB.Collection("categories")
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.M{"name": 1})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, 0, err
	}

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

func (r *MongoCategoryRepository) UpdateCategory(ctx context.Context, id primitive.ObjectID, input models.UpdateCategoryInput) (models.Category, error) {
	collection := r.DB.Collection("categories")
	input.UpdatedAt = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Category
	err := collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": input}, opts).Decode(&updated)
	if err != nil {
		return models.Category{}, err
	}
	return updated, nil
}

// DeleteCategory removes a category and cascades to its services. Both
// deletes happen in one transaction; the number of removed services is
// returned so the handler can report it.
func (r *MongoCategoryRepository) DeleteCategory(ctx context.Context, id primitive.ObjectID) (int64, error) {
	session, err := r.DB.Client().StartSession()
	if err != nil {
		return 0, fmt.Errorf("failed to start session: %v", err)
	}
	defer session.EndSession(ctx)

	callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
		res, err := r.DB.Collection("categories").DeleteOne(sessCtx, bson.M{"_id": id})
		if err != nil {
			return nil, err
		}
		if res.DeletedCount == 0 {
			return nil, fmt.Errorf("category not found")
		}

		svcRes, err := r.DB.Collection("services").DeleteMany(sessCtx, bson.M{"categoryId": id})
		if err != nil {
			return nil, err
		}
		return svcRes.DeletedCount, nil
	}

	result, err := session.WithTransaction(ctx, callback)
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}

func (r *MongoCategoryRepository) GetCategoryStats(ctx context.Context) (models.CategoryStats, error) {
	categoryColl := r.DB.Collection("categories")
	serviceColl := r.DB.Collection("services")

	totalCategories, err := categoryColl.CountDocuments(ctx, bson.M{})
	if err != nil {
		return models.CategoryStats{}, err
	}
	totalServices, err := serviceColl.CountDocuments(ctx, bson.M{})
	if err != nil {
		return models.CategoryStats{}, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$categoryId", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := serviceColl.Aggregate(ctx, pipeline)
	if err != nil {
		return models.CategoryStats{}, err
	}
	defer cursor.Close(ctx)

	perCategory := map[string]int{}
	for cursor.Next(ctx) {
		var row struct {
			ID    primitive.ObjectID `bson:"_id"`
			Count int                `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			continue
		}
		perCategory[row.ID.Hex()] = row.Count
	}

	return models.CategoryStats{
		TotalCategories:     int(totalCategories),
		TotalServices:       int(totalServices),
		ServicesPerCategory: perCategory,
	}, nil
}
