package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shipsphere/logistics-api/internal/core/domain"
)

// CityRepository implements ports.CityRepository on MongoDB.
type CityRepository struct {
	col   *mongo.Collection
	users *mongo.Collection
	now   func() time.Time
}

func NewCityRepository(db *mongo.Database) *CityRepository {
	return &CityRepository{
		col:   db.Collection(collectionCities),
		users: db.Collection(collectionUsers),
		now:   time.Now,
	}
}

func (r *CityRepository) Create(ctx context.Context, city *domain.City) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toCityDoc(city)
	if err != nil {
		return err
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrCityExists
		}
		return fmt.Errorf("insert city: %w", err)
	}
	return nil
}

func (r *CityRepository) FindByID(ctx context.Context, id string) (*domain.City, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *CityRepository) FindByName(ctx context.Context, name string) (*domain.City, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *CityRepository) findOne(ctx context.Context, filter bson.M) (*domain.City, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc cityDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCityNotFound
		}
		return nil, fmt.Errorf("find city: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CityRepository) ListActive(ctx context.Context) ([]*domain.City, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer cur.Close(ctx)

	var docs []cityDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode cities: %w", err)
	}

	cities := make([]*domain.City, 0, len(docs))
	for _, d := range docs {
		cities = append(cities, d.toDomain())
	}
	return cities, nil
}

func (r *CityRepository) ListWithCounts(ctx context.Context) ([]*domain.CityWithCount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, cityCountPipeline())
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer cur.Close(ctx)

	var docs []cityDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode cities: %w", err)
	}

	cities := make([]*domain.CityWithCount, 0, len(docs))
	for _, d := range docs {
		cities = append(cities, &domain.CityWithCount{City: *d.toDomain(), UserCount: d.UserCount})
	}
	return cities, nil
}

func (r *CityRepository) Update(ctx context.Context, id string, patch domain.CityPatch) (*domain.City, error) {
	set := bson.M{"updated_at": r.now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.State != nil {
		set["state"] = *patch.State
	}
	if patch.PricePerKg != nil {
		price, err := toDecimal128(*patch.PricePerKg)
		if err != nil {
			return nil, err
		}
		set["price_per_kg"] = price
	}
	if patch.Description != nil && !patch.ClearDescription {
		set["description"] = *patch.Description
	}
	if patch.IsActive != nil {
		set["is_active"] = *patch.IsActive
	}
	update := bson.M{"$set": set}
	if patch.ClearDescription {
		update["$unset"] = bson.M{"description": ""}
	}

	updateCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(updateCtx, bson.M{"_id": id}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrCityExists
		}
		return nil, fmt.Errorf("update city: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrCityNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes the city unless a user references it. MongoDB has no
// foreign keys, so the reference check and the delete are two operations.
func (r *CityRepository) Delete(ctx context.Context, id string) error {
	n, err := r.CountUsers(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrCityInUse
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete city: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCityNotFound
	}
	return nil
}

func (r *CityRepository) CountUsers(ctx context.Context, id string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.users.CountDocuments(ctx, bson.M{"city_id": id})
	if err != nil {
		return 0, fmt.Errorf("count city users: %w", err)
	}
	return n, nil
}

func cityCountPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionUsers,
			"localField":   "_id",
			"foreignField": "city_id",
			"as":           "users",
		}}},
		{{Key: "$addFields", Value: bson.M{"user_count": bson.M{"$size": "$users"}}}},
		{{Key: "$project", Value: bson.M{"users": 0}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
	}
}
