package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shipsphere/logistics-api/internal/core/domain"
)

// UserRepository implements ports.UserRepository on MongoDB.
type UserRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers), now: time.Now}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toUserDoc(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	users, err := r.aggregate(ctx, userPipeline(filter, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if len(users) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return users[0], nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	set := bson.M{"updated_at": r.now().UTC()}
	if patch.FirstName != nil {
		set["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		set["last_name"] = *patch.LastName
	}
	if patch.CityID != nil {
		set["city_id"] = *patch.CityID
	}
	if err := r.updateOne(ctx, id, set); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepository) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	if err := r.updateOne(ctx, id, bson.M{"role": string(role), "updated_at": r.now().UTC()}); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepository) updateOne(ctx context.Context, id string, set bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List returns one page of users, newest first, and the total match count.
func (r *UserRepository) List(ctx context.Context, f domain.UserFilter) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := userListFilter(f)
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	if f.Offset < 0 || int64(f.Offset) >= total {
		return []*domain.User{}, total, nil
	}

	users, err := r.aggregate(ctx, userPipeline(filter, f.Offset, f.Limit))
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (r *UserRepository) Count(ctx context.Context, f domain.UserCountFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Role != "" {
		filter["role"] = string(f.Role)
	}
	if !f.CreatedSince.IsZero() {
		filter["created_at"] = bson.M{"$gte": f.CreatedSince.UTC()}
	}
	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *UserRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]*domain.User, error) {
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := make([]*domain.User, 0)
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		users = append(users, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// userListFilter builds the match document for the admin listing. The search
// term is matched literally and case-insensitively.
func userListFilter(f domain.UserFilter) bson.M {
	filter := bson.M{}
	if f.Role != "" {
		filter["role"] = string(f.Role)
	}
	if f.Search != "" {
		re := bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"first_name": re},
			bson.M{"last_name": re},
			bson.M{"email": re},
		}
	}
	return filter
}

// userPipeline matches, sorts newest first, pages, and joins the city.
func userPipeline(filter bson.M, skip, limit int) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
	}
	if skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: int64(skip)}})
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(limit)}})
	}
	return append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         collectionCities,
			"localField":   "city_id",
			"foreignField": "_id",
			"as":           "city",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$city", "preserveNullAndEmptyArrays": true}}},
	)
}
