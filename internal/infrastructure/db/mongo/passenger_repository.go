package mongo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/titanicdata/passenger-api/internal/core/domain"
	"github.com/titanicdata/passenger-api/internal/core/ports"
)

const (
	passengersCollection = "passengers"
	passengersSequence   = "passengers"
)

// PassengerRepository is the MongoDB passenger store.
type PassengerRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewPassengerRepository(db *mongo.Database) *PassengerRepository {
	return &PassengerRepository{db: db, coll: db.Collection(passengersCollection)}
}

type passengerDoc struct {
	ID       int64    `bson:"_id"`
	Name     string   `bson:"name"`
	Sex      string   `bson:"sex"`
	Age      *float64 `bson:"age,omitempty"`
	Survived bool     `bson:"survived"`
	Pclass   int      `bson:"pclass"`
	Fare     *float64 `bson:"fare,omitempty"`
	Embarked *string  `bson:"embarked,omitempty"`
}

func (d passengerDoc) toDomain() *domain.Passenger {
	return &domain.Passenger{
		ID:       d.ID,
		Name:     d.Name,
		Sex:      d.Sex,
		Age:      d.Age,
		Survived: d.Survived,
		Pclass:   d.Pclass,
		Fare:     d.Fare,
		Embarked: d.Embarked,
	}
}

func fromDomain(p *domain.Passenger) passengerDoc {
	return passengerDoc{
		ID:       p.ID,
		Name:     p.Name,
		Sex:      p.Sex,
		Age:      p.Age,
		Survived: p.Survived,
		Pclass:   p.Pclass,
		Fare:     p.Fare,
		Embarked: p.Embarked,
	}
}

// EnsureIndexes creates the search indexes on the passengers collection.
func (r *PassengerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "sex", Value: 1}}},
		{Keys: bson.D{{Key: "pclass", Value: 1}}},
		{Keys: bson.D{{Key: "embarked", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *PassengerRepository) List(ctx context.Context, skip, limit int64) ([]domain.Passenger, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list passengers: %w", err)
	}
	return decodePassengers(ctx, cursor)
}

func (r *PassengerRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *PassengerRepository) FindByID(ctx context.Context, id int64) (*domain.Passenger, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc passengerDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPassengerNotFound
		}
		return nil, fmt.Errorf("find passenger: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PassengerRepository) Search(ctx context.Context, filters ports.SearchFilters) ([]domain.Passenger, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{}
	if filters.Sex != nil {
		filter["sex"] = *filters.Sex
	}
	if filters.Pclass != nil {
		filter["pclass"] = *filters.Pclass
	}
	if filters.Embarked != nil {
		filter["embarked"] = *filters.Embarked
	}
	if filters.Survived != nil {
		filter["survived"] = *filters.Survived
	}
	if filters.MinAge != nil || filters.MaxAge != nil {
		age := bson.M{}
		if filters.MinAge != nil {
			age["$gte"] = *filters.MinAge
		}
		if filters.MaxAge != nil {
			age["$lte"] = *filters.MaxAge
		}
		filter["age"] = age
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("search passengers: %w", err)
	}
	return decodePassengers(ctx, cursor)
}

func (r *PassengerRepository) Insert(ctx context.Context, p *domain.Passenger) (*domain.Passenger, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, passengersSequence)
	if err != nil {
		return nil, err
	}

	doc := fromDomain(p)
	doc.ID = id
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert passenger: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PassengerRepository) Update(ctx context.Context, id int64, fields ports.UpdateFields) (*domain.Passenger, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	set := bson.M{}
	if fields.Name != nil {
		set["name"] = *fields.Name
	}
	if fields.Sex != nil {
		set["sex"] = *fields.Sex
	}
	if fields.Age != nil {
		set["age"] = *fields.Age
	}
	if fields.Survived != nil {
		set["survived"] = *fields.Survived
	}
	if fields.Pclass != nil {
		set["pclass"] = *fields.Pclass
	}
	if fields.Fare != nil {
		set["fare"] = *fields.Fare
	}
	if fields.Embarked != nil {
		set["embarked"] = *fields.Embarked
	}

	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	res := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var doc passengerDoc
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPassengerNotFound
		}
		return nil, fmt.Errorf("update passenger: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PassengerRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete passenger: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPassengerNotFound
	}
	return nil
}

// Statistics aggregates counts, survival rates and averages, optionally
// grouped by a passenger dimension. groupBy is validated by the service
// before it reaches this pipeline.
func (r *PassengerRepository) Statistics(ctx context.Context, groupBy string) ([]ports.StatisticsGroup, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var groupKey interface{}
	if groupBy != "" {
		groupKey = "$" + groupBy
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: groupKey},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "survivors", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{"$survived", 1, 0}},
			}}}},
			{Key: "average_age", Value: bson.D{{Key: "$avg", Value: "$age"}}},
			{Key: "average_fare", Value: bson.D{{Key: "$avg", Value: "$fare"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate statistics: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []ports.StatisticsGroup
	for cursor.Next(ctx) {
		var bucket struct {
			ID          interface{} `bson:"_id"`
			Count       int64       `bson:"count"`
			Survivors   int64       `bson:"survivors"`
			AverageAge  *float64    `bson:"average_age"`
			AverageFare *float64    `bson:"average_fare"`
		}
		if err := cursor.Decode(&bucket); err != nil {
			return nil, fmt.Errorf("decode statistics bucket: %w", err)
		}

		group := ports.StatisticsGroup{
			Category:    bucketCategory(groupBy, bucket.ID),
			Count:       bucket.Count,
			AverageAge:  roundAverage(bucket.AverageAge),
			AverageFare: roundAverage(bucket.AverageFare),
		}
		if bucket.Count > 0 {
			group.SurvivalRate = math.Round(float64(bucket.Survivors)/float64(bucket.Count)*1000) / 10
		}
		groups = append(groups, group)
	}
	return groups, cursor.Err()
}

// bucketCategory renders the aggregation key as the response category.
// The single ungrouped bucket is "overall"; records missing the grouped
// field fall into "unknown".
func bucketCategory(groupBy string, id interface{}) string {
	if groupBy == "" {
		return "overall"
	}
	if id == nil {
		return "unknown"
	}
	return fmt.Sprint(id)
}

func roundAverage(v *float64) *float64 {
	if v == nil {
		return nil
	}
	rounded := math.Round(*v*10) / 10
	return &rounded
}

func decodePassengers(ctx context.Context, cursor *mongo.Cursor) ([]domain.Passenger, error) {
	defer cursor.Close(ctx)

	var passengers []domain.Passenger
	for cursor.Next(ctx) {
		var doc passengerDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode passenger: %w", err)
		}
		passengers = append(passengers, *doc.toDomain())
	}
	return passengers, cursor.Err()
}
