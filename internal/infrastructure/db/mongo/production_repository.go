package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/callsheet/production-system/internal/api/metrics"
	"github.com/callsheet/production-system/internal/core/domain"
)

const collectionProductions = "productions"

// ProductionRepository implements ports.ProductionRepository.
type ProductionRepository struct {
	col *mongo.Collection
}

func NewProductionRepository(db *mongo.Database) *ProductionRepository {
	return &ProductionRepository{col: db.Collection(collectionProductions)}
}

type productionDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Producer  string             `bson:"producer"`
	CreatedBy string             `bson:"created_by"`
	CreatedAt time.Time          `bson:"created_at"`
	Admins    []domain.Admin     `bson:"admins"`
	Version   int64              `bson:"version"`
}

func (d *productionDoc) toDomain() *domain.Production {
	return &domain.Production{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Producer:  d.Producer,
		CreatedBy: d.CreatedBy,
		CreatedAt: d.CreatedAt,
		Admins:    d.Admins,
		Version:   d.Version,
	}
}

// Insert writes a new production document and returns the assigned id.
func (r *ProductionRepository) Insert(ctx context.Context, p *domain.Production) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := productionDoc{
		Title:     p.Title,
		Producer:  p.Producer,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt.UTC(),
		Admins:    p.Admins,
		Version:   p.Version,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return "", storeErr("insert production", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", storeErr("insert production", errors.New("unexpected inserted id type"))
	}
	return oid.Hex(), nil
}

func (r *ProductionRepository) FindByID(ctx context.Context, id string) (*domain.Production, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id can never name a stored production.
		return nil, domain.ErrProductionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc productionDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductionNotFound
		}
		return nil, storeErr("find production", err)
	}
	return doc.toDomain(), nil
}

// FindVisibleTo queries creator-or-admin membership server-side. Both branches
// of the $or are indexed; see EnsureIndexes.
func (r *ProductionRepository) FindVisibleTo(ctx context.Context, userID string) ([]*domain.Production, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"$or": []bson.M{
		{"created_by": userID},
		{"admins.id": userID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeErr("list productions", err)
	}
	defer cursor.Close(ctx)

	productions := []*domain.Production{}
	for cursor.Next(ctx) {
		var doc productionDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, storeErr("decode production", err)
		}
		productions = append(productions, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, storeErr("list productions", err)
	}
	return productions, nil
}

// ReplaceAdmins is the compare-and-swap primitive for admin-set writes: the
// update matches only while the stored version equals expectedVersion and
// advances the version in the same atomic operation. A zero match count means
// another writer advanced the version first.
func (r *ProductionRepository) ReplaceAdmins(ctx context.Context, id string, expectedVersion int64, admins []domain.Admin) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrProductionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "version": expectedVersion}
	update := bson.M{
		"$set": bson.M{"admins": admins},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return storeErr("replace admins", err)
	}
	if res.MatchedCount == 0 {
		metrics.AdminWriteConflictsTotal.Inc()
		return domain.ErrConcurrentUpdate
	}
	return nil
}

// EnsureIndexes creates the indexes backing the visibility query and the
// newest-first sort.
func (r *ProductionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_by", Value: 1}}},
		{Keys: bson.D{{Key: "admins.id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
