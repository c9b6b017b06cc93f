package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/callsheet/production-system/internal/core/domain"
	"github.com/callsheet/production-system/internal/core/ports"
)

// RosterRepository implements ports.RosterRepository. Each roster kind maps
// to its own collection; entries reference the parent production by id and
// every filter includes it, so ids never match across productions.
type RosterRepository struct {
	db *mongo.Database
}

func NewRosterRepository(db *mongo.Database) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) collection(kind domain.RosterKind) *mongo.Collection {
	return r.db.Collection(kind.Collection())
}

type rosterDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	ProductionID   string             `bson:"production_id"`
	Name           string             `bson:"name"`
	ProductionRole string             `bson:"production_role"`
	Email          string             `bson:"email"`
	Phone          string             `bson:"phone,omitempty"`
	CreatedAt      time.Time          `bson:"created_at"`
}

func (d *rosterDoc) toDomain() *domain.RosterEntry {
	return &domain.RosterEntry{
		ID:             d.ID.Hex(),
		ProductionID:   d.ProductionID,
		Name:           d.Name,
		ProductionRole: d.ProductionRole,
		Email:          d.Email,
		Phone:          d.Phone,
		CreatedAt:      d.CreatedAt,
	}
}

func (r *RosterRepository) Insert(ctx context.Context, kind domain.RosterKind, entry *domain.RosterEntry) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := rosterDoc{
		ProductionID:   entry.ProductionID,
		Name:           entry.Name,
		ProductionRole: entry.ProductionRole,
		Email:          entry.Email,
		Phone:          entry.Phone,
		CreatedAt:      entry.CreatedAt.UTC(),
	}

	res, err := r.collection(kind).InsertOne(ctx, doc)
	if err != nil {
		return "", storeErr("insert roster entry", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", storeErr("insert roster entry", errors.New("unexpected inserted id type"))
	}
	return oid.Hex(), nil
}

func (r *RosterRepository) FindAll(ctx context.Context, kind domain.RosterKind, productionID string) ([]*domain.RosterEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"production_id": productionID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection(kind).Find(ctx, filter, opts)
	if err != nil {
		return nil, storeErr("list roster entries", err)
	}
	defer cursor.Close(ctx)

	entries := []*domain.RosterEntry{}
	for cursor.Next(ctx) {
		var doc rosterDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, storeErr("decode roster entry", err)
		}
		entries = append(entries, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, storeErr("list roster entries", err)
	}
	return entries, nil
}

// Update merges the patch via $set. Only fields present in the patch are
// written; a zero match count means the entry does not exist under this
// production, never a silent upsert.
func (r *RosterRepository) Update(ctx context.Context, kind domain.RosterKind, productionID, entryID string, patch ports.RosterEntryPatch) error {
	oid, err := primitive.ObjectIDFromHex(entryID)
	if err != nil {
		return domain.ErrEntryNotFound
	}

	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.ProductionRole != nil {
		set["production_role"] = *patch.ProductionRole
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}
	if len(set) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "production_id": productionID}
	res, err := r.collection(kind).UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return storeErr("update roster entry", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func (r *RosterRepository) Delete(ctx context.Context, kind domain.RosterKind, productionID, entryID string) error {
	oid, err := primitive.ObjectIDFromHex(entryID)
	if err != nil {
		return domain.ErrEntryNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "production_id": productionID}
	res, err := r.collection(kind).DeleteOne(ctx, filter)
	if err != nil {
		return storeErr("delete roster entry", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

// EnsureIndexes creates the compound index backing per-production listing in
// creation order, for both roster collections.
func (r *RosterRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	index := mongo.IndexModel{
		Keys: bson.D{{Key: "production_id", Value: 1}, {Key: "created_at", Value: -1}},
	}
	for _, kind := range []domain.RosterKind{domain.RosterCast, domain.RosterCreative} {
		if _, err := r.collection(kind).Indexes().CreateOne(ctx, index); err != nil {
			return err
		}
	}
	return nil
}
