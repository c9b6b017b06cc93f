package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/callsheet/production-system/internal/core/domain"
)

const collectionProfiles = "profiles"

// ProfileRepository implements ports.ProfileRepository. Profile documents are
// keyed directly by the externally issued user id.
type ProfileRepository struct {
	col *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{col: db.Collection(collectionProfiles)}
}

type profileDoc struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email"`
	FullName  string    `bson:"full_name"`
	CreatedAt time.Time `bson:"created_at"`
	AvatarURL *string   `bson:"avatar_url"`
}

// Set fully replaces the profile document, creating it when absent.
func (r *ProfileRepository) Set(ctx context.Context, p *domain.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := profileDoc{
		ID:        p.UserID,
		Email:     p.Email,
		FullName:  p.FullName,
		CreatedAt: p.CreatedAt.UTC(),
		AvatarURL: p.AvatarURL,
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.UserID}, doc, opts); err != nil {
		return storeErr("set profile", err)
	}
	return nil
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc profileDoc
	err := r.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, storeErr("get profile", err)
	}

	return &domain.Profile{
		UserID:    doc.ID,
		Email:     doc.Email,
		FullName:  doc.FullName,
		CreatedAt: doc.CreatedAt,
		AvatarURL: doc.AvatarURL,
	}, nil
}
