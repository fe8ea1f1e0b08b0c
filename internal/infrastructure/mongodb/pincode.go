package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/medisearch/backend/internal/domain"
)

// PincodeStore is the MongoDB-backed keyed pincode lookup.
type PincodeStore struct {
	pincodes *mongo.Collection
}

// NewPincodeStore creates a store over the pincodes collection of db.
func NewPincodeStore(db *mongo.Database) *PincodeStore {
	return &PincodeStore{pincodes: db.Collection("pincodes")}
}

// FindByCode returns every post-office record for code.
func (s *PincodeStore) FindByCode(ctx context.Context, code string) ([]domain.Pincode, error) {
	cursor, err := s.pincodes.Find(ctx, bson.M{"pincode": code})
	if err != nil {
		return nil, fmt.Errorf("pincode find %q: %w", code, err)
	}
	defer cursor.Close(ctx)

	var records []domain.Pincode
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("pincode decode: %w", err)
	}
	if len(records) == 0 {
		return nil, domain.ErrNotFound
	}
	return records, nil
}
