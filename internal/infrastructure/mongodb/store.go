// Package mongodb implements the persisted store capability on MongoDB:
// filtered finds with sort/skip/limit, counts over the same predicate, a
// $text relevance search, and idempotent upserts keyed by officialName.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medisearch/backend/internal/domain"
)

// Store is the MongoDB-backed MedicineStore.
type Store struct {
	medicines *mongo.Collection
	relevance bool
}

// NewStore creates a store over the medicines collection of db. Relevance
// search stays disabled until EnsureIndexes has built the text index.
func NewStore(db *mongo.Database) *Store {
	return &Store{medicines: db.Collection("medicines")}
}

// EnsureIndexes creates the text index backing relevance search and the
// supporting lookup indexes. Relevance queries are only offered once this
// has succeeded.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "officialName", Value: "text"},
				{Key: "manufacturer.name", Value: "text"},
				{Key: "activeIngredients.name", Value: "text"},
				{Key: "category", Value: "text"},
			},
			Options: options.Index().
				SetName("MedicineTextIndex").
				SetWeights(bson.D{
					{Key: "officialName", Value: 10},
					{Key: "activeIngredients.name", Value: 6},
					{Key: "manufacturer.name", Value: 3},
					{Key: "category", Value: 2},
				}).
				SetDefaultLanguage("english"),
		},
		{Keys: bson.D{{Key: "officialName", Value: 1}}},
		{Keys: bson.D{{Key: "dosageForm", Value: 1}, {Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "activeIngredients.name", Value: 1}, {Key: "dosageForm", Value: 1}}},
		{Keys: bson.D{{Key: "pricing.mrp", Value: 1}}},
	}

	if _, err := s.medicines.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("creating medicine indexes: %w", err)
	}
	s.relevance = true
	return nil
}

// SupportsRelevance reports whether the text index is in place.
func (s *Store) SupportsRelevance() bool {
	return s.relevance
}

// Find executes a filtered, sorted, paginated query.
func (s *Store) Find(ctx context.Context, filter domain.FilterSpec, sort domain.SortSpec, skip, limit int) ([]domain.Medicine, error) {
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(sortDocument(sort))
	if sort == domain.SortSpec(domain.SortRelevance) {
		opts.SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}})
	}

	cursor, err := s.medicines.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("medicines find: %w", err)
	}
	defer cursor.Close(ctx)

	var results []domain.Medicine
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("medicines decode: %w", err)
	}
	return results, nil
}

// Count counts documents over the same predicate a Find with this filter
// would use.
func (s *Store) Count(ctx context.Context, filter domain.FilterSpec) (int64, error) {
	n, err := s.medicines.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("medicines count: %w", err)
	}
	return n, nil
}

// FindByID looks a medicine up by its store id.
func (s *Store) FindByID(ctx context.Context, id string) (*domain.Medicine, error) {
	var med domain.Medicine
	err := s.medicines.FindOne(ctx, bson.M{"_id": id}).Decode(&med)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("medicine by id: %w", err)
	}
	return &med, nil
}

// FindByExactName matches officialName exactly, ignoring case.
func (s *Store) FindByExactName(ctx context.Context, name string) (*domain.Medicine, error) {
	filter := bson.M{"officialName": primitive.Regex{
		Pattern: "^" + regexp.QuoteMeta(name) + "$",
		Options: "i",
	}}
	var med domain.Medicine
	err := s.medicines.FindOne(ctx, filter).Decode(&med)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("medicine exact lookup: %w", err)
	}
	return &med, nil
}

// Upsert inserts or replaces the document for med.OfficialName. The store
// id is the deterministic sourceId, so re-importing a row replaces its
// document in place.
func (s *Store) Upsert(ctx context.Context, med *domain.Medicine) error {
	if med.ID == "" {
		med.ID = med.SourceID
	}
	_, err := s.medicines.ReplaceOne(ctx,
		bson.M{"officialName": med.OfficialName},
		med,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("medicine upsert %q: %w", med.OfficialName, err)
	}
	return nil
}

// buildFilter translates a FilterSpec into a single MongoDB filter
// document. All predicates combine by conjunction. A relevance-mode term
// becomes a top-level $text clause — $text cannot live inside a $or next
// to other operators, so the substring disjunction is never mixed in; a
// substring-mode term becomes a $or of case-insensitive regexes over name,
// manufacturer and ingredient names.
func buildFilter(f domain.FilterSpec) bson.M {
	filter := bson.M{}

	if f.DosageForm != nil {
		filter["dosageForm"] = matchRegex(*f.DosageForm)
	}
	if f.Category != nil {
		filter["category"] = matchRegex(*f.Category)
	}
	if f.Manufacturer != nil {
		filter["manufacturer.name"] = matchRegex(*f.Manufacturer)
	}
	if f.Ingredient != nil {
		filter["activeIngredients.name"] = matchRegex(*f.Ingredient)
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["pricing.mrp"] = price
	}
	if f.Discontinued != nil {
		filter["discontinued"] = *f.Discontinued
	}

	if f.Term != "" {
		if f.Mode == domain.ModeRelevance {
			filter["$text"] = bson.M{"$search": f.Term}
		} else {
			re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Term), Options: "i"}
			filter["$or"] = bson.A{
				bson.M{"officialName": re},
				bson.M{"manufacturer.name": re},
				bson.M{"activeIngredients.name": re},
			}
		}
	}

	return filter
}

func matchRegex(m domain.FieldMatch) primitive.Regex {
	pattern := regexp.QuoteMeta(m.Value)
	if m.Kind == domain.MatchExact {
		pattern = "^" + pattern + "$"
	}
	return primitive.Regex{Pattern: pattern, Options: "i"}
}

func sortDocument(sort domain.SortSpec) bson.D {
	switch domain.SortMode(sort) {
	case domain.SortRelevance:
		return bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}}
	case domain.SortPriceAsc:
		return bson.D{{Key: "pricing.mrp", Value: 1}}
	case domain.SortPriceDesc:
		return bson.D{{Key: "pricing.mrp", Value: -1}}
	default:
		return bson.D{{Key: "officialName", Value: 1}}
	}
}
