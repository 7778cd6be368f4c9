// Package mongo persists accounts in a single MongoDB collection, matching
// the document layout the storefront has always used (collection
// "adminusers", bcrypt hash in the password field, nested permission and
// preference documents).
package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/clayworks/adminauth"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "adminusers"

// Store implements [adminauth.AccountStore] over a mongo collection.
type Store struct {
	collection *mongo.Collection
}

// New returns a store over db's admin-user collection. Call
// [Store.EnsureIndexes] once at startup before serving requests.
func New(db *mongo.Database) *Store {
	return &Store{collection: db.Collection(collectionName)}
}

// EnsureIndexes creates the unique indexes the uniqueness invariants rely
// on. Emails are stored lowercased, so a plain unique index gives
// case-insensitive uniqueness.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("username_unique"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{
			Keys: bson.D{{Key: "active", Value: 1}, {Key: "role", Value: 1}},
		},
	})
	return err
}

func (s *Store) Create(ctx context.Context, account *adminauth.Account) error {
	doc := account.Clone()
	doc.Email = strings.ToLower(doc.Email)

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return mapDuplicate(err)
	}
	return nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*adminauth.Account, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *Store) FindByIdentifier(ctx context.Context, identifier string) (*adminauth.Account, error) {
	// Emails are stored lowercased; lowering the identifier makes the email
	// arm case-insensitive while the username arm stays exact.
	return s.findOne(ctx, bson.M{
		"active": true,
		"$or": bson.A{
			bson.M{"username": identifier},
			bson.M{"email": strings.ToLower(identifier)},
		},
	})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*adminauth.Account, error) {
	var account adminauth.Account
	err := s.collection.FindOne(ctx, filter).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, adminauth.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (s *Store) Update(ctx context.Context, account *adminauth.Account) error {
	doc := account.Clone()
	doc.Email = strings.ToLower(doc.Email)

	result, err := s.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return mapDuplicate(err)
	}
	if result.MatchedCount == 0 {
		return adminauth.ErrAccountNotFound
	}
	return nil
}

func (s *Store) CountPrimaryAdmins(ctx context.Context) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{
		"role":   adminauth.RolePrimaryAdmin,
		"active": true,
	})
}

func (s *Store) Stats(ctx context.Context, since time.Time) (adminauth.AccountStats, error) {
	var stats adminauth.AccountStats
	var err error

	if stats.Total, err = s.collection.CountDocuments(ctx, bson.M{}); err != nil {
		return adminauth.AccountStats{}, err
	}
	if stats.Active, err = s.collection.CountDocuments(ctx, bson.M{"active": true}); err != nil {
		return adminauth.AccountStats{}, err
	}
	if stats.PrimaryAdmins, err = s.collection.CountDocuments(ctx, bson.M{"role": adminauth.RolePrimaryAdmin}); err != nil {
		return adminauth.AccountStats{}, err
	}
	if stats.RecentLogins, err = s.collection.CountDocuments(ctx, bson.M{"lastLogin": bson.M{"$gte": since}}); err != nil {
		return adminauth.AccountStats{}, err
	}

	return stats, nil
}

// mapDuplicate translates unique index violations into the package
// sentinels, naming the offending field by index name.
func mapDuplicate(err error) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "email_unique"):
		return adminauth.ErrDuplicateEmail
	case strings.Contains(msg, "username_unique"):
		return adminauth.ErrDuplicateHandle
	default:
		return adminauth.ErrDuplicateHandle
	}
}

var _ adminauth.AccountStore = (*Store)(nil)
