package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/excelvision/excelvision/internal/models"
)

// ErrDuplicateEmail is returned when a signup email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// ErrNotFound is returned by lookups that match nothing.
var ErrNotFound = errors.New("not found")

// UserStore handles user documents in MongoDB.
type UserStore struct {
	col *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection("users")}
}

// CreateUser inserts a new user after checking the email is unused.
// The check and the insert are two separate operations, so two concurrent
// signups with the same email can both succeed. The original system has the
// same race; there is no unique index to back the check.
func (s *UserStore) CreateUser(ctx context.Context, name, email, hashedPassword string) (*models.User, error) {
	err := s.col.FindOne(ctx, bson.M{"email": email}).Err()
	if err == nil {
		return nil, ErrDuplicateEmail
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("email lookup: %w", err)
	}

	u := &models.User{
		Name:      name,
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: time.Now(),
	}
	res, err := s.col.InsertOne(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return u, nil
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id: %w", err)
	}
	var u models.User
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// DatasetStore handles parsed-row documents in MongoDB. Only populated when
// upload persistence is switched on.
type DatasetStore struct {
	col *mongo.Collection
}

func NewDatasetStore(db *mongo.Database) *DatasetStore {
	return &DatasetStore{col: db.Collection("datasets")}
}

func (s *DatasetStore) Insert(ctx context.Context, ds *models.Dataset) (string, error) {
	ds.UploadedAt = time.Now()
	if ds.UploadedBy == "" {
		ds.UploadedBy = "Anonymous"
	}
	res, err := s.col.InsertOne(ctx, ds)
	if err != nil {
		return "", fmt.Errorf("insert dataset: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}
