// internal/app/store/admins/adminstore.go

// Package adminstore wraps the admin_users collection. An email is an
// admin exactly when a document for it exists here; role checks reduce
// to a keyed lookup.
package adminstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/facultyhub/internal/app/system/normalize"
	"github.com/dalemusser/facultyhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrNotFound means no admin record exists for the email.
var ErrNotFound = errors.New("admin user not found")

// ErrBadCredentials covers both unknown accounts and wrong passwords so
// the login form cannot be used to probe which admin emails exist.
var ErrBadCredentials = errors.New("invalid email or password")

type Store struct {
	c   *mongo.Collection
	log *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{c: db.Collection("admin_users"), log: log}
}

// IsAdmin reports whether email has an admin record.
func (s *Store) IsAdmin(ctx context.Context, email string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": normalize.Email(email)})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetByEmail loads one admin record.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var a models.AdminUser
	err := s.c.FindOne(ctx, bson.M{"_id": normalize.Email(email)}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// EnsureSuperAdmin creates the bootstrap password-login admin account if
// it does not already exist. An existing account is left untouched, so
// a rotated config password does not silently overwrite one changed
// through other means.
func (s *Store) EnsureSuperAdmin(ctx context.Context, email, name, password string) error {
	email = normalize.Email(email)

	if _, err := s.GetByEmail(ctx, email); err == nil {
		return nil
	} else if err != ErrNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	h := string(hash)
	a := models.AdminUser{
		Email:        email,
		Name:         normalize.Name(name),
		PasswordHash: &h,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return nil
		}
		return err
	}
	s.log.Info("superadmin account created", zap.String("email", email))
	return nil
}

// Authenticate checks a password login. Returns ErrBadCredentials for
// an unknown email, an OAuth-only account, or a wrong password.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*models.AdminUser, error) {
	a, err := s.GetByEmail(ctx, email)
	if err == ErrNotFound {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if a.PasswordHash == nil {
		return nil, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(*a.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return a, nil
}
