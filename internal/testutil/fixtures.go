// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/facultyhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateProfile inserts a faculty profile with empty collections.
func (f *Fixtures) CreateProfile(ctx context.Context, email, name string, dept models.Department) models.FacultyProfile {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.FacultyProfile{
		Email:                email,
		Name:                 name,
		Department:           dept,
		Education:            []models.Education{},
		ResearchEngagements:  []models.ResearchEngagement{},
		ResearchPublications: []models.ResearchPublication{},
		ResearchTitles:       []models.ResearchTitle{},
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if _, err := f.db.Collection("faculty_profiles").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test profile: %v", err)
	}
	return p
}

// CreateProfileWithResearch inserts a profile carrying the given
// research collections.
func (f *Fixtures) CreateProfileWithResearch(ctx context.Context, email, name string, dept models.Department,
	pubs []models.ResearchPublication, engs []models.ResearchEngagement, titles []models.ResearchTitle) models.FacultyProfile {
	f.t.Helper()

	now := time.Now().UTC()
	if pubs == nil {
		pubs = []models.ResearchPublication{}
	}
	if engs == nil {
		engs = []models.ResearchEngagement{}
	}
	if titles == nil {
		titles = []models.ResearchTitle{}
	}
	p := models.FacultyProfile{
		Email:                email,
		Name:                 name,
		Department:           dept,
		Education:            []models.Education{},
		ResearchEngagements:  engs,
		ResearchPublications: pubs,
		ResearchTitles:       titles,
		ResearchCount: models.ResearchCount{
			Total:        len(titles),
			Publications: len(pubs),
			Engagements:  len(engs),
			Titles:       len(titles),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("faculty_profiles").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test profile: %v", err)
	}
	return p
}

// CreateAdmin inserts an admin_users record.
func (f *Fixtures) CreateAdmin(ctx context.Context, email, name string) models.AdminUser {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.AdminUser{
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("admin_users").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test admin: %v", err)
	}
	return a
}
