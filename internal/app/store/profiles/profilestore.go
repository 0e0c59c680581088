// internal/app/store/profiles/profilestore.go

// Package profilestore wraps the faculty_profiles collection. The
// profile email doubles as the document _id, which keeps lookups
// trivial and lets a change stream match a single profile by its
// document key.
package profilestore

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/facultyhub/internal/app/system/errs"
	"github.com/dalemusser/facultyhub/internal/app/system/normalize"
	"github.com/dalemusser/facultyhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Store struct {
	c   *mongo.Collection
	log *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{c: db.Collection("faculty_profiles"), log: log}
}

// Get loads a profile by email. Returns errs.ErrProfileNotFound when no
// document exists.
func (s *Store) Get(ctx context.Context, email string) (*models.FacultyProfile, error) {
	var p models.FacultyProfile
	err := s.c.FindOne(ctx, bson.M{"_id": normalize.Email(email)}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, errs.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Normalize()
	return &p, nil
}

// Create inserts a fresh profile with empty collections and server
// timestamps.
func (s *Store) Create(ctx context.Context, email, name string) (models.FacultyProfile, error) {
	now := time.Now().UTC()
	p := models.FacultyProfile{
		Email:                normalize.Email(email),
		Name:                 normalize.Name(name),
		Education:            []models.Education{},
		ResearchEngagements:  []models.ResearchEngagement{},
		ResearchPublications: []models.ResearchPublication{},
		ResearchTitles:       []models.ResearchTitle{},
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.FacultyProfile{}, err
	}
	return p, nil
}

// EnsureProfile returns the existing profile for email, creating one on
// first sign-in. The created flag reports which path was taken. A
// concurrent create by another sign-in is resolved by re-reading.
func (s *Store) EnsureProfile(ctx context.Context, email, name string) (*models.FacultyProfile, bool, error) {
	p, err := s.Get(ctx, email)
	if err == nil {
		return p, false, nil
	}
	if err != errs.ErrProfileNotFound {
		return nil, false, err
	}

	created, err := s.Create(ctx, email, name)
	if err != nil {
		if wafflemongo.IsDup(err) {
			p, err := s.Get(ctx, email)
			return p, false, err
		}
		return nil, false, err
	}
	s.log.Info("faculty profile created", zap.String("email", created.Email))
	return &created, true, nil
}

// UpdateSection replaces one section's array. On a titles mutation the
// cached research_count.titles and .total are recomputed from the new
// array length; publications and engagements counts are deliberately
// left as-is (the documented carry-over behavior).
func (s *Store) UpdateSection(ctx context.Context, email string, section models.Section, payload any) error {
	field := section.BSONField()
	if field == "" {
		return errs.Validation("section", fmt.Sprintf("unknown section %q", section))
	}

	set := bson.M{
		field:        payload,
		"updated_at": time.Now().UTC(),
	}

	if section == models.SectionTitles {
		titles, ok := payload.([]models.ResearchTitle)
		if !ok {
			return errs.Validation("researchTitles", "payload must be a research title list")
		}
		set["research_count.titles"] = len(titles)
		set["research_count.total"] = len(titles)
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": normalize.Email(email)}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrProfileNotFound
	}
	return nil
}

// UpdateClassification sets the admin-editable fields. Department and
// status arrive already collapsed to their canonical unset form.
func (s *Store) UpdateClassification(ctx context.Context, email string, dept models.Department, status models.EmploymentStatus, specialization string) error {
	if !dept.IsValid() {
		return errs.Validation("department", fmt.Sprintf("unknown department %q", dept))
	}
	if !status.IsValid() {
		return errs.Validation("status", fmt.Sprintf("unknown status %q", status))
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": normalize.Email(email)}, bson.M{"$set": bson.M{
		"department":     dept,
		"status":         status,
		"specialization": specialization,
		"updated_at":     time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrProfileNotFound
	}
	return nil
}

// UpdateMedia sets the photo and/or banner URL. Nil pointers leave the
// field untouched.
func (s *Store) UpdateMedia(ctx context.Context, email string, photoURL, bannerURL *string) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if photoURL != nil {
		set["photo_url"] = *photoURL
	}
	if bannerURL != nil {
		set["banner_url"] = *bannerURL
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": normalize.Email(email)}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrProfileNotFound
	}
	return nil
}

// TouchLastLogin stamps last_login with the server clock.
func (s *Store) TouchLastLogin(ctx context.Context, email string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": normalize.Email(email)}, bson.M{"$set": bson.M{
		"last_login": time.Now().UTC(),
	}})
	return err
}

// All returns every profile, normalized, sorted by name for stable
// admin listing. The collection is small (one document per faculty
// member), so a full scan feeds analytics and export.
func (s *Store) All(ctx context.Context) ([]models.FacultyProfile, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var profiles []models.FacultyProfile
	for cur.Next(ctx) {
		var p models.FacultyProfile
		if err := cur.Decode(&p); err != nil {
			s.log.Warn("skipping undecodable profile", zap.Error(err))
			continue
		}
		p.Normalize()
		profiles = append(profiles, p)
	}
	return profiles, cur.Err()
}
