// internal/app/store/profiles/watch.go

package profilestore

import (
	"context"

	"github.com/dalemusser/facultyhub/internal/app/system/errs"
	"github.com/dalemusser/facultyhub/internal/app/system/normalize"
	"github.com/dalemusser/facultyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Event is one change delivered by Watch. Exactly one of Profile and
// Err is set; an Err event is the last one before the channel closes.
type Event struct {
	Profile *models.FacultyProfile
	Err     error
}

// Watch opens a change stream scoped to a single profile document and
// delivers the full post-image on every update or replace. A delete of
// the watched document yields an errs.ErrProfileNotFound event. The
// stream runs until ctx is cancelled or the server ends it; the channel
// is closed either way.
//
// Change streams require a replica set. Callers should treat a Watch
// error as "live updates unavailable" and fall back to polling.
func (s *Store) Watch(ctx context.Context, email string) (<-chan Event, error) {
	email = normalize.Email(email)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"documentKey._id": email,
			"operationType":   bson.M{"$in": bson.A{"insert", "update", "replace", "delete"}},
		}}},
	}
	cs, err := s.c.Watch(ctx, pipeline,
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return nil, err
	}

	events := make(chan Event)
	go func() {
		defer close(events)
		defer cs.Close(context.Background())

		for cs.Next(ctx) {
			var change struct {
				OperationType string                 `bson:"operationType"`
				FullDocument  *models.FacultyProfile `bson:"fullDocument"`
			}
			if err := cs.Decode(&change); err != nil {
				s.log.Warn("undecodable profile change event",
					zap.String("email", email), zap.Error(err))
				continue
			}

			var ev Event
			switch {
			case change.OperationType == "delete":
				ev = Event{Err: errs.ErrProfileNotFound}
			case change.FullDocument != nil:
				change.FullDocument.Normalize()
				ev = Event{Profile: change.FullDocument}
			default:
				// An update whose post-image was already gone by the
				// time the lookup ran. Skip it; the delete event follows.
				continue
			}

			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}

			if ev.Err != nil {
				return
			}
		}

		if err := cs.Err(); err != nil && ctx.Err() == nil {
			select {
			case events <- Event{Err: err}:
			case <-ctx.Done():
			}
		}
	}()

	return events, nil
}
