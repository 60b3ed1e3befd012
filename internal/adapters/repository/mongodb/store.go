// Package mongodb implements the repository.Store contract on MongoDB.
//
// One collection per entity. Guarded status transitions are expressed as a
// conditional UpdateOne whose filter carries the expected current status, so
// the compare-and-set happens inside a single document write.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/hackdesk/hackdesk/internal/adapters/repository"
	"github.com/hackdesk/hackdesk/internal/domain/model"
)

const (
	eventsCollection    = "events"
	workshopsCollection = "workshops"
	teamsCollection     = "teams"
	usersCollection     = "users"

	connectTimeout = 10 * time.Second
)

// Store is the MongoDB-backed repository.Store.
type Store struct {
	client    *mongo.Client
	events    *mongo.Collection
	workshops *mongo.Collection
	teams     *mongo.Collection
	users     *mongo.Collection
}

var _ repository.Store = (*Store)(nil)

// Connect dials the MongoDB deployment at uri, pings the primary, and
// returns a Store over the named database.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(dbName)
	return &Store{
		client:    client,
		events:    db.Collection(eventsCollection),
		workshops: db.Collection(workshopsCollection),
		teams:     db.Collection(teamsCollection),
		users:     db.Collection(usersCollection),
	}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo disconnect: %w", err)
	}
	return nil
}

func (s *Store) ListEvents(ctx context.Context) ([]model.Event, error) {
	cursor, err := s.events.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer cursor.Close(ctx)

	var out []model.Event
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return out, nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (model.Event, error) {
	var e model.Event
	err := s.events.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Event{}, fmt.Errorf("event %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return model.Event{}, fmt.Errorf("get event %s: %w", id, err)
	}
	return e, nil
}

// guardedStatusUpdate performs the conditional status write and maps a
// zero-match result to not-found vs conflict by re-checking existence.
func (s *Store) guardedStatusUpdate(ctx context.Context, coll *mongo.Collection, kind, id string, from, to model.Status) error {
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("update %s %s status: %w", kind, id, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("check %s %s: %w", kind, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, repository.ErrNotFound)
	}
	return fmt.Errorf("%s %s no longer %s: %w", kind, id, from, repository.ErrConflict)
}

func (s *Store) UpdateEventStatus(ctx context.Context, id string, from, to model.Status) error {
	return s.guardedStatusUpdate(ctx, s.events, "event", id, from, to)
}

func (s *Store) UpdateEventRosters(ctx context.Context, id string, participants, teams []string) error {
	res, err := s.events.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"participants": participants,
			"teams":        teams,
			"updated_at":   time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("update event %s rosters: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("event %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (s *Store) ListWorkshops(ctx context.Context) ([]model.Workshop, error) {
	cursor, err := s.workshops.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list workshops: %w", err)
	}
	defer cursor.Close(ctx)

	var out []model.Workshop
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode workshops: %w", err)
	}
	return out, nil
}

func (s *Store) UpdateWorkshopStatus(ctx context.Context, id string, from, to model.Status) error {
	return s.guardedStatusUpdate(ctx, s.workshops, "workshop", id, from, to)
}

func (s *Store) GetUser(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

func (s *Store) UpdateUserEvents(ctx context.Context, id string, events []string) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"events": events}},
	)
	if err != nil {
		return fmt.Errorf("update user %s events: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (s *Store) FindTeamByEventAndMember(ctx context.Context, eventID, userID string) (model.Team, error) {
	var t model.Team
	err := s.teams.FindOne(ctx, bson.M{"event_id": eventID, "members": userID}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Team{}, fmt.Errorf("team for user %s in event %s: %w", userID, eventID, repository.ErrNotFound)
	}
	if err != nil {
		return model.Team{}, fmt.Errorf("find team for user %s in event %s: %w", userID, eventID, err)
	}
	return t, nil
}

func (s *Store) UpdateTeamMembers(ctx context.Context, id string, members []string) error {
	res, err := s.teams.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"members": members}},
	)
	if err != nil {
		return fmt.Errorf("update team %s members: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("team %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteTeam(ctx context.Context, id string) error {
	res, err := s.teams.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete team %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("team %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

// Insert helpers used by the seeder.

func (s *Store) InsertEvent(ctx context.Context, e model.Event) error {
	if _, err := s.events.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("insert event %s: %w", e.ID, err)
	}
	return nil
}

func (s *Store) InsertWorkshop(ctx context.Context, w model.Workshop) error {
	if _, err := s.workshops.InsertOne(ctx, w); err != nil {
		return fmt.Errorf("insert workshop %s: %w", w.ID, err)
	}
	return nil
}

func (s *Store) InsertTeam(ctx context.Context, t model.Team) error {
	if _, err := s.teams.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert team %s: %w", t.ID, err)
	}
	return nil
}

func (s *Store) InsertUser(ctx context.Context, u model.User) error {
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		return fmt.Errorf("insert user %s: %w", u.ID, err)
	}
	return nil
}
