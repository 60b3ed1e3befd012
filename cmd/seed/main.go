// Command seed populates a MongoDB deployment with development fixtures:
// a completed event with no-shows (so the next sweep exercises the roster
// cleanup cascade), an upcoming event, and a pair of workshops.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/hackdesk/hackdesk/internal/adapters/repository/mongodb"
	"github.com/hackdesk/hackdesk/internal/domain/model"
	"github.com/hackdesk/hackdesk/pkg/logger"
)

const defaultTimeout = 30 * time.Second

func main() {
	var (
		uri     = flag.String("uri", "mongodb://localhost:27017", "MongoDB connection URI")
		db      = flag.String("db", "hackdesk", "Database name")
		timeout = flag.Duration("timeout", defaultTimeout, "Overall seeding timeout")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Named("seed")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store, err := mongodb.Connect(ctx, *uri, *db)
	if err != nil {
		log.Error(ctx, "failed to connect to mongodb", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = store.Close(context.Background()) }()

	if err := seed(ctx, store); err != nil {
		log.Error(ctx, "seeding failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "fixtures inserted", logger.String("db", *db))
}

func seed(ctx context.Context, store *mongodb.Store) error {
	now := time.Now().UTC()

	alice := model.User{ID: uuid.NewString(), Name: "Alice", Email: "alice@example.com"}
	bob := model.User{ID: uuid.NewString(), Name: "Bob", Email: "bob@example.com"}
	carol := model.User{ID: uuid.NewString(), Name: "Carol", Email: "carol@example.com"}

	// Ongoing event already past its deadline: the first sweep completes it
	// and then evicts the two no-shows (bob, carol).
	pastEvent := model.Event{
		ID:                 uuid.NewString(),
		Name:               "Spring Hack",
		StartDate:          now.Add(-48 * time.Hour),
		EndDate:            now.Add(-24 * time.Hour),
		SubmissionDeadline: now.Add(-20 * time.Hour),
		Status:             model.StatusOngoing,
		Participants:       []string{alice.ID, bob.ID, carol.ID},
		CheckedIn:          []string{alice.ID},
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	builders := model.Team{
		ID:       uuid.NewString(),
		EventID:  pastEvent.ID,
		Name:     "Builders",
		JoinCode: "BUILD1",
		Members:  []string{alice.ID, bob.ID},
	}
	solo := model.Team{
		ID:       uuid.NewString(),
		EventID:  pastEvent.ID,
		Name:     "Solo",
		JoinCode: "SOLO42",
		Members:  []string{carol.ID},
	}
	pastEvent.Teams = []string{builders.ID, solo.ID}

	futureEvent := model.Event{
		ID:                 uuid.NewString(),
		Name:               "Winter Hack",
		StartDate:          now.Add(30 * 24 * time.Hour),
		EndDate:            now.Add(32 * 24 * time.Hour),
		SubmissionDeadline: now.Add(32 * 24 * time.Hour),
		Status:             model.StatusUpcoming,
		Participants:       []string{alice.ID},
		CheckedIn:          []string{},
		Teams:              []string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	workshops := []model.Workshop{
		{
			ID:        uuid.NewString(),
			Name:      "Intro to Go",
			StartDate: now.Add(-2 * time.Hour),
			EndDate:   now.Add(2 * time.Hour),
			Status:    model.StatusUpcoming,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        uuid.NewString(),
			Name:      "Shipping with MongoDB",
			StartDate: now.Add(72 * time.Hour),
			EndDate:   now.Add(75 * time.Hour),
			Status:    model.StatusUpcoming,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	for _, u := range []model.User{alice, bob, carol} {
		u.Events = []string{pastEvent.ID}
		if u.ID == alice.ID {
			u.Events = append(u.Events, futureEvent.ID)
		}
		u.Workshops = []string{}
		if err := store.InsertUser(ctx, u); err != nil {
			return err
		}
	}
	for _, e := range []model.Event{pastEvent, futureEvent} {
		if err := store.InsertEvent(ctx, e); err != nil {
			return err
		}
	}
	for _, t := range []model.Team{builders, solo} {
		if err := store.InsertTeam(ctx, t); err != nil {
			return err
		}
	}
	for _, w := range workshops {
		if err := store.InsertWorkshop(ctx, w); err != nil {
			return err
		}
	}
	return nil
}
