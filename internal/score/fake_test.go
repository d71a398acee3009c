package score

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/inamate/engrave/internal/db/dbgen"
)

// memQueries is an in-memory dbgen.Querier.
type memQueries struct {
	mu        sync.Mutex
	scores    map[string]dbgen.Score
	snapshots map[string][]dbgen.Snapshot
	clock     time.Time
}

func newMemQueries() *memQueries {
	return &memQueries{
		scores:    map[string]dbgen.Score{},
		snapshots: map[string][]dbgen.Snapshot{},
		clock:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (q *memQueries) tick() pgtype.Timestamptz {
	q.clock = q.clock.Add(time.Second)
	return pgtype.Timestamptz{Time: q.clock, Valid: true}
}

func (q *memQueries) CreateScore(_ context.Context, arg dbgen.CreateScoreParams) (dbgen.Score, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	now := q.tick()
	sc := dbgen.Score{ID: arg.ID, Title: arg.Title, CreatedAt: now, UpdatedAt: now}
	q.scores[arg.ID] = sc
	return sc, nil
}

func (q *memQueries) CreateSnapshot(_ context.Context, arg dbgen.CreateSnapshotParams) (dbgen.Snapshot, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	snap := dbgen.Snapshot{ID: arg.ID, ScoreID: arg.ScoreID, Version: arg.Version, Document: arg.Document, CreatedAt: q.tick()}
	q.snapshots[arg.ScoreID] = append(q.snapshots[arg.ScoreID], snap)
	return snap, nil
}

func (q *memQueries) DeleteScore(_ context.Context, id string) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.scores[id]; !ok {
		return 0, nil
	}
	delete(q.scores, id)
	delete(q.snapshots, id)
	return 1, nil
}

func (q *memQueries) GetLatestSnapshot(_ context.Context, scoreID string) (dbgen.Snapshot, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	snaps := q.snapshots[scoreID]
	if len(snaps) == 0 {
		return dbgen.Snapshot{}, pgx.ErrNoRows
	}
	latest := snaps[0]
	for _, s := range snaps[1:] {
		if s.Version > latest.Version {
			latest = s
		}
	}
	return latest, nil
}

func (q *memQueries) GetScore(_ context.Context, id string) (dbgen.Score, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	sc, ok := q.scores[id]
	if !ok {
		return dbgen.Score{}, pgx.ErrNoRows
	}
	return sc, nil
}

func (q *memQueries) ListScores(_ context.Context) ([]dbgen.Score, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]dbgen.Score, 0, len(q.scores))
	for _, sc := range q.scores {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Time.After(out[j].UpdatedAt.Time) })
	return out, nil
}

func (q *memQueries) TouchScore(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	sc, ok := q.scores[id]
	if !ok {
		return nil
	}
	sc.UpdatedAt = q.tick()
	q.scores[id] = sc
	return nil
}

var _ dbgen.Querier = (*memQueries)(nil)
