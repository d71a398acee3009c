package score

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/inamate/engrave/internal/db/dbgen"
	"github.com/inamate/engrave/internal/document"
	"github.com/inamate/engrave/internal/engine"
	"github.com/inamate/engrave/internal/notation"
	"github.com/inamate/engrave/internal/typeid"
	"github.com/inamate/engrave/internal/view"
)

var (
	ErrNotFound        = errors.New("score not found")
	ErrInvalidDocument = errors.New("invalid score document")
)

type Service struct {
	queries    dbgen.Querier
	engineOpts []engine.Option
	now        func() time.Time
}

func NewService(queries dbgen.Querier, opts ...engine.Option) *Service {
	return &Service{queries: queries, engineOpts: opts, now: time.Now}
}

type Score struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Create stores a new score with an initial snapshot, either an empty page or the sample
// score.
func (s *Service) Create(ctx context.Context, title string, sample bool) (*Score, error) {
	scoreID := typeid.NewScoreID()

	dbScore, err := s.queries.CreateScore(ctx, dbgen.CreateScoreParams{
		ID:    scoreID,
		Title: title,
	})
	if err != nil {
		return nil, fmt.Errorf("create score: %w", err)
	}

	var doc *document.Score
	if sample {
		doc = document.NewSampleScore(scoreID)
		doc.Meta.Title = title
	} else {
		doc = document.NewEmptyScore(scoreID, title, typeid.New("page"), s.now().UTC().Format(time.RFC3339))
	}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal initial document: %w", err)
	}

	_, err = s.queries.CreateSnapshot(ctx, dbgen.CreateSnapshotParams{
		ID:       typeid.NewSnapshotID(),
		ScoreID:  scoreID,
		Version:  1,
		Document: docJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return dbScoreToScore(dbScore), nil
}

func (s *Service) Get(ctx context.Context, scoreID string) (*Score, error) {
	dbScore, err := s.queries.GetScore(ctx, scoreID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get score: %w", err)
	}
	return dbScoreToScore(dbScore), nil
}

func (s *Service) List(ctx context.Context) ([]Score, error) {
	dbScores, err := s.queries.ListScores(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}

	scores := make([]Score, len(dbScores))
	for i, sc := range dbScores {
		scores[i] = *dbScoreToScore(sc)
	}
	return scores, nil
}

func (s *Service) Delete(ctx context.Context, scoreID string) error {
	n, err := s.queries.DeleteScore(ctx, scoreID)
	if err != nil {
		return fmt.Errorf("delete score: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveSnapshot validates doc and stores it as the next version of the score. It returns the
// new version number.
func (s *Service) SaveSnapshot(ctx context.Context, scoreID string, doc json.RawMessage) (int, error) {
	e := s.newEngine()
	if err := e.LoadDocument(string(doc)); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if _, err := s.Get(ctx, scoreID); err != nil {
		return 0, err
	}

	next := int32(1)
	latest, err := s.queries.GetLatestSnapshot(ctx, scoreID)
	switch {
	case err == nil:
		next = latest.Version + 1
	case !errors.Is(err, pgx.ErrNoRows):
		return 0, fmt.Errorf("get latest snapshot: %w", err)
	}

	score := e.Score()
	score.Meta.ID = scoreID
	score.Meta.Version = int(next)
	score.Meta.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	docJSON, err := json.Marshal(score)
	if err != nil {
		return 0, fmt.Errorf("marshal document: %w", err)
	}

	_, err = s.queries.CreateSnapshot(ctx, dbgen.CreateSnapshotParams{
		ID:       typeid.NewSnapshotID(),
		ScoreID:  scoreID,
		Version:  next,
		Document: docJSON,
	})
	if err != nil {
		return 0, fmt.Errorf("create snapshot: %w", err)
	}
	if err := s.queries.TouchScore(ctx, scoreID); err != nil {
		return 0, fmt.Errorf("touch score: %w", err)
	}
	return int(next), nil
}

// LatestDocument returns the most recent snapshot of the score.
func (s *Service) LatestDocument(ctx context.Context, scoreID string) (json.RawMessage, error) {
	snap, err := s.queries.GetLatestSnapshot(ctx, scoreID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap.Document, nil
}

// Render draws the latest snapshot of the score as draw commands.
func (s *Service) Render(ctx context.Context, scoreID string) ([]view.DrawCommand, error) {
	e, err := s.load(ctx, scoreID)
	if err != nil {
		return nil, err
	}
	return e.RenderCommands()
}

// RenderPNG rasterises the latest snapshot of the score to w.
func (s *Service) RenderPNG(ctx context.Context, scoreID string, w io.Writer) error {
	e, err := s.load(ctx, scoreID)
	if err != nil {
		return err
	}
	return e.RenderPNG(w)
}

// TupletGeometry resolves one tuplet of the latest snapshot.
func (s *Service) TupletGeometry(ctx context.Context, scoreID, tupletID string) (notation.Coords, error) {
	e, err := s.load(ctx, scoreID)
	if err != nil {
		return notation.Coords{}, err
	}
	return e.TupletGeometry(tupletID)
}

func (s *Service) load(ctx context.Context, scoreID string) (*engine.Engine, error) {
	doc, err := s.LatestDocument(ctx, scoreID)
	if err != nil {
		return nil, err
	}
	e := s.newEngine()
	if err := e.LoadDocument(string(doc)); err != nil {
		return nil, fmt.Errorf("load snapshot of %s: %w", scoreID, err)
	}
	return e, nil
}

func (s *Service) newEngine() *engine.Engine {
	return engine.NewEngine(s.engineOpts...)
}

func dbScoreToScore(sc dbgen.Score) *Score {
	return &Score{
		ID:        sc.ID,
		Title:     sc.Title,
		CreatedAt: sc.CreatedAt.Time.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: sc.UpdatedAt.Time.Format("2006-01-02T15:04:05Z"),
	}
}
