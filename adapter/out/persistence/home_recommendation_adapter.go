package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ruralhome_server/core/domain"
	"ruralhome_server/core/port/out"
	"ruralhome_server/pkg/snowflake"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// RecommendationRepository implements out.RecommendationStore on Postgres.
//
// Expected table:
//
//	recommendations(id bigint, user_id uuid, candidate_id text, snapshot jsonb,
//	                match_score int, created_at timestamptz,
//	                PRIMARY KEY (user_id, candidate_id))
type RecommendationRepository struct {
	db  *sqlx.DB
	ids *snowflake.Generator
}

var _ out.RecommendationStore = (*RecommendationRepository)(nil)

func NewRecommendationRepository(db *sqlx.DB, ids *snowflake.Generator) *RecommendationRepository {
	return &RecommendationRepository{db: db, ids: ids}
}

type recommendationRow struct {
	ID          int64     `db:"id"`
	UserID      uuid.UUID `db:"user_id"`
	CandidateID string    `db:"candidate_id"`
	Snapshot    []byte    `db:"snapshot"`
	MatchScore  int       `db:"match_score"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r *recommendationRow) toDomain() (*domain.Recommendation, error) {
	rec := &domain.Recommendation{
		ID:          r.ID,
		UserID:      r.UserID,
		CandidateID: r.CandidateID,
		MatchScore:  r.MatchScore,
		CreatedAt:   r.CreatedAt,
	}
	if len(r.Snapshot) > 0 {
		if err := json.Unmarshal(r.Snapshot, &rec.Snapshot); err != nil {
			return nil, fmt.Errorf("decode snapshot %s: %w", r.CandidateID, err)
		}
	}
	return rec, nil
}

func newRecommendationRow(id int64, userID uuid.UUID, candidate domain.Candidate, matchScore int, now time.Time) (*recommendationRow, error) {
	if candidate.ID == "" {
		return nil, fmt.Errorf("%w: candidate id is empty", ErrInvalidInput)
	}
	snapshot, err := json.Marshal(candidate)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return &recommendationRow{
		ID:          id,
		UserID:      userID,
		CandidateID: candidate.ID,
		Snapshot:    snapshot,
		MatchScore:  matchScore,
		CreatedAt:   now.UTC(),
	}, nil
}

const selectRecommendation = `
	SELECT id, user_id, candidate_id, snapshot, match_score, created_at
	FROM recommendations`

// Create inserts unless the pair already exists, then returns the stored row.
func (r *RecommendationRepository) Create(ctx context.Context, userID uuid.UUID, candidate domain.Candidate, matchScore int) (*domain.Recommendation, error) {
	id, err := r.ids.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}
	row, err := newRecommendationRow(id, userID, candidate, matchScore, time.Now())
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO recommendations (id, user_id, candidate_id, snapshot, match_score, created_at)
		VALUES (:id, :user_id, :candidate_id, :snapshot, :match_score, :created_at)
		ON CONFLICT (user_id, candidate_id) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return nil, fmt.Errorf("insert recommendation: %w", err)
	}

	var stored recommendationRow
	err = r.db.GetContext(ctx, &stored, selectRecommendation+`
		WHERE user_id = $1 AND candidate_id = $2`, userID, candidate.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// 동시 삭제와 경합한 경우
			return nil, fmt.Errorf("recommendation %s: %w", candidate.ID, ErrNotFound)
		}
		return nil, fmt.Errorf("get recommendation: %w", err)
	}
	return stored.toDomain()
}

func (r *RecommendationRepository) Delete(ctx context.Context, userID uuid.UUID, candidateID string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM recommendations WHERE user_id = $1 AND candidate_id = $2`,
		userID, candidateID)
	if err != nil {
		return 0, fmt.Errorf("delete recommendation: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete recommendation rows: %w", err)
	}
	return n, nil
}

func (r *RecommendationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Recommendation, error) {
	var rows []recommendationRow
	if err := r.db.SelectContext(ctx, &rows, selectRecommendation+`
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, userID); err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}

	recs := make([]*domain.Recommendation, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
