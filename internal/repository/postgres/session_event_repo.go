package postgres

import (
	"context"

	"topjob-gateway/internal/domain"
	"topjob-gateway/pkg/apperror"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type sessionEventRepo struct {
	db *pgxpool.Pool
}

func NewSessionEventRepository(db *pgxpool.Pool) domain.SessionEventRepository {
	return &sessionEventRepo{db: db}
}

func (r *sessionEventRepo) Record(ctx context.Context, event *domain.SessionEvent) error {
	query := `INSERT INTO session_events (id, event_type, subject_id, email, previous_subject_id, cleared_slots, occurred_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		event.ID, event.Type, event.SubjectID, event.Email,
		event.PreviousSubjectID, pq.Array(event.ClearedSlots), event.OccurredAt,
	)
	if err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (r *sessionEventRepo) ListBySubject(ctx context.Context, subjectID string, limit int) ([]domain.SessionEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `SELECT id, event_type, subject_id, email, previous_subject_id, cleared_slots, occurred_at
              FROM session_events
              WHERE subject_id = $1
              ORDER BY occurred_at DESC
              LIMIT $2`
	rows, err := r.db.Query(ctx, query, subjectID, limit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	defer rows.Close()

	var events []domain.SessionEvent
	for rows.Next() {
		var event domain.SessionEvent
		var clearedSlots []string
		if err := rows.Scan(
			&event.ID, &event.Type, &event.SubjectID, &event.Email,
			&event.PreviousSubjectID, pq.Array(&clearedSlots), &event.OccurredAt,
		); err != nil {
			return nil, apperror.Internal(err)
		}
		event.ClearedSlots = clearedSlots
		events = append(events, event)
	}
	return events, rows.Err()
}
