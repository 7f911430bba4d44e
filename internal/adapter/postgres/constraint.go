package postgres

import (
	"context"
	"fmt"

	"github.com/arlan-b/fleet-snapshot-system/internal/domain/models"
	"github.com/arlan-b/fleet-snapshot-system/internal/domain/types"
	wrap "github.com/arlan-b/fleet-snapshot-system/pkg/logger/wrapper"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConstraintRepo reads the persisted reverse-mapping artifact. The table is
// regenerated by an out-of-band bootstrap process from a full tenant roster
// dump; this repo never writes to it.
type ConstraintRepo struct {
	db *pgxpool.Pool
}

func NewConstraintRepo(db *pgxpool.Pool) *ConstraintRepo {
	return &ConstraintRepo{
		db: db,
	}
}

// LoadMappings returns the full id -> callsign/name table for both kinds.
func (r *ConstraintRepo) LoadMappings(ctx context.Context) ([]models.ConstraintMapping, error) {
	const op = "ConstraintRepo.LoadMappings"
	query := `
		SELECT kind, internal_id, callsign, full_name
		FROM constraint_mappings;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	defer rows.Close()

	var mappings []models.ConstraintMapping
	for rows.Next() {
		var (
			m    models.ConstraintMapping
			kind string
		)
		if err := rows.Scan(&kind, &m.ID, &m.Callsign, &m.Name); err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
		}
		m.Kind = types.ConstraintKind(kind)
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	return mappings, nil
}
