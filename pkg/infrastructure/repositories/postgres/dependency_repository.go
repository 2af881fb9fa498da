package postgres

import (
	"context"

	"github.com/vsinha/opsched/pkg/domain/entities"
	schederrors "github.com/vsinha/opsched/pkg/domain/errors"
	"github.com/vsinha/opsched/pkg/domain/repositories"
)

// DependencyRepository persists dependency edges in the "operation_dependencies"
// table, one row per (operation, depends_on) pair.
type DependencyRepository struct {
	db *Database
}

// NewDependencyRepository wraps db for dependency edge storage.
func NewDependencyRepository(db *Database) *DependencyRepository {
	return &DependencyRepository{db: db}
}

var _ repositories.DependencyRepository = (*DependencyRepository)(nil)

// ReplaceDependencies atomically deletes jobID's prior edges and inserts nodes.
func (r *DependencyRepository) ReplaceDependencies(ctx context.Context, companyID string, jobID entities.JobID, nodes map[entities.OperationID]*entities.DependencyNode) error {
	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return schederrors.New(schederrors.StorageError, "postgres.DependencyRepository.ReplaceDependencies", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM operation_dependencies WHERE job_id = $1`, jobID); err != nil {
		return schederrors.New(schederrors.StorageError, "postgres.DependencyRepository.ReplaceDependencies", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO operation_dependencies (job_id, operation_id, depends_on_id)
		VALUES ($1, $2, $3)
	`)
	if err != nil {
		return schederrors.New(schederrors.StorageError, "postgres.DependencyRepository.ReplaceDependencies", err)
	}
	defer stmt.Close()

	for _, node := range nodes {
		for _, dep := range node.DependsOn {
			if _, err := stmt.ExecContext(ctx, jobID, node.OperationID, dep); err != nil {
				return schederrors.New(schederrors.StorageError, "postgres.DependencyRepository.ReplaceDependencies", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return schederrors.New(schederrors.StorageError, "postgres.DependencyRepository.ReplaceDependencies", err)
	}
	return nil
}
