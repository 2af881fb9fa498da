package postgres

import (
	"context"
	"database/sql"

	"github.com/vsinha/opsched/pkg/domain/entities"
	schederrors "github.com/vsinha/opsched/pkg/domain/errors"
	"github.com/vsinha/opsched/pkg/domain/repositories"
)

// AssemblyRepository loads method trees from the "make_methods" table.
type AssemblyRepository struct {
	db *Database
}

// NewAssemblyRepository wraps db for assembly tree storage.
func NewAssemblyRepository(db *Database) *AssemblyRepository {
	return &AssemblyRepository{db: db}
}

var _ repositories.AssemblyRepository = (*AssemblyRepository)(nil)

// GetRootMakeMethod loads every make method for jobID and assembles them into a tree
// rooted at the node with a null parent_material_id.
func (r *AssemblyRepository) GetRootMakeMethod(ctx context.Context, jobID entities.JobID) (*entities.MakeMethod, error) {
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, parent_material_id, item_id
		FROM make_methods
		WHERE job_id = $1
		ORDER BY id
	`, jobID)
	if err != nil {
		return nil, schederrors.New(schederrors.StorageError, "postgres.AssemblyRepository.GetRootMakeMethod", err)
	}
	defer rows.Close()

	byID := make(map[entities.MakeMethodID]*entities.MakeMethod)
	var ordered []*entities.MakeMethod
	var root *entities.MakeMethod

	for rows.Next() {
		var id, itemID string
		var parent sql.NullString
		if err := rows.Scan(&id, &parent, &itemID); err != nil {
			return nil, schederrors.New(schederrors.StorageError, "postgres.AssemblyRepository.GetRootMakeMethod", err)
		}
		m := &entities.MakeMethod{ID: entities.MakeMethodID(id), ItemID: itemID}
		if parent.Valid {
			parentID := entities.MakeMethodID(parent.String)
			m.ParentMaterialID = &parentID
		} else {
			root = m
		}
		byID[m.ID] = m
		ordered = append(ordered, m)
	}
	if err := rows.Err(); err != nil {
		return nil, schederrors.New(schederrors.StorageError, "postgres.AssemblyRepository.GetRootMakeMethod", err)
	}
	if root == nil {
		return nil, schederrors.New(schederrors.NotFound, "postgres.AssemblyRepository.GetRootMakeMethod", nil)
	}

	for _, m := range ordered {
		if m.ParentMaterialID == nil {
			continue
		}
		if parent, ok := byID[*m.ParentMaterialID]; ok {
			parent.Children = append(parent.Children, m)
		}
	}

	return root, nil
}
