package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"education-backend/models"

	"github.com/jmoiron/sqlx"
)

const (
	selectGroupByID = `SELECT id, parent_id, name FROM groups WHERE id = $1`
	groupExistsSQL  = `SELECT EXISTS(SELECT 1 FROM groups WHERE id = $1)`

	// Subgroups are found through the parent_id index; UNION stops the
	// walk should the stored tree ever contain a cycle.
	isDescendantSQL = `WITH RECURSIVE subtree AS (
		SELECT id FROM groups WHERE parent_id = $1
		UNION
		SELECT g.id FROM groups g JOIN subtree s ON g.parent_id = s.id
	)
	SELECT EXISTS(SELECT 1 FROM subtree WHERE id = $2)`

	// Moves are serialized tree-wide: row locks on the moved group and its
	// new parent cannot stop two moves from closing a longer cycle.
	lockGroupTreeSQL = `SELECT pg_advisory_xact_lock($1)`
)

// groupTreeLockKey identifies the advisory lock guarding parent changes.
const groupTreeLockKey int64 = 7_340_021

type GroupRepository struct {
	db *sqlx.DB
}

func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create inserts a group. A non-nil parentID must reference an existing group.
func (r *GroupRepository) Create(ctx context.Context, name string, parentID *int64) (*models.Group, error) {
	if parentID != nil {
		exists, err := groupExists(ctx, r.db, *parentID)
		if err != nil {
			return nil, fmt.Errorf("error checking parent group %d: %w", *parentID, err)
		}
		if !exists {
			return nil, missingGroup("group", "Create", parentID)
		}
	}

	group := models.Group{Name: name, ParentID: parentID}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO groups (name, parent_id) VALUES ($1, $2) RETURNING id`,
		name, parentID,
	).Scan(&group.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, missingGroup("group", "Create", parentID)
		}
		return nil, fmt.Errorf("error creating group: %w", err)
	}

	return &group, nil
}

// ListAll returns every group with its direct subgroups, in id order.
func (r *GroupRepository) ListAll(ctx context.Context) ([]models.GroupWithSubgroups, error) {
	var groups []models.Group
	if err := r.db.SelectContext(ctx, &groups, `SELECT id, parent_id, name FROM groups ORDER BY id`); err != nil {
		return nil, fmt.Errorf("error listing groups: %w", err)
	}

	children := make(map[int64][]models.GroupSummary, len(groups))
	for _, g := range groups {
		if g.ParentID != nil {
			children[*g.ParentID] = append(children[*g.ParentID], g.Summary())
		}
	}

	result := make([]models.GroupWithSubgroups, 0, len(groups))
	for _, g := range groups {
		subGroups := children[g.ID]
		if subGroups == nil {
			subGroups = []models.GroupSummary{}
		}
		result = append(result, models.GroupWithSubgroups{
			ID:        g.ID,
			Name:      g.Name,
			SubGroups: subGroups,
		})
	}
	return result, nil
}

func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*models.Group, error) {
	var group models.Group
	if err := r.db.GetContext(ctx, &group, selectGroupByID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, groupNotFound("GetByID", id)
		}
		return nil, fmt.Errorf("error fetching group %d: %w", id, err)
	}
	return &group, nil
}

// Update changes only the supplied fields. parentID.Set with a nil Value
// moves the group to the root level.
func (r *GroupRepository) Update(ctx context.Context, id int64, name *string, parentID models.OptionalInt64) (*models.Group, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	// Taken before the row lock so a mover never waits on it while holding
	// a row another mover's FK check needs.
	if parentID.Set && parentID.Value != nil {
		if _, err := tx.ExecContext(ctx, lockGroupTreeSQL, groupTreeLockKey); err != nil {
			return nil, fmt.Errorf("error locking group tree: %w", err)
		}
	}

	var group models.Group
	if err := tx.GetContext(ctx, &group, selectGroupByID+` FOR UPDATE`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, groupNotFound("Update", id)
		}
		return nil, fmt.Errorf("error fetching group %d: %w", id, err)
	}

	if parentID.Set {
		if parentID.Value != nil {
			if err := checkNewParent(ctx, tx, id, *parentID.Value); err != nil {
				return nil, err
			}
		}
		group.ParentID = parentID.Value
	}
	if name != nil {
		group.Name = *name
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE groups SET name = $1, parent_id = $2 WHERE id = $3`,
		group.Name, group.ParentID, id,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, missingGroup("group", "Update", parentID.Value)
		}
		return nil, fmt.Errorf("error updating group %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing group %d: %w", id, err)
	}
	return &group, nil
}

// checkNewParent rejects a parent that does not exist or that lies inside
// the subtree rooted at id.
func checkNewParent(ctx context.Context, q sqlx.QueryerContext, id, parentID int64) error {
	if parentID == id {
		return newError("group", "Update", ErrBadRequest,
			fmt.Sprintf("Group %d cannot be moved under its own subtree", id))
	}

	exists, err := groupExists(ctx, q, parentID)
	if err != nil {
		return fmt.Errorf("error checking parent group %d: %w", parentID, err)
	}
	if !exists {
		return missingGroup("group", "Update", &parentID)
	}

	var descendant bool
	if err := sqlx.GetContext(ctx, q, &descendant, isDescendantSQL, id, parentID); err != nil {
		return fmt.Errorf("error walking subtree of group %d: %w", id, err)
	}
	if descendant {
		return newError("group", "Update", ErrBadRequest,
			fmt.Sprintf("Group %d cannot be moved under its own subtree", id))
	}
	return nil
}

// Delete removes a childless group that no student belongs to.
func (r *GroupRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	var locked int64
	if err := tx.GetContext(ctx, &locked, `SELECT id FROM groups WHERE id = $1 FOR UPDATE`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return groupNotFound("Delete", id)
		}
		return fmt.Errorf("error fetching group %d: %w", id, err)
	}

	var hasSubgroups bool
	if err := tx.GetContext(ctx, &hasSubgroups, `SELECT EXISTS(SELECT 1 FROM groups WHERE parent_id = $1)`, id); err != nil {
		return fmt.Errorf("error checking subgroups of group %d: %w", id, err)
	}
	if hasSubgroups {
		return newError("group", "Delete", ErrConflict, "Group has subgroups, cannot delete.")
	}

	var hasStudents bool
	if err := tx.GetContext(ctx, &hasStudents, `SELECT EXISTS(SELECT 1 FROM students WHERE group_id = $1)`, id); err != nil {
		return fmt.Errorf("error checking students of group %d: %w", id, err)
	}
	if hasStudents {
		return newError("group", "Delete", ErrConflict, "Group has students, cannot delete.")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return wrapError("group", "Delete", ErrConflict, "Group is still referenced, cannot delete.", err)
		}
		return fmt.Errorf("error deleting group %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing delete of group %d: %w", id, err)
	}
	return nil
}

func groupExists(ctx context.Context, q sqlx.QueryerContext, id int64) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, q, &exists, groupExistsSQL, id)
	return exists, err
}
