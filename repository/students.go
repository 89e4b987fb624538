package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"education-backend/models"

	"github.com/jmoiron/sqlx"
)

const (
	selectStudentByID = `SELECT id, group_id, name FROM students WHERE id = $1`

	// FOR SHARE keeps the group from being deleted until the student write
	// commits.
	lockGroupForShare = `SELECT id FROM groups WHERE id = $1 FOR SHARE`

	searchStudentsSQL = `SELECT s.id, s.group_id, s.name
		FROM students s
		JOIN groups g ON g.id = s.group_id
		WHERE s.name ILIKE $1 ESCAPE '\' OR g.name ILIKE $1 ESCAPE '\'
		ORDER BY s.id`
)

type StudentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts a student into an existing group. Email uniqueness is left
// to the students_email unique index.
func (r *StudentRepository) Create(ctx context.Context, name, email string, groupID int64) (*models.Student, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockGroup(ctx, tx, "Create", groupID); err != nil {
		return nil, err
	}

	student := models.Student{GroupID: groupID, Name: name}
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO students (name, email, group_id) VALUES ($1, $2, $3) RETURNING id`,
		name, email, groupID,
	).Scan(&student.ID)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, wrapError("student", "Create", ErrConflict, fmt.Sprintf("Email already exists: %s", email), err)
		case isForeignKeyViolation(err):
			return nil, missingGroup("student", "Create", &groupID)
		default:
			return nil, wrapError("student", "Create", ErrBadRequest, fmt.Sprintf("Error creating student: %v", err), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapError("student", "Create", ErrBadRequest, fmt.Sprintf("Error creating student: %v", err), err)
	}
	return &student, nil
}

// List returns all students, or with a non-empty query only those whose own
// name or whose group's name contains it, ignoring case.
func (r *StudentRepository) List(ctx context.Context, query string) ([]models.Student, error) {
	students := []models.Student{}

	var err error
	if query == "" {
		err = r.db.SelectContext(ctx, &students, `SELECT id, group_id, name FROM students ORDER BY id`)
	} else {
		err = r.db.SelectContext(ctx, &students, searchStudentsSQL, "%"+escapeLike(query)+"%")
	}
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	return students, nil
}

func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	var student models.Student
	if err := r.db.GetContext(ctx, &student, selectStudentByID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, studentNotFound("GetByID", id)
		}
		return nil, fmt.Errorf("error fetching student %d: %w", id, err)
	}
	return &student, nil
}

// Update changes only the supplied fields. A supplied group id, including
// null, must reference an existing group.
func (r *StudentRepository) Update(ctx context.Context, id int64, name *string, groupID models.OptionalInt64) (*models.Student, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	var student models.Student
	if err := tx.GetContext(ctx, &student, selectStudentByID+` FOR UPDATE`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, studentNotFound("Update", id)
		}
		return nil, fmt.Errorf("error fetching student %d: %w", id, err)
	}

	if groupID.Set {
		if groupID.Value == nil {
			return nil, missingGroup("student", "Update", nil)
		}
		if err := lockGroup(ctx, tx, "Update", *groupID.Value); err != nil {
			return nil, err
		}
		student.GroupID = *groupID.Value
	}
	if name != nil {
		student.Name = *name
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE students SET name = $1, group_id = $2 WHERE id = $3`,
		student.Name, student.GroupID, id,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, missingGroup("student", "Update", groupID.Value)
		}
		return nil, fmt.Errorf("error updating student %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing student %d: %w", id, err)
	}
	return &student, nil
}

func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting student %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error deleting student %d: %w", id, err)
	}
	if rows == 0 {
		return studentNotFound("Delete", id)
	}
	return nil
}

func lockGroup(ctx context.Context, tx *sqlx.Tx, op string, groupID int64) error {
	var locked int64
	if err := tx.GetContext(ctx, &locked, lockGroupForShare, groupID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return missingGroup("student", op, &groupID)
		}
		return fmt.Errorf("error checking group %d: %w", groupID, err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
