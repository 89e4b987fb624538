package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"education-backend/models"
	"education-backend/repository"

	"github.com/sirupsen/logrus"
)

func TestMain(m *testing.M) {
	logrus.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// memDB is an in-memory stand-in for the two Postgres repositories. It
// reproduces their error kinds and messages, not their SQL.
type memDB struct {
	groups        []models.Group
	students      []memStudent
	nextGroupID   int64
	nextStudentID int64
}

type memStudent struct {
	models.Student
	Email string
}

func newMemDB() *memDB {
	return &memDB{nextGroupID: 1, nextStudentID: 1}
}

func (db *memDB) group(id int64) (int, bool) {
	for i, g := range db.groups {
		if g.ID == id {
			return i, true
		}
	}
	return -1, false
}

func notFound(entity string, id int64) error {
	return &repository.Error{
		Entity:  strings.ToLower(entity),
		Kind:    repository.ErrNotFound,
		Message: fmt.Sprintf("%s with id %d not found", entity, id),
	}
}

func badGroup(id int64) error {
	return &repository.Error{
		Entity:  "student",
		Kind:    repository.ErrBadRequest,
		Message: fmt.Sprintf("Group with id %d does not exist", id),
	}
}

type memGroups struct{ db *memDB }

func (s memGroups) Create(_ context.Context, name string, parentID *int64) (*models.Group, error) {
	if parentID != nil {
		if _, ok := s.db.group(*parentID); !ok {
			return nil, badGroup(*parentID)
		}
	}
	g := models.Group{ID: s.db.nextGroupID, Name: name, ParentID: parentID}
	s.db.nextGroupID++
	s.db.groups = append(s.db.groups, g)
	return &g, nil
}

func (s memGroups) ListAll(_ context.Context) ([]models.GroupWithSubgroups, error) {
	result := []models.GroupWithSubgroups{}
	for _, g := range s.db.groups {
		subs := []models.GroupSummary{}
		for _, c := range s.db.groups {
			if c.ParentID != nil && *c.ParentID == g.ID {
				subs = append(subs, c.Summary())
			}
		}
		result = append(result, models.GroupWithSubgroups{ID: g.ID, Name: g.Name, SubGroups: subs})
	}
	return result, nil
}

func (s memGroups) GetByID(_ context.Context, id int64) (*models.Group, error) {
	i, ok := s.db.group(id)
	if !ok {
		return nil, notFound("Group", id)
	}
	g := s.db.groups[i]
	return &g, nil
}

func (s memGroups) Update(_ context.Context, id int64, name *string, parentID models.OptionalInt64) (*models.Group, error) {
	i, ok := s.db.group(id)
	if !ok {
		return nil, notFound("Group", id)
	}
	g := s.db.groups[i]
	if parentID.Set {
		if parentID.Value != nil {
			if _, ok := s.db.group(*parentID.Value); !ok {
				return nil, badGroup(*parentID.Value)
			}
		}
		g.ParentID = parentID.Value
	}
	if name != nil {
		g.Name = *name
	}
	s.db.groups[i] = g
	return &g, nil
}

func (s memGroups) Delete(_ context.Context, id int64) error {
	i, ok := s.db.group(id)
	if !ok {
		return notFound("Group", id)
	}
	for _, c := range s.db.groups {
		if c.ParentID != nil && *c.ParentID == id {
			return &repository.Error{Entity: "group", Kind: repository.ErrConflict, Message: "Group has subgroups, cannot delete."}
		}
	}
	for _, st := range s.db.students {
		if st.GroupID == id {
			return &repository.Error{Entity: "group", Kind: repository.ErrConflict, Message: "Group has students, cannot delete."}
		}
	}
	s.db.groups = append(s.db.groups[:i], s.db.groups[i+1:]...)
	return nil
}

type memStudents struct{ db *memDB }

func (s memStudents) find(id int64) (int, bool) {
	for i, st := range s.db.students {
		if st.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s memStudents) Create(_ context.Context, name, email string, groupID int64) (*models.Student, error) {
	if _, ok := s.db.group(groupID); !ok {
		return nil, badGroup(groupID)
	}
	for _, st := range s.db.students {
		if st.Email == email {
			return nil, &repository.Error{
				Entity:  "student",
				Kind:    repository.ErrConflict,
				Message: "Email already exists: " + email,
			}
		}
	}
	st := memStudent{Student: models.Student{ID: s.db.nextStudentID, GroupID: groupID, Name: name}, Email: email}
	s.db.nextStudentID++
	s.db.students = append(s.db.students, st)
	return &st.Student, nil
}

func (s memStudents) List(_ context.Context, query string) ([]models.Student, error) {
	result := []models.Student{}
	q := strings.ToLower(query)
	for _, st := range s.db.students {
		if q == "" || strings.Contains(strings.ToLower(st.Name), q) || s.groupNameContains(st.GroupID, q) {
			result = append(result, st.Student)
		}
	}
	return result, nil
}

func (s memStudents) groupNameContains(groupID int64, q string) bool {
	i, ok := s.db.group(groupID)
	return ok && strings.Contains(strings.ToLower(s.db.groups[i].Name), q)
}

func (s memStudents) GetByID(_ context.Context, id int64) (*models.Student, error) {
	i, ok := s.find(id)
	if !ok {
		return nil, notFound("Student", id)
	}
	st := s.db.students[i].Student
	return &st, nil
}

func (s memStudents) Update(_ context.Context, id int64, name *string, groupID models.OptionalInt64) (*models.Student, error) {
	i, ok := s.find(id)
	if !ok {
		return nil, notFound("Student", id)
	}
	st := s.db.students[i]
	if groupID.Set {
		if groupID.Value == nil {
			return nil, &repository.Error{Entity: "student", Kind: repository.ErrBadRequest, Message: "Group with id null does not exist"}
		}
		if _, ok := s.db.group(*groupID.Value); !ok {
			return nil, badGroup(*groupID.Value)
		}
		st.GroupID = *groupID.Value
	}
	if name != nil {
		st.Name = *name
	}
	s.db.students[i] = st
	return &st.Student, nil
}

func (s memStudents) Delete(_ context.Context, id int64) error {
	i, ok := s.find(id)
	if !ok {
		return notFound("Student", id)
	}
	s.db.students = append(s.db.students[:i], s.db.students[i+1:]...)
	return nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }
