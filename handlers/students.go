package handlers

import (
	"context"
	"net/http"

	"education-backend/models"

	"github.com/sirupsen/logrus"
)

// StudentStore is the storage the student handlers need.
type StudentStore interface {
	Create(ctx context.Context, name, email string, groupID int64) (*models.Student, error)
	List(ctx context.Context, query string) ([]models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	Update(ctx context.Context, id int64, name *string, groupID models.OptionalInt64) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
}

type StudentHandler struct {
	students StudentStore
}

func NewStudentHandler(students StudentStore) *StudentHandler {
	return &StudentHandler{students: students}
}

// GetStudents lists all students, or with ?query= those whose name or
// group name contains the query.
func (h *StudentHandler) GetStudents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	students, err := h.students.List(r.Context(), query)
	if err != nil {
		writeRepositoryError(w, logrus.WithFields(logrus.Fields{"op": "GetStudents", "query": query}), err, http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStudentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	log := logrus.WithFields(logrus.Fields{"op": "CreateStudent", "group_id": *req.GroupID})
	student, err := h.students.Create(r.Context(), req.Name, req.Email, *req.GroupID)
	if err != nil {
		writeRepositoryError(w, log, err, http.StatusConflict)
		return
	}

	log.WithField("id", student.ID).Info("Student created successfully")
	writeJSON(w, http.StatusCreated, student)
}

func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Invalid student ID")
		return
	}

	student, err := h.students.GetByID(r.Context(), id)
	if err != nil {
		writeRepositoryError(w, logrus.WithFields(logrus.Fields{"op": "GetStudent", "id": id}), err, http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (h *StudentHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Invalid student ID")
		return
	}

	var req models.UpdateStudentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	log := logrus.WithFields(logrus.Fields{"op": "UpdateStudent", "id": id})
	student, err := h.students.Update(r.Context(), id, req.Name, req.GroupID)
	if err != nil {
		writeRepositoryError(w, log, err, http.StatusConflict)
		return
	}

	log.Info("Student updated successfully")
	writeJSON(w, http.StatusOK, student)
}

func (h *StudentHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Invalid student ID")
		return
	}

	log := logrus.WithFields(logrus.Fields{"op": "DeleteStudent", "id": id})
	if err := h.students.Delete(r.Context(), id); err != nil {
		writeRepositoryError(w, log, err, http.StatusConflict)
		return
	}

	log.Info("Student deleted successfully")
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: deletedMessage})
}
