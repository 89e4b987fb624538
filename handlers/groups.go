package handlers

import (
	"context"
	"net/http"

	"education-backend/models"

	"github.com/sirupsen/logrus"
)

// GroupStore is the storage the group handlers need.
type GroupStore interface {
	Create(ctx context.Context, name string, parentID *int64) (*models.Group, error)
	ListAll(ctx context.Context) ([]models.GroupWithSubgroups, error)
	GetByID(ctx context.Context, id int64) (*models.Group, error)
	Update(ctx context.Context, id int64, name *string, parentID models.OptionalInt64) (*models.Group, error)
	Delete(ctx context.Context, id int64) error
}

type GroupHandler struct {
	groups GroupStore
}

func NewGroupHandler(groups GroupStore) *GroupHandler {
	return &GroupHandler{groups: groups}
}

func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGroupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	log := logrus.WithFields(logrus.Fields{"op": "CreateGroup", "name": req.Name})
	if req.ParentID != nil {
		log = log.WithField("parent_id", *req.ParentID)
	}

	group, err := h.groups.Create(r.Context(), req.Name, req.ParentID)
	if err != nil {
		writeRepositoryError(w, log, err, http.StatusConflict)
		return
	}

	log.WithField("id", group.ID).Info("Group created successfully")
	writeJSON(w, http.StatusCreated, group)
}

func (h *GroupHandler) GetGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groups.ListAll(r.Context())
	if err != nil {
		writeRepositoryError(w, logrus.WithField("op", "GetGroups"), err, http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Invalid group ID")
		return
	}

	group, err := h.groups.GetByID(r.Context(), id)
	if err != nil {
		writeRepositoryError(w, logrus.WithFields(logrus.Fields{"op": "GetGroup", "id": id}), err, http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, group.Summary())
}

func (h *GroupHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Invalid group ID")
		return
	}

	var req models.UpdateGroupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	log := logrus.WithFields(logrus.Fields{"op": "UpdateGroup", "id": id})
	group, err := h.groups.Update(r.Context(), id, req.Name, req.ParentID)
	if err != nil {
		writeRepositoryError(w, log, err, http.StatusConflict)
		return
	}

	log.Info("Group updated successfully")
	writeJSON(w, http.StatusOK, group)
}

// DeleteGroup answers 400, not 409, when the group still has subgroups or
// students; clients depend on that status.
func (h *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Invalid group ID")
		return
	}

	log := logrus.WithFields(logrus.Fields{"op": "DeleteGroup", "id": id})
	if err := h.groups.Delete(r.Context(), id); err != nil {
		writeRepositoryError(w, log, err, http.StatusBadRequest)
		return
	}

	log.Info("Group deleted successfully")
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: deletedMessage})
}
