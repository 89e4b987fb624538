package models

// Group is a row of the groups table. ParentID is nil for root-level groups.
type Group struct {
	ID       int64  `json:"id" db:"id"`
	ParentID *int64 `json:"parent_id" db:"parent_id"`
	Name     string `json:"name" db:"name"`
}

// GroupSummary is the short {id, name} form used by GET /groups/{id} and
// inside subGroups.
type GroupSummary struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// GroupWithSubgroups is one element of the GET /groups listing.
type GroupWithSubgroups struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	SubGroups []GroupSummary `json:"subGroups"`
}

func (g Group) Summary() GroupSummary {
	return GroupSummary{ID: g.ID, Name: g.Name}
}

type CreateGroupRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=100"`
	ParentID *int64 `json:"parent_id"`
}

// UpdateGroupRequest distinguishes an absent parent_id (keep) from an
// explicit null (detach to root level).
type UpdateGroupRequest struct {
	Name     *string       `json:"name" validate:"omitnil,notblank,max=100"`
	ParentID OptionalInt64 `json:"parent_id"`
}
