package models

// Student is a row of the students table as exposed by the API. The email is
// write-only: it is accepted on create but never returned.
type Student struct {
	ID      int64  `json:"id" db:"id"`
	GroupID int64  `json:"group_id" db:"group_id"`
	Name    string `json:"name" db:"name"`
}

type CreateStudentRequest struct {
	Name    string `json:"name" validate:"required,notblank,max=100"`
	Email   string `json:"email" validate:"required,email,max=100"`
	GroupID *int64 `json:"group_id" validate:"required"`
}

type UpdateStudentRequest struct {
	Name    *string       `json:"name" validate:"omitnil,notblank,max=100"`
	GroupID OptionalInt64 `json:"group_id"`
}

// MessageResponse is returned by successful deletes.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Description string `json:"description"`
}
