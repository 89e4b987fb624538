package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes mounts the REST surface on r. Ids are digits only; any
// other path segment falls through to 404.
func RegisterRoutes(r *mux.Router, groups *GroupHandler, students *StudentHandler, system *SystemHandler) {
	// Группы
	r.HandleFunc("/groups", groups.CreateGroup).Methods("POST")
	r.HandleFunc("/groups", groups.GetGroups).Methods("GET")
	r.HandleFunc("/groups/{id:[0-9]+}", groups.GetGroup).Methods("GET")
	r.HandleFunc("/groups/{id:[0-9]+}", groups.UpdateGroup).Methods("PUT")
	r.HandleFunc("/groups/{id:[0-9]+}", groups.DeleteGroup).Methods("DELETE")

	// Студенты
	r.HandleFunc("/students", students.CreateStudent).Methods("POST")
	r.HandleFunc("/students", students.GetStudents).Methods("GET")
	r.HandleFunc("/students/{id:[0-9]+}", students.GetStudent).Methods("GET")
	r.HandleFunc("/students/{id:[0-9]+}", students.UpdateStudent).Methods("PUT")
	r.HandleFunc("/students/{id:[0-9]+}", students.DeleteStudent).Methods("DELETE")

	r.HandleFunc("/", system.Index).Methods("GET")
	r.HandleFunc("/health", system.Health).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "The requested URL was not found on the server.")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "The method is not allowed for the requested URL.")
	})
}
