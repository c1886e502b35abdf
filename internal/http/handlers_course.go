package http

import (
	"net/http"
	"time"

	"lifeadmin/internal/core"
)

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	courses, err := s.repo.ListCourses(r.Context(), limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if courses == nil {
		courses = []core.Course{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"courses": courses})
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var course core.Course
	if err := decodeJSON(r, &course); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := course.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	stampCompletion(&course)

	if err := s.repo.CreateCourse(r.Context(), &course); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	var course core.Course
	if err := decodeJSON(r, &course); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	course.ID = r.PathValue("id")
	if err := course.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	stampCompletion(&course)

	if err := s.repo.UpdateCourse(r.Context(), &course); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteCourse(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// stampCompletion records when a course first turns completed, under either
// convention, so the activity feed has a real timestamp to sort by.
func stampCompletion(c *core.Course) {
	if c.IsCompleted() && c.CompletedAt.IsZero() {
		c.CompletedAt = time.Now()
	}
}
