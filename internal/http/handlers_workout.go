package http

import (
	"net/http"
	"time"

	"lifeadmin/internal/core"
)

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	workouts, err := s.repo.ListWorkouts(r.Context(), limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if workouts == nil {
		workouts = []core.Workout{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"workouts": workouts})
}

func (s *Server) handleWorkoutStats(w http.ResponseWriter, r *http.Request) {
	total, err := s.repo.CountWorkouts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	prevStart, prevEnd := core.PreviousMonthRange(time.Now())
	prev, err := s.repo.CountWorkoutsBetween(r.Context(), prevStart, prevEnd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":         total,
		"previousMonth": prev,
		"change":        core.PercentChange(float64(total), float64(prev)),
	})
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var workout core.Workout
	if err := decodeJSON(r, &workout); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := workout.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.repo.CreateWorkout(r.Context(), &workout); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}

func (s *Server) handleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	var workout core.Workout
	if err := decodeJSON(r, &workout); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	workout.ID = r.PathValue("id")
	if err := workout.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.repo.UpdateWorkout(r.Context(), &workout); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteWorkout(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
