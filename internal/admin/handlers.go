// Package admin exposes the job control surface next to /metrics: status,
// force-pause, force-resume and recent history. Authentication belongs to the
// user-facing API in front of this service.
package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ableclub/monitor/internal/domain/models"
	"github.com/ableclub/monitor/internal/scheduler"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const defaultHistoryLimit = 20

type jobControl interface {
	Status(name string) (scheduler.JobStatus, error)
	Names() []string
	ForcePause(name string) error
	ForceResume(name string) error
}

type historyReader interface {
	Recent(ctx context.Context, jobName string, limit int) ([]models.JobExecution, error)
}

// Register mounts the admin handlers on the default mux, which the metrics
// server serves.
func Register(jobs jobControl, history historyReader) {
	http.HandleFunc("/jobs/status", statusHandler(jobs))
	http.HandleFunc("/jobs/pause", pauseHandler(jobs))
	http.HandleFunc("/jobs/resume", resumeHandler(jobs))
	http.HandleFunc("/jobs/history", historyHandler(history))
}

func statusHandler(jobs jobControl) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if name := r.URL.Query().Get("job"); name != "" {
			status, err := jobs.Status(name)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, status)
			return
		}

		var statuses []scheduler.JobStatus
		for _, name := range jobs.Names() {
			if status, err := jobs.Status(name); err == nil {
				statuses = append(statuses, status)
			}
		}
		writeJSON(w, statuses)
	}
}

func pauseHandler(jobs jobControl) http.HandlerFunc {
	return controlHandler(jobs.ForcePause)
}

func resumeHandler(jobs jobControl) http.HandlerFunc {
	return controlHandler(jobs.ForceResume)
}

func controlHandler(action func(name string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		name := r.URL.Query().Get("job")
		if name == "" {
			http.Error(w, "missing job parameter", http.StatusBadRequest)
			return
		}

		if err := action(name); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]string{"job": name, "result": "ok"})
	}
}

func historyHandler(history historyReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		name := r.URL.Query().Get("job")
		if name == "" {
			http.Error(w, "missing job parameter", http.StatusBadRequest)
			return
		}

		limit := defaultHistoryLimit
		if value := r.URL.Query().Get("limit"); value != "" {
			parsed, err := strconv.Atoi(value)
			if err != nil || parsed < 1 {
				http.Error(w, "invalid limit parameter", http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		executions, err := history.Recent(r.Context(), name, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, executions)
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Errorf("failed to encode admin response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, scheduler.ErrJobNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
