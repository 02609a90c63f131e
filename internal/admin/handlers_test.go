package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ableclub/monitor/internal/domain/models"
	"github.com/ableclub/monitor/internal/scheduler"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJobControl struct {
	statuses map[string]scheduler.JobStatus
	paused   []string
	resumed  []string
}

func (f *fakeJobControl) Status(name string) (scheduler.JobStatus, error) {
	status, ok := f.statuses[name]
	if !ok {
		return scheduler.JobStatus{}, errors.Wrap(scheduler.ErrJobNotFound, name)
	}
	return status, nil
}

func (f *fakeJobControl) Names() []string {
	names := make([]string, 0, len(f.statuses))
	for name := range f.statuses {
		names = append(names, name)
	}
	return names
}

func (f *fakeJobControl) ForcePause(name string) error {
	if _, ok := f.statuses[name]; !ok {
		return errors.Wrap(scheduler.ErrJobNotFound, name)
	}
	f.paused = append(f.paused, name)
	return nil
}

func (f *fakeJobControl) ForceResume(name string) error {
	if _, ok := f.statuses[name]; !ok {
		return errors.Wrap(scheduler.ErrJobNotFound, name)
	}
	f.resumed = append(f.resumed, name)
	return nil
}

type fakeHistory struct {
	executions []models.JobExecution
}

func (f *fakeHistory) Recent(ctx context.Context, jobName string, limit int) ([]models.JobExecution, error) {
	if limit > len(f.executions) {
		limit = len(f.executions)
	}
	return f.executions[:limit], nil
}

func newFakeJobControl() *fakeJobControl {
	return &fakeJobControl{statuses: map[string]scheduler.JobStatus{
		"monitor": {Name: "monitor", Status: scheduler.StatusIdle},
	}}
}

func Test_StatusHandler_ReturnsJobStatus(t *testing.T) {

	jobs := newFakeJobControl()
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/jobs/status?job=monitor", nil)

	statusHandler(jobs)(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var status scheduler.JobStatus
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &status))
	assert.Equal(t, "monitor", status.Name)
	assert.Equal(t, scheduler.StatusIdle, status.Status)
}

func Test_StatusHandler_UnknownJobIs404(t *testing.T) {

	jobs := newFakeJobControl()
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/jobs/status?job=missing", nil)

	statusHandler(jobs)(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func Test_PauseAndResumeHandlers(t *testing.T) {

	jobs := newFakeJobControl()

	recorder := httptest.NewRecorder()
	pauseHandler(jobs)(recorder, httptest.NewRequest(http.MethodPost, "/jobs/pause?job=monitor", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, []string{"monitor"}, jobs.paused)

	recorder = httptest.NewRecorder()
	resumeHandler(jobs)(recorder, httptest.NewRequest(http.MethodPost, "/jobs/resume?job=monitor", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, []string{"monitor"}, jobs.resumed)

	// control endpoints are POST only
	recorder = httptest.NewRecorder()
	pauseHandler(jobs)(recorder, httptest.NewRequest(http.MethodGet, "/jobs/pause?job=monitor", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}

func Test_HistoryHandler_LimitsResults(t *testing.T) {

	now := time.Now()
	history := &fakeHistory{executions: []models.JobExecution{
		{JobName: "monitor", Outcome: models.OutcomeSuccess, StartedAt: now},
		{JobName: "monitor", Outcome: models.OutcomeFailure, StartedAt: now.Add(-time.Hour)},
	}}

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/jobs/history?job=monitor&limit=1", nil)

	historyHandler(history)(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var executions []models.JobExecution
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &executions))
	assert.Len(t, executions, 1)
}

func Test_HistoryHandler_RequiresJobParameter(t *testing.T) {

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/jobs/history", nil)

	historyHandler(&fakeHistory{})(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
