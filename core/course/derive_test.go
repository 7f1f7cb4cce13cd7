package course

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VenusCh001/studytracker/core"
)

var (
	t0 = time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	t1 = t0.Add(24 * time.Hour)
)

func iPtr(i int) *int          { return &i }
func sPtr(s string) *string    { return &s }
func mPtr(m []Module) *[]Module { return &m }

func modules(done ...bool) []Module {
	mods := make([]Module, len(done))
	for i, d := range done {
		mods[i] = Module{Title: "m", Duration: 30, Completed: d, Order: i}
	}
	return mods
}

func TestDerive(t *testing.T) {
	completedAt := t0.Add(-time.Hour)

	tests := []struct {
		name            string
		prior           Course
		changes         UpdateCourse
		wantProgress    int
		wantStatus      string
		wantCompletedAt *time.Time
		wantErr         bool
	}{
		{
			name:         "zero modules keep stored progress",
			prior:        Course{Status: StatusNotStarted},
			wantProgress: 0, wantStatus: StatusNotStarted,
		},
		{
			name:         "zero modules, manual progress",
			prior:        Course{Status: StatusNotStarted},
			changes:      UpdateCourse{Progress: iPtr(40)},
			wantProgress: 40, wantStatus: StatusInProgress,
		},
		{
			name:         "modules ratio overrides progress",
			prior:        Course{Status: StatusNotStarted, Progress: 90},
			changes:      UpdateCourse{Modules: mPtr(modules(true, false, false))},
			wantProgress: 33, wantStatus: StatusInProgress,
		},
		{
			name:         "ratio rounds half up",
			prior:        Course{Status: StatusInProgress, Modules: modules(true, false, true, false, false, false, false, false)},
			wantProgress: 25, wantStatus: StatusInProgress,
		},
		{
			name:            "all modules completed",
			prior:           Course{Status: StatusInProgress, Modules: modules(true, false)},
			changes:         UpdateCourse{Modules: mPtr(modules(true, true))},
			wantProgress:    100, wantStatus: StatusCompleted, wantCompletedAt: &t1,
		},
		{
			name:            "completedAt is never overwritten",
			prior:           Course{Status: StatusCompleted, Progress: 100, CompletedAt: &completedAt},
			changes:         UpdateCourse{Notes: sPtr("great course")},
			wantProgress:    100, wantStatus: StatusCompleted, wantCompletedAt: &completedAt,
		},
		{
			name:            "reopened course keeps completedAt",
			prior:           Course{Status: StatusCompleted, Progress: 100, CompletedAt: &completedAt, Modules: modules(true, true)},
			changes:         UpdateCourse{Modules: mPtr(modules(true, false))},
			wantProgress:    50, wantStatus: StatusInProgress, wantCompletedAt: &completedAt,
		},
		{
			name:            "caller completes a course without modules",
			prior:           Course{Status: StatusInProgress, Progress: 20},
			changes:         UpdateCourse{Status: sPtr(StatusCompleted)},
			wantProgress:    100, wantStatus: StatusCompleted, wantCompletedAt: &t1,
		},
		{
			name:         "paused course stays paused",
			prior:        Course{Status: StatusPaused, Progress: 20},
			changes:      UpdateCourse{Progress: iPtr(30)},
			wantProgress: 30, wantStatus: StatusPaused,
		},
		{
			name:    "progress out of range",
			prior:   Course{Status: StatusNotStarted},
			changes: UpdateCourse{Progress: iPtr(101)},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Derive(tt.prior, tt.changes, t1)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, core.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantProgress, got.Progress)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantCompletedAt, got.CompletedAt)
			assert.Equal(t, t1, got.UpdatedAt)
		})
	}
}

func TestDerive_idempotent(t *testing.T) {
	prior := Course{Status: StatusNotStarted, Modules: modules(true, true, false)}
	once, err := Derive(prior, UpdateCourse{}, t1)
	require.NoError(t, err)
	twice, err := Derive(once, UpdateCourse{}, t1)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
	assert.Equal(t, 60, once.Duration.Completed)
}

func TestDerive_doesNotAliasPrior(t *testing.T) {
	prior := Course{Modules: modules(false)}
	mods := modules(true)
	got, err := Derive(prior, UpdateCourse{Modules: &mods}, t1)
	require.NoError(t, err)
	mods[0].Completed = false
	assert.True(t, got.Modules[0].Completed)
	assert.False(t, prior.Modules[0].Completed)
}
