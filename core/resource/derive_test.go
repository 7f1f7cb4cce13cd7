package resource

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VenusCh001/studytracker/core"
)

var (
	t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	t1 = t0.Add(48 * time.Hour)
)

func iPtr(i int) *int   { return &i }
func bPtr(b bool) *bool { return &b }

func TestDerive(t *testing.T) {
	tests := []struct {
		name          string
		prior         Resource
		changes       UpdateResource
		wantProgress  int
		wantCompleted bool
		wantErr       bool
	}{
		{name: "no changes", prior: Resource{Progress: 30}, wantProgress: 30},
		{name: "progress to 100 completes", prior: Resource{Progress: 30}, changes: UpdateResource{Progress: iPtr(100)}, wantProgress: 100, wantCompleted: true},
		{name: "marking completed fills progress", changes: UpdateResource{Completed: bPtr(true)}, wantProgress: 100, wantCompleted: true},
		{name: "lowering progress un-completes", prior: Resource{Progress: 100, Completed: true}, changes: UpdateResource{Progress: iPtr(80)}, wantProgress: 80},
		{name: "unmarking alone keeps full progress", prior: Resource{Progress: 100, Completed: true}, changes: UpdateResource{Completed: bPtr(false)}, wantProgress: 100, wantCompleted: true},
		{name: "progress out of range", changes: UpdateResource{Progress: iPtr(120)}, wantErr: true},
		{name: "rating out of range", changes: UpdateResource{Rating: iPtr(6)}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Derive(tt.prior, tt.changes, t0)
			if tt.wantErr {
				assert.True(t, core.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantProgress, got.Progress)
			assert.Equal(t, tt.wantCompleted, got.Completed)
			if tt.wantCompleted {
				assert.NotNil(t, got.CompletedDate)
			}
			assert.True(t, t0.Equal(got.UpdatedAt))
		})
	}
}

func TestDerive_completedDateSetOnce(t *testing.T) {
	r, err := Derive(Resource{}, UpdateResource{Progress: iPtr(100)}, t0)
	require.NoError(t, err)
	require.NotNil(t, r.CompletedDate)

	r, err = Derive(r, UpdateResource{Progress: iPtr(50)}, t1)
	require.NoError(t, err)
	r, err = Derive(r, UpdateResource{Progress: iPtr(100)}, t1)
	require.NoError(t, err)
	assert.True(t, t0.Equal(*r.CompletedDate))
	assert.True(t, t1.Equal(r.UpdatedAt))
}
