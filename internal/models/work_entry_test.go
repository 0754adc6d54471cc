package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnfinishedTasks(t *testing.T) {
	tests := []struct {
		name      string
		assigned  []string
		completed []string
		want      []string
	}{
		{
			name:     "all unfinished",
			assigned: []string{"T1", "T2"},
			want:     []string{"T1", "T2"},
		},
		{
			name:      "some completed",
			assigned:  []string{"T1", "T2", "T3"},
			completed: []string{"T2"},
			want:      []string{"T1", "T3"},
		},
		{
			name:      "all completed",
			assigned:  []string{"T1"},
			completed: []string{"T1"},
			want:      nil,
		},
		{
			name: "empty entry",
			want: nil,
		},
		{
			name:      "duplicate assignment collapses",
			assigned:  []string{"T1", "T1", "T2"},
			completed: []string{"T2"},
			want:      []string{"T1"},
		},
		{
			name:      "completed but never assigned is ignored",
			assigned:  []string{"T1"},
			completed: []string{"T9"},
			want:      []string{"T1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &WorkEntry{AssignedTasks: tt.assigned, CompletedTasks: tt.completed}
			assert.Equal(t, tt.want, entry.UnfinishedTasks())
		})
	}
}

func TestMergeTasks(t *testing.T) {
	tests := []struct {
		name     string
		base     []string
		incoming []string
		want     []string
	}{
		{
			name:     "disjoint sets append",
			base:     []string{"T1"},
			incoming: []string{"T2"},
			want:     []string{"T1", "T2"},
		},
		{
			name:     "overlap appears once",
			base:     []string{"T2", "T3"},
			incoming: []string{"T2"},
			want:     []string{"T2", "T3"},
		},
		{
			name:     "empty base",
			base:     nil,
			incoming: []string{"T1"},
			want:     []string{"T1"},
		},
		{
			name:     "empty incoming keeps base",
			base:     []string{"T1"},
			incoming: nil,
			want:     []string{"T1"},
		},
		{
			name:     "base order preserved",
			base:     []string{"T3", "T1"},
			incoming: []string{"T2", "T1"},
			want:     []string{"T3", "T1", "T2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeTasks(tt.base, tt.incoming))
		})
	}
}

func TestMergeTasksIsIdempotent(t *testing.T) {
	base := []string{"T1", "T2"}
	incoming := []string{"T2", "T3"}

	once := MergeTasks(base, incoming)
	twice := MergeTasks(once, incoming)

	assert.Equal(t, once, twice)
}
