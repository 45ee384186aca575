package quota

import (
	"testing"
	"time"
)

func TestState_Observed(t *testing.T) {
	var zero State
	if zero.Observed() {
		t.Error("zero state should not be observed")
	}

	seen := State{LastUpdate: time.Now()}
	if !seen.Observed() {
		t.Error("state with LastUpdate should be observed")
	}
}

func TestState_Exhausted(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		state State
		want  bool
	}{
		{
			name:  "unobserved",
			state: State{},
			want:  false,
		},
		{
			name: "requests remaining",
			state: State{
				RequestsRemaining: 50,
				ResetAt:           now.Add(time.Hour),
				LastUpdate:        now,
			},
			want: false,
		},
		{
			name: "spent inside window",
			state: State{
				RequestsRemaining: 0,
				ResetAt:           now.Add(time.Hour),
				LastUpdate:        now,
			},
			want: true,
		},
		{
			name: "spent but window reset",
			state: State{
				RequestsRemaining: 0,
				ResetAt:           now.Add(-time.Minute),
				LastUpdate:        now.Add(-2 * time.Hour),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Exhausted(now); got != tt.want {
				t.Errorf("Exhausted() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestState_TimeUntilReset(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	future := State{ResetAt: now.Add(30 * time.Minute)}
	if got := future.TimeUntilReset(now); got != 30*time.Minute {
		t.Errorf("TimeUntilReset = %v, want 30m", got)
	}

	past := State{ResetAt: now.Add(-time.Minute)}
	if got := past.TimeUntilReset(now); got != 0 {
		t.Errorf("TimeUntilReset for past reset = %v, want 0", got)
	}
}
