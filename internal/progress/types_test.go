// Package progress_test tests step status strings and step validation.
package progress_test

import (
	"strings"
	"testing"

	"github.com/mtatools/mtatools/internal/progress"
)

func TestStepStatus_String(t *testing.T) {
	tests := map[string]struct {
		status progress.StepStatus
		want   string
	}{
		"pending":     {status: progress.StepPending, want: "pending"},
		"in progress": {status: progress.StepInProgress, want: "in_progress"},
		"completed":   {status: progress.StepCompleted, want: "completed"},
		"failed":      {status: progress.StepFailed, want: "failed"},
		"unknown":     {status: progress.StepStatus(42), want: "unknown"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("StepStatus.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStepInfo_Validate(t *testing.T) {
	tests := map[string]struct {
		step   progress.StepInfo
		errMsg string
	}{
		"valid": {
			step: progress.StepInfo{Name: "checking mbt", Number: 1, TotalSteps: 2},
		},
		"last step": {
			step: progress.StepInfo{Name: "validating", Number: 2, TotalSteps: 2, Status: progress.StepInProgress},
		},
		"empty name": {
			step:   progress.StepInfo{Number: 1, TotalSteps: 1},
			errMsg: "step name cannot be empty",
		},
		"zero number": {
			step:   progress.StepInfo{Name: "x", Number: 0, TotalSteps: 1},
			errMsg: "step number must be > 0",
		},
		"zero total": {
			step:   progress.StepInfo{Name: "x", Number: 1, TotalSteps: 0},
			errMsg: "total steps must be > 0",
		},
		"number exceeds total": {
			step:   progress.StepInfo{Name: "x", Number: 3, TotalSteps: 2},
			errMsg: "step number cannot exceed total steps",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.step.Validate()
			if tt.errMsg == "" {
				if err != nil {
					t.Errorf("StepInfo.Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("StepInfo.Validate() error = %v, want error containing %q", err, tt.errMsg)
			}
		})
	}
}
