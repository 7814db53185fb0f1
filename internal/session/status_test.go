package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/neochoon/agenthud/internal/core/model"
)

func TestStatusTable(t *testing.T) {
	classes := map[string]classification{
		"user":     classUser,
		"tool":     classTool,
		"response": classResponse,
		"stop":     classStop,
	}
	elapsed := map[string]time.Duration{
		"10s": 10 * time.Second,
		"29s": 29 * time.Second,
		"31s": 31 * time.Second,
		"4m":  4 * time.Minute,
		"10m": 10 * time.Minute,
	}

	// Within 30s the classification decides; beyond it everything is
	// completed. Staleness past the session timeout never reaches this
	// function because Locate excludes the file first.
	expected := map[string]map[string]model.SessionStatus{
		"10s": {"user": model.StatusRunning, "tool": model.StatusRunning, "response": model.StatusCompleted, "stop": model.StatusCompleted},
		"29s": {"user": model.StatusRunning, "tool": model.StatusRunning, "response": model.StatusCompleted, "stop": model.StatusCompleted},
		"31s": {"user": model.StatusCompleted, "tool": model.StatusCompleted, "response": model.StatusCompleted, "stop": model.StatusCompleted},
		"4m":  {"user": model.StatusCompleted, "tool": model.StatusCompleted, "response": model.StatusCompleted, "stop": model.StatusCompleted},
		"10m": {"user": model.StatusCompleted, "tool": model.StatusCompleted, "response": model.StatusCompleted, "stop": model.StatusCompleted},
	}

	for elapsedName, d := range elapsed {
		for className, class := range classes {
			t.Run(elapsedName+"_"+className, func(t *testing.T) {
				assert.Equal(t, expected[elapsedName][className], statusFor(d, class))
			})
		}
	}
}

func TestStatusBoundaryAtThirtySeconds(t *testing.T) {
	// Exactly 30s is no longer "recent".
	assert.Equal(t, model.StatusCompleted, statusFor(30*time.Second, classUser))
	assert.Equal(t, model.StatusRunning, statusFor(30*time.Second-time.Millisecond, classUser))
}

func TestStatusWithoutClassification(t *testing.T) {
	assert.Equal(t, model.StatusNone, statusFor(10*time.Second, classNone))
}
