package quest

import (
	"time"

	apperrors "github.com/ecoquest/quest-engine/pkg/errors"
)

// Accept moves an ACTIVE quest to ACCEPTED. Accepting a quest that is
// already underway is a no-op.
func Accept(q *Quest, now time.Time) error {
	switch q.Status {
	case StatusActive:
		q.Status = StatusAccepted
		at := now
		q.AcceptedAt = &at
		return nil
	case StatusAccepted, StatusInProgress:
		return nil
	default:
		return apperrors.Wrap("invalid_state", "quest can no longer be accepted", nil)
	}
}

// CompleteObjective marks the objective at index completed, recomputes
// progress and drives the status transition. Completing an already
// completed objective is a no-op.
func CompleteObjective(q *Quest, index int, now time.Time) error {
	if index < 0 || index >= len(q.Objectives) {
		return apperrors.Wrap("invalid_input", "objective index out of range", nil)
	}
	switch q.Status {
	case StatusCompleted, StatusSkipped, StatusExpired:
		return apperrors.Wrap("invalid_state", "quest is already closed", nil)
	}
	if q.Objectives[index].Completed {
		return nil
	}

	at := now
	q.Objectives[index].Completed = true
	q.Objectives[index].CompletedAt = &at
	q.recomputeProgress()

	if q.Progress == 100 {
		q.Status = StatusCompleted
		q.CompletedAt = &at
	} else {
		q.Status = StatusInProgress
	}
	return nil
}

// Skip closes an open quest without awarding points.
func Skip(q *Quest) error {
	if !q.IsOpen() {
		return apperrors.Wrap("invalid_state", "quest is already closed", nil)
	}
	q.Status = StatusSkipped
	return nil
}

// ExpireIfPast transitions an open quest whose validity window has
// passed to EXPIRED. It reports whether the quest changed.
func ExpireIfPast(q *Quest, now time.Time) bool {
	if !q.IsOpen() || q.ValidUntil == nil {
		return false
	}
	if now.Before(*q.ValidUntil) {
		return false
	}
	q.Status = StatusExpired
	return true
}
