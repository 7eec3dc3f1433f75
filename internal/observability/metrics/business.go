package metrics

import (
	"database/sql"

	"brazucas-cork/internal/domain/entity"
)

// RecordRegistration counts a new user.
func RecordRegistration(role entity.Role) {
	UsersRegisteredTotal.WithLabelValues(string(role)).Inc()
}

// RecordLogin counts a login attempt.
func RecordLogin(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	LoginAttemptsTotal.WithLabelValues(result).Inc()
}

// RecordContentCreated counts a new content item.
func RecordContentCreated(kind entity.Kind) {
	ContentCreatedTotal.WithLabelValues(string(kind)).Inc()
}

// RecordSubmission counts an item entering pending_approval.
func RecordSubmission(kind entity.Kind) {
	ContentSubmittedTotal.WithLabelValues(string(kind)).Inc()
}

// RecordModerationDecision counts an approve or reject.
func RecordModerationDecision(kind entity.Kind, approved bool) {
	decision := "approved"
	if !approved {
		decision = "rejected"
	}
	ModerationDecisionsTotal.WithLabelValues(string(kind), decision).Inc()
}

// UpdateContentByStatus replaces the gauge values for one kind. Statuses
// missing from counts are reported as zero.
func UpdateContentByStatus(kind entity.Kind, counts map[entity.Status]int64) {
	for _, st := range []entity.Status{
		entity.StatusDraft, entity.StatusPendingApproval, entity.StatusPublished, entity.StatusRejected,
	} {
		ContentByStatus.WithLabelValues(string(kind), string(st)).Set(float64(counts[st]))
	}
}

// RecordDBStats mirrors the connection pool state.
func RecordDBStats(stats sql.DBStats) {
	DBConnectionsActive.Set(float64(stats.InUse))
	DBConnectionsIdle.Set(float64(stats.Idle))
}
