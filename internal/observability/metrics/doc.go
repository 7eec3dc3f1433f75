// Package metrics provides the Prometheus metrics of the API and worker.
//
// It covers HTTP traffic, community activity (registrations, logins, new
// content), the moderation queue (submissions, decisions, items per status)
// and the database pool. All metrics are registered with the default
// registry and exposed on /metrics.
//
//	metrics.RecordSubmission(entity.KindNews)
//	metrics.RecordModerationDecision(entity.KindAd, false)
package metrics
