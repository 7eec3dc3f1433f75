package auth

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordTokenVerification(t *testing.T) {
	tokenVerifications.Reset()

	RecordTokenVerification("valid", time.Millisecond)
	RecordTokenVerification("valid", time.Millisecond)
	RecordTokenVerification("invalid", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(tokenVerifications.WithLabelValues("valid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(tokenVerifications.WithLabelValues("invalid")))
	assert.Greater(t, testutil.CollectAndCount(tokenVerifyDuration), 0)
}

func TestRecordTokenIssued(t *testing.T) {
	tokensIssued.Reset()

	RecordTokenIssued("normal", "register")
	RecordTokenIssued("admin", "login")

	assert.Equal(t, 1.0, testutil.ToFloat64(tokensIssued.WithLabelValues("normal", "register")))
	assert.Equal(t, 1.0, testutil.ToFloat64(tokensIssued.WithLabelValues("admin", "login")))
}

func TestRecordForbiddenAttempt(t *testing.T) {
	forbiddenAttempts.Reset()

	RecordForbiddenAttempt("normal", "GET")
	RecordForbiddenAttempt("normal", "GET")

	assert.Equal(t, 2.0, testutil.ToFloat64(forbiddenAttempts.WithLabelValues("normal", "GET")))
}
