package db

import (
	"strings"
	"time"
)

// Record inserts can lose a row lock race against the PowerDNS server
// or a concurrent editor. Those failures are transient; the database
// picked a victim and the same transaction succeeds on retry.
const (
	insertAttempts = 3
	retryBaseDelay = 50 * time.Millisecond
)

// IsTransient reports whether err is a deadlock or lock-wait-timeout
// class failure worth retrying. MySQL reports 1213/1205, the SQL
// standard uses SQLSTATE 40001, sqlite says "database is locked".
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"deadlock",
		"lock wait timeout",
		"database is locked",
		"40001",
		"error 1213",
		"error 1205",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// WithDeadlockRetry runs fn up to insertAttempts times, backing off
// 50ms, 100ms between attempts. Only transient errors are retried;
// anything else escalates immediately. fn must be a complete
// transaction so a retry never observes partial state.
func WithDeadlockRetry(fn func() error) error {
	var err error
	for attempt := 1; attempt <= insertAttempts; attempt++ {
		err = fn()
		if err == nil || !IsTransient(err) {
			return err
		}
		if attempt < insertAttempts {
			time.Sleep(retryBaseDelay * time.Duration(attempt))
		}
	}
	return err
}
