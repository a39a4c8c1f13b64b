package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.now
}

func TestRateLimiter_LocksOutAfterMaxAttempts(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	rl := newRateLimiter(testAuthConfig(), clock.Now)

	for i := 0; i < 2; i++ {
		locked, _ := rl.RecordFailure("1.2.3.4", "alice")
		assert.False(t, locked)
		allowed, _ := rl.Allow("1.2.3.4", "alice")
		assert.True(t, allowed)
	}

	locked, retry := rl.RecordFailure("1.2.3.4", "alice")
	assert.True(t, locked)
	assert.Equal(t, time.Minute, retry)

	allowed, wait := rl.Allow("1.2.3.4", "alice")
	assert.False(t, allowed)
	assert.Equal(t, time.Minute, wait)

	other, _ := rl.Allow("5.6.7.8", "alice")
	assert.True(t, other, "lockouts are per client and username")

	clock.now = clock.now.Add(time.Minute + time.Second)
	allowed, _ = rl.Allow("1.2.3.4", "alice")
	assert.True(t, allowed, "lockout expires")
}

func TestRateLimiter_WindowResets(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	rl := newRateLimiter(testAuthConfig(), clock.Now)

	rl.RecordFailure("ip", "alice")
	rl.RecordFailure("ip", "alice")
	clock.now = clock.now.Add(2 * time.Minute)

	locked, _ := rl.RecordFailure("ip", "alice")
	assert.False(t, locked, "failures outside the window do not count")
}

func TestRateLimiter_SuccessClearsRecord(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	rl := newRateLimiter(testAuthConfig(), clock.Now)

	rl.RecordFailure("ip", "alice")
	rl.RecordFailure("ip", "alice")
	rl.RecordSuccess("ip", "alice")

	locked, _ := rl.RecordFailure("ip", "alice")
	assert.False(t, locked)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	rl := newRateLimiter(testAuthConfig(), clock.Now)

	rl.RecordFailure("ip", "alice")
	clock.now = clock.now.Add(time.Hour)
	rl.cleanup()

	assert.Empty(t, rl.attempts)
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(testAuthConfig())
	rl.Stop()
	rl.Stop()
}
