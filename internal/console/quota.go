package console

import (
	"errors"
	"time"
)

var ErrQuotaExhausted = errors.New("advisory_quota_exhausted")

const (
	hourKeyLayout = "2006-01-02T15"
	dayKeyLayout  = "2006-01-02"
)

type UsageBucket struct {
	Key      string `json:"key"`
	Requests int    `json:"requests"`
	Tokens   int    `json:"tokens"`
}

// Usage tracks advisory-text consumption in rolling per-hour and per-day
// buckets. A bucket resets lazily when its key no longer matches the clock.
type Usage struct {
	Hour UsageBucket `json:"hour"`
	Day  UsageBucket `json:"day"`

	now func() time.Time
}

func NewUsage() *Usage {
	return &Usage{now: time.Now}
}

func (u *Usage) SetClock(f func() time.Time) { u.now = f }

func (u *Usage) roll() {
	now := u.now().UTC()
	if hk := now.Format(hourKeyLayout); u.Hour.Key != hk {
		u.Hour = UsageBucket{Key: hk}
	}
	if dk := now.Format(dayKeyLayout); u.Day.Key != dk {
		u.Day = UsageBucket{Key: dk}
	}
}

// Allow refuses outright once either quota is exhausted. Zero limits mean
// the corresponding quota is unlimited.
func (u *Usage) Allow(maxRequestsPerHour, maxTokensPerDay int) error {
	u.roll()
	if maxRequestsPerHour > 0 && u.Hour.Requests >= maxRequestsPerHour {
		return ErrQuotaExhausted
	}
	if maxTokensPerDay > 0 && u.Day.Tokens >= maxTokensPerDay {
		return ErrQuotaExhausted
	}
	return nil
}

func (u *Usage) Record(tokens int) {
	u.roll()
	u.Hour.Requests++
	u.Hour.Tokens += tokens
	u.Day.Requests++
	u.Day.Tokens += tokens
}

type UsageSnapshot struct {
	Hour UsageBucket `json:"hour"`
	Day  UsageBucket `json:"day"`
}

func (u *Usage) Snapshot() UsageSnapshot {
	return UsageSnapshot{Hour: u.Hour, Day: u.Day}
}

func (u *Usage) Restore(s UsageSnapshot) {
	u.Hour = s.Hour
	u.Day = s.Day
}
