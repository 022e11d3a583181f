package customer

import (
	"time"

	"github.com/customerhub/backend/internal/domain/shared/valueobject"
)

// Metrics receives business events from the customer handlers
type Metrics interface {
	IncrementCreated()
	IncrementUpdated()
	IncrementDeleted()
	IncrementConflict(code string)
	ObserveOperation(operation string, start time.Time)
}

type noopMetrics struct{}

func (noopMetrics) IncrementCreated()                  {}
func (noopMetrics) IncrementUpdated()                  {}
func (noopMetrics) IncrementDeleted()                  {}
func (noopMetrics) IncrementConflict(string)           {}
func (noopMetrics) ObserveOperation(string, time.Time) {}

// TimestampPrecision is the resolution entity timestamps are kept at.
// PostgreSQL timestamptz stores microseconds.
const TimestampPrecision = time.Microsecond

// deps holds the collaborators shared by all handlers
type deps struct {
	now          func() time.Time
	phoneOptions valueobject.PhoneOptions
	metrics      Metrics
}

// Option configures a handler
type Option func(*deps)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(d *deps) {
		if now != nil {
			d.now = now
		}
	}
}

// WithPhoneOptions sets the region and number type policy used to parse phone numbers
func WithPhoneOptions(opts valueobject.PhoneOptions) Option {
	return func(d *deps) {
		d.phoneOptions = opts
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(m Metrics) Option {
	return func(d *deps) {
		if m != nil {
			d.metrics = m
		}
	}
}

func newDeps(opts []Option) deps {
	d := deps{
		now:          time.Now,
		phoneOptions: valueobject.DefaultPhoneOptions(),
		metrics:      noopMetrics{},
	}
	for _, opt := range opts {
		opt(&d)
	}
	clock := d.now
	d.now = func() time.Time { return clock().UTC().Truncate(TimestampPrecision) }
	return d
}
