package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/karaoke-backend/pkg/logger"
	"github.com/angelmondragon/karaoke-backend/pkg/redis"
	"go.uber.org/multierr"
)

const (
	visitsResetJobName = "monthly-visits-reset"
	visitsResetMarker  = "visits_reset"
	periodLayout       = "2006-01"
	markerTTL          = 62 * 24 * time.Hour
)

type visitsResetter interface {
	ResetMonthlyVisits(ctx context.Context) (int64, error)
}

type markerStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	MarkerKey(name, period string) string
}

// VisitsResetJobParams configure the monthly visit reset.
type VisitsResetJobParams struct {
	Logger    *logger.Logger
	Customers visitsResetter
	Markers   markerStore
	Location  *time.Location
	Now       func() time.Time
}

// VisitsResetJob zeroes every customer's monthly_visits once per calendar month.
// The very first run only records the month so a mid-month deploy keeps counts.
type VisitsResetJob struct {
	logg      *logger.Logger
	customers visitsResetter
	markers   markerStore
	loc       *time.Location
	now       func() time.Time
}

// NewVisitsResetJob builds the job.
func NewVisitsResetJob(params VisitsResetJobParams) (*VisitsResetJob, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.Customers == nil {
		return nil, errors.New("customers repository required")
	}
	if params.Markers == nil {
		return nil, errors.New("marker store required")
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &VisitsResetJob{
		logg:      params.Logger,
		customers: params.Customers,
		markers:   params.Markers,
		loc:       loc,
		now:       now,
	}, nil
}

func (j *VisitsResetJob) Name() string { return visitsResetJobName }

func (j *VisitsResetJob) Run(ctx context.Context) error {
	now := j.now().In(j.loc)
	period := now.Format(periodLayout)
	key := j.markers.MarkerKey(visitsResetMarker, period)

	claimed, err := j.markers.SetNX(ctx, key, now.Format(time.RFC3339), markerTTL)
	if err != nil {
		return fmt.Errorf("claim %s marker: %w", period, err)
	}
	ctx = j.logg.WithField(ctx, "period", period)
	if !claimed {
		j.logg.Debug(ctx, "monthly visits already reset")
		return nil
	}

	previous := now.AddDate(0, -1, 1-now.Day()).Format(periodLayout)
	if _, err := j.markers.Get(ctx, j.markers.MarkerKey(visitsResetMarker, previous)); err != nil {
		if redis.IsNil(err) {
			j.logg.Info(ctx, "no reset recorded for previous month; recording current month only")
			return nil
		}
		return multierr.Append(
			fmt.Errorf("read %s marker: %w", previous, err),
			j.markers.Del(ctx, key),
		)
	}

	reset, err := j.customers.ResetMonthlyVisits(ctx)
	if err != nil {
		// drop the claim so the next cycle retries
		return multierr.Append(fmt.Errorf("reset monthly visits: %w", err), j.markers.Del(ctx, key))
	}
	j.logg.Info(j.logg.WithField(ctx, "customers_reset", reset), "monthly visits reset")
	return nil
}
