package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiosklab/visita-gateway/internal/models"
)

func TestDashboardSummaryCounters(t *testing.T) {
	now := time.Date(2025, 3, 10, 4, 0, 0, 0, time.UTC) // Mar 10, noon in Manila
	today := now
	earlier := time.Date(2025, 3, 3, 4, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2025, 2, 10, 4, 0, 0, 0, time.UTC)

	source := &fakeVisitSource{
		visits: []models.OfficeVisit{
			{ID: "v1", VisitorsID: "A", CreatedAt: &today},
			{ID: "v2", VisitorsID: "A", CreatedAt: &today},
			{ID: "v3", VisitorsID: "B", CreatedAt: &earlier},
			{ID: "v4", VisitorsID: "C", CreatedAt: &lastMonth},
		},
		logs: []models.VisitorLogEntry{
			{VisitorsID: "A", CreatedAt: &today, TimeIn: "09:00"},
			{VisitorsID: "B", CreatedAt: &today, TimeIn: "08:00", TimeOut: "10:00"},
			{VisitorsID: "C", CreatedAt: &earlier, TimeIn: "08:00"},
		},
	}

	svc := NewDashboardService(source, nil, time.Minute, nil)
	svc.now = func() time.Time { return now }

	res, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", res.Date)
	assert.Equal(t, 2, res.VisitsToday)
	assert.Equal(t, 1, res.VisitorsToday)
	assert.Equal(t, 3, res.VisitsMonth)
	assert.Equal(t, 2, res.VisitorsMonth)
	assert.Equal(t, 1, res.CurrentlyIn) // A is in, B already left, C was another day
}

func TestDashboardSummaryToleratesLogFailure(t *testing.T) {
	now := time.Date(2025, 3, 10, 4, 0, 0, 0, time.UTC)
	source := &fakeVisitSource{
		visits:  []models.OfficeVisit{{ID: "v1", VisitorsID: "A", CreatedAt: &now}},
		logsErr: assert.AnError,
	}
	svc := NewDashboardService(source, nil, time.Minute, nil)
	svc.now = func() time.Time { return now }

	res, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.VisitsToday)
	assert.Zero(t, res.CurrentlyIn)
}
