package shipstation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"proofdeck-backend/internal/models"
	"proofdeck-backend/internal/shipstation"
)

func TestMapOrderStatus(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"awaiting_payment", models.StatusDraft},
		{"awaiting_shipment", models.StatusOpen},
		{"pending_fulfillment", models.StatusOpen},
		{"shipped", models.StatusApproved},
		{"on_hold", models.StatusDraft},
		{"cancelled", models.StatusDraft},
		{"something_new", models.StatusOpen},
		{"", models.StatusOpen},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, shipstation.MapOrderStatus(tt.remote), "status %q", tt.remote)
	}
}

func TestParseOrderDate(t *testing.T) {
	tests := []struct {
		value  string
		want   time.Time
		wantOK bool
	}{
		{"2024-02-01T10:00:00.0000000", time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC), true},
		{"2024-02-01T10:00:00", time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC), true},
		{"2024-02-01T10:00:00Z", time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"not-a-date", time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := shipstation.ParseOrderDate(tt.value)
		assert.Equal(t, tt.wantOK, ok, "value %q", tt.value)
		assert.Equal(t, tt.want, got, "value %q", tt.value)
	}
}

func TestModifiedAfterCutoff_IncrementalUsesLastSync(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	lastSync := now.Add(-48 * time.Hour)

	got := shipstation.ModifiedAfterCutoff("incremental", &lastSync, now)
	assert.Equal(t, lastSync, got)
}

func TestModifiedAfterCutoff_IncrementalWithoutLastSync(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	got := shipstation.ModifiedAfterCutoff("incremental", nil, now)
	assert.Equal(t, now.Add(-7*24*time.Hour), got)
}

func TestModifiedAfterCutoff_FixedWindowsIgnoreLastSync(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	lastSync := now.Add(-time.Hour)

	assert.Equal(t, now.Add(-24*time.Hour), shipstation.ModifiedAfterCutoff("24h", &lastSync, now))
	assert.Equal(t, now.Add(-7*24*time.Hour), shipstation.ModifiedAfterCutoff("7d", &lastSync, now))
	assert.Equal(t, now.Add(-30*24*time.Hour), shipstation.ModifiedAfterCutoff("30d", &lastSync, now))
}

func TestModifiedAfterCutoff_Full(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	got := shipstation.ModifiedAfterCutoff("full", nil, now)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), got)
}
