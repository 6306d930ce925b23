package shipstation

import (
	"time"

	"proofdeck-backend/internal/models"
)

// statusMap translates the remote platform's order status vocabulary into the
// internal status enumeration.
var statusMap = map[string]string{
	"awaiting_payment":    models.StatusDraft,
	"awaiting_shipment":   models.StatusOpen,
	"pending_fulfillment": models.StatusOpen,
	"shipped":             models.StatusApproved,
	"on_hold":             models.StatusDraft,
	"cancelled":           models.StatusDraft,
}

// MapOrderStatus is a total function: unrecognized external statuses default
// to open.
func MapOrderStatus(shipstationStatus string) string {
	if mapped, ok := statusMap[shipstationStatus]; ok {
		return mapped
	}
	return models.StatusOpen
}

// orderDateLayouts covers the timestamp shapes the orders endpoint emits:
// fractional seconds are optional and there is no zone designator.
var orderDateLayouts = []string{
	"2006-01-02T15:04:05.9999999",
	time.RFC3339,
}

// ParseOrderDate parses an order timestamp from the wire payload. The second
// return is false when the value is empty or unparseable.
func ParseOrderDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range orderDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// fullSyncEpoch is the fixed distant-past cutoff used for full syncs.
var fullSyncEpoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// ModifiedAfterCutoff derives the fetch cutoff for a sync type. Fixed-window
// types (24h/7d/30d) always use now minus the window, ignoring the stored
// last-sync time; incremental falls back to 7 days ago when no successful sync
// is recorded.
func ModifiedAfterCutoff(syncType string, lastSync *time.Time, now time.Time) time.Time {
	switch syncType {
	case "24h":
		return now.Add(-24 * time.Hour)
	case "7d":
		return now.Add(-7 * 24 * time.Hour)
	case "30d":
		return now.Add(-30 * 24 * time.Hour)
	case "full":
		return fullSyncEpoch
	default: // incremental
		if lastSync != nil {
			return *lastSync
		}
		return now.Add(-7 * 24 * time.Hour)
	}
}
