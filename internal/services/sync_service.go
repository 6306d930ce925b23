// Package services holds the application logic between the HTTP handlers and
// the persistence/external layers. Services depend on narrow interfaces so
// tests can substitute fakes.
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"proofdeck-backend/internal/models"
	"proofdeck-backend/internal/shipstation"
)

// maxSampledErrors caps the per-order error messages persisted with a run.
const maxSampledErrors = 10

// maxSyncErrorLength caps the error text recorded in app settings.
const maxSyncErrorLength = 500

// OrderFetcher is the slice of the ShipStation client the sync needs.
type OrderFetcher interface {
	Configured() bool
	FetchOrders(modifiedAfter time.Time) ([]shipstation.Order, error)
}

// SyncStore is the slice of the store the sync needs.
type SyncStore interface {
	GetOrderByExternalID(externalID, platform string) (*models.Order, error)
	InsertOrder(o *models.Order) error
	UpdateExternalOrder(o *models.Order) error
	CreateSyncRun(syncType, triggeredBy string) (*models.SyncRun, error)
	SetSyncRunCutoff(runID uuid.UUID, modifiedAfter time.Time) error
	FinishSyncRunSuccess(runID uuid.UUID, stats models.SyncStats, sampledErrors []string) error
	FinishSyncRunFailure(runID uuid.UUID, summary string) error
	GetSettings() (*models.AppSettings, error)
	RecordSyncSuccess(at time.Time) error
	RecordSyncFailure(at time.Time, errMsg string) error
}

// SyncResult is returned to the handler after a completed run.
type SyncResult struct {
	RunID uuid.UUID
	Stats models.SyncStats
}

type SyncService struct {
	store   SyncStore
	fetcher OrderFetcher
	now     func() time.Time
}

func NewSyncService(store SyncStore, fetcher OrderFetcher) *SyncService {
	return &SyncService{store: store, fetcher: fetcher, now: func() time.Time { return time.Now().UTC() }}
}

// Configured reports whether the external platform credentials are present.
func (s *SyncService) Configured() bool {
	return s.fetcher.Configured()
}

// Run executes one sync pass: derive the cutoff, fetch modified orders, and
// reconcile each into the local table. Per-order failures are counted and
// sampled but never abort the run; only fetch failures fail the whole run.
func (s *SyncService) Run(syncType, triggeredBy string) (*SyncResult, error) {
	run, err := s.store.CreateSyncRun(syncType, triggeredBy)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync run: %w", err)
	}

	result, runErr := s.execute(run, syncType)
	if runErr != nil {
		summary := truncateError(runErr.Error())
		if err := s.store.FinishSyncRunFailure(run.ID, summary); err != nil {
			log.Printf("failed to record sync run failure: %v", err)
		}
		if err := s.store.RecordSyncFailure(s.now(), summary); err != nil {
			log.Printf("failed to record sync failure in settings: %v", err)
		}
		return nil, runErr
	}
	return result, nil
}

func (s *SyncService) execute(run *models.SyncRun, syncType string) (*SyncResult, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	var lastSync *time.Time
	if settings.LastSync.Valid {
		t := settings.LastSync.Time
		lastSync = &t
	}

	cutoff := shipstation.ModifiedAfterCutoff(syncType, lastSync, s.now())
	if err := s.store.SetSyncRunCutoff(run.ID, cutoff); err != nil {
		log.Printf("failed to record sync cutoff: %v", err)
	}

	orders, err := s.fetcher.FetchOrders(cutoff)
	if err != nil {
		switch {
		case errors.Is(err, shipstation.ErrInvalidCredentials):
			return nil, fmt.Errorf("sync aborted: %w", err)
		case errors.Is(err, shipstation.ErrRateLimited):
			return nil, fmt.Errorf("sync aborted: %w", err)
		default:
			return nil, fmt.Errorf("failed to fetch orders: %w", err)
		}
	}

	stats := models.SyncStats{Fetched: len(orders)}
	var sampled []string

	for i := range orders {
		action, err := s.reconcile(&orders[i])
		if err != nil {
			stats.Errors++
			if len(sampled) < maxSampledErrors {
				sampled = append(sampled, fmt.Sprintf("order %s: %v", orders[i].OrderNumber, err))
			}
			continue
		}
		switch action {
		case actionInserted:
			stats.Inserted++
		case actionUpdated:
			stats.Updated++
		case actionSkipped:
			stats.Skipped++
		}
	}

	if err := s.store.FinishSyncRunSuccess(run.ID, stats, sampled); err != nil {
		log.Printf("failed to record sync run success: %v", err)
	}
	if err := s.store.RecordSyncSuccess(s.now()); err != nil {
		log.Printf("failed to record sync success in settings: %v", err)
	}

	log.Printf("sync %s complete: fetched=%d inserted=%d updated=%d skipped=%d errors=%d",
		syncType, stats.Fetched, stats.Inserted, stats.Updated, stats.Skipped, stats.Errors)

	return &SyncResult{RunID: run.ID, Stats: stats}, nil
}

type reconcileAction int

const (
	actionInserted reconcileAction = iota
	actionUpdated
	actionSkipped
)

// reconcile upserts one external order. Orders whose local status reflects an
// in-flight or completed proof workflow are never overwritten by the sync.
func (s *SyncService) reconcile(ext *shipstation.Order) (reconcileAction, error) {
	externalID := strconv.FormatInt(ext.OrderID, 10)

	existing, err := s.store.GetOrderByExternalID(externalID, models.PlatformShipStation)
	if err != nil {
		return 0, fmt.Errorf("lookup failed: %w", err)
	}

	if existing != nil {
		if models.IsSyncProtected(existing.Status) {
			return actionSkipped, nil
		}
		mapped := mapExternalOrder(ext)
		mapped.ID = existing.ID
		// Re-running the sync over unchanged remote data writes nothing.
		if externalFieldsEqual(existing, mapped) {
			return actionSkipped, nil
		}
		if err := s.store.UpdateExternalOrder(mapped); err != nil {
			return 0, fmt.Errorf("update failed: %w", err)
		}
		return actionUpdated, nil
	}

	order := mapExternalOrder(ext)
	order.ID = uuid.New()
	now := s.now()
	order.CreatedAt = externalCreatedAt(ext, now)
	order.UpdatedAt = now
	if err := s.store.InsertOrder(order); err != nil {
		return 0, fmt.Errorf("insert failed: %w", err)
	}
	return actionInserted, nil
}

// fallbackCustomerEmail is stored for imports that arrive without an email
// address, keeping the column non-empty for downstream display and search.
const fallbackCustomerEmail = "unknown@shipstation.com"

// externalCreatedAt prefers the remote creation timestamp so order age (and
// with it the reminder cadence) is measured from when the order was placed,
// not when it was imported.
func externalCreatedAt(ext *shipstation.Order, fallback time.Time) time.Time {
	for _, value := range []string{ext.OrderDate, ext.CreateDate} {
		if t, ok := shipstation.ParseOrderDate(value); ok {
			return t
		}
	}
	return fallback
}

// mapExternalOrder translates the wire order into a local row. The first line
// item supplies the product columns, quantity is summed across all items, and
// the full payload is retained in raw_data.
func mapExternalOrder(ext *shipstation.Order) *models.Order {
	email := ext.CustomerEmail
	if email == "" {
		email = fallbackCustomerEmail
	}

	order := &models.Order{
		ExternalID:    nullString(strconv.FormatInt(ext.OrderID, 10)),
		OrderNumber:   ext.OrderNumber,
		Platform:      models.PlatformShipStation,
		CustomerEmail: email,
		Status:        shipstation.MapOrderStatus(ext.OrderStatus),
		OrderTotal:    ext.OrderTotal,
		Quantity:      1,
	}

	name := ext.ShipTo.Name
	if name == "" {
		name = ext.BillTo.Name
	}
	order.CustomerName = nullString(name)

	if len(ext.Items) > 0 {
		item := ext.Items[0]
		order.SKU = nullString(item.SKU)
		order.ProductName = nullString(item.Name)
		order.ProductImageURL = nullString(item.ImageURL)

		quantity := 0
		for _, it := range ext.Items {
			quantity += it.Quantity
		}
		if quantity > 0 {
			order.Quantity = quantity
		}

		if len(item.Options) > 0 {
			opts := make(map[string]string, len(item.Options))
			for _, opt := range item.Options {
				if opt.Name != "" {
					opts[opt.Name] = opt.Value
				}
			}
			if raw, err := json.Marshal(opts); err == nil {
				order.CustomizationOptions = raw
			}
		}
	}

	if raw, err := json.Marshal(ext); err == nil {
		order.RawData = raw
	}
	return order
}

// externalFieldsEqual compares the scalar columns the sync owns. The raw
// payload is excluded: jsonb storage does not round-trip byte-identically.
func externalFieldsEqual(existing, mapped *models.Order) bool {
	return existing.OrderNumber == mapped.OrderNumber &&
		existing.CustomerEmail == mapped.CustomerEmail &&
		existing.CustomerName.String == mapped.CustomerName.String &&
		existing.Status == mapped.Status &&
		existing.OrderTotal == mapped.OrderTotal &&
		existing.SKU.String == mapped.SKU.String &&
		existing.ProductName.String == mapped.ProductName.String &&
		existing.Quantity == mapped.Quantity &&
		existing.ProductImageURL.String == mapped.ProductImageURL.String
}

func truncateError(msg string) string {
	if len(msg) > maxSyncErrorLength {
		return msg[:maxSyncErrorLength]
	}
	return msg
}
