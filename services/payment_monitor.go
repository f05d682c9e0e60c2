package services

import (
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/khalildhmine/neatify-server/models"
	"github.com/khalildhmine/neatify-server/utils"
	"github.com/khalildhmine/neatify-server/ws"
)

// PaymentMetrics tracks gateway reconciliation outcomes.
type PaymentMetrics struct {
	Checked   int64 `json:"checked"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	Errors    int64 `json:"errors"`
}

// PaymentMonitor periodically reconciles Khalti bookings stuck in PENDING
// payment status against the gateway, so a missed verify call does not leave
// a paid booking unpaid forever.
type PaymentMonitor struct {
	db       *gorm.DB
	khalti   *KhaltiService
	Interval time.Duration
	metrics  PaymentMetrics
	mutex    sync.Mutex
	stop     chan struct{}
}

var (
	activeMonitor   *PaymentMonitor
	activeMonitorMu sync.RWMutex
)

func NewPaymentMonitor(db *gorm.DB, khalti *KhaltiService) *PaymentMonitor {
	return &PaymentMonitor{
		db:       db,
		khalti:   khalti,
		Interval: 5 * time.Minute,
		stop:     make(chan struct{}),
	}
}

// Start launches the reconciliation goroutine and registers the monitor so
// MonitorMetrics can report its counters.
func (pm *PaymentMonitor) Start() {
	activeMonitorMu.Lock()
	activeMonitor = pm
	activeMonitorMu.Unlock()

	go pm.run()
	utils.InfoLogger.Println("Payment monitor started")
}

// Stop terminates the reconciliation goroutine.
func (pm *PaymentMonitor) Stop() {
	close(pm.stop)
}

// Metrics returns a snapshot of the reconciliation counters.
func (pm *PaymentMonitor) Metrics() PaymentMetrics {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	return pm.metrics
}

// MonitorMetrics reports the running monitor's counters, zero values when no
// monitor has been started.
func MonitorMetrics() PaymentMetrics {
	activeMonitorMu.RLock()
	defer activeMonitorMu.RUnlock()
	if activeMonitor == nil {
		return PaymentMetrics{}
	}
	return activeMonitor.Metrics()
}

func (pm *PaymentMonitor) run() {
	ticker := time.NewTicker(pm.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pm.ReconcilePending()
		case <-pm.stop:
			return
		}
	}
}

// ReconcilePending looks up every stale pending Khalti booking and settles
// its payment status from the gateway's answer.
func (pm *PaymentMonitor) ReconcilePending() {
	if err := pm.khalti.ValidateConfig(); err != nil {
		return
	}

	var bookings []models.Booking
	cutoff := time.Now().Add(-2 * time.Minute)
	err := pm.db.
		Where("payment_method = ? AND payment_status = ? AND pidx <> '' AND updated_at < ?",
			models.PaymentMethodKhalti, models.PaymentStatusPending, cutoff).
		Limit(50).
		Find(&bookings).Error
	if err != nil {
		utils.ErrorLogger.Printf("payment monitor query failed: %v", err)
		return
	}

	for i := range bookings {
		pm.reconcile(&bookings[i])
	}
}

func (pm *PaymentMonitor) reconcile(booking *models.Booking) {
	pm.mutex.Lock()
	pm.metrics.Checked++
	pm.mutex.Unlock()

	lookup, err := pm.khalti.Lookup(booking.Pidx)
	if err != nil {
		pm.mutex.Lock()
		pm.metrics.Errors++
		pm.mutex.Unlock()
		utils.ErrorLogger.Printf("payment monitor lookup failed for pidx %s: %v", booking.Pidx, err)
		return
	}

	status, settled := SettlementStatus(lookup.Status)
	if !settled {
		// Pending or Initiated, check again next tick.
		return
	}
	booking.PaymentStatus = status

	if err := pm.db.Model(booking).Update("payment_status", booking.PaymentStatus).Error; err != nil {
		utils.ErrorLogger.Printf("payment monitor update failed for booking %d: %v", booking.ID, err)
		return
	}

	pm.mutex.Lock()
	if booking.PaymentStatus == models.PaymentStatusCompleted {
		pm.metrics.Completed++
	} else {
		pm.metrics.Failed++
	}
	pm.mutex.Unlock()

	utils.InfoLogger.Printf("payment monitor settled booking %d as %s", booking.ID, booking.PaymentStatus)
	ws.BroadcastPaymentUpdate(*booking)
}
