package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/khalildhmine/neatify-server/models"
	"github.com/khalildhmine/neatify-server/utils"
)

var monitorDBCounter int64

func setupMonitorDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:monitordb%d?mode=memory&cache=shared",
		atomic.AddInt64(&monitorDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Booking{}))
	utils.InitLogger()
	return db
}

func seedStaleKhaltiBooking(db *gorm.DB, pidx string) models.Booking {
	booking := models.Booking{
		UserID:        1,
		ServiceID:     1,
		Date:          time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Time:          "14:30",
		Location:      "Kathmandu",
		PaymentMethod: models.PaymentMethodKhalti,
		PaymentStatus: models.PaymentStatusPending,
		Duration:      1,
		Price:         1000,
		Status:        models.BookingStatusPending,
		Pidx:          pidx,
	}
	db.Create(&booking)
	// Age the row past the monitor's freshness cutoff.
	db.Model(&booking).UpdateColumn("updated_at", time.Now().Add(-10*time.Minute))
	return booking
}

func TestReconcilePending(t *testing.T) {
	db := setupMonitorDB(t)

	// The fake gateway answers by pidx.
	statuses := map[string]string{
		"pidx-paid":    "Completed",
		"pidx-expired": "Expired",
		"pidx-waiting": "Pending",
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/epayment/lookup/", r.URL.Path)

		var payload map[string]string
		json.NewDecoder(r.Body).Decode(&payload)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"pidx":   payload["pidx"],
			"status": statuses[payload["pidx"]],
		})
	}))
	defer server.Close()

	paid := seedStaleKhaltiBooking(db, "pidx-paid")
	expired := seedStaleKhaltiBooking(db, "pidx-expired")
	waiting := seedStaleKhaltiBooking(db, "pidx-waiting")

	// A fresh pending booking is not touched at all.
	fresh := seedStaleKhaltiBooking(db, "pidx-fresh")
	db.Model(&fresh).UpdateColumn("updated_at", time.Now())

	pm := NewPaymentMonitor(db, NewKhaltiService(&KhaltiConfig{
		SecretKey: "test-secret",
		BaseURL:   server.URL,
	}))
	pm.ReconcilePending()

	var got models.Booking
	db.First(&got, paid.ID)
	assert.Equal(t, models.PaymentStatusCompleted, got.PaymentStatus)

	got = models.Booking{}
	db.First(&got, expired.ID)
	assert.Equal(t, models.PaymentStatusFailed, got.PaymentStatus)

	got = models.Booking{}
	db.First(&got, waiting.ID)
	assert.Equal(t, models.PaymentStatusPending, got.PaymentStatus)

	got = models.Booking{}
	db.First(&got, fresh.ID)
	assert.Equal(t, models.PaymentStatusPending, got.PaymentStatus)

	metrics := pm.Metrics()
	assert.Equal(t, int64(3), metrics.Checked)
	assert.Equal(t, int64(1), metrics.Completed)
	assert.Equal(t, int64(1), metrics.Failed)
	assert.Equal(t, int64(0), metrics.Errors)
}

func TestReconcileSkipsWithoutConfig(t *testing.T) {
	db := setupMonitorDB(t)
	booking := seedStaleKhaltiBooking(db, "pidx-unreachable")

	pm := NewPaymentMonitor(db, NewKhaltiService(&KhaltiConfig{}))
	pm.ReconcilePending()

	var got models.Booking
	db.First(&got, booking.ID)
	assert.Equal(t, models.PaymentStatusPending, got.PaymentStatus)
	assert.Equal(t, int64(0), pm.Metrics().Checked)
}

func TestMonitorMetricsRegistration(t *testing.T) {
	db := setupMonitorDB(t)

	pm := NewPaymentMonitor(db, NewKhaltiService(&KhaltiConfig{}))
	pm.Start()
	defer pm.Stop()

	assert.Equal(t, pm.Metrics(), MonitorMetrics())
}
