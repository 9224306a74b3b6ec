package metrics

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func TestMetrics_Recorders(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordTransactionWrite("create", "Debit")
	m.RecordTransactionWrite("create", "Debit")
	m.RecordTransactionQuery("list", "empty")
	m.RecordSummaryCacheLookup("user", "hit")
	m.RecordDBQuery("select", "transactions", "success", 5*time.Millisecond)
	m.RecordValidationError("pageSize", "INVALID_PAGE_SIZE")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TransactionWrites.WithLabelValues("create", "Debit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransactionQueries.WithLabelValues("list", "empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SummaryCacheLookups.WithLabelValues("user", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueriesTotal.WithLabelValues("select", "transactions", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationErrors.WithLabelValues("pageSize", "INVALID_PAGE_SIZE")))
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	m.UpdateSystemMetrics(90*time.Second, &memStats)

	assert.Equal(t, 90.0, testutil.ToFloat64(m.ServiceUptime))
	assert.Positive(t, testutil.ToFloat64(m.Goroutines))
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	app := fiber.New()
	app.Use(HTTPMetricsMiddleware(m, zap.NewNop()))
	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/1", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/items/:id", "204")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPRequestsInFlight))
}

func TestDatabaseMetricsCollector(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormLogger.Discard})
	require.NoError(t, err)

	m := NewMetrics(prometheus.NewRegistry())
	collector := NewDatabaseMetricsCollector(m, zap.NewNop(), db)

	require.NoError(t, collector.HealthCheck())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueriesTotal.WithLabelValues("ping", "health_check", "success")))

	collector.collect()
	collector.Stop()

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	assert.Error(t, collector.HealthCheck())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBConnectionErrors))
}
