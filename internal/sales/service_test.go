package sales

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T, path string) *Service {
	t.Helper()
	return NewService(NewFileCache(nil), zaptest.NewLogger(t), path)
}

// TestNewService verifies service initialization.
func TestNewService(t *testing.T) {
	svc := NewService(NewFileCache(nil), zaptest.NewLogger(t), "Adidas.xlsx")

	if svc == nil {
		t.Fatal("NewService returned nil")
	}
	if svc.storage == nil {
		t.Error("Service storage was not initialized")
	}
	if svc.logger == nil {
		t.Error("Service logger was not initialized")
	}
	assert.Equal(t, "Adidas.xlsx", svc.Source())
}

func TestNewService_NilLogger(t *testing.T) {
	svc := NewService(NewFileCache(nil), nil, "Adidas.xlsx")
	assert.NotNil(t, svc.logger)
}

func TestService_MissingSourceHalts(t *testing.T) {
	svc := newTestService(t, filepath.Join(t.TempDir(), "Adidas.xlsx"))

	_, err := svc.Dashboard(context.Background(), Criteria{})
	assert.True(t, errors.Is(err, ErrDataSourceNotFound))

	_, err = svc.Options()
	assert.ErrorIs(t, err, ErrDataSourceNotFound)

	_, err = svc.Report(ReportRetailer, Criteria{})
	assert.ErrorIs(t, err, ErrDataSourceNotFound)
}

func TestService_Options(t *testing.T) {
	svc := newTestService(t, legacyCSV(t))

	opts, err := svc.Options()
	require.NoError(t, err)

	assert.Equal(t, []string{"Northeast", "South", "West"}, opts.Regions)
	assert.Equal(t, []string{"Amazon", "Foot Locker", "Walmart", "West Gear"}, opts.Retailers)
	assert.Equal(t, []string{"California", "New York", "Texas", "Washington"}, opts.States)
	require.NotNil(t, opts.MinDate)
	require.NotNil(t, opts.MaxDate)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), *opts.MinDate)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), *opts.MaxDate)
}

func TestService_KPIs(t *testing.T) {
	svc := newTestService(t, legacyCSV(t))

	k, err := svc.KPIs(Criteria{}.WithRegions("Northeast"))
	require.NoError(t, err)

	assert.Equal(t, 2, k.TotalOrders)
	assert.Equal(t, int64(2200), k.TotalUnits)
	assert.True(t, decimal.NewFromInt(1100000).Equal(k.TotalSales))
	assert.True(t, decimal.NewFromInt(550000).Equal(k.AvgOrderValue))
}

func TestService_KPIsEmpty(t *testing.T) {
	svc := newTestService(t, legacyCSV(t))

	k, err := svc.KPIs(Criteria{}.WithRegions("Nowhere"))
	require.NoError(t, err)
	assert.Equal(t, 0, k.TotalOrders)
	assert.True(t, k.AvgOrderValue.IsZero())
}

func TestService_Report(t *testing.T) {
	svc := newTestService(t, legacyCSV(t))

	report, err := svc.Report(ReportRetailer, Criteria{}.WithRetailers("Amazon", "Walmart"))
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, []string{"Walmart"}, report.Rows[0].Keys)
	assert.Equal(t, []string{"Amazon"}, report.Rows[1].Keys)

	_, err = svc.Report("weekly", Criteria{})
	assert.ErrorIs(t, err, ErrUnknownReport)
}

func TestService_FilterOnAbsentColumnIsIgnored(t *testing.T) {
	path := writeFile(t, "narrow.csv", "Retailer,TotalSales\nAmazon,10\nWalmart,5\n")
	svc := newTestService(t, path)

	_, records, err := svc.Records(Criteria{}.WithRegions("West"))
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestService_Dashboard(t *testing.T) {
	svc := newTestService(t, legacyCSV(t))

	c := Criteria{}.WithDateRange(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))
	dash, err := svc.Dashboard(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, 3, dash.KPIs.TotalOrders)
	require.Len(t, dash.Reports, len(Definitions()))
	for i, d := range Definitions() {
		assert.Equal(t, d.Name, dash.Reports[i].Name)
		assert.True(t, dash.Reports[i].Available)
		if d.Name != ReportProduct {
			assert.True(t, dash.KPIs.TotalSales.Equal(sumRows(dash.Reports[i].Rows)), "Expected %s to keep the filtered total", d.Name)
		}
	}
}

func TestService_DashboardEmptySelection(t *testing.T) {
	svc := newTestService(t, legacyCSV(t))

	dash, err := svc.Dashboard(context.Background(), Criteria{}.WithStates("Alaska"))
	require.NoError(t, err)
	for _, r := range dash.Reports {
		assert.Empty(t, r.Rows, "Expected %s to be empty", r.Name)
	}
}

func TestService_DashboardCanceled(t *testing.T) {
	svc := newTestService(t, legacyCSV(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Dashboard(ctx, Criteria{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_Reload(t *testing.T) {
	path := legacyCSV(t)
	svc := newTestService(t, path)

	before, err := svc.Dataset()
	require.NoError(t, err)
	after, err := svc.Reload()
	require.NoError(t, err)

	assert.NotSame(t, before, after)
	assert.Equal(t, before.Identity, after.Identity)
}

type recordingStorage struct {
	Storage
	purged      int
	invalidated []string
}

func (s *recordingStorage) Invalidate(source string) {
	s.invalidated = append(s.invalidated, source)
	s.Storage.Invalidate(source)
}

func (s *recordingStorage) Purge() {
	s.purged++
	s.Storage.Purge()
}

func TestService_ReloadPurgesEveryEntry(t *testing.T) {
	path := legacyCSV(t)
	other := writeFile(t, "other.csv", legacyHeader+"\n"+legacyRows[0]+"\n")
	storage := &recordingStorage{Storage: NewFileCache(nil)}
	svc := NewService(storage, zaptest.NewLogger(t), path)

	stale, err := storage.Get(other)
	require.NoError(t, err)
	_, err = svc.Reload()
	require.NoError(t, err)

	assert.Equal(t, 1, storage.purged)
	assert.Empty(t, storage.invalidated)
	fresh, err := storage.Get(other)
	require.NoError(t, err)
	assert.NotSame(t, stale, fresh, "Expected entries for other sources to be dropped too")
}
