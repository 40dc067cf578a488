package history

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"myfuel/internal/geo"
	"myfuel/pkg/fuel"
)

func testStation() fuel.Station {
	return fuel.Station{
		Brand:        "REPSOL",
		Address:      "CALLE ARAGON 1",
		Province:     "BARCELONA",
		Municipality: "Barcelona",
		PostalCode:   "08015",
		Coordinate:   geo.Coordinate{Lat: 41.387, Lon: 2.168},
		Prices: map[string]float64{
			"Gasoleo A":      1.539,
			"Gasolina 95 E5": 1.479,
		},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(context.Background(), filepath.Join(t.TempDir(), "history.db"), slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func (s *Store) countRows(t *testing.T, table string) int {
	t.Helper()
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("counting %s: %v", table, err)
	}
	return n
}

func TestRecordInsertsStationAndPrices(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Record(ctx, testStation()); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	if n := store.countRows(t, "stations"); n != 1 {
		t.Errorf("expected 1 station row, got %d", n)
	}
	if n := store.countRows(t, "prices"); n != 2 {
		t.Errorf("expected 2 price rows, got %d", n)
	}

	var price float64
	err := store.db.QueryRow(`
		SELECT p.price FROM prices p
		JOIN stations s ON s.id = p.station_id
		WHERE s.ext_id = ? AND p.fuel_type = 'Gasoleo A'
	`, "REPSOL-CALLE ARAGON 1-08015").Scan(&price)
	if err != nil {
		t.Fatalf("querying recorded price: %v", err)
	}
	if price != 1.539 {
		t.Errorf("recorded price = %f, expected 1.539", price)
	}
}

func TestRecordStoresStationAttributes(t *testing.T) {
	store := newTestStore(t)

	if err := store.Record(context.Background(), testStation()); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	var brand, province, postalCode string
	var lat float64
	err := store.db.QueryRow(`
		SELECT brand, province, postal_code, latitude FROM stations WHERE ext_id = ?
	`, "REPSOL-CALLE ARAGON 1-08015").Scan(&brand, &province, &postalCode, &lat)
	if err != nil {
		t.Fatalf("querying station row: %v", err)
	}
	if brand != "REPSOL" || province != "BARCELONA" || postalCode != "08015" {
		t.Errorf("station row = %s/%s/%s", brand, province, postalCode)
	}
	if lat != 41.387 {
		t.Errorf("latitude = %f, expected 41.387", lat)
	}
}

func TestRecordUpsertsStation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	st := testStation()
	if err := store.Record(ctx, st); err != nil {
		t.Fatalf("first Record() failed: %v", err)
	}

	// Same identity, new price observation.
	st.Prices = map[string]float64{"Gasoleo A": 1.555}
	if err := store.Record(ctx, st); err != nil {
		t.Fatalf("second Record() failed: %v", err)
	}

	if n := store.countRows(t, "stations"); n != 1 {
		t.Errorf("upsert should keep a single station row, got %d", n)
	}
	if n := store.countRows(t, "prices"); n != 3 {
		t.Errorf("price history should accumulate, expected 3 rows, got %d", n)
	}
}

func TestSyncAllContinuesPastFailures(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	stations := []fuel.Station{testStation()}
	other := testStation()
	other.Brand = "CEPSA"
	stations = append(stations, other)

	if err := store.SyncAll(ctx, stations); err != nil {
		t.Fatalf("SyncAll() failed: %v", err)
	}
	if n := store.countRows(t, "stations"); n != 2 {
		t.Errorf("expected 2 station rows, got %d", n)
	}
}

type failingRecorder struct {
	calls chan struct{}
}

func (r *failingRecorder) Record(ctx context.Context, station fuel.Station) error {
	r.calls <- struct{}{}
	return errors.New("sink down")
}

func TestAsyncRecorderSwallowsFailures(t *testing.T) {
	inner := &failingRecorder{calls: make(chan struct{}, 1)}
	rec := NewAsyncRecorder(inner, slog.New(slog.DiscardHandler))

	if err := rec.Record(context.Background(), testStation()); err != nil {
		t.Fatalf("async Record() should never return an error, got %v", err)
	}

	<-inner.calls
	rec.Wait()
}
