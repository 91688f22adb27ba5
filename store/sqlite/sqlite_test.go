package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/catalog"
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/severance"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSettlement(t *testing.T) *severance.SettlementResult {
	t.Helper()
	res, err := severance.Compute(
		severance.EmploymentPeriod{
			DailySalary:     engine.MustDecimal("300"),
			StartDate:       engine.Date(2020, time.January, 1),
			TerminationDate: engine.Date(2024, time.January, 1),
		},
		severance.VoluntaryResignation,
		severance.Options{Statutory: factory.Statutory2024()})
	require.NoError(t, err)
	return res
}

// =============================================================================
// SETTLEMENT PERSISTENCE TESTS
// =============================================================================

func TestStore_SaveAndGetSettlement(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SaveSettlement(ctx, "emp-001", sampleSettlement(t))
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	rec, err := store.GetSettlement(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "emp-001", rec.EmployeeRef)
	assert.Equal(t, string(severance.VoluntaryResignation), rec.TerminationType)
	assert.Equal(t, "11250", rec.Total)
	require.NotNil(t, rec.Result)
	assert.Len(t, rec.Result.Items, 3)
	assert.True(t, rec.Result.Total.Equal(engine.MustDecimal("11250")))
}

func TestStore_GetSettlement_Missing(t *testing.T) {
	store := newTestStore(t)

	rec, err := store.GetSettlement(context.Background(), 9999)
	require.NoError(t, err)
	assert.Nil(t, rec, "absent row is (nil, nil), not an error")
}

func TestStore_ListSettlements_NewestFirstAndFiltered(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	settlement := sampleSettlement(t)

	first, err := store.SaveSettlement(ctx, "emp-001", settlement)
	require.NoError(t, err)
	second, err := store.SaveSettlement(ctx, "emp-002", settlement)
	require.NoError(t, err)
	third, err := store.SaveSettlement(ctx, "emp-001", settlement)
	require.NoError(t, err)

	all, err := store.ListSettlements(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, third, all[0].ID, "newest first")
	assert.Equal(t, first, all[2].ID)

	filtered, err := store.ListSettlements(ctx, "emp-002")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, second, filtered[0].ID)
}

func TestStore_Settlements_AppendOnly(t *testing.T) {
	// Recalculating the same employee inserts a new row; history remains.
	store := newTestStore(t)
	ctx := context.Background()
	settlement := sampleSettlement(t)

	_, err := store.SaveSettlement(ctx, "emp-001", settlement)
	require.NoError(t, err)
	_, err = store.SaveSettlement(ctx, "emp-001", settlement)
	require.NoError(t, err)

	records, err := store.ListSettlements(ctx, "emp-001")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

// =============================================================================
// CONCEPT PERSISTENCE TESTS
// =============================================================================

func TestStore_ConceptUpsertAndDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	concept := catalog.Concept{
		Name: "prima_vacacional", Kind: catalog.Earning, Category: "percepcion",
		Formula: "SALARIO_DIARIO * DIAS_VACACIONES * 25%", Taxable: true,
	}
	require.NoError(t, store.SaveConcept(ctx, concept))

	// Upsert replaces the formula in place.
	concept.Formula = "SALARIO_DIARIO * DIAS_VACACIONES * 30%"
	require.NoError(t, store.SaveConcept(ctx, concept))

	concepts, err := store.ListConcepts(ctx)
	require.NoError(t, err)
	require.Len(t, concepts, 1)
	assert.Equal(t, "SALARIO_DIARIO * DIAS_VACACIONES * 30%", concepts[0].Formula)

	deleted, err := store.DeleteConcept(ctx, "prima_vacacional")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.DeleteConcept(ctx, "prima_vacacional")
	require.NoError(t, err)
	assert.False(t, deleted, "second delete finds nothing")
}

// =============================================================================
// CONFIG DOCUMENT TESTS
// =============================================================================

func TestStore_ConfigDocs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := []byte(`{"name":"isr-test","periodicity":"monthly","brackets":[{"lower":"0","rate":"10"}]}`)
	require.NoError(t, store.SaveConfigDoc(ctx, "tax_table", "active", doc))

	got, err := store.GetConfigDoc(ctx, "tax_table", "active")
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	// Replacing the same kind/name pair overwrites.
	doc2 := []byte(`{"name":"isr-test-2"}`)
	require.NoError(t, store.SaveConfigDoc(ctx, "tax_table", "active", doc2))
	got, err = store.GetConfigDoc(ctx, "tax_table", "active")
	require.NoError(t, err)
	assert.Equal(t, doc2, got)

	// Kinds are namespaced.
	missing, err := store.GetConfigDoc(ctx, "subsidy_table", "active")
	require.NoError(t, err)
	assert.Nil(t, missing)

	names, err := store.ListConfigDocs(ctx, "tax_table")
	require.NoError(t, err)
	assert.Equal(t, []string{"active"}, names)
}
