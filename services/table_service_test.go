package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesaja/seating/models"
)

func TestCreateTable(t *testing.T) {
	store, notifier := setupStore(t)
	tables := NewTableService(store)

	table, err := tables.Create(ctxT(t), 12, 4)
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, table.Status)
	assert.Nil(t, table.CurrentParty)
	assert.Equal(t, "Table 12 was created with capacity for 4.", notifier.last().Text)

	_, err = tables.Create(ctxT(t), 12, 2)
	assert.True(t, IsConflict(err, ReasonDuplicateTable))

	var validation *ValidationError
	_, err = tables.Create(ctxT(t), 13, 0)
	assert.ErrorAs(t, err, &validation)
	_, err = tables.Create(ctxT(t), 0, 4)
	assert.ErrorAs(t, err, &validation)

	all, err := tables.List(ctxT(t))
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetMissingTable(t *testing.T) {
	store, _ := setupStore(t)

	_, err := NewTableService(store).Get(ctxT(t), 7)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "table 7 not found", err.Error())
}

func TestSetStatusClearsParty(t *testing.T) {
	for _, status := range []string{models.TableAvailable, models.TableDirty} {
		t.Run(status, func(t *testing.T) {
			store, _ := setupStore(t)
			tables := NewTableService(store)
			table := mustTable(t, store, 5, 4)

			occupied, err := tables.SetStatus(ctxT(t), table.ID, models.TableOccupied, strPtr("Nunes"))
			require.NoError(t, err)
			require.NotNil(t, occupied.CurrentParty)

			cleared, err := tables.SetStatus(ctxT(t), table.ID, status, nil)
			require.NoError(t, err)
			assert.Equal(t, status, cleared.Status)
			assert.Nil(t, cleared.CurrentParty)

			stored, err := tables.Get(ctxT(t), table.ID)
			require.NoError(t, err)
			assert.Nil(t, stored.CurrentParty)
		})
	}
}

func TestSetStatusOccupiedNeedsParty(t *testing.T) {
	store, notifier := setupStore(t)
	tables := NewTableService(store)
	table := mustTable(t, store, 5, 4)

	_, err := tables.SetStatus(ctxT(t), table.ID, models.TableOccupied, nil)
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)

	_, err = tables.SetStatus(ctxT(t), table.ID, "broken", nil)
	assert.ErrorAs(t, err, &validation)

	occupied, err := tables.SetStatus(ctxT(t), table.ID, models.TableOccupied, strPtr("Melo"))
	require.NoError(t, err)

	// keeps the current party when none is given
	again, err := tables.SetStatus(ctxT(t), occupied.ID, models.TableOccupied, nil)
	require.NoError(t, err)
	assert.Equal(t, "Melo", *again.CurrentParty)
	assert.Equal(t, "Table 5 (party 'Melo') had its status changed to 'occupied'.", notifier.last().Text)

	_, err = tables.SetStatus(ctxT(t), 999, models.TableDirty, nil)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestDeleteTable(t *testing.T) {
	store, notifier := setupStore(t)
	tables := NewTableService(store)
	table := mustTable(t, store, 8, 2)

	require.NoError(t, tables.Delete(ctxT(t), table.ID))
	assert.Equal(t, "Table 8 was removed from the system.", notifier.last().Text)

	var notFound *NotFoundError
	assert.ErrorAs(t, tables.Delete(ctxT(t), table.ID), &notFound)
}

func TestTableStatsAndFilter(t *testing.T) {
	store, _ := setupStore(t)
	tables := NewTableService(store)
	mustTable(t, store, 1, 2)
	second := mustTable(t, store, 2, 4)
	third := mustTable(t, store, 3, 6)
	_, err := tables.SetStatus(ctxT(t), second.ID, models.TableOccupied, strPtr("Cruz"))
	require.NoError(t, err)
	_, err = tables.SetStatus(ctxT(t), third.ID, models.TableDirty, nil)
	require.NoError(t, err)

	stats, err := tables.Stats(ctxT(t))
	require.NoError(t, err)
	assert.Equal(t, &TableStats{Total: 3, Available: 1, Occupied: 1, Dirty: 1}, stats)

	dirty, err := tables.ListByStatus(ctxT(t), models.TableDirty)
	require.NoError(t, err)
	require.Len(t, dirty, 1)
	assert.Equal(t, 3, dirty[0].Number)

	_, err = tables.ListByStatus(ctxT(t), "nope")
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}
