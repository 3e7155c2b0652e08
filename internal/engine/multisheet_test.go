package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/piwi3910/StickerNest/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multiTestConfig() Config {
	cfg := testConfig()
	cfg.Sheet = model.Sheet{Width: 3.05, Height: 3.05}
	return cfg
}

func TestScheduler_SpreadsQuantityOverSheets(t *testing.T) {
	part := model.NewRectPart("Logo", 1, 1)
	part.Quantity = 4

	result, err := NestMultiSheet(context.Background(), model.StrategyGridScan,
		multiTestConfig(), []model.Part{part}, 2, false)
	require.NoError(t, err)

	require.Len(t, result.Sheets, 2)
	// ceil(4/2) copies on the first sheet, the rest on the second.
	assert.Len(t, result.Sheets[0].Placements, 2)
	assert.Len(t, result.Sheets[1].Placements, 2)
	assert.Equal(t, 4, result.Quantities[part.ID])
	assert.Equal(t, 4, result.PlacedCount())
}

func TestScheduler_PackAllItemsCramsEarlySheets(t *testing.T) {
	part := model.NewRectPart("Logo", 1, 1)
	part.Quantity = 4

	result, err := NestMultiSheet(context.Background(), model.StrategyGridScan,
		multiTestConfig(), []model.Part{part}, 3, true)
	require.NoError(t, err)

	// All four fit on one 3x3 sheet, so later sheets are never produced.
	require.Len(t, result.Sheets, 1)
	assert.Len(t, result.Sheets[0].Placements, 4)
	assert.Equal(t, 4, result.Quantities[part.ID])
}

func TestScheduler_NeverReportsMoreThanRequested(t *testing.T) {
	a := model.NewRectPart("A", 1, 1)
	a.Quantity = 3
	b := model.NewRectPart("B", 1.5, 1.5)
	b.Quantity = 2

	result, err := NestMultiSheet(context.Background(), model.StrategyGridScan,
		multiTestConfig(), []model.Part{a, b}, 3, false)
	require.NoError(t, err)

	assert.LessOrEqual(t, result.Quantities[a.ID], 3)
	assert.LessOrEqual(t, result.Quantities[b.ID], 2)

	placed := 0
	for _, id := range []string{a.ID, b.ID} {
		placed += result.Quantities[id]
	}
	assert.Equal(t, placed, result.PlacedCount())
}

func TestScheduler_InstanceIDsCarrySuffix(t *testing.T) {
	part := model.NewRectPart("Logo", 1, 1)
	part.Quantity = 2

	result, err := NestMultiSheet(context.Background(), model.StrategyGridScan,
		multiTestConfig(), []model.Part{part}, 1, false)
	require.NoError(t, err)

	require.Len(t, result.Sheets, 1)
	for _, pl := range result.Sheets[0].Placements {
		assert.True(t, strings.HasPrefix(pl.ID, part.ID+"#"),
			"instance id %q must carry the original id plus a suffix", pl.ID)
		assert.Equal(t, part.ID, stripInstanceSuffix(pl.ID))
	}
}

func TestScheduler_OversizedPartNeverPlaces(t *testing.T) {
	big := model.NewRectPart("Big", 10, 10)
	big.Quantity = 2

	result, err := NestMultiSheet(context.Background(), model.StrategyGridScan,
		multiTestConfig(), []model.Part{big}, 2, false)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Quantities[big.ID])
	assert.Equal(t, 0, result.PlacedCount())
	// The demand stays unmet but every sheet was still attempted.
	assert.Len(t, result.Sheets, 2)
}

func TestScheduler_ZeroQuantityTreatedAsOne(t *testing.T) {
	part := model.NewRectPart("Logo", 1, 1)
	part.Quantity = 0

	result, err := NestMultiSheet(context.Background(), model.StrategyGridScan,
		multiTestConfig(), []model.Part{part}, 1, false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Quantities[part.ID])
}

func TestScheduler_TotalUtilizationIsMeanOverSheets(t *testing.T) {
	part := model.NewRectPart("Logo", 1, 1)
	part.Quantity = 4

	result, err := NestMultiSheet(context.Background(), model.StrategyGridScan,
		multiTestConfig(), []model.Part{part}, 2, false)
	require.NoError(t, err)
	require.Len(t, result.Sheets, 2)

	mean := (result.Sheets[0].Utilization + result.Sheets[1].Utilization) / 2
	assert.InDelta(t, mean, result.TotalUtilization, 1e-9)
}

func TestNestMultiSheet_RejectsNonPositiveSheetCount(t *testing.T) {
	_, err := NestMultiSheet(context.Background(), model.StrategyGridScan,
		multiTestConfig(), nil, 0, false)
	assert.Error(t, err)
}

func TestNestMultiSheet_RejectsUnknownStrategy(t *testing.T) {
	_, err := NestMultiSheet(context.Background(), "quantum",
		multiTestConfig(), nil, 1, false)
	assert.Error(t, err)
}

func TestScheduler_CancelledStopsEarly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	part := model.NewRectPart("Logo", 1, 1)
	part.Quantity = 4
	result, err := NestMultiSheet(ctx, model.StrategyGridScan,
		multiTestConfig(), []model.Part{part}, 3, false)
	require.NoError(t, err)

	assert.Empty(t, result.Sheets)
	assert.Equal(t, 0, result.Quantities[part.ID])
}

func TestStripInstanceSuffix(t *testing.T) {
	assert.Equal(t, "abc", stripInstanceSuffix("abc#0"))
	assert.Equal(t, "abc", stripInstanceSuffix("abc#12"))
	assert.Equal(t, "plain", stripInstanceSuffix("plain"))
	// Only the last suffix is an instance marker.
	assert.Equal(t, "a#b", stripInstanceSuffix("a#b#3"))
}
