package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func counterInvariant(t *testing.T, v ProductVariant) {
	t.Helper()
	assert.Equal(t, v.StockQuantity, v.AvailableQuantity+v.ReservedQuantity)
	assert.GreaterOrEqual(t, v.StockQuantity, int64(0))
	assert.GreaterOrEqual(t, v.AvailableQuantity, int64(0))
	assert.GreaterOrEqual(t, v.ReservedQuantity, int64(0))
	assert.Equal(t, StockStatusFor(v.AvailableQuantity), v.StockStatus)
}

func TestReserveStock_MovesAvailableToReserved(t *testing.T) {
	v := ProductVariant{StockQuantity: 20, AvailableQuantity: 20}

	assert.True(t, v.ReserveStock(3))
	assert.Equal(t, int64(17), v.AvailableQuantity)
	assert.Equal(t, int64(3), v.ReservedQuantity)
	assert.Equal(t, int64(20), v.StockQuantity)
	counterInvariant(t, v)
}

func TestReserveStock_ShortageLeavesCountersAlone(t *testing.T) {
	v := ProductVariant{StockQuantity: 5, AvailableQuantity: 2, ReservedQuantity: 3, StockStatus: StockStatusCritical}

	assert.False(t, v.ReserveStock(3))
	assert.Equal(t, int64(2), v.AvailableQuantity)
	assert.Equal(t, int64(3), v.ReservedQuantity)
	counterInvariant(t, v)
}

func TestReleaseStock_RestoresReserve(t *testing.T) {
	v := ProductVariant{StockQuantity: 20, AvailableQuantity: 20, StockStatus: StockStatusIn}

	assert.True(t, v.ReserveStock(8))
	v.ReleaseStock(8)

	//予約して解放したら元通り
	assert.Equal(t, int64(20), v.AvailableQuantity)
	assert.Equal(t, int64(0), v.ReservedQuantity)
	assert.Equal(t, StockStatusIn, v.StockStatus)
	counterInvariant(t, v)
}

func TestReleaseStock_ClampsAtReserved(t *testing.T) {
	v := ProductVariant{StockQuantity: 10, AvailableQuantity: 7, ReservedQuantity: 3, StockStatus: StockStatusLow}

	//reservedを超える解放はreservedぶんだけ戻す
	v.ReleaseStock(100)
	assert.Equal(t, int64(10), v.AvailableQuantity)
	assert.Equal(t, int64(0), v.ReservedQuantity)
	counterInvariant(t, v)
}

func TestCommitStock_ConsumesPhysicalStock(t *testing.T) {
	v := ProductVariant{StockQuantity: 10, AvailableQuantity: 6, ReservedQuantity: 4, StockStatus: StockStatusLow}

	v.CommitStock(4)
	assert.Equal(t, int64(6), v.StockQuantity)
	assert.Equal(t, int64(6), v.AvailableQuantity)
	assert.Equal(t, int64(0), v.ReservedQuantity)
	counterInvariant(t, v)
}

func TestCommitStock_ClampsAtReserved(t *testing.T) {
	v := ProductVariant{StockQuantity: 10, AvailableQuantity: 8, ReservedQuantity: 2, StockStatus: StockStatusLow}

	v.CommitStock(5)
	assert.Equal(t, int64(8), v.StockQuantity)
	assert.Equal(t, int64(8), v.AvailableQuantity)
	assert.Equal(t, int64(0), v.ReservedQuantity)
	counterInvariant(t, v)
}

func TestResetStock_RedistributesAroundReserved(t *testing.T) {
	v := ProductVariant{StockQuantity: 10, AvailableQuantity: 7, ReservedQuantity: 3, StockStatus: StockStatusLow}

	assert.True(t, v.ResetStock(20))
	assert.Equal(t, int64(20), v.StockQuantity)
	assert.Equal(t, int64(17), v.AvailableQuantity)
	assert.Equal(t, int64(3), v.ReservedQuantity)
	assert.Equal(t, StockStatusIn, v.StockStatus)
	counterInvariant(t, v)
}

func TestResetStock_RejectsBelowReserved(t *testing.T) {
	v := ProductVariant{StockQuantity: 10, AvailableQuantity: 7, ReservedQuantity: 3, StockStatus: StockStatusLow}

	assert.False(t, v.ResetStock(2))
	//拒否時はカウンタを触らない
	assert.Equal(t, int64(10), v.StockQuantity)
	assert.Equal(t, int64(7), v.AvailableQuantity)
	assert.Equal(t, int64(3), v.ReservedQuantity)
	counterInvariant(t, v)
}

func TestStockCounters_InvariantThroughLifecycle(t *testing.T) {
	//入荷→予約→一部解放→確定消費、の一連の流れで不変条件が保たれる
	v := ProductVariant{StockStatus: StockStatusOut}

	assert.True(t, v.ResetStock(30))
	counterInvariant(t, v)

	assert.True(t, v.ReserveStock(12))
	counterInvariant(t, v)

	v.ReleaseStock(5)
	counterInvariant(t, v)
	assert.Equal(t, int64(7), v.ReservedQuantity)

	v.CommitStock(7)
	counterInvariant(t, v)
	assert.Equal(t, int64(23), v.StockQuantity)
	assert.Equal(t, int64(23), v.AvailableQuantity)
	assert.Equal(t, int64(0), v.ReservedQuantity)
}

func TestStockCounters_StatusFollowsAvailable(t *testing.T) {
	v := ProductVariant{StockStatus: StockStatusOut}

	assert.True(t, v.ResetStock(16))
	assert.Equal(t, StockStatusIn, v.StockStatus)

	assert.True(t, v.ReserveStock(1)) // available 15
	assert.Equal(t, StockStatusLow, v.StockStatus)

	assert.True(t, v.ReserveStock(10)) // available 5
	assert.Equal(t, StockStatusCritical, v.StockStatus)

	assert.True(t, v.ReserveStock(5)) // available 0
	assert.Equal(t, StockStatusOut, v.StockStatus)
}
