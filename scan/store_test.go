package scan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apexcoin/jamtis/enote"
	"github.com/apexcoin/jamtis/spcrypto"
)

func testFullRecord(t *testing.T, amount uint64) enote.FullRecord {
	t.Helper()
	ki := enote.KeyImage(spcrypto.ScalarMultBase(spcrypto.RandomScalar()))
	return enote.FullRecord{
		IntermediateRecord: enote.IntermediateRecord{Amount: amount},
		KeyImage:           ki,
	}
}

func TestApplyRecordInsertsAndUpgradesOnly(t *testing.T) {
	s := NewEnoteStore()
	full := testFullRecord(t, 100)

	s.ApplyRecord(full, OriginContext{Status: OriginUnconfirmed, BlockIndex: 1})
	records := s.ListRecords(BalanceFilter{AllowedOrigin: map[OriginStatus]bool{OriginUnconfirmed: true}})
	require.Len(t, records, 1)
	require.Equal(t, uint64(100), records[0].Full.Amount)

	// downgrade attempt must not overwrite the more-confirmed status
	s.ApplyRecord(full, OriginContext{Status: OriginOffchain, BlockIndex: 1})
	records = s.ListRecords(BalanceFilter{AllowedOrigin: map[OriginStatus]bool{OriginUnconfirmed: true}})
	require.Len(t, records, 1)

	s.ApplyRecord(full, OriginContext{Status: OriginOnchain, BlockIndex: 2})
	records = s.ListRecords(BalanceFilter{AllowedOrigin: map[OriginStatus]bool{OriginOnchain: true}})
	require.Len(t, records, 1)
	require.Equal(t, uint64(2), records[0].Origin.BlockIndex)
}

func TestBalanceRespectsFilter(t *testing.T) {
	s := NewEnoteStore()
	a := testFullRecord(t, 10)
	b := testFullRecord(t, 20)

	s.ApplyRecord(a, OriginContext{Status: OriginOnchain, BlockIndex: 1})
	s.ApplyRecord(b, OriginContext{Status: OriginOnchain, BlockIndex: 1})
	s.ApplySpend(b.KeyImage.Bytes(), SpentContext{Status: SpentOnchain, BlockIndex: 2})

	require.Equal(t, uint64(30), s.Balance(BalanceFilter{AllowedOrigin: map[OriginStatus]bool{OriginOnchain: true}}))
	require.Equal(t, uint64(10), s.Balance(ConfirmedSpendableFilter()))
}

func TestRewindAboveDropsNewOriginsAndUnspends(t *testing.T) {
	s := NewEnoteStore()
	old := testFullRecord(t, 5)
	newer := testFullRecord(t, 7)

	s.ApplyRecord(old, OriginContext{Status: OriginOnchain, BlockIndex: 1})
	s.ApplyRecord(newer, OriginContext{Status: OriginOnchain, BlockIndex: 10})
	s.ApplySpend(old.KeyImage.Bytes(), SpentContext{Status: SpentOnchain, BlockIndex: 10})

	s.RewindAbove(5)

	all := s.ListRecords(BalanceFilter{AllowedOrigin: map[OriginStatus]bool{OriginOnchain: true}})
	require.Len(t, all, 1)
	require.Equal(t, uint64(5), all[0].Full.Amount)
	require.Equal(t, SpentUnspent, all[0].Spent.Status, "spend above the rewind height must revert to unspent")
}

func TestSetTopAndTopBlockID(t *testing.T) {
	s := NewEnoteStore()
	height, id := s.TopBlockID()
	require.Zero(t, height)
	require.Equal(t, [32]byte{}, id)

	s.SetTop(42, [32]byte{1, 2, 3})
	height, id = s.TopBlockID()
	require.Equal(t, uint64(42), height)
	require.Equal(t, [32]byte{1, 2, 3}, id)
}
