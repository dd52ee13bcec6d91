package scan_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apexcoin/jamtis/address"
	"github.com/apexcoin/jamtis/enote"
	"github.com/apexcoin/jamtis/keys"
	"github.com/apexcoin/jamtis/ledger"
	"github.com/apexcoin/jamtis/scan"
	"github.com/apexcoin/jamtis/spcrypto"
)

func TestScannerRefreshRecoversPlainPayment(t *testing.T) {
	h := keys.NewHierarchy(spcrypto.RandomScalar())
	cc, err := address.NewCipherContext(h.Sct)
	require.NoError(t, err)

	var j address.AddressIndex
	j[0] = 9
	dest := address.DeriveDestination(h.ViewBalanceOnly, cc, j)

	inputCtx := enote.InputContextCoinbase(1)
	proposal := enote.PaymentProposal{
		Dest:          dest,
		Amount:        5000,
		EphemeralPriv: spcrypto.RandomX25519Scalar(),
		InputCtx:      inputCtx,
	}
	out := enote.MakePlainOutput(proposal)

	src := ledger.NewMemoryLedger()
	src.AppendChunk(scan.Chunk{
		StartHeight: 0,
		EndHeight:   1,
		Enotes: []scan.ChunkEnote{{
			Enote:           out.Enote,
			EphemeralPubkey: out.KE,
			InputCtx:        inputCtx,
			BlockIndex:      0,
		}},
	})

	store := scan.NewEnoteStore()
	scanner := scan.NewScanner(src, store, h, cc)
	require.NoError(t, scanner.Refresh(context.Background()))

	records := store.ListRecords(scan.ConfirmedSpendableFilter())
	require.Len(t, records, 1)
	require.Equal(t, uint64(5000), records[0].Full.Amount)
}

func TestScannerRefreshRecoversSelfsendChange(t *testing.T) {
	h := keys.NewHierarchy(spcrypto.RandomScalar())
	cc, err := address.NewCipherContext(h.Sct)
	require.NoError(t, err)

	primary := address.DeriveDestination(h.ViewBalanceOnly, cc, address.AddressIndex{})

	ke := spcrypto.RandomX25519Scalar().ScalarBaseMult()
	inputCtx := enote.InputContextCoinbase(2)
	proposal := enote.SelfsendProposal{
		Dest:     primary,
		Amount:   250,
		Type:     enote.TypeChange,
		KE:       ke,
		InputCtx: inputCtx,
	}
	out, err := enote.MakeSelfsendOutput(h.ViewBalanceOnly, proposal)
	require.NoError(t, err)

	src := ledger.NewMemoryLedger()
	src.AppendChunk(scan.Chunk{
		StartHeight: 0,
		EndHeight:   1,
		Enotes: []scan.ChunkEnote{{
			Enote:           out.Enote,
			EphemeralPubkey: out.KE,
			InputCtx:        inputCtx,
			BlockIndex:      0,
		}},
	})

	store := scan.NewEnoteStore()
	scanner := scan.NewScanner(src, store, h, cc)
	require.NoError(t, scanner.Refresh(context.Background()))

	records := store.ListRecords(scan.ConfirmedSpendableFilter())
	require.Len(t, records, 1)
	require.Equal(t, uint64(250), records[0].Full.Amount)
}

func TestScannerRefreshStopsAtEmptyChunk(t *testing.T) {
	h := keys.NewHierarchy(spcrypto.RandomScalar())
	cc, err := address.NewCipherContext(h.Sct)
	require.NoError(t, err)

	src := ledger.NewMemoryLedger()
	store := scan.NewEnoteStore()
	scanner := scan.NewScanner(src, store, h, cc)
	require.NoError(t, scanner.Refresh(context.Background()))
	require.Empty(t, store.ListRecords(scan.ConfirmedSpendableFilter()))
}
