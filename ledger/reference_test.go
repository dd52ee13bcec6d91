package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apexcoin/jamtis/scan"
)

func TestMemoryLedgerNextChunkByStartHeight(t *testing.T) {
	l := NewMemoryLedger()
	l.AppendChunk(scan.Chunk{StartHeight: 0, EndHeight: 10, ParentID: [32]byte{1}})
	l.AppendChunk(scan.Chunk{StartHeight: 10, EndHeight: 20, ParentID: [32]byte{2}})

	c, err := l.NextChunk(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(10), c.StartHeight)
	require.Equal(t, [32]byte{2}, c.ParentID)
}

func TestMemoryLedgerNextChunkUnknownHeightReturnsEmpty(t *testing.T) {
	l := NewMemoryLedger()
	l.AppendChunk(scan.Chunk{StartHeight: 0, EndHeight: 10})

	c, err := l.NextChunk(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Empty(t, c.Enotes)
	require.Equal(t, c.StartHeight, c.EndHeight)
}

func TestMemoryLedgerNextChunkTruncatesByHint(t *testing.T) {
	l := NewMemoryLedger()
	l.AppendChunk(scan.Chunk{
		StartHeight: 0,
		EndHeight:   5,
		Enotes: []scan.ChunkEnote{{}, {}, {}, {}},
	})

	c, err := l.NextChunk(context.Background(), 0, 2)
	require.NoError(t, err)
	require.Len(t, c.Enotes, 2)
}

func TestMemoryLedgerTopHeight(t *testing.T) {
	l := NewMemoryLedger()
	height, id, err := l.TopHeight(context.Background())
	require.NoError(t, err)
	require.Zero(t, height)
	require.Equal(t, [32]byte{}, id)

	l.AppendChunk(scan.Chunk{StartHeight: 0, EndHeight: 10, ParentID: [32]byte{9}})
	height, id, err = l.TopHeight(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(9), height)
	require.Equal(t, [32]byte{9}, id)
}

func TestMemoryLedgerHeightTracksAppends(t *testing.T) {
	l := NewMemoryLedger()
	require.Zero(t, l.Height())
	l.AppendChunk(scan.Chunk{StartHeight: 0, EndHeight: 7})
	require.Equal(t, uint64(7), l.Height())
}
