package txbuild

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apexcoin/jamtis/enote"
	"github.com/apexcoin/jamtis/spcrypto"
)

func TestFinalizeOutputSetRejectsEmpty(t *testing.T) {
	_, changeDest := testWalletAndDest(t)
	_, err := FinalizeOutputSet(nil, 0, 0, changeDest, enote.InputContext{})
	require.ErrorIs(t, err, ErrNoProposals)
}

func TestFinalizeOneNoChangeReusesKE(t *testing.T) {
	_, dest := testWalletAndDest(t)
	_, changeDest := testWalletAndDest(t)
	p := PlainProposal(enote.PaymentProposal{Dest: dest, Amount: 100, EphemeralPriv: spcrypto.RandomX25519Scalar()})

	out, err := FinalizeOutputSet([]Proposal{p}, 100, 0, changeDest, enote.InputContext{})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, p.KE(), out[1].KE())
	require.Equal(t, enote.TypeDummy, out[1].Selfsend.Type)
}

func TestFinalizeOnePlainWithChangeSharesKE(t *testing.T) {
	_, dest := testWalletAndDest(t)
	_, changeDest := testWalletAndDest(t)
	p := PlainProposal(enote.PaymentProposal{Dest: dest, Amount: 100, EphemeralPriv: spcrypto.RandomX25519Scalar()})

	out, err := FinalizeOutputSet([]Proposal{p}, 150, 0, changeDest, enote.InputContext{})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, p.KE(), out[1].KE())
	require.Equal(t, enote.TypeChange, out[1].Selfsend.Type)
	require.Equal(t, uint64(50), out[1].Amount())
}

func TestFinalizeOneSelfsendWithChangeGetsFreshKeys(t *testing.T) {
	_, dest := testWalletAndDest(t)
	_, changeDest := testWalletAndDest(t)
	ke := newSelfsendKE()
	p := SelfsendProposal(enote.SelfsendProposal{Dest: dest, Amount: 100, Type: enote.TypeSelfSpend, KE: ke})

	out, err := FinalizeOutputSet([]Proposal{p}, 150, 0, changeDest, enote.InputContext{})
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.NotEqual(t, ke, out[1].KE())
	require.NotEqual(t, ke, out[2].KE())
	require.NotEqual(t, out[1].KE(), out[2].KE())
}

func TestFinalizeTwoDistinctKENoChangeAddsDummy(t *testing.T) {
	_, d1 := testWalletAndDest(t)
	_, d2 := testWalletAndDest(t)
	_, changeDest := testWalletAndDest(t)
	a := PlainProposal(enote.PaymentProposal{Dest: d1, Amount: 60, EphemeralPriv: spcrypto.RandomX25519Scalar()})
	b := PlainProposal(enote.PaymentProposal{Dest: d2, Amount: 40, EphemeralPriv: spcrypto.RandomX25519Scalar()})

	out, err := FinalizeOutputSet([]Proposal{a, b}, 100, 0, changeDest, enote.InputContext{})
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.Equal(t, enote.TypeDummy, out[2].Selfsend.Type)
}

func TestFinalizeTwoDistinctKEWithChangeAddsChange(t *testing.T) {
	_, d1 := testWalletAndDest(t)
	_, d2 := testWalletAndDest(t)
	_, changeDest := testWalletAndDest(t)
	a := PlainProposal(enote.PaymentProposal{Dest: d1, Amount: 60, EphemeralPriv: spcrypto.RandomX25519Scalar()})
	b := PlainProposal(enote.PaymentProposal{Dest: d2, Amount: 40, EphemeralPriv: spcrypto.RandomX25519Scalar()})

	out, err := FinalizeOutputSet([]Proposal{a, b}, 150, 0, changeDest, enote.InputContext{})
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.Equal(t, enote.TypeChange, out[2].Selfsend.Type)
	require.Equal(t, uint64(50), out[2].Amount())
}

func TestFinalizeTwoSharedKENoChangeKeepsPair(t *testing.T) {
	_, dest := testWalletAndDest(t)
	_, changeDest := testWalletAndDest(t)
	r := spcrypto.RandomX25519Scalar()
	plain := PlainProposal(enote.PaymentProposal{Dest: dest, Amount: 100, EphemeralPriv: r})
	shared := plain.KE()
	dummy := SelfsendProposal(enote.SelfsendProposal{Dest: changeDest, Amount: 0, Type: enote.TypeDummy, KE: shared})

	out, err := FinalizeOutputSet([]Proposal{plain, dummy}, 100, 0, changeDest, enote.InputContext{})
	require.NoError(t, err)
	require.Len(t, out, 2)
}

func TestFinalizeTwoSharedKEBothSelfsendRejected(t *testing.T) {
	_, dest := testWalletAndDest(t)
	_, changeDest := testWalletAndDest(t)
	ke := newSelfsendKE()
	a := SelfsendProposal(enote.SelfsendProposal{Dest: dest, Amount: 100, Type: enote.TypeChange, KE: ke})
	b := SelfsendProposal(enote.SelfsendProposal{Dest: changeDest, Amount: 0, Type: enote.TypeDummy, KE: ke})

	_, err := FinalizeOutputSet([]Proposal{a, b}, 100, 0, changeDest, enote.InputContext{})
	require.ErrorIs(t, err, ErrSharedKESelfsend)
}

func TestFinalizeTwoSharedKEWithChangeRejected(t *testing.T) {
	_, dest := testWalletAndDest(t)
	_, changeDest := testWalletAndDest(t)
	r := spcrypto.RandomX25519Scalar()
	plain := PlainProposal(enote.PaymentProposal{Dest: dest, Amount: 100, EphemeralPriv: r})
	shared := plain.KE()
	dummy := SelfsendProposal(enote.SelfsendProposal{Dest: changeDest, Amount: 0, Type: enote.TypeDummy, KE: shared})

	_, err := FinalizeOutputSet([]Proposal{plain, dummy}, 150, 0, changeDest, enote.InputContext{})
	require.ErrorIs(t, err, ErrCannotExpandShared)
}

func TestFinalizeManyDistinctKENoChange(t *testing.T) {
	_, changeDest := testWalletAndDest(t)
	a := SelfsendProposal(enote.SelfsendProposal{Amount: 10, Type: enote.TypeSelfSpend, KE: newSelfsendKE()})
	b := SelfsendProposal(enote.SelfsendProposal{Amount: 20, Type: enote.TypeSelfSpend, KE: newSelfsendKE()})
	c := SelfsendProposal(enote.SelfsendProposal{Amount: 30, Type: enote.TypeSelfSpend, KE: newSelfsendKE()})

	out, err := FinalizeOutputSet([]Proposal{a, b, c}, 60, 0, changeDest, enote.InputContext{})
	require.NoError(t, err)
	require.Len(t, out, 3)
}

func TestFinalizeManyAddsChangeWhenLeftover(t *testing.T) {
	_, changeDest := testWalletAndDest(t)
	a := SelfsendProposal(enote.SelfsendProposal{Amount: 10, Type: enote.TypeSelfSpend, KE: newSelfsendKE()})
	b := SelfsendProposal(enote.SelfsendProposal{Amount: 20, Type: enote.TypeSelfSpend, KE: newSelfsendKE()})
	c := SelfsendProposal(enote.SelfsendProposal{Amount: 30, Type: enote.TypeSelfSpend, KE: newSelfsendKE()})

	out, err := FinalizeOutputSet([]Proposal{a, b, c}, 100, 0, changeDest, enote.InputContext{})
	require.NoError(t, err)
	require.Len(t, out, 4)
	require.Equal(t, uint64(40), out[3].Amount())
}

func TestFinalizeManyRejectsDuplicateKE(t *testing.T) {
	_, changeDest := testWalletAndDest(t)
	ke := newSelfsendKE()
	a := SelfsendProposal(enote.SelfsendProposal{Amount: 10, Type: enote.TypeSelfSpend, KE: ke})
	b := SelfsendProposal(enote.SelfsendProposal{Amount: 20, Type: enote.TypeSelfSpend, KE: ke})
	c := SelfsendProposal(enote.SelfsendProposal{Amount: 30, Type: enote.TypeSelfSpend, KE: newSelfsendKE()})

	_, err := FinalizeOutputSet([]Proposal{a, b, c}, 60, 0, changeDest, enote.InputContext{})
	require.ErrorIs(t, err, ErrDuplicateKE)
}
