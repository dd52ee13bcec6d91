package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/apexcoin/jamtis/address"
	"github.com/apexcoin/jamtis/enote"
	"github.com/apexcoin/jamtis/keys"
	"github.com/apexcoin/jamtis/ledger"
	"github.com/apexcoin/jamtis/scan"
	"github.com/apexcoin/jamtis/spcrypto"
	"github.com/apexcoin/jamtis/storage"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generate":
		generateWallet()
	case "address":
		showAddress()
	case "scan":
		scanLedger()
	case "balance":
		queryBalance()
	case "send":
		sendPayment()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  wallet generate              - Generate new wallet keys")
	fmt.Println("  wallet address               - Show primary jamtis address")
	fmt.Println("  wallet scan                  - Refresh the enote store from the ledger")
	fmt.Println("  wallet balance               - Query confirmed-spendable balance")
	fmt.Println("  wallet send <addr> <amount>  - Build a payment proposal")
}

const walletFilePath = "wallet.json"
const dbPath = "walletdb"

// walletFile is the at-rest wallet secret: the master spend scalar k_m,
// everything else in the key hierarchy is deterministically derived
// from it on load. Wallet-file-at-rest encryption is out of scope
// (spec.md's explicit Non-goals); this mirrors the teacher's own plain
// JSON wallet.json, just holding one scalar instead of a keypair blob.
type walletFile struct {
	MasterSpendKey string `json:"master_spend_key"`
}

func generateWallet() {
	km := spcrypto.RandomScalar()
	kmBytes := km.Bytes()

	wf := walletFile{MasterSpendKey: hex.EncodeToString(kmBytes[:])}
	data, err := json.MarshalIndent(wf, "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal wallet: %v", err)
	}
	if err := os.WriteFile(walletFilePath, data, 0600); err != nil {
		log.Fatalf("failed to save wallet: %v", err)
	}

	h := keys.NewHierarchy(km)
	fmt.Println("Wallet generated successfully!")
	fmt.Println("Saved to:", walletFilePath)
	fmt.Println()
	printPrimaryAddress(h)
	fmt.Println()
	fmt.Println("KEEP YOUR WALLET FILE SECURE!")
}

func loadHierarchy() keys.Hierarchy {
	data, err := os.ReadFile(walletFilePath)
	if err != nil {
		log.Fatalf("wallet file not found, run 'wallet generate' first: %v", err)
	}
	var wf walletFile
	if err := json.Unmarshal(data, &wf); err != nil {
		log.Fatalf("corrupt wallet file: %v", err)
	}
	raw, err := hex.DecodeString(wf.MasterSpendKey)
	if err != nil || len(raw) != 32 {
		log.Fatalf("corrupt master spend key")
	}
	var b [32]byte
	copy(b[:], raw)
	km, err := spcrypto.ScalarFromCanonicalBytes(b)
	if err != nil {
		log.Fatalf("invalid master spend key: %v", err)
	}
	return keys.NewHierarchy(km)
}

func primaryDestination(h keys.Hierarchy) (address.Destination, *address.CipherContext) {
	cc, err := address.NewCipherContext(h.Sct)
	if err != nil {
		log.Fatalf("failed to build cipher context: %v", err)
	}
	dest := address.DeriveDestination(h.ViewBalanceOnly, cc, address.AddressIndex{})
	return dest, cc
}

func printPrimaryAddress(h keys.Hierarchy) {
	dest, _ := primaryDestination(h)
	fmt.Println("Your jamtis address:")
	fmt.Println(" ", address.EncodeAddress(address.NetworkMain, dest))
}

func showAddress() {
	h := loadHierarchy()
	printPrimaryAddress(h)
}

func scanLedger() {
	h := loadHierarchy()
	_, cc := primaryDestination(h)

	db, err := storage.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open wallet db: %v", err)
	}
	defer db.Close()

	store := scan.NewEnoteStore()

	// A real deployment wires a LedgerSource backed by a node's RPC
	// endpoint; chain connectivity itself is an external collaborator
	// (spec.md's LedgerContext). The in-memory reference source here
	// has nothing queued, so Refresh is a no-op until one is wired in.
	source := ledger.NewMemoryLedger()
	scanner := scan.NewScanner(source, store, h, cc)

	if err := scanner.Refresh(context.Background()); err != nil {
		log.Fatalf("scan failed: %v", err)
	}

	for _, rec := range store.ListRecords(scan.ConfirmedSpendableFilter()) {
		if err := db.SaveRecord(rec); err != nil {
			log.Fatalf("failed to persist record: %v", err)
		}
	}

	height, _ := store.TopBlockID()
	if err := db.UpdateLatestHeight(height); err != nil {
		log.Fatalf("failed to persist height: %v", err)
	}
	fmt.Printf("Scanned to height %d\n", height)
}

func queryBalance() {
	db, err := storage.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open wallet db: %v", err)
	}
	defer db.Close()

	records, err := db.ListRecords()
	if err != nil {
		log.Fatalf("failed to list records: %v", err)
	}

	var total uint64
	for _, r := range records {
		if r.SpentStatus == scan.SpentUnspent {
			total += r.Amount
		}
	}
	fmt.Printf("Confirmed-spendable balance: %d\n", total)
}

func sendPayment() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: wallet send <address> <amount>")
		os.Exit(1)
	}
	dest, _, err := address.DecodeAddress(os.Args[2])
	if err != nil {
		log.Fatalf("invalid recipient address: %v", err)
	}
	var amount uint64
	if _, err := fmt.Sscanf(os.Args[3], "%d", &amount); err != nil {
		log.Fatalf("invalid amount: %v", err)
	}

	// Input selection and fee negotiation need a populated enote store
	// (run 'wallet scan' first) and are assembled by txbuild; this
	// command only demonstrates proposal -> output conversion, the
	// sender-side half that doesn't need any chain state.
	proposal := enote.PaymentProposal{
		Dest:          dest,
		Amount:        amount,
		EphemeralPriv: spcrypto.RandomX25519Scalar(),
		InputCtx:      enote.InputContext{},
	}
	out := enote.MakePlainOutput(proposal)

	ko := out.Enote.Ko.Bytes()
	fmt.Println("Payment proposal built:")
	fmt.Printf("  Amount: %d\n", amount)
	fmt.Printf("  One-time address: %s\n", hex.EncodeToString(ko[:]))
	fmt.Println()
	fmt.Println("Run 'wallet scan' against a real ledger, then finalize and")
	fmt.Println("broadcast this through txbuild.FinalizeOutputSet/SelectInputs.")
}
