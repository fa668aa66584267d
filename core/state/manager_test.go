package state

import (
	"math/big"
	"testing"

	"stallion/storage"
)

func newTestManager(t *testing.T) (*Manager, *storage.MemDB) {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	return NewManager(db), db
}

func TestManagerCommitFlushesPendingWrites(t *testing.T) {
	mgr, db := newTestManager(t)
	if err := mgr.RegisterToken("usdc", 7); err != nil {
		t.Fatalf("register token: %v", err)
	}
	addr := []byte{0x01}
	if err := mgr.SetBalance(addr, "USDC", big.NewInt(500)); err != nil {
		t.Fatalf("set balance: %v", err)
	}
	if db.Len() != 0 {
		t.Fatalf("database written before commit: %d keys", db.Len())
	}
	if err := mgr.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if mgr.Pending() != 0 {
		t.Fatalf("pending writes after commit: %d", mgr.Pending())
	}

	reopened := NewManager(db)
	bal, err := reopened.Balance(addr, "usdc")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("unexpected balance: %s", bal)
	}
	meta, err := reopened.Token("USDC")
	if err != nil || meta == nil {
		t.Fatalf("token metadata missing: %v", err)
	}
	if meta.Decimals != 7 {
		t.Fatalf("unexpected decimals: %d", meta.Decimals)
	}
}

func TestManagerDiscardRestoresCommittedState(t *testing.T) {
	mgr, _ := newTestManager(t)
	if err := mgr.RegisterToken("USDC", 7); err != nil {
		t.Fatalf("register token: %v", err)
	}
	addr := []byte{0x02}
	if err := mgr.SetBalance(addr, "USDC", big.NewInt(10)); err != nil {
		t.Fatalf("set balance: %v", err)
	}
	if err := mgr.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if err := mgr.SetBalance(addr, "USDC", big.NewInt(99)); err != nil {
		t.Fatalf("set balance: %v", err)
	}
	if err := mgr.KVPut([]byte("scratch"), uint64(1)); err != nil {
		t.Fatalf("kv put: %v", err)
	}
	mgr.Discard()

	bal, err := mgr.Balance(addr, "USDC")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("discard kept pending balance: %s", bal)
	}
	ok, err := mgr.KVGet([]byte("scratch"), nil)
	if err != nil {
		t.Fatalf("kv get: %v", err)
	}
	if ok {
		t.Fatalf("discarded key still visible")
	}
}

func TestManagerPendingDeleteHidesCommittedValue(t *testing.T) {
	mgr, db := newTestManager(t)
	if err := mgr.KVPut([]byte("k"), "v"); err != nil {
		t.Fatalf("kv put: %v", err)
	}
	if err := mgr.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := mgr.KVDelete([]byte("k")); err != nil {
		t.Fatalf("kv delete: %v", err)
	}
	if ok, _ := mgr.KVGet([]byte("k"), nil); ok {
		t.Fatalf("deleted key visible through overlay")
	}
	if ok, _ := db.Has(kvKey([]byte("k"))); !ok {
		t.Fatalf("delete reached database before commit")
	}
	if err := mgr.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if ok, _ := db.Has(kvKey([]byte("k"))); ok {
		t.Fatalf("delete not committed")
	}
}

func TestSetBalanceRequiresRegisteredToken(t *testing.T) {
	mgr, _ := newTestManager(t)
	if err := mgr.SetBalance([]byte{0x01}, "XLM", big.NewInt(1)); err == nil {
		t.Fatalf("expected unregistered token error")
	}
	if err := mgr.RegisterToken("XLM", 7); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := mgr.RegisterToken("xlm", 7); err != nil {
		t.Fatalf("idempotent register: %v", err)
	}
	if err := mgr.RegisterToken("XLM", 6); err == nil {
		t.Fatalf("expected conflicting decimals error")
	}
	if err := mgr.SetBalance([]byte{0x01}, "XLM", big.NewInt(-1)); err == nil {
		t.Fatalf("expected negative balance error")
	}
}
