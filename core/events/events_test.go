package events

import (
	"math/big"
	"testing"

	"stallion/core/types"
)

func TestBountyCreatedEvent(t *testing.T) {
	owner := types.BytesToAddress([]byte{0x01})
	evt := BountyCreated{ID: 7, Owner: owner, Token: " usdc ", Reward: big.NewInt(1000)}.Event()
	if evt.Type != TypeBountyCreated {
		t.Fatalf("unexpected type: %s", evt.Type)
	}
	if evt.Attributes["id"] != "7" || evt.Attributes["reward"] != "1000" {
		t.Fatalf("unexpected attrs: %+v", evt.Attributes)
	}
	if evt.Attributes["token"] != "USDC" {
		t.Fatalf("unexpected token attr: %s", evt.Attributes["token"])
	}
	if evt.Attributes["owner"] != owner.Hex() {
		t.Fatalf("unexpected owner attr: %s", evt.Attributes["owner"])
	}
}

func TestAutoDistributedEventNilAmounts(t *testing.T) {
	evt := AutoDistributed{ID: 1, Applicants: 3}.Event()
	for _, key := range []string{"share", "fee", "dust", "refunded"} {
		if evt.Attributes[key] != "0" {
			t.Fatalf("expected zero %s, got %q", key, evt.Attributes[key])
		}
	}
	if evt.Attributes["applicants"] != "3" {
		t.Fatalf("unexpected applicants attr: %s", evt.Attributes["applicants"])
	}
}

func TestBountyUpdatedEventFields(t *testing.T) {
	evt := BountyUpdated{ID: 2, Fields: []string{"title", "submission_deadline"}}.Event()
	if evt.Attributes["fields"] != "title,submission_deadline" {
		t.Fatalf("unexpected fields attr: %s", evt.Attributes["fields"])
	}
}

type recordingEmitter struct {
	seen []string
}

func (r *recordingEmitter) Emit(evt Event) { r.seen = append(r.seen, evt.EventType()) }

func TestBufferFlushesInOrder(t *testing.T) {
	var buf Buffer
	buf.Emit(BountyCreated{ID: 1})
	buf.Emit(SubmissionAdded{ID: 1})
	rec := &recordingEmitter{}
	if len(rec.seen) != 0 {
		t.Fatalf("buffer leaked events before flush")
	}
	buf.Flush(rec)
	if len(rec.seen) != 2 || rec.seen[0] != TypeBountyCreated || rec.seen[1] != TypeSubmissionAdded {
		t.Fatalf("unexpected flush order: %v", rec.seen)
	}
	if len(buf.Events()) != 0 {
		t.Fatalf("expected buffer to be empty after flush")
	}
}

func TestBufferDiscard(t *testing.T) {
	var buf Buffer
	buf.Emit(ProjectCompleted{ID: 3})
	buf.Discard()
	rec := &recordingEmitter{}
	buf.Flush(rec)
	if len(rec.seen) != 0 {
		t.Fatalf("discarded events were flushed: %v", rec.seen)
	}
}
