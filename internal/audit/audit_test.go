package audit

import "testing"

func TestVerifyIntactChain(t *testing.T) {
	l := New()
	l.Append(Event{Kind: CatalogLoaded, ProfileName: ""})
	l.Append(Event{Kind: EncryptCalled, Zone: "zone-a", ProfileName: "Natural", PayloadLen: 128})
	l.Append(Event{Kind: DecryptCalled, Zone: "zone-a", ProfileName: "Natural", PayloadLen: 128})
	if idx := l.Verify(); idx != -1 {
		t.Fatalf("expected intact chain, broke at index %d", idx)
	}
}

func TestVerifyDetectsTamperedEvent(t *testing.T) {
	l := New()
	l.Append(Event{Kind: EncryptCalled, ProfileName: "Natural", PayloadLen: 10})
	l.Append(Event{Kind: EncryptCalled, ProfileName: "Random", PayloadLen: 20})
	l.Append(Event{Kind: EncryptCalled, ProfileName: "Combined", PayloadLen: 30})

	events := l.Events()
	l2 := &Log{events: events}
	l2.events[1].PayloadLen = 9999 // tamper with an already-chained event

	if idx := l2.Verify(); idx != 1 {
		t.Fatalf("expected break detected at index 1, got %d", idx)
	}
}

func TestVerifyDetectsTruncation(t *testing.T) {
	l := New()
	l.Append(Event{Kind: EncryptCalled, ProfileName: "Natural", PayloadLen: 10})
	l.Append(Event{Kind: EncryptCalled, ProfileName: "Random", PayloadLen: 20})

	events := l.Events()
	l2 := &Log{events: events[1:]} // drop the genesis event, keep the rest
	if idx := l2.Verify(); idx != 0 {
		t.Fatalf("expected truncation detected at index 0, got %d", idx)
	}
}

func TestAppendFillsTimestampAndChainHash(t *testing.T) {
	l := New()
	ev := l.Append(Event{Kind: EncryptCalled, Zone: "z", ProfileName: "Natural", PayloadLen: 4})
	if ev.Timestamp.IsZero() {
		t.Fatal("expected Append to fill in Timestamp")
	}
	if ev.ChainHash == ([64]byte{}) {
		t.Fatal("expected Append to fill in a non-zero ChainHash")
	}
}
