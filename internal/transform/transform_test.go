package transform

import (
	"bytes"
	"testing"
)

func sampleBuf(n int, seed byte) []byte {
	b := make([]byte, n)
	x := seed
	for i := range b {
		x = x*31 + 17
		b[i] = x
	}
	return b
}

func TestAllTransformsRoundTrip(t *testing.T) {
	lengths := []int{1, 2, 3, 15, 16, 17, 31, 32, 33, 63, 64, 65, 128, 257}
	for _, id := range IDs() {
		id := id
		t.Run(Name(id), func(t *testing.T) {
			fwd, inv, err := Lookup(id)
			if err != nil {
				t.Fatalf("Lookup(%d): %v", id, err)
			}
			for _, n := range lengths {
				orig := sampleBuf(n, id)
				window := sampleBuf(n, id+100)
				buf := append([]byte(nil), orig...)
				fwd(buf, window)
				inv(buf, window)
				if !bytes.Equal(buf, orig) {
					t.Fatalf("id %d (%s) len %d: round-trip mismatch\norig=%v\ngot =%v",
						id, Name(id), n, orig, buf)
				}
			}
		})
	}
}

func TestLookupUnknownID(t *testing.T) {
	if _, _, err := Lookup(255); err == nil {
		t.Fatal("expected error for unregistered id 255")
	} else if _, ok := err.(ErrUnknownTransform); !ok {
		t.Fatalf("expected ErrUnknownTransform, got %T", err)
	}
}

func TestTransformsAreDeterministic(t *testing.T) {
	for _, id := range IDs() {
		fwd, _, _ := Lookup(id)
		orig := sampleBuf(64, id)
		window := sampleBuf(64, id+50)
		a := append([]byte(nil), orig...)
		b := append([]byte(nil), orig...)
		fwd(a, window)
		fwd(b, window)
		if !bytes.Equal(a, b) {
			t.Fatalf("id %d (%s) not deterministic", id, Name(id))
		}
	}
}

func TestIDCount(t *testing.T) {
	if got := len(IDs()); got != 34 {
		t.Fatalf("expected 34 registered transforms, got %d", got)
	}
}
