package layout

import (
	"fmt"
	"testing"
)

func TestGenerateSleeperBus(t *testing.T) {
	seats, err := Generate(ClassBus, BusSleeper, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(seats) != 36 {
		t.Fatalf("expected 36 sleeper seats, got %d", len(seats))
	}
	want := make(map[string]bool, 36)
	for i := 1; i <= 18; i++ {
		want[fmt.Sprintf("L%d", i)] = true
		want[fmt.Sprintf("U%d", i)] = true
	}
	for _, s := range seats {
		if s.Kind != KindSleeper {
			t.Fatalf("seat %s has kind %s, want SLEEPER", s.Label, s.Kind)
		}
		if !want[s.Label] {
			t.Fatalf("unexpected seat label %s", s.Label)
		}
		delete(want, s.Label)
	}
	if len(want) != 0 {
		t.Fatalf("missing labels: %v", want)
	}
}

func TestGenerateBusCapacities(t *testing.T) {
	cases := []struct {
		subclass string
		count    int
		first    string
		last     string
	}{
		{BusSuperLuxury, 40, "1A", "10D"},
		{BusDeluxe, 45, "1A", "12A"},
		{BusSeater, 52, "1A", "11B"},
		{BusSleeper, 36, "L1", "U18"},
	}
	for _, tc := range cases {
		seats, err := Generate(ClassBus, tc.subclass, 999) // hint must be ignored for buses
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.subclass, err)
		}
		if len(seats) != tc.count {
			t.Fatalf("%s: expected %d seats, got %d", tc.subclass, tc.count, len(seats))
		}
		if seats[0].Label != tc.first {
			t.Fatalf("%s: first seat %s, want %s", tc.subclass, seats[0].Label, tc.first)
		}
		if seats[len(seats)-1].Label != tc.last {
			t.Fatalf("%s: last seat %s, want %s", tc.subclass, seats[len(seats)-1].Label, tc.last)
		}
		cap, err := BusCapacity(tc.subclass)
		if err != nil {
			t.Fatalf("%s: BusCapacity error %v", tc.subclass, err)
		}
		if cap != tc.count {
			t.Fatalf("%s: nominal capacity %d, want %d", tc.subclass, cap, tc.count)
		}
	}
}

func TestGenerateDeluxeTruncation(t *testing.T) {
	// 11 full rows of 4 would be 44, so the 45th seat spills into row 12.
	// The generator must stop at exactly 45.
	seats, err := Generate(ClassBus, BusDeluxe, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seats) != 45 {
		t.Fatalf("expected 45 seats, got %d", len(seats))
	}
	labels := make(map[string]bool, len(seats))
	for _, s := range seats {
		if labels[s.Label] {
			t.Fatalf("duplicate label %s", s.Label)
		}
		labels[s.Label] = true
	}
}

func TestGenerateTrain(t *testing.T) {
	seats, err := Generate(ClassTrain, "", 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seats) != 12 {
		t.Fatalf("expected 12 seats, got %d", len(seats))
	}
	for i, s := range seats {
		if want := fmt.Sprintf("S%d", i+1); s.Label != want {
			t.Fatalf("seat %d labelled %s, want %s", i, s.Label, want)
		}
		if s.Kind != KindSeater {
			t.Fatalf("seat %s has kind %s, want SEATER", s.Label, s.Kind)
		}
	}
}

func TestGenerateTrainDefaultCapacity(t *testing.T) {
	seats, err := Generate(ClassTrain, "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seats) != DefaultTrainCapacity {
		t.Fatalf("expected %d seats, got %d", DefaultTrainCapacity, len(seats))
	}
}

func TestGenerateDeterminism(t *testing.T) {
	a, err := Generate(ClassBus, BusSleeper, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Generate(ClassBus, BusSleeper, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("plans differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("plans diverge at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestGenerateInvalidInput(t *testing.T) {
	if _, err := Generate(ClassBus, "", 0); err != ErrBusSubclassRequired {
		t.Fatalf("expected ErrBusSubclassRequired, got %v", err)
	}
	if _, err := Generate(ClassBus, "MINIBUS", 0); err != ErrUnknownBusSubclass {
		t.Fatalf("expected ErrUnknownBusSubclass, got %v", err)
	}
	if _, err := Generate("PLANE", "", 0); err != ErrUnknownClass {
		t.Fatalf("expected ErrUnknownClass, got %v", err)
	}
}
