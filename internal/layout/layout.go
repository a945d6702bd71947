// Package layout generates the deterministic seat plan for a vehicle.
// The plan depends only on the vehicle class (and bus subclass), so the
// same input always yields the same ordered list of labels and kinds.
// Generation runs exactly once, at vehicle registration; callers are
// responsible for never invoking it twice for the same vehicle.
package layout

import (
	"errors"
	"fmt"
)

// Vehicle classes.
const (
	ClassBus   = "BUS"
	ClassTrain = "TRAIN"
)

// Bus subclasses. Each one has a fixed seat count that callers cannot
// override.
const (
	BusSuperLuxury = "SUPER_LUXURY"
	BusDeluxe      = "DELUXE"
	BusSleeper     = "SLEEPER"
	BusSeater      = "SEATER"
)

// Seat kinds.
const (
	KindSeater      = "SEATER"
	KindSleeper     = "SLEEPER"
	KindSemiSleeper = "SEMI_SLEEPER"
)

// DefaultTrainCapacity is used when a train is registered without an
// explicit seat count.
const DefaultTrainCapacity = 100

// ErrUnknownClass is returned for a vehicle class outside BUS/TRAIN.
var ErrUnknownClass = errors.New("unknown vehicle class")

// ErrBusSubclassRequired is returned when a BUS vehicle is registered
// without a subclass.
var ErrBusSubclassRequired = errors.New("bus subclass is required for BUS vehicles")

// ErrUnknownBusSubclass is returned for a subclass outside the four
// supported bus layouts.
var ErrUnknownBusSubclass = errors.New("unknown bus subclass")

// PlannedSeat is one seat in a generated plan. Label is unique within
// the plan; Kind is one of the seat kind constants.
type PlannedSeat struct {
	Label string
	Kind  string
}

// BusCapacity returns the fixed seat count for a bus subclass.
func BusCapacity(subclass string) (int, error) {
	switch subclass {
	case BusSuperLuxury:
		return 40, nil
	case BusDeluxe:
		return 45, nil
	case BusSleeper:
		return 36, nil
	case BusSeater:
		return 52, nil
	default:
		return 0, ErrUnknownBusSubclass
	}
}

// Generate produces the ordered seat plan for a vehicle. For buses the
// subclass decides both layout and capacity; capacityHint is ignored.
// For trains the plan is S1..Sn where n is capacityHint, defaulting to
// DefaultTrainCapacity when the hint is zero or negative.
func Generate(class, subclass string, capacityHint int) ([]PlannedSeat, error) {
	switch class {
	case ClassBus:
		if subclass == "" {
			return nil, ErrBusSubclassRequired
		}
		return generateBus(subclass)
	case ClassTrain:
		n := capacityHint
		if n <= 0 {
			n = DefaultTrainCapacity
		}
		return generateTrain(n), nil
	default:
		return nil, ErrUnknownClass
	}
}

func generateBus(subclass string) ([]PlannedSeat, error) {
	switch subclass {
	case BusSuperLuxury:
		// 2x2 coach: rows 1..10, columns A..D.
		return grid("ABCD", 40, KindSeater), nil
	case BusDeluxe:
		// 2x2 coach with one extra seat: 1A..11D plus 12A.
		return grid("ABCD", 45, KindSeater), nil
	case BusSleeper:
		// Lower berths L1..L18 then upper berths U1..U18.
		seats := make([]PlannedSeat, 0, 36)
		for i := 1; i <= 18; i++ {
			seats = append(seats,
				PlannedSeat{Label: fmt.Sprintf("L%d", i), Kind: KindSleeper},
				PlannedSeat{Label: fmt.Sprintf("U%d", i), Kind: KindSleeper},
			)
		}
		return seats, nil
	case BusSeater:
		// 3x2 coach: rows of A..E, cut to 52 seats mid-row.
		return grid("ABCDE", 52, KindSeater), nil
	default:
		return nil, ErrUnknownBusSubclass
	}
}

// grid emits row-major labels "{row}{column}", adding rows until
// exactly limit seats exist. The last row may be partial.
func grid(columns string, limit int, kind string) []PlannedSeat {
	seats := make([]PlannedSeat, 0, limit)
	for row := 1; len(seats) < limit; row++ {
		for _, col := range columns {
			seats = append(seats, PlannedSeat{
				Label: fmt.Sprintf("%d%c", row, col),
				Kind:  kind,
			})
			if len(seats) >= limit {
				break
			}
		}
	}
	return seats
}

func generateTrain(capacity int) []PlannedSeat {
	seats := make([]PlannedSeat, 0, capacity)
	for i := 1; i <= capacity; i++ {
		seats = append(seats, PlannedSeat{Label: fmt.Sprintf("S%d", i), Kind: KindSeater})
	}
	return seats
}
