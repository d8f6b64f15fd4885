package model

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestShiftOverlaps_SameDay(t *testing.T) {
	a := Shift{Date: date(2024, 3, 4), Start: MustParseClock("08:00"), End: MustParseClock("16:00")}
	b := Shift{Date: date(2024, 3, 4), Start: MustParseClock("15:00"), End: MustParseClock("23:00")}
	c := Shift{Date: date(2024, 3, 4), Start: MustParseClock("16:00"), End: MustParseClock("20:00")}
	if !a.Overlaps(b) {
		t.Fatal("expected overlap for 08-16 vs 15-23")
	}
	if a.Overlaps(c) {
		t.Fatal("half-open intervals: 08-16 vs 16-20 must not overlap")
	}
}

func TestShiftOverlaps_Overnight(t *testing.T) {
	night := Shift{Date: date(2024, 3, 4), Start: MustParseClock("20:00"), End: MustParseClock("04:00")}
	morning := Shift{Date: date(2024, 3, 5), Start: MustParseClock("03:00"), End: MustParseClock("11:00")}
	later := Shift{Date: date(2024, 3, 5), Start: MustParseClock("05:00"), End: MustParseClock("13:00")}
	if !night.Overlaps(morning) {
		t.Fatal("overnight shift must collide with next-day 03:00 start")
	}
	if night.Overlaps(later) {
		t.Fatal("overnight shift ends 04:00, must not collide with 05:00 start")
	}
	if !morning.Overlaps(night) {
		t.Fatal("overlap must be symmetric")
	}
}

func TestShiftDuration(t *testing.T) {
	s := Shift{Date: date(2024, 3, 4), Start: MustParseClock("22:00"), End: MustParseClock("06:00")}
	if got := s.DurationHours(); got != 8 {
		t.Fatalf("expected 8h got %v", got)
	}
}

func TestSlotSibling(t *testing.T) {
	a := Slot{ContractClass: ContractClassA, Day: time.Monday, CanonicalStart: MustParseClock("16:30")}
	b := Slot{ContractClass: ContractClassA, Day: time.Monday, CanonicalStart: MustParseClock("18:30")}
	c := Slot{ContractClass: ContractClassB, Day: time.Monday, CanonicalStart: MustParseClock("18:30")}
	if !a.Sibling(b) {
		t.Fatal("same class and day must be siblings")
	}
	if a.Sibling(c) {
		t.Fatal("different contract class must not be siblings")
	}
}
