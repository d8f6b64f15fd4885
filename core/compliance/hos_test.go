package compliance

import (
	"math"
	"testing"
	"time"

	"github.com/Dshy007/milo/core/model"
)

func subject(class model.ContractClass, start time.Time, hours float64) AssignmentSubject {
	return AssignmentSubject{
		Start:         start,
		End:           start.Add(time.Duration(hours * float64(time.Hour))),
		DurationHours: hours,
		ContractClass: class,
	}
}

func TestValidateDuty_ClassAViolation(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	proposed := subject(model.ContractClassA, start, 5)
	existing := []AssignmentSubject{
		subject(model.ContractClassA, start.Add(-22*time.Hour), 10),
	}
	res := ValidateDuty(proposed, existing)
	if res.Valid || res.Status != StatusViolation {
		t.Fatalf("10h logged + 5h proposed = 15h > 14h must violate, got %s", res.Status)
	}
	if math.Abs(res.Metrics["totalHours"]-15) > 1e-9 {
		t.Fatalf("expected 15 total hours, got %v", res.Metrics["totalHours"])
	}
}

func TestValidateDuty_WarningBand(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	existing := []AssignmentSubject{
		subject(model.ContractClassA, start.Add(-20*time.Hour), 12),
	}

	res := ValidateDuty(subject(model.ContractClassA, start, 1), existing)
	if !res.Valid || res.Status != StatusWarning {
		t.Fatalf("13h of 14h is 92.9%%, expected warning, got %s", res.Status)
	}

	res = ValidateDuty(subject(model.ContractClassA, start, 1.5), existing)
	if !res.Valid || res.Status != StatusWarning {
		t.Fatalf("13.5h stays under the limit but above 90%%, got %s", res.Status)
	}

	res = ValidateDuty(subject(model.ContractClassA, start, 0.5), existing)
	if res.Status != StatusValid {
		t.Fatalf("12.5h of 14h is 89.3%%, expected valid, got %s", res.Status)
	}
}

func TestValidateDuty_ClipsWindowEdge(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	// 8h shift straddling the 24h window edge: only 4h fall inside.
	existing := []AssignmentSubject{
		subject(model.ContractClassA, start.Add(-28*time.Hour), 8),
	}
	res := ValidateDuty(subject(model.ContractClassA, start, 2), existing)
	if math.Abs(res.Metrics["loggedHours"]-4) > 1e-9 {
		t.Fatalf("expected 4h clipped into the window, got %v", res.Metrics["loggedHours"])
	}
	if res.Status != StatusValid {
		t.Fatalf("6h of 14h must be valid, got %s", res.Status)
	}
}

func TestValidateDuty_ClassBProfile(t *testing.T) {
	start := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	existing := []AssignmentSubject{
		subject(model.ContractClassB, start.Add(-40*time.Hour), 12),
		subject(model.ContractClassB, start.Add(-20*time.Hour), 12),
	}
	res := ValidateDuty(subject(model.ContractClassB, start, 12), existing)
	if !res.Valid || res.Status != StatusWarning {
		t.Fatalf("36h of 38h over 48h is 94.7%%, expected warning, got %s", res.Status)
	}

	res = ValidateDuty(subject(model.ContractClassB, start, 15), existing)
	if res.Valid {
		t.Fatalf("39h over 38h must violate, got %s", res.Status)
	}
}

func TestRestHoursBetween(t *testing.T) {
	d1 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	earlier := model.Shift{Date: d1, Start: model.MustParseClock("14:00"), End: model.MustParseClock("22:00")}
	later := model.Shift{Date: d2, Start: model.MustParseClock("07:00"), End: model.MustParseClock("15:00")}
	if got := RestHoursBetween(earlier, later); math.Abs(got-9.0) > 1e-9 {
		t.Fatalf("22:00 to 07:00 next day is exactly 9h rest, got %v", got)
	}
}

func TestSubjectFromShift_Overnight(t *testing.T) {
	d := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	s := model.Shift{Date: d, Start: model.MustParseClock("22:00"), End: model.MustParseClock("06:00")}
	sub := SubjectFromShift(s, model.ContractClassA)
	if math.Abs(sub.DurationHours-8) > 1e-9 {
		t.Fatalf("overnight shift must span 8h, got %v", sub.DurationHours)
	}
	if !sub.End.After(sub.Start) {
		t.Fatal("overnight end must roll into the next day")
	}
	if sub.End.Day() != 3 {
		t.Fatalf("expected end on the 3rd, got day %d", sub.End.Day())
	}
}
