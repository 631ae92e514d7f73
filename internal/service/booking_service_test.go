package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/lwr-nhs/tutoring/internal/model"
	"github.com/lwr-nhs/tutoring/internal/store"
)

func newBookingService(t *testing.T, mem *store.Memory) *BookingService {
	t.Helper()
	svc := NewBookingService(mem, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

// seedRecurringSlot creates a tutor with one Monday-morning recurring slot
// and returns its id.
func seedRecurringSlot(t *testing.T, mem *store.Memory, tutorID, subject string) string {
	t.Helper()
	slotSvc := newSlotService(t, mem)
	mustCreateTutor(t, slotSvc, tutorID)
	slots, err := slotSvc.CreateRecurringSlots(context.Background(), tutorID, "Monday", "morning", []string{subject})
	if err != nil {
		t.Fatalf("seed slot: %v", err)
	}
	return slots[0].ID
}

func TestBookSlot(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc := newBookingService(t, mem)
	slotID := seedRecurringSlot(t, mem, "ms-rivera", "Algebra 1 EOC")

	booked, err := svc.BookSlot(ctx, "ms-rivera", slotID, "Jane Doe", "jane@student.example")
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if booked.Status != model.SlotStatusBooked || booked.StudentName != "Jane Doe" {
		t.Fatalf("unexpected slot %+v", booked)
	}

	tutor, err := mem.GetTutor(ctx, "ms-rivera")
	if err != nil {
		t.Fatalf("get tutor: %v", err)
	}
	stored := tutor.Slots[tutor.SlotByID(slotID)]
	if stored.Status != model.SlotStatusBooked || stored.StudentName != "Jane Doe" || stored.StudentEmail != "jane@student.example" {
		t.Fatalf("booking not persisted: %+v", stored)
	}

	// The occurrence has not concluded, so a second student loses.
	if _, err := svc.BookSlot(ctx, "ms-rivera", slotID, "John Roe", ""); !errors.Is(err, model.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}

	tutor, _ = mem.GetTutor(ctx, "ms-rivera")
	if name := tutor.Slots[tutor.SlotByID(slotID)].StudentName; name != "Jane Doe" {
		t.Fatalf("losing booking overwrote the winner: %q", name)
	}
}

func TestBookSlot_Errors(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc := newBookingService(t, mem)
	slotID := seedRecurringSlot(t, mem, "ms-rivera", "Algebra 1 EOC")

	if _, err := svc.BookSlot(ctx, "ms-rivera", slotID, "", ""); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected ErrValidation for blank name, got %v", err)
	}
	if _, err := svc.BookSlot(ctx, "ms-rivera", "no-such-slot", "Jane Doe", ""); !errors.Is(err, model.ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}
	if _, err := svc.BookSlot(ctx, "no-such-tutor", slotID, "Jane Doe", ""); !errors.Is(err, model.ErrTutorNotFound) {
		t.Fatalf("expected ErrTutorNotFound, got %v", err)
	}
}

func TestBookSlot_ConcludedBookingIsRebookable(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc := newBookingService(t, mem)
	slotID := seedRecurringSlot(t, mem, "ms-rivera", "Algebra 1 EOC")

	if _, err := svc.BookSlot(ctx, "ms-rivera", slotID, "Jane Doe", ""); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	// The booked occurrence (Monday Jan 12, ending 7:45 AM) concludes; the
	// sweep has not run yet, but a new student can take the next week.
	svc.now = func() time.Time {
		return time.Date(2026, time.January, 12, 8, 0, 0, 0, time.UTC)
	}

	booked, err := svc.BookSlot(ctx, "ms-rivera", slotID, "John Roe", "")
	if err != nil {
		t.Fatalf("rebook after conclusion: %v", err)
	}
	if booked.StudentName != "John Roe" {
		t.Fatalf("expected new student on slot, got %q", booked.StudentName)
	}

	wantOccurrence := time.Date(2026, time.January, 19, 7, 0, 0, 0, time.UTC)
	wantExpiry := time.Date(2026, time.January, 19, 7, 45, 0, 0, time.UTC)
	if !booked.NextOccurrence.Equal(wantOccurrence) || !booked.ExpiryDate.Equal(wantExpiry) {
		t.Fatalf("expected booking rolled to next week, got occurrence=%v expiry=%v",
			booked.NextOccurrence, booked.ExpiryDate)
	}
}

func TestBookSlot_ConcurrentExactlyOneWinner(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc := newBookingService(t, mem)
	slotID := seedRecurringSlot(t, mem, "ms-rivera", "Algebra 1 EOC")

	type result struct {
		student string
		err     error
	}

	students := []string{"Jane Doe", "John Roe"}
	results := make(chan result, len(students))

	var wg sync.WaitGroup
	for _, student := range students {
		wg.Add(1)
		go func(student string) {
			defer wg.Done()
			_, err := svc.BookSlot(ctx, "ms-rivera", slotID, student, "")
			results <- result{student: student, err: err}
		}(student)
	}
	wg.Wait()
	close(results)

	var winners, losers []string
	for r := range results {
		switch {
		case r.err == nil:
			winners = append(winners, r.student)
		case errors.Is(r.err, model.ErrSlotTaken):
			losers = append(losers, r.student)
		default:
			t.Fatalf("unexpected error for %s: %v", r.student, r.err)
		}
	}

	if len(winners) != 1 || len(losers) != 1 {
		t.Fatalf("expected exactly one winner and one loser, got winners=%v losers=%v", winners, losers)
	}

	tutor, err := mem.GetTutor(ctx, "ms-rivera")
	if err != nil {
		t.Fatalf("get tutor: %v", err)
	}
	stored := tutor.Slots[tutor.SlotByID(slotID)]
	if stored.Status != model.SlotStatusBooked || stored.StudentName != winners[0] {
		t.Fatalf("stored slot does not match the winner: %+v", stored)
	}
}

func TestFindTutorsBySubject(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc := newBookingService(t, mem)
	slotSvc := newSlotService(t, mem)

	mustCreateTutor(t, slotSvc, "a-tutor")
	mustCreateTutor(t, slotSvc, "b-tutor")
	mustCreateTutor(t, slotSvc, "c-tutor")

	// a-tutor: Monday morning and Friday afternoon. From Wednesday, Friday
	// Jan 9 comes before Monday Jan 12, so chronological order puts it first.
	if _, err := slotSvc.CreateRecurringSlots(ctx, "a-tutor", "Monday", "morning", []string{"Algebra 1 EOC"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := slotSvc.CreateRecurringSlots(ctx, "a-tutor", "Friday", "afternoon_early", []string{"Algebra 1 EOC"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// b-tutor advertises the subject but the only slot is booked.
	slots, err := slotSvc.CreateRecurringSlots(ctx, "b-tutor", "Tuesday", "morning", []string{"Algebra 1 EOC"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.BookSlot(ctx, "b-tutor", slots[0].ID, "Jane Doe", ""); err != nil {
		t.Fatalf("book: %v", err)
	}

	// c-tutor covers a different subject.
	if _, err := slotSvc.CreateRecurringSlots(ctx, "c-tutor", "Monday", "morning", []string{"AICE Psychology"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	found, err := svc.FindTutorsBySubject(ctx, "Algebra 1 EOC")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected only the tutor with open slots, got %d results", len(found))
	}
	if found[0].Tutor.ID != "a-tutor" {
		t.Fatalf("unexpected tutor %q", found[0].Tutor.ID)
	}
	if len(found[0].Slots) != 2 {
		t.Fatalf("expected 2 bookable slots, got %d", len(found[0].Slots))
	}
	if found[0].Slots[0].DayOfWeek != "Friday" || found[0].Slots[1].DayOfWeek != "Monday" {
		t.Fatalf("expected chronological order (Friday Jan 9 before Monday Jan 12), got %s then %s",
			found[0].Slots[0].DayOfWeek, found[0].Slots[1].DayOfWeek)
	}

	if none, err := svc.FindTutorsBySubject(ctx, "AP World History"); err != nil || len(none) != 0 {
		t.Fatalf("expected no tutors, got %v (err %v)", none, err)
	}
}

func TestListSubjects(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc := newBookingService(t, mem)

	for _, name := range []string{"Geometry EOC", "Algebra 1 EOC"} {
		subject := &model.Subject{ID: model.SubjectSlug(name), Name: name, Category: "core"}
		if err := mem.UpsertSubject(ctx, subject); err != nil {
			t.Fatalf("seed subject: %v", err)
		}
	}

	subjects, err := svc.ListSubjects(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subjects) != 2 || subjects[0].Name != "Algebra 1 EOC" {
		t.Fatalf("unexpected catalog %+v", subjects)
	}
}
