package trip_test

import (
	"time"

	"github.com/corpotravel/trip-management/internal/trip"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DeriveLifecycle", func() {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	It("reports an approved trip with a past end date as concluida", func() {
		ended := now.AddDate(0, 0, -1)
		Expect(trip.DeriveLifecycle(trip.StatusAprovado, ended, now)).To(Equal(trip.LifecycleConcluida))
	})

	It("keeps an approved trip that has not ended as aprovado", func() {
		future := now.AddDate(0, 0, 3)
		Expect(trip.DeriveLifecycle(trip.StatusAprovado, future, now)).To(Equal(trip.StatusAprovado))
	})

	It("never marks a pending trip as concluida, even with a past end date", func() {
		ended := now.AddDate(0, -1, 0)
		Expect(trip.DeriveLifecycle(trip.StatusEmAnalise, ended, now)).To(Equal(trip.StatusEmAnalise))
	})

	It("never marks a rejected trip as concluida", func() {
		ended := now.AddDate(0, -1, 0)
		Expect(trip.DeriveLifecycle(trip.StatusReprovado, ended, now)).To(Equal(trip.StatusReprovado))
	})
})

var _ = Describe("SelectUpcoming", func() {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	mk := func(id int64, status string, startOffsetDays, endOffsetDays int) *trip.Trip {
		return &trip.Trip{
			ID:        id,
			Status:    status,
			StartDate: now.AddDate(0, 0, startOffsetDays),
			EndDate:   now.AddDate(0, 0, endOffsetDays),
		}
	}

	It("includes pending trips regardless of dates", func() {
		trips := []*trip.Trip{mk(1, trip.StatusEmAnalise, -10, -5)}
		Expect(trip.SelectUpcoming(trips, now)).To(HaveLen(1))
	})

	It("excludes approved trips that already ended", func() {
		trips := []*trip.Trip{mk(1, trip.StatusAprovado, -10, -5)}
		Expect(trip.SelectUpcoming(trips, now)).To(BeEmpty())
	})

	It("includes approved trips whose end date is still in the future", func() {
		trips := []*trip.Trip{mk(1, trip.StatusAprovado, -1, 2)}
		Expect(trip.SelectUpcoming(trips, now)).To(HaveLen(1))
	})

	It("sorts by start date ascending", func() {
		trips := []*trip.Trip{
			mk(1, trip.StatusAprovado, 10, 12),
			mk(2, trip.StatusAprovado, 1, 3),
			mk(3, trip.StatusEmAnalise, 5, 7),
		}

		selected := trip.SelectUpcoming(trips, now)
		Expect(selected).To(HaveLen(3))
		Expect(selected[0].ID).To(Equal(int64(2)))
		Expect(selected[1].ID).To(Equal(int64(3)))
		Expect(selected[2].ID).To(Equal(int64(1)))
	})

	It("truncates to five trips after sorting", func() {
		var trips []*trip.Trip
		for i := int64(1); i <= 8; i++ {
			trips = append(trips, mk(i, trip.StatusAprovado, int(i), int(i)+2))
		}

		selected := trip.SelectUpcoming(trips, now)
		Expect(selected).To(HaveLen(trip.UpcomingLimit))
		Expect(selected[0].ID).To(Equal(int64(1)))
		Expect(selected[4].ID).To(Equal(int64(5)))
	})
})

var _ = Describe("Trip state machine", func() {
	It("allows approval and rejection only from em_analise", func() {
		pending := &trip.Trip{Status: trip.StatusEmAnalise}
		Expect(pending.CanTransitionTo(trip.StatusAprovado)).To(BeTrue())
		Expect(pending.CanTransitionTo(trip.StatusReprovado)).To(BeTrue())
		Expect(pending.CanTransitionTo(trip.StatusEmAnalise)).To(BeFalse())

		approved := &trip.Trip{Status: trip.StatusAprovado}
		Expect(approved.CanTransitionTo(trip.StatusReprovado)).To(BeFalse())

		rejected := &trip.Trip{Status: trip.StatusReprovado}
		Expect(rejected.CanTransitionTo(trip.StatusAprovado)).To(BeFalse())
	})

	It("only allows edits while em_analise", func() {
		Expect((&trip.Trip{Status: trip.StatusEmAnalise}).CanBeEdited()).To(BeTrue())
		Expect((&trip.Trip{Status: trip.StatusAprovado}).CanBeEdited()).To(BeFalse())
		Expect((&trip.Trip{Status: trip.StatusReprovado}).CanBeEdited()).To(BeFalse())
	})
})
