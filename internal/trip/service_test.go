package trip_test

import (
	"context"
	"errors"
	"time"

	"github.com/corpotravel/trip-management/internal"
	"github.com/corpotravel/trip-management/internal/auth"
	"github.com/corpotravel/trip-management/internal/core/events"
	"github.com/corpotravel/trip-management/internal/trip"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockTripRepo struct {
	trips        map[int64]*trip.Trip
	nextID       int64
	statusCalls  int
	updateCalls  int
	failCreate   error
	staleVersion bool
}

func newMockTripRepo() *mockTripRepo {
	return &mockTripRepo{trips: map[int64]*trip.Trip{}, nextID: 1}
}

func (m *mockTripRepo) CreateTrip(_ context.Context, t *trip.Trip) (*trip.Trip, error) {
	if m.failCreate != nil {
		return nil, m.failCreate
	}
	t.ID = m.nextID
	m.nextID++
	for i, ev := range t.Events {
		ev.ID = int64(i + 1)
		ev.TripID = t.ID
	}
	cp := *t
	m.trips[t.ID] = &cp
	return t, nil
}

func (m *mockTripRepo) GetTripByID(_ context.Context, tripID int64) (*trip.Trip, error) {
	t, ok := m.trips[tripID]
	if !ok {
		return nil, internal.ErrTripNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockTripRepo) ListTripsByRequester(_ context.Context, requesterID int64) ([]*trip.Trip, error) {
	var out []*trip.Trip
	for _, t := range m.trips {
		if t.RequesterID == requesterID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockTripRepo) ListAllTrips(_ context.Context) ([]*trip.Trip, error) {
	var out []*trip.Trip
	for _, t := range m.trips {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockTripRepo) UpdateTrip(_ context.Context, t *trip.Trip) error {
	m.updateCalls++
	if _, ok := m.trips[t.ID]; !ok {
		return internal.ErrTripNotFound
	}
	cp := *t
	m.trips[t.ID] = &cp
	return nil
}

func (m *mockTripRepo) UpdateTripStatus(_ context.Context, tripID int64, status string, reason *string, expectedVersion int64) (*trip.Trip, error) {
	m.statusCalls++
	t, ok := m.trips[tripID]
	if !ok {
		return nil, internal.ErrTripNotFound
	}
	if m.staleVersion || t.Version != expectedVersion {
		return nil, internal.ErrTripVersionStale
	}
	t.Status = status
	t.StatusReason = reason
	t.Version++
	cp := *t
	return &cp, nil
}

func (m *mockTripRepo) DeleteTrip(_ context.Context, tripID int64) error {
	if _, ok := m.trips[tripID]; !ok {
		return internal.ErrTripNotFound
	}
	delete(m.trips, tripID)
	return nil
}

func (m *mockTripRepo) AddEvent(_ context.Context, ev *trip.ItineraryEvent) (*trip.ItineraryEvent, error) {
	ev.ID = m.nextID
	m.nextID++
	return ev, nil
}

func (m *mockTripRepo) DeleteEvent(_ context.Context, tripID, eventID int64) error {
	return nil
}

type capturingPublisher struct {
	published []events.Event
}

func (p *capturingPublisher) Publish(_ context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

var _ = Describe("Trip Service", func() {
	var (
		repo      *mockTripRepo
		publisher *capturingPublisher
		svc       *trip.Service

		traveler *auth.User
		manager  *auth.User
		ctx      context.Context
	)

	BeforeEach(func() {
		repo = newMockTripRepo()
		publisher = &capturingPublisher{}
		svc = trip.NewService(repo, publisher)

		traveler = &auth.User{ID: 10, Email: "ana@corp.example", Role: auth.RoleColaborador, IsActive: true}
		manager = &auth.User{ID: 20, Email: "gestor@corp.example", Role: auth.RoleGestor, IsActive: true}
		ctx = context.Background()
	})

	validCreate := func() trip.CreateTripDTO {
		return trip.CreateTripDTO{
			Origin:         "São Paulo",
			Destination:    "Recife",
			StartDate:      time.Now().AddDate(0, 0, 10),
			EndDate:        time.Now().AddDate(0, 0, 14),
			Reason:         "Reunião com cliente",
			EstimatedValue: 350000,
			CostCenter:     "CC-042",
		}
	}

	Describe("CreateTrip", func() {
		It("creates a pending trip owned by the requester", func() {
			created, err := svc.CreateTrip(ctx, traveler, validCreate())
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).NotTo(BeZero())
			Expect(created.Status).To(Equal(trip.StatusEmAnalise))
			Expect(created.RequesterID).To(Equal(traveler.ID))
			Expect(created.Version).To(Equal(int64(1)))
		})

		It("persists the drafted itinerary together with the trip", func() {
			dto := validCreate()
			dto.Events = []trip.EventDTO{
				{Type: trip.EventTypeHotel, Title: "Hotel Beira Mar", StartsAt: dto.StartDate.Add(20 * time.Hour)},
				{Type: trip.EventTypeFlight, Title: "Voo GRU-REC", StartsAt: dto.StartDate.Add(8 * time.Hour)},
			}

			created, err := svc.CreateTrip(ctx, traveler, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Events).To(HaveLen(2))
			// returned sorted by start time
			Expect(created.Events[0].Title).To(Equal("Voo GRU-REC"))
		})

		It("rejects an end date before the start date", func() {
			dto := validCreate()
			dto.EndDate = dto.StartDate.AddDate(0, 0, -1)

			_, err := svc.CreateTrip(ctx, traveler, dto)
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(422))
		})

		It("rejects a trip missing required fields", func() {
			dto := validCreate()
			dto.Destination = "  "

			_, err := svc.CreateTrip(ctx, traveler, dto)
			Expect(err).To(HaveOccurred())
		})

		It("rejects an itinerary event with an unknown type", func() {
			dto := validCreate()
			dto.Events = []trip.EventDTO{{Type: "cruise", Title: "x", StartsAt: dto.StartDate}}

			_, err := svc.CreateTrip(ctx, traveler, dto)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetTrip", func() {
		It("lets the owner and approvers read, and nobody else", func() {
			created, err := svc.CreateTrip(ctx, traveler, validCreate())
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.GetTrip(ctx, traveler, created.ID)
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.GetTrip(ctx, manager, created.ID)
			Expect(err).NotTo(HaveOccurred())

			stranger := &auth.User{ID: 99, Role: auth.RoleColaborador}
			_, err = svc.GetTrip(ctx, stranger, created.ID)
			Expect(errors.Is(err, internal.ErrUnauthorizedAccess)).To(BeTrue())
		})

		It("returns not found for a missing trip", func() {
			_, err := svc.GetTrip(ctx, traveler, 4242)
			Expect(errors.Is(err, internal.ErrTripNotFound)).To(BeTrue())
		})
	})

	Describe("UpdateTrip", func() {
		It("updates a pending trip owned by the caller", func() {
			created, _ := svc.CreateTrip(ctx, traveler, validCreate())

			newReason := "Workshop de produto"
			updated, err := svc.UpdateTrip(ctx, traveler, created.ID, trip.UpdateTripDTO{Reason: &newReason})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Reason).To(Equal(newReason))
		})

		It("refuses edits once the trip left em_analise", func() {
			created, _ := svc.CreateTrip(ctx, traveler, validCreate())
			repo.trips[created.ID].Status = trip.StatusAprovado

			newReason := "tarde demais"
			_, err := svc.UpdateTrip(ctx, traveler, created.ID, trip.UpdateTripDTO{Reason: &newReason})
			Expect(errors.Is(err, internal.ErrTripNotEditable)).To(BeTrue())
			Expect(repo.updateCalls).To(BeZero())
		})

		It("refuses edits from a user who does not own the trip", func() {
			created, _ := svc.CreateTrip(ctx, traveler, validCreate())

			other := &auth.User{ID: 77, Role: auth.RoleColaborador}
			newReason := "não é minha"
			_, err := svc.UpdateTrip(ctx, other, created.ID, trip.UpdateTripDTO{Reason: &newReason})
			Expect(errors.Is(err, internal.ErrUnauthorizedAccess)).To(BeTrue())
		})

		It("rejects a patch that inverts the date range", func() {
			created, _ := svc.CreateTrip(ctx, traveler, validCreate())

			badEnd := created.StartDate.AddDate(0, 0, -2)
			_, err := svc.UpdateTrip(ctx, traveler, created.ID, trip.UpdateTripDTO{EndDate: &badEnd})
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(422))
		})
	})

	Describe("UpdateStatus", func() {
		It("approves a pending trip and publishes the decision", func() {
			created, _ := svc.CreateTrip(ctx, traveler, validCreate())

			updated, err := svc.UpdateStatus(ctx, manager, created.ID, trip.UpdateStatusDTO{
				Status:  trip.StatusAprovado,
				Version: 1,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(trip.StatusAprovado))
			Expect(updated.Version).To(Equal(int64(2)))

			Expect(publisher.published).To(HaveLen(1))
			Expect(publisher.published[0].EventType()).To(Equal(events.TripStatusChangedEvent))
		})

		It("requires a justification to reject", func() {
			created, _ := svc.CreateTrip(ctx, traveler, validCreate())

			_, err := svc.UpdateStatus(ctx, manager, created.ID, trip.UpdateStatusDTO{
				Status:  trip.StatusReprovado,
				Version: 1,
			})
			Expect(err).To(HaveOccurred())
			Expect(repo.statusCalls).To(BeZero())
		})

		It("stores the justification when rejecting", func() {
			created, _ := svc.CreateTrip(ctx, traveler, validCreate())

			updated, err := svc.UpdateStatus(ctx, manager, created.ID, trip.UpdateStatusDTO{
				Status:        trip.StatusReprovado,
				Justification: "fora da política de custos",
				Version:       1,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.StatusReason).NotTo(BeNil())
			Expect(*updated.StatusReason).To(Equal("fora da política de custos"))
		})

		It("returns a conflict when the version is stale", func() {
			created, _ := svc.CreateTrip(ctx, traveler, validCreate())
			repo.trips[created.ID].Version = 3

			_, err := svc.UpdateStatus(ctx, manager, created.ID, trip.UpdateStatusDTO{
				Status:  trip.StatusAprovado,
				Version: 1,
			})
			Expect(errors.Is(err, internal.ErrTripVersionStale)).To(BeTrue())
			Expect(publisher.published).To(BeEmpty())
		})

		It("refuses to decide a trip that already left em_analise", func() {
			created, _ := svc.CreateTrip(ctx, traveler, validCreate())
			repo.trips[created.ID].Status = trip.StatusReprovado

			_, err := svc.UpdateStatus(ctx, manager, created.ID, trip.UpdateStatusDTO{
				Status:  trip.StatusAprovado,
				Version: 1,
			})
			Expect(err).To(HaveOccurred())
			Expect(repo.statusCalls).To(BeZero())
		})
	})

	Describe("UpcomingTrips", func() {
		It("applies the upcoming selection to the caller's visible trips", func() {
			dto := validCreate()
			dto.StartDate = time.Now().AddDate(0, 0, -30)
			dto.EndDate = time.Now().AddDate(0, 0, -25)
			old, _ := svc.CreateTrip(ctx, traveler, dto)
			repo.trips[old.ID].Status = trip.StatusAprovado

			_, err := svc.CreateTrip(ctx, traveler, validCreate())
			Expect(err).NotTo(HaveOccurred())

			upcoming, err := svc.UpcomingTrips(ctx, traveler)
			Expect(err).NotTo(HaveOccurred())
			Expect(upcoming).To(HaveLen(1))
			Expect(upcoming[0].Status).To(Equal(trip.StatusEmAnalise))
		})
	})

	Describe("DeleteTrip", func() {
		It("lets the owner delete a pending trip", func() {
			created, _ := svc.CreateTrip(ctx, traveler, validCreate())
			Expect(svc.DeleteTrip(ctx, traveler, created.ID)).To(Succeed())
		})

		It("refuses deletion of a decided trip for non developers", func() {
			created, _ := svc.CreateTrip(ctx, traveler, validCreate())
			repo.trips[created.ID].Status = trip.StatusAprovado

			err := svc.DeleteTrip(ctx, traveler, created.ID)
			Expect(errors.Is(err, internal.ErrTripNotEditable)).To(BeTrue())
		})
	})
})
