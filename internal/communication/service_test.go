package communication_test

import (
	"context"
	"errors"

	"github.com/corpotravel/trip-management/internal"
	"github.com/corpotravel/trip-management/internal/auth"
	"github.com/corpotravel/trip-management/internal/communication"
	"github.com/corpotravel/trip-management/internal/core/events"
	"github.com/corpotravel/trip-management/internal/trip"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockCommunicationRepo struct {
	communications []*communication.Communication
	nextID         int64
}

func (m *mockCommunicationRepo) CreateCommunication(_ context.Context, c *communication.Communication) (*communication.Communication, error) {
	m.nextID++
	c.ID = m.nextID
	cp := *c
	m.communications = append(m.communications, &cp)
	return c, nil
}

func (m *mockCommunicationRepo) ListByTrip(_ context.Context, tripID int64) ([]*communication.Communication, error) {
	var out []*communication.Communication
	for _, c := range m.communications {
		if c.TripID == tripID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

type mockTripReader struct {
	trips map[int64]*trip.Trip
}

func (m *mockTripReader) GetTripByID(_ context.Context, tripID int64) (*trip.Trip, error) {
	t, ok := m.trips[tripID]
	if !ok {
		return nil, internal.ErrTripNotFound
	}
	return t, nil
}

var _ = Describe("Communication Service", func() {
	var (
		repo    *mockCommunicationRepo
		trips   *mockTripReader
		svc     *communication.Service
		manager *auth.User
		ctx     context.Context
	)

	BeforeEach(func() {
		repo = &mockCommunicationRepo{}
		trips = &mockTripReader{trips: map[int64]*trip.Trip{
			1: {ID: 1, RequesterID: 10, Status: trip.StatusAprovado},
		}}
		svc = communication.NewService(repo, trips)
		manager = &auth.User{ID: 20, Role: auth.RoleGestor, IsActive: true}
		ctx = context.Background()
	})

	It("creates an announcement on an existing trip", func() {
		created, err := svc.CreateCommunication(ctx, manager, 1, communication.CreateCommunicationDTO{
			Title: "Mudança de hotel",
			Body:  "O hotel foi alterado para o Comfort Suites.",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(created.AuthorID).To(Equal(manager.ID))
	})

	It("rejects an empty title or body", func() {
		_, err := svc.CreateCommunication(ctx, manager, 1, communication.CreateCommunicationDTO{Body: "x"})
		Expect(err).To(HaveOccurred())

		_, err = svc.CreateCommunication(ctx, manager, 1, communication.CreateCommunicationDTO{Title: "x"})
		Expect(err).To(HaveOccurred())
	})

	It("restricts reading to trip participants", func() {
		traveler := &auth.User{ID: 10, Role: auth.RoleColaborador}
		stranger := &auth.User{ID: 99, Role: auth.RoleColaborador}

		_, err := svc.ListByTrip(ctx, traveler, 1)
		Expect(err).NotTo(HaveOccurred())

		_, err = svc.ListByTrip(ctx, stranger, 1)
		Expect(errors.Is(err, internal.ErrUnauthorizedAccess)).To(BeTrue())
	})
})

var _ = Describe("Communication Subscriber", func() {
	var (
		repo *mockCommunicationRepo
		sub  *communication.Subscriber
		ctx  context.Context
	)

	BeforeEach(func() {
		repo = &mockCommunicationRepo{}
		sub = communication.NewSubscriber(repo)
		ctx = context.Background()
	})

	It("records a trip rejection with its justification", func() {
		bus := events.NewEventBus(discardLogger())
		sub.Register(bus)

		event := events.NewTripStatusChangedEvent(1, 20, trip.StatusEmAnalise, trip.StatusReprovado, "fora da política")
		Expect(bus.PublishSync(ctx, event)).To(Succeed())

		Expect(repo.communications).To(HaveLen(1))
		Expect(repo.communications[0].Title).To(Equal("Viagem reprovada"))
		Expect(repo.communications[0].Body).To(ContainSubstring("fora da política"))
	})

	It("records an expense approval", func() {
		bus := events.NewEventBus(discardLogger())
		sub.Register(bus)

		event := events.NewExpenseReviewedEvent(7, 1, 20, "aprovado", "")
		Expect(bus.PublishSync(ctx, event)).To(Succeed())

		Expect(repo.communications).To(HaveLen(1))
		Expect(repo.communications[0].Title).To(Equal("Despesa aprovada"))
	})
})
