package expense_test

import (
	"context"
	"errors"
	"time"

	"github.com/corpotravel/trip-management/internal"
	"github.com/corpotravel/trip-management/internal/auth"
	"github.com/corpotravel/trip-management/internal/core/events"
	"github.com/corpotravel/trip-management/internal/expense"
	"github.com/corpotravel/trip-management/internal/trip"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockExpenseRepo struct {
	expenses    map[int64]*expense.Expense
	nextID      int64
	reviewCalls int
}

func newMockExpenseRepo() *mockExpenseRepo {
	return &mockExpenseRepo{expenses: map[int64]*expense.Expense{}, nextID: 1}
}

func (m *mockExpenseRepo) CreateExpense(_ context.Context, e *expense.Expense) (*expense.Expense, error) {
	e.ID = m.nextID
	m.nextID++
	cp := *e
	m.expenses[e.ID] = &cp
	return e, nil
}

func (m *mockExpenseRepo) GetExpenseByID(_ context.Context, expenseID int64) (*expense.Expense, error) {
	e, ok := m.expenses[expenseID]
	if !ok {
		return nil, internal.ErrExpenseNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *mockExpenseRepo) ListExpensesByTrip(_ context.Context, tripID int64) ([]*expense.Expense, error) {
	var out []*expense.Expense
	for _, e := range m.expenses {
		if e.TripID == tripID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockExpenseRepo) UpdateExpense(_ context.Context, e *expense.Expense) error {
	if _, ok := m.expenses[e.ID]; !ok {
		return internal.ErrExpenseNotFound
	}
	cp := *e
	m.expenses[e.ID] = &cp
	return nil
}

func (m *mockExpenseRepo) ReviewExpense(_ context.Context, expenseID int64, status string, reason *string, reviewerID int64, reviewedAt time.Time) (*expense.Expense, error) {
	m.reviewCalls++
	e, ok := m.expenses[expenseID]
	if !ok {
		return nil, internal.ErrExpenseNotFound
	}
	if e.Status != expense.StatusPendente {
		return nil, internal.NewConflictError("expense was already reviewed", internal.ErrCodeInvalidStatus)
	}
	e.Status = status
	e.RejectionReason = reason
	e.ReviewedBy = &reviewerID
	e.ReviewedAt = &reviewedAt
	cp := *e
	return &cp, nil
}

func (m *mockExpenseRepo) DeleteExpense(_ context.Context, expenseID int64) error {
	if _, ok := m.expenses[expenseID]; !ok {
		return internal.ErrExpenseNotFound
	}
	delete(m.expenses, expenseID)
	return nil
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

type capturingPublisher struct {
	published []events.Event
}

func (p *capturingPublisher) Publish(_ context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

var _ = Describe("Expense Service", func() {
	var (
		repo      *mockExpenseRepo
		trips     *mockTripReader
		publisher *capturingPublisher
		svc       *expense.Service

		traveler *auth.User
		manager  *auth.User
		ctx      context.Context
	)

	BeforeEach(func() {
		repo = newMockExpenseRepo()
		trips = &mockTripReader{trips: map[int64]*trip.Trip{
			1: {ID: 1, RequesterID: 10, Status: trip.StatusAprovado},
		}}
		publisher = &capturingPublisher{}
		svc = expense.NewService(repo, trips, publisher)

		traveler = &auth.User{ID: 10, Role: auth.RoleColaborador, IsActive: true}
		manager = &auth.User{ID: 20, Role: auth.RoleGestor, IsActive: true}
		ctx = context.Background()
	})

	validCreate := func() expense.CreateExpenseDTO {
		return expense.CreateExpenseDTO{
			TripID:      1,
			Type:        expense.TypeAlimentacao,
			AmountCents: 7590,
			ExpenseDate: time.Now().AddDate(0, 0, -1),
			Description: "Jantar com cliente",
		}
	}

	Describe("CreateExpense", func() {
		It("creates a pending expense on the caller's own trip", func() {
			created, err := svc.CreateExpense(ctx, traveler, validCreate())
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Status).To(Equal(expense.StatusPendente))
			Expect(created.UserID).To(Equal(traveler.ID))
		})

		It("refuses an expense on a trip owned by someone else", func() {
			other := &auth.User{ID: 55, Role: auth.RoleColaborador}
			_, err := svc.CreateExpense(ctx, other, validCreate())
			Expect(errors.Is(err, internal.ErrUnauthorizedAccess)).To(BeTrue())
		})

		It("rejects a non positive amount", func() {
			dto := validCreate()
			dto.AmountCents = 0
			_, err := svc.CreateExpense(ctx, traveler, dto)
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(422))
		})

		It("rejects an unknown expense type", func() {
			dto := validCreate()
			dto.Type = "combustivel"
			_, err := svc.CreateExpense(ctx, traveler, dto)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("RejectExpense", func() {
		It("requires a justification", func() {
			created, _ := svc.CreateExpense(ctx, traveler, validCreate())

			_, err := svc.RejectExpense(ctx, manager, created.ID, expense.ReviewExpenseDTO{})
			Expect(err).To(HaveOccurred())
			Expect(repo.reviewCalls).To(BeZero())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeMissingReason))
		})

		It("stores the justification and reviewer", func() {
			created, _ := svc.CreateExpense(ctx, traveler, validCreate())

			rejected, err := svc.RejectExpense(ctx, manager, created.ID, expense.ReviewExpenseDTO{
				Justification: "recibo ilegível",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(rejected.Status).To(Equal(expense.StatusReprovado))
			Expect(*rejected.RejectionReason).To(Equal("recibo ilegível"))
			Expect(*rejected.ReviewedBy).To(Equal(manager.ID))
		})
	})

	Describe("ApproveExpense", func() {
		It("approves a pending expense and publishes the decision", func() {
			created, _ := svc.CreateExpense(ctx, traveler, validCreate())

			approved, err := svc.ApproveExpense(ctx, manager, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(approved.Status).To(Equal(expense.StatusAprovado))

			Expect(publisher.published).To(HaveLen(1))
			Expect(publisher.published[0].EventType()).To(Equal(events.ExpenseReviewedEvent))
		})

		It("refuses to review an already decided expense", func() {
			created, _ := svc.CreateExpense(ctx, traveler, validCreate())
			repo.expenses[created.ID].Status = expense.StatusAprovado

			_, err := svc.ApproveExpense(ctx, manager, created.ID)
			Expect(err).To(HaveOccurred())
			Expect(repo.reviewCalls).To(BeZero())
		})

		It("refuses a reviewer deciding their own expense", func() {
			approverTrip := &trip.Trip{ID: 2, RequesterID: manager.ID, Status: trip.StatusAprovado}
			trips.trips[2] = approverTrip

			dto := validCreate()
			dto.TripID = 2
			created, err := svc.CreateExpense(ctx, manager, dto)
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.ApproveExpense(ctx, manager, created.ID)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("UpdateExpense", func() {
		It("resets a rejected expense to pendente and clears the reason", func() {
			created, _ := svc.CreateExpense(ctx, traveler, validCreate())
			_, err := svc.RejectExpense(ctx, manager, created.ID, expense.ReviewExpenseDTO{
				Justification: "valor acima do permitido",
			})
			Expect(err).NotTo(HaveOccurred())

			newAmount := int64(4500)
			updated, err := svc.UpdateExpense(ctx, traveler, created.ID, expense.UpdateExpenseDTO{
				AmountCents: &newAmount,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(expense.StatusPendente))
			Expect(updated.RejectionReason).To(BeNil())
			Expect(updated.ReviewedBy).To(BeNil())
			Expect(updated.AmountCents).To(Equal(newAmount))
		})

		It("refuses edits on an approved expense", func() {
			created, _ := svc.CreateExpense(ctx, traveler, validCreate())
			repo.expenses[created.ID].Status = expense.StatusAprovado

			desc := "ajuste"
			_, err := svc.UpdateExpense(ctx, traveler, created.ID, expense.UpdateExpenseDTO{Description: &desc})
			Expect(err).To(HaveOccurred())
		})

		It("refuses edits from a non owner", func() {
			created, _ := svc.CreateExpense(ctx, traveler, validCreate())

			desc := "não é minha"
			_, err := svc.UpdateExpense(ctx, manager, created.ID, expense.UpdateExpenseDTO{Description: &desc})
			Expect(errors.Is(err, internal.ErrUnauthorizedAccess)).To(BeTrue())
		})
	})

	Describe("ListByTrip", func() {
		It("is visible to the trip owner and approvers only", func() {
			_, err := svc.CreateExpense(ctx, traveler, validCreate())
			Expect(err).NotTo(HaveOccurred())

			list, err := svc.ListByTrip(ctx, traveler, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))

			_, err = svc.ListByTrip(ctx, manager, 1)
			Expect(err).NotTo(HaveOccurred())

			stranger := &auth.User{ID: 99, Role: auth.RoleColaborador}
			_, err = svc.ListByTrip(ctx, stranger, 1)
			Expect(errors.Is(err, internal.ErrUnauthorizedAccess)).To(BeTrue())
		})
	})
})
