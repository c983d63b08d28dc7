package invitation_test

import (
	"context"
	"errors"
	"time"

	"github.com/corpotravel/trip-management/internal"
	"github.com/corpotravel/trip-management/internal/auth"
	"github.com/corpotravel/trip-management/internal/core/events"
	"github.com/corpotravel/trip-management/internal/invitation"
	"github.com/corpotravel/trip-management/internal/trip"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockInvitationRepo struct {
	invitations map[int64]*invitation.Invitation
	byToken     map[string]int64
	nextID      int64
	nextUserID  int64
}

func newMockInvitationRepo() *mockInvitationRepo {
	return &mockInvitationRepo{
		invitations: map[int64]*invitation.Invitation{},
		byToken:     map[string]int64{},
		nextID:      1,
		nextUserID:  100,
	}
}

func (m *mockInvitationRepo) CreateInvitation(_ context.Context, inv *invitation.Invitation) (*invitation.Invitation, error) {
	inv.ID = m.nextID
	m.nextID++
	cp := *inv
	m.invitations[inv.ID] = &cp
	m.byToken[inv.Token] = inv.ID
	return inv, nil
}

func (m *mockInvitationRepo) GetByToken(_ context.Context, token string) (*invitation.Invitation, error) {
	id, ok := m.byToken[token]
	if !ok {
		return nil, internal.ErrInvitationNotFound
	}
	cp := *m.invitations[id]
	return &cp, nil
}

func (m *mockInvitationRepo) ListByTrip(_ context.Context, tripID int64) ([]*invitation.Invitation, error) {
	var out []*invitation.Invitation
	for _, inv := range m.invitations {
		if inv.TripID == tripID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockInvitationRepo) Redeem(_ context.Context, invitationID int64, account invitation.VisitorAccount) (*auth.User, error) {
	inv, ok := m.invitations[invitationID]
	if !ok {
		return nil, internal.ErrInvitationNotFound
	}
	if inv.Used {
		return nil, internal.ErrInvitationUsed
	}
	now := time.Now()
	inv.Used = true
	inv.UsedAt = &now

	u := &auth.User{
		ID:       m.nextUserID,
		Email:    account.Email,
		FullName: account.FullName,
		Role:     auth.RoleVisitante,
		IsActive: true,
	}
	m.nextUserID++
	return u, nil
}

type fixedHasher struct{}

func (fixedHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

type capturingPublisher struct {
	published []events.Event
}

func (p *capturingPublisher) Publish(_ context.Context, event events.Event) error {
	p.published = append(p.published, event)
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

var _ = Describe("Invitation Service", func() {
	var (
		repo      *mockInvitationRepo
		trips     *mockTripReader
		publisher *capturingPublisher
		svc       *invitation.Service

		organizer *auth.User
		ctx       context.Context
	)

	BeforeEach(func() {
		repo = newMockInvitationRepo()
		trips = &mockTripReader{trips: map[int64]*trip.Trip{
			1: {ID: 1, RequesterID: 10, Status: trip.StatusAprovado},
		}}
		publisher = &capturingPublisher{}
		svc = invitation.NewService(repo, trips, fixedHasher{}, publisher)

		organizer = &auth.User{ID: 20, Role: auth.RoleGestor, IsActive: true}
		ctx = context.Background()
	})

	Describe("CreateInvitation", func() {
		It("issues a token bound to the guest's email and document", func() {
			created, err := svc.CreateInvitation(ctx, organizer, 1, invitation.CreateInvitationDTO{
				Email:    "guest@example.com",
				Document: "123.456.789-09",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Token).NotTo(BeEmpty())
			Expect(created.Document).To(Equal("12345678909"))
			Expect(created.Used).To(BeFalse())
		})

		It("rejects an invitation for a missing trip", func() {
			_, err := svc.CreateInvitation(ctx, organizer, 999, invitation.CreateInvitationDTO{
				Email:    "guest@example.com",
				Document: "12345678909",
			})
			Expect(errors.Is(err, internal.ErrTripNotFound)).To(BeTrue())
		})

		It("rejects an invalid document", func() {
			_, err := svc.CreateInvitation(ctx, organizer, 1, invitation.CreateInvitationDTO{
				Email:    "guest@example.com",
				Document: "1234",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ListByTrip", func() {
		It("never returns tokens in listings", func() {
			_, err := svc.CreateInvitation(ctx, organizer, 1, invitation.CreateInvitationDTO{
				Email:    "guest@example.com",
				Document: "12345678909",
			})
			Expect(err).NotTo(HaveOccurred())

			list, err := svc.ListByTrip(ctx, organizer, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].Token).To(BeEmpty())
		})
	})

	Describe("RedeemInvitation", func() {
		redeemDTO := func(token string) invitation.RedeemInvitationDTO {
			return invitation.RedeemInvitationDTO{
				Token:    token,
				Email:    "guest@example.com",
				Document: "123.456.789-09",
				FullName: "Convidada Exemplo",
				Password: "s3nh4-segura",
			}
		}

		It("creates a VISITANTE account for a matching identity", func() {
			created, _ := svc.CreateInvitation(ctx, organizer, 1, invitation.CreateInvitationDTO{
				Email:    "guest@example.com",
				Document: "12345678909",
			})

			visitor, err := svc.RedeemInvitation(ctx, redeemDTO(created.Token))
			Expect(err).NotTo(HaveOccurred())
			Expect(visitor.Role).To(Equal(auth.RoleVisitante))
			Expect(visitor.IsActive).To(BeTrue())

			Expect(publisher.published).To(HaveLen(1))
			Expect(publisher.published[0].EventType()).To(Equal(events.InvitationRedeemedEvent))
		})

		It("rejects a token that was already used with a conflict", func() {
			created, _ := svc.CreateInvitation(ctx, organizer, 1, invitation.CreateInvitationDTO{
				Email:    "guest@example.com",
				Document: "12345678909",
			})

			_, err := svc.RedeemInvitation(ctx, redeemDTO(created.Token))
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.RedeemInvitation(ctx, redeemDTO(created.Token))
			Expect(errors.Is(err, internal.ErrInvitationUsed)).To(BeTrue())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))
		})

		It("rejects a mismatched email or document", func() {
			created, _ := svc.CreateInvitation(ctx, organizer, 1, invitation.CreateInvitationDTO{
				Email:    "guest@example.com",
				Document: "12345678909",
			})

			dto := redeemDTO(created.Token)
			dto.Email = "impostor@example.com"
			_, err := svc.RedeemInvitation(ctx, dto)
			Expect(errors.Is(err, internal.ErrInvitationMismatch)).To(BeTrue())

			dto = redeemDTO(created.Token)
			dto.Document = "99999999999"
			_, err = svc.RedeemInvitation(ctx, dto)
			Expect(errors.Is(err, internal.ErrInvitationMismatch)).To(BeTrue())
		})

		It("rejects an unknown token", func() {
			_, err := svc.RedeemInvitation(ctx, redeemDTO("nope"))
			Expect(errors.Is(err, internal.ErrInvitationNotFound)).To(BeTrue())
		})
	})
})
