package estimate_test

import (
	"context"
	"errors"
	"time"

	"github.com/corpotravel/trip-management/internal"
	"github.com/corpotravel/trip-management/internal/estimate"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockHistory struct {
	stats map[string]*estimate.DestinationStats
	err   error
	calls int
}

func (m *mockHistory) GetDestinationStats(_ context.Context, destination string) (*estimate.DestinationStats, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.stats[destination], nil
}

type mockCache struct {
	entries map[string]*estimate.DestinationStats
	sets    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: map[string]*estimate.DestinationStats{}}
}

func (m *mockCache) GetStats(_ context.Context, destination string) (*estimate.DestinationStats, error) {
	return m.entries[destination], nil
}

func (m *mockCache) SetStats(_ context.Context, stats *estimate.DestinationStats) error {
	m.sets++
	m.entries[stats.Destination] = stats
	return nil
}

var _ = Describe("Estimate Service", func() {
	var (
		history *mockHistory
		cache   *mockCache
		svc     *estimate.Service
		ctx     context.Context
	)

	request := func(days int) estimate.EstimateRequestDTO {
		start := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
		return estimate.EstimateRequestDTO{
			Origin:      "São Paulo",
			Destination: "Recife",
			StartDate:   start,
			EndDate:     start.AddDate(0, 0, days-1),
		}
	}

	BeforeEach(func() {
		history = &mockHistory{stats: map[string]*estimate.DestinationStats{}}
		cache = newMockCache()
		svc = estimate.NewService(history, cache)
		ctx = context.Background()
	})

	It("uses destination history when available", func() {
		history.stats["recife"] = &estimate.DestinationStats{
			Destination: "recife",
			TripCount:   12,
			AvgCents:    280000,
			MinCents:    190000,
			MaxCents:    410000,
		}

		result, err := svc.Estimate(ctx, request(4))
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Basis).To(Equal(estimate.BasisHistory))
		Expect(result.ValueCents).To(Equal(int64(280000)))
		Expect(result.MinCents).To(Equal(int64(190000)))
		Expect(result.MaxCents).To(Equal(int64(410000)))
	})

	It("falls back to the standard daily table without history", func() {
		result, err := svc.Estimate(ctx, request(3))
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Basis).To(Equal(estimate.BasisStandard))
		Expect(result.Days).To(Equal(3))
		Expect(result.ValueCents).To(Equal(int64(3 * 45000)))
		Expect(result.MinCents).To(BeNumerically("<", result.ValueCents))
		Expect(result.MaxCents).To(BeNumerically(">", result.ValueCents))
	})

	It("serves repeated requests from the cache", func() {
		history.stats["recife"] = &estimate.DestinationStats{
			Destination: "recife", TripCount: 3, AvgCents: 100000, MinCents: 80000, MaxCents: 120000,
		}

		_, err := svc.Estimate(ctx, request(2))
		Expect(err).NotTo(HaveOccurred())
		Expect(history.calls).To(Equal(1))
		Expect(cache.sets).To(Equal(1))

		_, err = svc.Estimate(ctx, request(2))
		Expect(err).NotTo(HaveOccurred())
		Expect(history.calls).To(Equal(1))
	})

	It("still answers when the history store is down", func() {
		history.err = errors.New("connection refused")

		result, err := svc.Estimate(ctx, request(2))
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Basis).To(Equal(estimate.BasisStandard))
	})

	It("rejects an inverted date range", func() {
		dto := request(3)
		dto.EndDate = dto.StartDate.AddDate(0, 0, -1)

		_, err := svc.Estimate(ctx, dto)
		Expect(err).To(HaveOccurred())

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(422))
	})
})
