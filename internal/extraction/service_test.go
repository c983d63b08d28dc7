package extraction_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/corpotravel/trip-management/internal/extraction"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubExtractor struct {
	mu       sync.Mutex
	inFlight int
	maxSeen  int
	delay    time.Duration
	err      error
	receipt  *extraction.ExtractedReceipt
}

func (s *stubExtractor) Extract(ctx context.Context, receiptURL string) (*extraction.ExtractedReceipt, error) {
	s.mu.Lock()
	s.inFlight++
	if s.inFlight > s.maxSeen {
		s.maxSeen = s.inFlight
	}
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
		}
	}

	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	return s.receipt, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ = Describe("Extraction Service", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("returns the structured reading on success", func() {
		stub := &stubExtractor{receipt: &extraction.ExtractedReceipt{
			Type:        "alimentacao",
			AmountCents: 7590,
			Description: "Restaurante Mar Aberto",
		}}
		pool := extraction.NewPool(stub, 2, 4, time.Second, discardLogger())
		defer pool.Shutdown()

		svc := extraction.NewService(pool)
		result, err := svc.ExtractReceipt(ctx, extraction.ExtractRequestDTO{
			ReceiptURL: "https://bucket.s3.amazonaws.com/receipts/x.jpg",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Success).To(BeTrue())
		Expect(result.Receipt.AmountCents).To(Equal(int64(7590)))
	})

	It("degrades to manual entry when the backend fails", func() {
		stub := &stubExtractor{err: errors.New("rate limited")}
		pool := extraction.NewPool(stub, 1, 2, time.Second, discardLogger())
		defer pool.Shutdown()

		svc := extraction.NewService(pool)
		result, err := svc.ExtractReceipt(ctx, extraction.ExtractRequestDTO{
			ReceiptURL: "https://bucket.s3.amazonaws.com/receipts/x.jpg",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Success).To(BeFalse())
		Expect(result.Message).NotTo(BeEmpty())
	})

	It("rejects a missing or non http url", func() {
		svc := extraction.NewService(nil)

		_, err := svc.ExtractReceipt(ctx, extraction.ExtractRequestDTO{})
		Expect(err).To(HaveOccurred())

		_, err = svc.ExtractReceipt(ctx, extraction.ExtractRequestDTO{ReceiptURL: "ftp://x"})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Extraction Pool", func() {
	It("never runs more extractions than it has workers", func() {
		stub := &stubExtractor{delay: 50 * time.Millisecond, receipt: &extraction.ExtractedReceipt{}}
		pool := extraction.NewPool(stub, 2, 16, time.Second, discardLogger())
		defer pool.Shutdown()

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := pool.Submit(context.Background(), "https://example.com/r.jpg")
				Expect(err).NotTo(HaveOccurred())
			}()
		}
		wg.Wait()

		Expect(stub.maxSeen).To(BeNumerically("<=", 2))
	})

	It("honours caller cancellation while queued", func() {
		stub := &stubExtractor{delay: 200 * time.Millisecond, receipt: &extraction.ExtractedReceipt{}}
		pool := extraction.NewPool(stub, 1, 1, time.Second, discardLogger())
		defer pool.Shutdown()

		// occupy the single worker
		go pool.Submit(context.Background(), "https://example.com/slow.jpg")
		time.Sleep(10 * time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := pool.Submit(ctx, "https://example.com/queued.jpg")
		Expect(err).To(MatchError(context.DeadlineExceeded))
	})
})
