package scheduler

import (
	"time"

	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CheckoutAuditScheduler periodically reports checkouts that were paid but
// never turned into an order. It only logs; recovery stays an explicit
// convert-to-order request.
type CheckoutAuditScheduler struct {
	cron         *cron.Cron
	spec         string
	staleAfter   time.Duration
	checkoutRepo repository.CheckoutRepository
	now          func() time.Time
}

func NewCheckoutAuditScheduler(checkoutRepo repository.CheckoutRepository, spec string, staleAfter time.Duration) *CheckoutAuditScheduler {
	return &CheckoutAuditScheduler{
		cron:         cron.New(),
		spec:         spec,
		staleAfter:   staleAfter,
		checkoutRepo: checkoutRepo,
		now:          time.Now,
	}
}

func (s *CheckoutAuditScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.RunOnce(); err != nil {
			logger.Error("Checkout audit failed", err)
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for checkout audit", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Checkout audit scheduler started", map[string]interface{}{
		"spec":        s.spec,
		"stale_after": s.staleAfter.String(),
	})
	return nil
}

// RunOnce logs every checkout that has been Paid for longer than staleAfter
// and returns how many it found.
func (s *CheckoutAuditScheduler) RunOnce() (int, error) {
	cutoff := s.now().Add(-s.staleAfter)
	stuck, err := s.checkoutRepo.FindPaidUnfinalized(cutoff)
	if err != nil {
		return 0, err
	}

	for _, c := range stuck {
		fields := map[string]interface{}{
			"checkout_id": c.ID,
			"user_id":     c.UserID,
			"total":       c.TotalPrice.String(),
		}
		if c.PaidAt != nil {
			fields["paid_at"] = c.PaidAt.Format(time.RFC3339)
		}
		logger.Warn("Checkout paid but not finalized", fields)
	}

	logger.Info("Checkout audit completed", map[string]interface{}{
		"stuck": len(stuck),
	})
	return len(stuck), nil
}

func (s *CheckoutAuditScheduler) Stop() {
	logger.Info("Stopping checkout audit scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Checkout audit scheduler stopped")
}
