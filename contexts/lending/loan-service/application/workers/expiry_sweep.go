package workers

import (
	"context"
	"log/slog"
	"time"

	application "bibliotheque/contexts/lending/loan-service/application"
	"bibliotheque/contexts/lending/loan-service/domain/entities"
	"bibliotheque/contexts/lending/loan-service/ports"
)

const defaultSweepPageSize = 500

// ExpirySweep classifies open loans by derived status. It never writes:
// overdue loans stay open until they are returned.
type ExpirySweep struct {
	Repository ports.Repository
	Policy     entities.Policy
	Clock      ports.Clock
	Reporter   ports.SweepReporter
	PageSize   int
	Logger     *slog.Logger
}

// RunOnce reads every open loan page by page, oldest due date first.
func (s ExpirySweep) RunOnce(ctx context.Context) (map[entities.Status]int, error) {
	logger := application.ResolveLogger(s.Logger)
	window := s.Policy.Normalize().DueSoonWindow
	pageSize := s.PageSize
	if pageSize <= 0 {
		pageSize = defaultSweepPageSize
	}

	now := time.Now().UTC()
	if s.Clock != nil {
		now = s.Clock.Now().UTC()
	}
	counts := map[entities.Status]int{
		entities.StatusOnTime:  0,
		entities.StatusDueSoon: 0,
		entities.StatusOverdue: 0,
	}
	scanned := 0
	for {
		loans, err := s.Repository.ListLoans(ctx, ports.LoanFilter{OpenOnly: true, Limit: pageSize, Offset: scanned})
		if err != nil {
			logger.Error("loan expiry sweep failed",
				"event", "loan_expiry_sweep_failed",
				"module", "lending/loan-service",
				"layer", "worker",
				"scanned", scanned,
				"error", err.Error(),
			)
			return nil, err
		}
		for _, loan := range loans {
			status := loan.Status(now, window)
			counts[status]++
			if status == entities.StatusOverdue {
				logger.Info("loan overdue",
					"event", "loan_overdue_detected",
					"module", "lending/loan-service",
					"layer", "worker",
					"loan_id", loan.LoanID,
					"borrower_id", loan.BorrowerID,
					"days_remaining", loan.DaysRemaining(now),
				)
			}
		}
		scanned += len(loans)
		if len(loans) < pageSize {
			break
		}
	}
	if s.Reporter != nil {
		s.Reporter.ReportLoanStatuses(counts)
	}

	logger.Debug("loan expiry sweep completed",
		"event", "loan_expiry_sweep_completed",
		"module", "lending/loan-service",
		"layer", "worker",
		"open_loans", scanned,
		"overdue", counts[entities.StatusOverdue],
		"due_soon", counts[entities.StatusDueSoon],
	)
	return counts, nil
}
