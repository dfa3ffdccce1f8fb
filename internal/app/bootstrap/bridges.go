package bootstrap

import (
	"context"

	worksports "bibliotheque/contexts/catalogue-moderation/work-service/ports"
	identitycommands "bibliotheque/contexts/identity-access/identity-service/application/commands"
	loanentities "bibliotheque/contexts/lending/loan-service/domain/entities"
	loanports "bibliotheque/contexts/lending/loan-service/ports"
	"bibliotheque/internal/platform/metrics"
	"bibliotheque/kernel/workflow"
)

// workCatalog lets the loan service read works without importing the work
// service. Only validated works are lendable.
type workCatalog struct {
	works worksports.Repository
}

func (c workCatalog) GetWork(ctx context.Context, workID string) (loanports.WorkSnapshot, error) {
	work, err := c.works.GetWork(ctx, workID)
	if err != nil {
		return loanports.WorkSnapshot{}, err
	}
	return loanports.WorkSnapshot{
		WorkID:   work.WorkID,
		Title:    work.Title,
		Lendable: work.IsLendable(),
	}, nil
}

// librarianGranter routes promotion approvals to the identity provider.
type librarianGranter struct {
	grant identitycommands.GrantRoleUseCase
}

func (g librarianGranter) GrantLibrarian(ctx context.Context, userID string, grantedBy string) error {
	_, err := g.grant.Execute(ctx, identitycommands.GrantRoleCommand{
		UserID:    userID,
		Role:      string(workflow.RoleLibrarian),
		GrantedBy: grantedBy,
	})
	return err
}

type sweepReporter struct {
	metrics *metrics.Metrics
}

func (r sweepReporter) ReportLoanStatuses(counts map[loanentities.Status]int) {
	labels := make(map[string]int, len(counts))
	for status, count := range counts {
		labels[string(status)] = count
	}
	r.metrics.SetLoanStatuses(labels)
}
