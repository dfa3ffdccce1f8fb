package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"bibliotheque/contexts/lending/loan-service/application/commands"
	"bibliotheque/contexts/lending/loan-service/application/queries"
	"bibliotheque/contexts/lending/loan-service/domain/entities"
	"bibliotheque/contexts/lending/loan-service/ports"
	httptransport "bibliotheque/contexts/lending/loan-service/transport/http"
	"bibliotheque/kernel/workflow"
)

type Handler struct {
	Borrow  commands.BorrowLoanUseCase
	Renew   commands.RenewLoanUseCase
	Return  commands.ReturnLoanUseCase
	Queries queries.QueryUseCase
	Policy  entities.Policy
	Clock   ports.Clock
	Logger  *slog.Logger
}

func (h Handler) BorrowHandler(ctx context.Context, actor workflow.Actor, req httptransport.BorrowLoanRequest) (httptransport.LoanResponse, error) {
	loan, err := h.Borrow.Execute(ctx, commands.BorrowLoanCommand{
		WorkID:       req.WorkID,
		DurationDays: req.DurationDays,
		Actor:        actor,
	})
	if err != nil {
		return httptransport.LoanResponse{}, err
	}
	return httptransport.LoanResponse{Loan: h.mapLoan(loan)}, nil
}

func (h Handler) RenewHandler(
	ctx context.Context,
	actor workflow.Actor,
	loanID string,
	req httptransport.RenewLoanRequest,
) (httptransport.LoanResponse, error) {
	loan, err := h.Renew.Execute(ctx, commands.RenewLoanCommand{
		LoanID:    loanID,
		ExtraDays: req.ExtraDays,
		Override:  req.Override,
		Actor:     actor,
	})
	if err != nil {
		return httptransport.LoanResponse{}, err
	}
	return httptransport.LoanResponse{Loan: h.mapLoan(loan)}, nil
}

func (h Handler) ReturnHandler(ctx context.Context, actor workflow.Actor, loanID string) (httptransport.LoanResponse, error) {
	loan, err := h.Return.Execute(ctx, commands.ReturnLoanCommand{LoanID: loanID, Actor: actor})
	if err != nil {
		return httptransport.LoanResponse{}, err
	}
	return httptransport.LoanResponse{Loan: h.mapLoan(loan)}, nil
}

func (h Handler) GetLoanHandler(ctx context.Context, actor workflow.Actor, loanID string) (httptransport.LoanResponse, error) {
	view, err := h.Queries.GetLoan(ctx, loanID, actor)
	if err != nil {
		return httptransport.LoanResponse{}, err
	}
	return httptransport.LoanResponse{Loan: mapView(view)}, nil
}

func (h Handler) MyLoansHandler(ctx context.Context, actor workflow.Actor) (httptransport.ListLoansResponse, error) {
	views, err := h.Queries.MyLoans(ctx, actor)
	if err != nil {
		return httptransport.ListLoansResponse{}, err
	}
	items := make([]httptransport.LoanDTO, 0, len(views))
	for _, view := range views {
		items = append(items, mapView(view))
	}
	return httptransport.ListLoansResponse{Items: items}, nil
}

func (h Handler) AuditTrailHandler(ctx context.Context, actor workflow.Actor, loanID string) (httptransport.AuditTrailResponse, error) {
	records, err := h.Queries.AuditTrail(ctx, loanID, actor)
	if err != nil {
		return httptransport.AuditTrailResponse{}, err
	}
	items := make([]httptransport.AuditRecordDTO, 0, len(records))
	for _, record := range records {
		items = append(items, httptransport.AuditRecordDTO{
			AuditID:    record.AuditID,
			EntityKind: record.EntityKind,
			EntityID:   record.EntityID,
			Action:     string(record.Action),
			FromState:  string(record.FromState),
			ToState:    string(record.ToState),
			ActorID:    record.ActorID,
			OccurredAt: record.OccurredAt,
		})
	}
	return httptransport.AuditTrailResponse{Items: items}, nil
}

func (h Handler) mapLoan(loan entities.Loan) httptransport.LoanDTO {
	now := time.Now().UTC()
	if h.Clock != nil {
		now = h.Clock.Now().UTC()
	}
	return mapView(loan.View(now, h.Policy.Normalize().DueSoonWindow))
}

func mapView(view entities.View) httptransport.LoanDTO {
	return httptransport.LoanDTO{
		LoanID:        view.LoanID,
		WorkID:        view.WorkID,
		WorkTitle:     view.WorkTitle,
		BorrowerID:    view.BorrowerID,
		State:         string(view.State),
		Status:        string(view.Status),
		StartedAt:     view.StartedAt,
		DueAt:         view.DueAt,
		ReturnedAt:    view.ReturnedAt,
		DaysRemaining: view.DaysRemaining,
		Expired:       view.Status == entities.StatusOverdue,
		RenewalCount:  view.RenewalCount,
		DelaySeconds:  int64(view.Delay / time.Second),
		Version:       view.Version,
	}
}
