package services

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/dawingroup/dawinos-sub003/internal/core/ports/repositories"
	portssvc "github.com/dawingroup/dawinos-sub003/internal/core/ports/services"
	"github.com/dawingroup/dawinos-sub003/internal/dto"
	"github.com/dawingroup/dawinos-sub003/internal/middleware"
)

// ledgerService implements the LedgerSvcFacade interface. It is the read-only
// surface other modules consume instead of querying ledger storage directly.
type ledgerService struct {
	entryReader portsrepo.EntryReader
	accountSvc  portssvc.AccountSvcFacade
}

// NewLedgerService creates the posted-line query service.
func NewLedgerService(entryReader portsrepo.EntryReader, accountSvc portssvc.AccountSvcFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{entryReader: entryReader, accountSvc: accountSvc}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) ListPostedLines(ctx context.Context, companyID string, accountID string, params dto.ListPostedLinesParams) (*dto.ListPostedLinesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Company scoping and existence are enforced by the account lookup.
	if _, err := s.accountSvc.GetAccountByID(ctx, companyID, accountID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	lines, nextToken, err := s.entryReader.ListPostedLinesByAccount(ctx, companyID, accountID, params.From, params.To, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list posted lines",
			slog.String("error", err.Error()),
			slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list posted lines: %w", err)
	}

	return &dto.ListPostedLinesResponse{
		Lines:     dto.ToPostedLineResponses(lines),
		NextToken: nextToken,
	}, nil
}
