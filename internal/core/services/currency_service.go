package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dawingroup/dawinos-sub003/internal/apperrors"
	"github.com/dawingroup/dawinos-sub003/internal/core/domain"
	portsrepo "github.com/dawingroup/dawinos-sub003/internal/core/ports/repositories"
	portssvc "github.com/dawingroup/dawinos-sub003/internal/core/ports/services"
	"github.com/dawingroup/dawinos-sub003/internal/dto"
	"github.com/dawingroup/dawinos-sub003/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrDuplicateCurrency = fmt.Errorf("%w: currency code already registered", apperrors.ErrDuplicate)
	ErrRateNotPositive   = fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	ErrNoRateAvailable   = fmt.Errorf("%w: no exchange rate available", apperrors.ErrNotFound)
)

// currencyService implements the CurrencySvcFacade interface.
type currencyService struct {
	currencyRepo       portsrepo.CurrencyRepositoryFacade
	rateRepo           portsrepo.ExchangeRateRepository
	functionalCurrency string
}

// NewCurrencyService creates the currency registry and rate resolver.
// functionalCurrency is the company-wide reporting currency, e.g. "USD".
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade, rateRepo portsrepo.ExchangeRateRepository, functionalCurrency string) portssvc.CurrencySvcFacade {
	return &currencyService{
		currencyRepo:       currencyRepo,
		rateRepo:           rateRepo,
		functionalCurrency: strings.ToUpper(functionalCurrency),
	}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, userID string) (*domain.Currency, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	code := strings.ToUpper(req.CurrencyCode)
	existing, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check currency code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateCurrency, code)
	}

	now := time.Now().UTC()
	currency := domain.Currency{
		CurrencyCode: code,
		Symbol:       req.Symbol,
		Name:         req.Name,
		Precision:    req.Precision,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		logger.Error("Failed to save currency", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save currency: %w", err)
	}

	logger.Info("Currency registered", slog.String("currency_code", code))
	return &currency, nil
}

func (s *currencyService) GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	return s.currencyRepo.FindCurrencyByCode(ctx, strings.ToUpper(code))
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	return s.currencyRepo.ListCurrencies(ctx)
}

func (s *currencyService) SaveExchangeRate(ctx context.Context, companyID string, req dto.CreateExchangeRateRequest, userID string) (*domain.ExchangeRate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Rate.IsZero() || req.Rate.IsNegative() {
		return nil, ErrRateNotPositive
	}

	fromCode := strings.ToUpper(req.FromCurrencyCode)
	toCode := strings.ToUpper(req.ToCurrencyCode)
	for _, code := range []string{fromCode, toCode} {
		if _, err := s.currencyRepo.FindCurrencyByCode(ctx, code); err != nil {
			return nil, fmt.Errorf("currency %s: %w", code, err)
		}
	}

	now := time.Now().UTC()
	rate := domain.ExchangeRate{
		RateID:           uuid.NewString(),
		CompanyID:        companyID,
		FromCurrencyCode: fromCode,
		ToCurrencyCode:   toCode,
		Rate:             req.Rate,
		DateEffective:    req.DateEffective,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		logger.Error("Failed to save exchange rate", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save exchange rate: %w", err)
	}

	logger.Info("Exchange rate saved",
		slog.String("from", fromCode),
		slog.String("to", toCode),
		slog.String("rate", req.Rate.String()))
	return &rate, nil
}

func (s *currencyService) ResolveRate(ctx context.Context, companyID string, currencyCode string, date time.Time) (decimal.Decimal, error) {
	code := strings.ToUpper(currencyCode)
	if code == s.functionalCurrency {
		return decimal.NewFromInt(1), nil
	}

	rate, err := s.rateRepo.FindLatestRate(ctx, companyID, code, s.functionalCurrency, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("%w: %s to %s on %s", ErrNoRateAvailable, code, s.functionalCurrency, date.Format("2006-01-02"))
		}
		return decimal.Zero, fmt.Errorf("failed to resolve exchange rate: %w", err)
	}
	return rate.Rate, nil
}
