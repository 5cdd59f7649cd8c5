package dto

import (
	"errors"
	"time"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PeriodParams selects an interest period. Both bounds are dates; To is exclusive.
type PeriodParams struct {
	From string `form:"from" json:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to" json:"to" binding:"required,datetime=2006-01-02"`
}

// Period converts the params into a validated domain period.
func (p PeriodParams) Period() (domain.Period, error) {
	from, err := ParseDate(p.From)
	if err != nil {
		return domain.Period{}, err
	}
	to, err := ParseDate(p.To)
	if err != nil {
		return domain.Period{}, err
	}
	return domain.NewPeriod(from, to)
}

// SavingsSweepRequest runs the monthly savings accrual. An empty body uses
// the previous calendar month.
type SavingsSweepRequest struct {
	From string `json:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `json:"to" binding:"omitempty,datetime=2006-01-02"`
}

// Period resolves the sweep period relative to now.
func (r SavingsSweepRequest) Period(now time.Time) (domain.Period, error) {
	if r.From == "" && r.To == "" {
		return domain.PreviousMonthPeriod(now), nil
	}
	if r.From == "" || r.To == "" {
		return domain.Period{}, errors.New("from and to must be given together")
	}
	return PeriodParams{From: r.From, To: r.To}.Period()
}

// MaturitySweepRequest matures every deposit due on or before AsOf (default now).
type MaturitySweepRequest struct {
	AsOf string `json:"asOf" binding:"omitempty,datetime=2006-01-02"`
}

// Cutoff returns the end of the AsOf day capped at now. Deposits cannot be
// matured ahead of the clock.
func (r MaturitySweepRequest) Cutoff(now time.Time) (time.Time, error) {
	if r.AsOf == "" {
		return now, nil
	}
	day, err := ParseDate(r.AsOf)
	if err != nil {
		return time.Time{}, err
	}
	cutoff := day.Add(24*time.Hour - time.Nanosecond)
	if cutoff.After(now) {
		return now, nil
	}
	return cutoff, nil
}

// InterestPostingResponse defines the data returned for a posting or preview.
type InterestPostingResponse struct {
	PostingID      string                     `json:"postingID,omitempty"`
	ResourceType   domain.PostingResourceType `json:"resourceType"`
	ResourceID     string                     `json:"resourceID"`
	PeriodKey      string                     `json:"periodKey"`
	PeriodStart    time.Time                  `json:"periodStart"`
	PeriodEnd      time.Time                  `json:"periodEnd"`
	PostingDate    time.Time                  `json:"postingDate"`
	InterestAmount decimal.Decimal            `json:"interestAmount"`
	BalanceUsed    decimal.Decimal            `json:"balanceUsed"`
	RateApplied    decimal.Decimal            `json:"rateApplied"`
	DaysCalculated int                        `json:"daysCalculated"`
	Status         domain.PostingStatus       `json:"status"`
	TransactionID  string                     `json:"transactionID,omitempty"`
}

func ToInterestPostingResponse(p *domain.InterestPosting) InterestPostingResponse {
	return InterestPostingResponse{
		PostingID:      p.PostingID,
		ResourceType:   p.ResourceType,
		ResourceID:     p.ResourceID,
		PeriodKey:      p.PeriodKey,
		PeriodStart:    p.PeriodStart,
		PeriodEnd:      p.PeriodEnd,
		PostingDate:    p.PostingDate,
		InterestAmount: p.InterestAmount,
		BalanceUsed:    p.BalanceUsed,
		RateApplied:    p.RateApplied,
		DaysCalculated: p.DaysCalculated,
		Status:         p.Status,
		TransactionID:  p.TransactionID,
	}
}

// ListInterestPostingsResponse wraps the postings of one account or deposit.
type ListInterestPostingsResponse struct {
	Postings []InterestPostingResponse `json:"postings"`
}

func ToListInterestPostingsResponse(ps []domain.InterestPosting) ListInterestPostingsResponse {
	res := make([]InterestPostingResponse, len(ps))
	for i := range ps {
		res[i] = ToInterestPostingResponse(&ps[i])
	}
	return ListInterestPostingsResponse{Postings: res}
}

// SweepSummaryResponse reports the outcome of a batch run.
type SweepSummaryResponse struct {
	Processed     int             `json:"processed"`
	Posted        int             `json:"posted"`
	Skipped       int             `json:"skipped"`
	Failed        int             `json:"failed"`
	TotalInterest decimal.Decimal `json:"totalInterest"`
}

func ToSweepSummaryResponse(s *domain.SweepSummary) SweepSummaryResponse {
	return SweepSummaryResponse{
		Processed:     s.Processed,
		Posted:        s.Posted,
		Skipped:       s.Skipped,
		Failed:        s.Failed,
		TotalInterest: s.TotalInterest,
	}
}

// InterestRatesParams selects the account type whose rate bands are listed.
type InterestRatesParams struct {
	AccountType domain.AccountType `form:"accountType" binding:"required,oneof=SAVINGS CURRENT FIXED_DEPOSIT BUSINESS"`
}

// InterestRateBandResponse is one balance band. Missing bounds are open.
type InterestRateBandResponse struct {
	AccountType domain.AccountType `json:"accountType"`
	MinBalance  *decimal.Decimal   `json:"minBalance,omitempty"`
	MaxBalance  *decimal.Decimal   `json:"maxBalance,omitempty"`
	Rate        decimal.Decimal    `json:"rate"`
}

// ListInterestRatesResponse wraps the active bands of one account type.
type ListInterestRatesResponse struct {
	Rates []InterestRateBandResponse `json:"rates"`
}

func ToListInterestRatesResponse(bands []domain.InterestRateBand) ListInterestRatesResponse {
	res := make([]InterestRateBandResponse, len(bands))
	for i, b := range bands {
		res[i] = InterestRateBandResponse{AccountType: b.AccountType, MinBalance: b.MinBalance, MaxBalance: b.MaxBalance, Rate: b.Rate}
	}
	return ListInterestRatesResponse{Rates: res}
}
