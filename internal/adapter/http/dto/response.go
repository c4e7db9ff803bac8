package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/minibank/internal/domain"
	"github.com/iho/minibank/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID                 string          `json:"id"`
	AccountNumber      string          `json:"account_number"`
	HolderName         string          `json:"holder_name"`
	Balance            decimal.Decimal `json:"balance"`
	DailyTransferLimit decimal.Decimal `json:"daily_transfer_limit"`
	Status             string          `json:"status"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:                 a.ID,
		AccountNumber:      a.AccountNumber,
		HolderName:         a.HolderName,
		Balance:            a.Balance,
		DailyTransferLimit: a.DailyTransferLimit,
		Status:             string(a.Status),
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// BalanceResponse represents an account balance lookup.
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// TransactionResponse represents a transfer transaction in API responses.
type TransactionResponse struct {
	ID               string          `json:"id"`
	ReferenceNo      string          `json:"reference_no"`
	FromAccountID    string          `json:"from_account_id"`
	ToAccountID      string          `json:"to_account_id"`
	Amount           decimal.Decimal `json:"amount"`
	Status           string          `json:"status"`
	FraudCheckStatus string          `json:"fraud_check_status"`
	Description      string          `json:"description,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:               t.ID,
		ReferenceNo:      t.ReferenceNo,
		FromAccountID:    t.FromAccountID,
		ToAccountID:      t.ToAccountID,
		Amount:           t.Amount,
		Status:           string(t.Status),
		FraudCheckStatus: string(t.FraudCheckStatus),
		Description:      t.Description,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// DailyBalanceResponse represents one account's end-of-day summary.
type DailyBalanceResponse struct {
	AccountID           string          `json:"account_id"`
	AccountNumber       string          `json:"account_number"`
	HolderName          string          `json:"holder_name"`
	OpeningBalance      decimal.Decimal `json:"opening_balance"`
	ClosingBalance      decimal.Decimal `json:"closing_balance"`
	AverageDailyBalance decimal.Decimal `json:"average_daily_balance"`
	TransactionCount    int             `json:"transaction_count"`
}

// DailyReportResponse represents the end-of-day reconciliation report.
type DailyReportResponse struct {
	ReportDate             string                 `json:"report_date"`
	TotalTransactions      int                    `json:"total_transactions"`
	CompletedCount         int                    `json:"completed_count"`
	RejectedCount          int                    `json:"rejected_count"`
	PendingCount           int                    `json:"pending_count"`
	FailedCount            int                    `json:"failed_count"`
	TotalAmountTransferred decimal.Decimal        `json:"total_amount_transferred"`
	Accounts               []DailyBalanceResponse `json:"accounts"`
}

// DailyReportFromDomain converts a reconciliation report to a response.
func DailyReportFromDomain(report *usecase.DailyReport) *DailyReportResponse {
	accounts := make([]DailyBalanceResponse, len(report.PerAccount))
	for i, a := range report.PerAccount {
		accounts[i] = DailyBalanceResponse{
			AccountID:           a.AccountID,
			AccountNumber:       a.AccountNumber,
			HolderName:          a.HolderName,
			OpeningBalance:      a.OpeningBalance,
			ClosingBalance:      a.ClosingBalance,
			AverageDailyBalance: a.AverageDailyBalance,
			TransactionCount:    a.TransactionCount,
		}
	}

	return &DailyReportResponse{
		ReportDate:             report.ReportDate.Format("2006-01-02"),
		TotalTransactions:      report.TotalTransactions,
		CompletedCount:         report.CompletedCount,
		RejectedCount:          report.RejectedCount,
		PendingCount:           report.PendingCount,
		FailedCount:            report.FailedCount,
		TotalAmountTransferred: report.TotalAmountTransferred,
		Accounts:               accounts,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
