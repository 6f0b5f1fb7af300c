package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	apperrors "tally/internal/errors"
	"tally/internal/reporting"
)

// reportService exports transaction reports.
type reportService struct {
	transactions TransactionServicer
}

// NewReportService creates a new ReportServicer.
func NewReportService(transactions TransactionServicer) ReportServicer {
	return &reportService{transactions: transactions}
}

// ExportTransactionsCSV streams the user's transactions for the given period
// as CSV, ordered by date descending. Amounts are converted from cents to
// decimal dollars only here, at the display boundary.
func (s *reportService) ExportTransactionsCSV(w io.Writer, userID uint, key reporting.PeriodKey, now time.Time) error {
	period := reporting.ResolvePeriod(key, now)

	var from *time.Time
	if !period.Start.IsZero() {
		from = &period.Start
	}
	end := period.End
	transactions, err := s.transactions.GetAllUserTransactions(userID, from, &end)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "date", "type", "category", "amount", "description"}); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for _, tx := range transactions {
		record := []string{
			strconv.FormatUint(uint64(tx.ID), 10),
			tx.Date.Format("2006-01-02"),
			string(tx.Type),
			tx.Category,
			formatDollars(tx.Amount),
			tx.Description,
		}
		if err := writer.Write(record); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// formatDollars renders a cent amount as a decimal dollar string.
func formatDollars(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
