package services

import (
	"time"

	"tally/internal/reporting"
)

// recentActivityLimit is the number of transactions shown in the dashboard's
// recent-activity card.
const recentActivityLimit = 5

// dashboardService computes the dashboard payload from the user's flat
// transaction list. The whole set is fetched once: the monthly series always
// covers the trailing six months regardless of the selected period, so a
// period-bounded fetch would not be enough.
type dashboardService struct {
	transactions TransactionServicer
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(transactions TransactionServicer) DashboardServicer {
	return &dashboardService{transactions: transactions}
}

// GetDashboard aggregates the user's transactions for the given period key.
func (s *dashboardService) GetDashboard(userID uint, key reporting.PeriodKey, now time.Time) (*Dashboard, error) {
	transactions, err := s.transactions.GetAllUserTransactions(userID, nil, nil)
	if err != nil {
		return nil, err
	}

	period := reporting.ResolvePeriod(key, now)
	return &Dashboard{
		Period:           key,
		Summary:          reporting.Summarize(transactions, period),
		ExpenseBreakdown: reporting.ExpenseBreakdown(transactions, period),
		MonthlySeries:    reporting.MonthlySeries(transactions, now),
		RecentActivity:   reporting.RecentActivity(transactions, recentActivityLimit),
	}, nil
}
