package reporting

import (
	"sort"
	"time"

	"tally/internal/models"
)

// Summary contains period totals and percentage deltas versus the prior
// period. Change fields are nil when a comparison is not applicable: either
// the period has no comparison window, or the prior total was zero while the
// current total is not (a percentage would be misleading in both cases).
type Summary struct {
	TotalRevenue    int64    `json:"total_revenue"`
	TotalExpenses   int64    `json:"total_expenses"`
	NetProfit       int64    `json:"net_profit"`
	RevenueChange   *float64 `json:"revenue_change"`
	ExpenseChange   *float64 `json:"expense_change"`
	NetProfitChange *float64 `json:"net_profit_change"`
}

// CategoryTotal is one row of the expense breakdown.
type CategoryTotal struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

// MonthPoint is one month of the revenue/expense time series.
type MonthPoint struct {
	Year    int        `json:"year"`
	Month   time.Month `json:"month"`
	Label   string     `json:"label"`
	Revenue int64      `json:"revenue"`
	Expense int64      `json:"expense"`
}

// Summarize folds the transaction list into current-period revenue, expense,
// and net-profit totals plus percentage deltas against the prior period.
func Summarize(transactions []models.Transaction, period Period) Summary {
	var curRevenue, curExpense, prevRevenue, prevExpense int64

	for _, tx := range transactions {
		switch {
		case period.Contains(tx.Date):
			if tx.Type == models.TransactionTypeIncome {
				curRevenue += tx.Amount
			} else {
				curExpense += tx.Amount
			}
		case period.ContainsPrevious(tx.Date):
			if tx.Type == models.TransactionTypeIncome {
				prevRevenue += tx.Amount
			} else {
				prevExpense += tx.Amount
			}
		}
	}

	summary := Summary{
		TotalRevenue:  curRevenue,
		TotalExpenses: curExpense,
		NetProfit:     curRevenue - curExpense,
	}

	if period.HasPrevious {
		prevProfit := prevRevenue - prevExpense
		summary.RevenueChange = PercentChange(curRevenue, prevRevenue)
		summary.ExpenseChange = PercentChange(curExpense, prevExpense)
		summary.NetProfitChange = netProfitChange(summary.NetProfit, prevProfit)
	}
	return summary
}

// PercentChange computes (current-previous)/previous*100 with the zero
// policy: 0 when both totals are zero, nil (not applicable) when only the
// previous total is zero. It never returns Inf or NaN.
func PercentChange(current, previous int64) *float64 {
	if previous == 0 {
		if current == 0 {
			zero := 0.0
			return &zero
		}
		return nil
	}
	change := float64(current-previous) / float64(previous) * 100
	return &change
}

// netProfitChange uses the absolute value of the previous profit as divisor
// so the sign of the delta stays meaningful when the prior period was a loss.
func netProfitChange(current, previous int64) *float64 {
	if previous == 0 {
		if current == 0 {
			zero := 0.0
			return &zero
		}
		return nil
	}
	divisor := previous
	if divisor < 0 {
		divisor = -divisor
	}
	change := float64(current-previous) / float64(divisor) * 100
	return &change
}

// ExpenseBreakdown groups current-period expense transactions by category and
// sums their amounts, sorted descending by amount. Categories with no
// current-period expense are omitted.
func ExpenseBreakdown(transactions []models.Transaction, period Period) []CategoryTotal {
	totals := make(map[string]int64)
	for _, tx := range transactions {
		if tx.Type != models.TransactionTypeExpense || !period.Contains(tx.Date) {
			continue
		}
		totals[tx.Category] += tx.Amount
	}

	breakdown := make([]CategoryTotal, 0, len(totals))
	for category, amount := range totals {
		breakdown = append(breakdown, CategoryTotal{Category: category, Amount: amount})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Amount != breakdown[j].Amount {
			return breakdown[i].Amount > breakdown[j].Amount
		}
		return breakdown[i].Category < breakdown[j].Category
	})
	return breakdown
}

// MonthlySeries builds the trailing six calendar months of revenue/expense
// sums ending at now, sorted chronologically. The series is independent of
// the selected dashboard period, and months without transactions appear with
// zero totals so charts keep a continuous axis. Ordering is by (year, month),
// never by label, so series spanning a year boundary sort correctly.
func MonthlySeries(transactions []models.Transaction, now time.Time) []MonthPoint {
	const trailing = 6

	series := make([]MonthPoint, 0, trailing)
	index := make(map[[2]int]int, trailing)
	for i := trailing - 1; i >= 0; i-- {
		m := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		index[[2]int{m.Year(), int(m.Month())}] = len(series)
		series = append(series, MonthPoint{
			Year:  m.Year(),
			Month: m.Month(),
			Label: m.Format("Jan 2006"),
		})
	}

	for _, tx := range transactions {
		pos, ok := index[[2]int{tx.Date.Year(), int(tx.Date.Month())}]
		if !ok {
			continue
		}
		if tx.Type == models.TransactionTypeIncome {
			series[pos].Revenue += tx.Amount
		} else {
			series[pos].Expense += tx.Amount
		}
	}
	return series
}
