package reporting

import (
	"sort"
	"strings"
	"time"

	"tally/internal/models"
)

// ActivityItem is a transaction projected to a display-friendly shape.
type ActivityItem struct {
	ID     uint      `json:"id"`
	Name   string    `json:"name"`
	Date   time.Time `json:"date"`
	Amount int64     `json:"amount"`
	Type   string    `json:"type"`
}

// RecentActivity returns the limit most recent transactions by date
// descending. Name falls back to the category when the description is empty;
// Type is lower-cased for display-class switching.
func RecentActivity(transactions []models.Transaction, limit int) []ActivityItem {
	sorted := make([]models.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].ID > sorted[j].ID
	})

	if limit > len(sorted) {
		limit = len(sorted)
	}

	items := make([]ActivityItem, 0, limit)
	for _, tx := range sorted[:limit] {
		name := tx.Description
		if name == "" {
			name = tx.Category
		}
		items = append(items, ActivityItem{
			ID:     tx.ID,
			Name:   name,
			Date:   tx.Date,
			Amount: tx.Amount,
			Type:   strings.ToLower(string(tx.Type)),
		})
	}
	return items
}
