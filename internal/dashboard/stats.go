package dashboard

import "github.com/Makepad-fr/clientdash/internal/model"

// Statistics summarises a working set.
type Statistics struct {
	Total               int `json:"total"`
	Pending             int `json:"pending"`
	Confirmed           int `json:"confirmed"`
	PendingPercentage   int `json:"pendingPercentage"`
	ConfirmedPercentage int `json:"confirmedPercentage"`
}

// ComputeStatistics counts records by status in one pass. Percentages are
// rounded half up and are 0 for an empty set.
func ComputeStatistics(rs []model.Record) Statistics {
	var s Statistics
	s.Total = len(rs)
	for _, r := range rs {
		switch r.Status {
		case model.StatusPending:
			s.Pending++
		case model.StatusConfirmed:
			s.Confirmed++
		}
	}
	s.PendingPercentage = percent(s.Pending, s.Total)
	s.ConfirmedPercentage = percent(s.Confirmed, s.Total)
	return s
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return (200*n + total) / (2 * total)
}
