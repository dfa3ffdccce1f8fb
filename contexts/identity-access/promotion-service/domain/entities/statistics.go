package entities

import "bibliotheque/kernel/workflow"

type Statistics struct {
	Total         int     `json:"total"`
	Pending       int     `json:"pending"`
	Approved      int     `json:"approved"`
	Refused       int     `json:"refused"`
	Cancelled     int     `json:"cancelled"`
	MeanDelayDays float64 `json:"mean_delay_days"`
}

// Summarize counts requests per state and averages the processing time of
// decided ones.
func Summarize(requests []Request) Statistics {
	stats := Statistics{Total: len(requests)}
	var decided int
	var total float64
	for _, request := range requests {
		switch request.State {
		case StatePending:
			stats.Pending++
		case StateApproved:
			stats.Approved++
		case StateRefused:
			stats.Refused++
		case StateCancelled:
			stats.Cancelled++
		}
		if elapsed, ok := request.ProcessingTime(); ok {
			decided++
			total += float64(elapsed) / float64(workflow.Day)
		}
	}
	if decided > 0 {
		stats.MeanDelayDays = total / float64(decided)
	}
	return stats
}
