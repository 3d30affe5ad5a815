package notification

import (
	"sort"
	"time"

	"fitstudio/internal/subscription"
)

// SelectLowCredit keeps, per client, the current subscription and reports the clients
// whose balance is below threshold. Ordered by credits, then name, then client id.
func SelectLowCredit(rows []Candidate, threshold int, now time.Time) []LowCreditClient {
	byClient := make(map[int64][]Candidate)
	var order []int64
	for _, row := range rows {
		if _, seen := byClient[row.ClientID]; !seen {
			order = append(order, row.ClientID)
		}
		byClient[row.ClientID] = append(byClient[row.ClientID], row)
	}

	out := []LowCreditClient{}
	for _, clientID := range order {
		cands := byClient[clientID]
		subs := make([]subscription.ClientSubscription, len(cands))
		for i, c := range cands {
			subs[i] = subscription.ClientSubscription{
				ID:               c.SubscriptionID,
				ClientID:         c.ClientID,
				EndDate:          c.EndDate,
				CreditsTotal:     c.CreditsTotal,
				CreditsRemaining: c.CreditsRemaining,
				Status:           subscription.Status(c.Status),
				CreatedAt:        c.CreatedAt,
			}
		}

		current, ok := subscription.ResolveCurrent(subs, now)
		if !ok || current.CreditsRemaining >= threshold {
			continue
		}

		var picked Candidate
		for _, c := range cands {
			if c.SubscriptionID == current.ID {
				picked = c
				break
			}
		}

		out = append(out, LowCreditClient{
			ClientID:         picked.ClientID,
			Name:             picked.ClientName,
			Email:            picked.ClientEmail,
			SubscriptionID:   picked.SubscriptionID,
			PlanID:           picked.PlanID,
			PlanName:         picked.PlanName,
			CreditsRemaining: picked.CreditsRemaining,
			CreditsTotal:     picked.CreditsTotal,
			EndDate:          picked.EndDate,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreditsRemaining != out[j].CreditsRemaining {
			return out[i].CreditsRemaining < out[j].CreditsRemaining
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ClientID < out[j].ClientID
	})
	return out
}

// Summarize counts the alert list. ByPlan is ordered by count, then plan name.
func Summarize(clients []LowCreditClient) Stats {
	stats := Stats{Total: len(clients), ByPlan: []PlanCount{}}

	index := make(map[int64]int)
	for _, c := range clients {
		switch c.CreditsRemaining {
		case 0:
			stats.ZeroCredits++
		case 1:
			stats.OneCredit++
		}

		i, ok := index[c.PlanID]
		if !ok {
			i = len(stats.ByPlan)
			index[c.PlanID] = i
			stats.ByPlan = append(stats.ByPlan, PlanCount{PlanID: c.PlanID, PlanName: c.PlanName})
		}
		stats.ByPlan[i].Count++
	}

	sort.SliceStable(stats.ByPlan, func(i, j int) bool {
		if stats.ByPlan[i].Count != stats.ByPlan[j].Count {
			return stats.ByPlan[i].Count > stats.ByPlan[j].Count
		}
		return stats.ByPlan[i].PlanName < stats.ByPlan[j].PlanName
	})
	return stats
}
