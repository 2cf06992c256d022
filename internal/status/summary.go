package status

import "github.com/erazemk/backoffice/internal/model"

// Count is one row of a status summary.
type Count struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// tally counts values in the order of keys, zero-filling missing keys and
// appending unexpected values in first-seen order. Empty values are skipped.
func tally(keys, values []string, label func(string) Label) []Count {
	counts := make(map[string]int, len(keys))
	var extra []string
	known := make(map[string]bool, len(keys))
	for _, k := range keys {
		known[k] = true
	}
	for _, v := range values {
		if v == "" {
			continue
		}
		if !known[v] && counts[v] == 0 {
			extra = append(extra, v)
		}
		counts[v]++
	}

	out := make([]Count, 0, len(keys)+len(extra))
	for _, k := range append(append([]string(nil), keys...), extra...) {
		out = append(out, Count{Key: k, Label: label(k).Text, Count: counts[k]})
	}
	return out
}

// ImportSummary counts intake items by dashboard badge.
func ImportSummary(items []model.Item) []Count {
	values := make([]string, len(items))
	for i := range items {
		values[i] = Badge(&items[i]).Key
	}
	return tally([]string{KeyReady, KeyReserved, KeyRepair, KeySold}, values, GlobalLabel)
}

// RepairSummary counts repair-service items by repair status.
func RepairSummary(items []model.Item) []Count {
	return workflowSummary(Repair, items)
}

// PawnSummary counts pawned items by pawn status.
func PawnSummary(items []model.Item) []Count {
	return workflowSummary(Pawn, items)
}

// PayoutSummary counts consigned items by whether their proceeds are due:
// sold items are completed, everything else is pending.
func PayoutSummary(items []model.Item) []Count {
	values := make([]string, len(items))
	for i := range items {
		values[i] = PayoutKey(&items[i])
	}
	return tally([]string{KeyCompleted, KeyPending}, values, GlobalLabel)
}

// PayoutKey returns COMPLETED for sold items and PENDING otherwise.
func PayoutKey(it *model.Item) string {
	if Normalize(it.Status) == KeySold {
		return KeyCompleted
	}
	return KeyPending
}

func workflowSummary(wf Workflow, items []model.Item) []Count {
	values := make([]string, len(items))
	for i := range items {
		values[i] = Current(&items[i], wf)
	}
	return tally(selectors[wf], values, func(k string) Label { return LabelOf(wf, k) })
}
