package model

// Budgets maps an expense category key to its monthly spending ceiling.
// A missing key (or a zero value) means the category is unbudgeted.
type Budgets map[string]float64

// Clone returns an independent copy of the budget map.
func (b Budgets) Clone() Budgets {
	out := make(Budgets, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
