package model

// Backup is the complete exportable snapshot of user data. Its JSON shape
// mirrors the four persisted records exactly, so an export can be
// re-imported without translation.
type Backup struct {
	Transactions []Transaction `json:"transactions"`
	Categories   []Category    `json:"categories"`
	Budgets      Budgets       `json:"budgets"`
	Currency     Currency      `json:"currency"`
}
