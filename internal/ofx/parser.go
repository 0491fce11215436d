// Package ofx imports bank statement exports (OFX/QFX) as ledger
// transactions. Credits map to income, debits to expense; imported
// entries land in the catch-all default categories until the user
// recategorizes them.
package ofx

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/finflow/finflow/internal/model"
)

// Entry is one statement transaction, already mapped onto the domain's
// income/expense vocabulary but not yet assigned a ledger id.
type Entry struct {
	FITID       string
	Date        model.Date
	Type        model.TransactionType
	Category    string
	Amount      float64
	Description string
}

// Parser parses OFX/QFX files.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocess fixes common formatting issues in bank-exported OFX files:
// leading whitespace before the header, mixed-case SEVERITY values, and
// SGML-style tags missing their closing bracket.
func (p *Parser) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	content = tagFixRegex.ReplaceAllString(content, "$1>")
	return content
}

// ParseFile parses an OFX/QFX document and returns its entries across
// all bank and credit card statements.
func (p *Parser) ParseFile(reader io.Reader) ([]Entry, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var entries []Entry
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			for _, tx := range stmt.BankTranList.Transactions {
				entries = append(entries, Convert(tx))
			}
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			for _, tx := range stmt.BankTranList.Transactions {
				entries = append(entries, Convert(tx))
			}
		}
	}

	slog.Info("parsed OFX file", "entries", len(entries))
	return entries, nil
}

// Convert maps one OFX transaction onto an Entry. OFX uses negative
// amounts for debits, so the sign decides income vs expense.
func Convert(tx ofxgo.Transaction) Entry {
	amount, _ := tx.TrnAmt.Float64()
	e := Entry{
		FITID:       string(tx.FiTID),
		Date:        model.NewDate(tx.DtPosted.Year(), tx.DtPosted.Month(), tx.DtPosted.Day()),
		Description: describe(tx),
	}
	if amount < 0 {
		e.Type = model.TypeExpense
		e.Category = "other_expense"
		e.Amount = -amount
	} else {
		e.Type = model.TypeIncome
		e.Category = "other_income"
		e.Amount = amount
	}
	return e
}

// describe extracts the cleanest available description from OFX data.
func describe(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && isGeneric(name) {
		name = strings.TrimSpace(string(tx.Memo))
	}

	for _, prefix := range []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	} {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	if name == "" {
		name = "Imported transaction"
	}
	return name
}

// isGeneric checks if a transaction name is too generic to be useful.
func isGeneric(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
