package ofx

import (
	"testing"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/stretchr/testify/assert"

	"github.com/finflow/finflow/internal/model"
)

func ofxTx(amount int64, name, memo string) ofxgo.Transaction {
	tx := ofxgo.Transaction{
		FiTID: "FITID-1",
		Name:  ofxgo.String(name),
		Memo:  ofxgo.String(memo),
		DtPosted: ofxgo.Date{
			Time: time.Date(2024, time.June, 15, 13, 45, 0, 0, time.UTC),
		},
	}
	tx.TrnAmt.SetFrac64(amount, 100)
	return tx
}

func TestConvertDebitBecomesExpense(t *testing.T) {
	e := Convert(ofxTx(-1250, "COFFEE SHOP", ""))

	assert.Equal(t, "FITID-1", e.FITID)
	assert.Equal(t, model.TypeExpense, e.Type)
	assert.Equal(t, "other_expense", e.Category)
	assert.Equal(t, 12.5, e.Amount)
	assert.Equal(t, "2024-06-15", e.Date.String())
	assert.Equal(t, "COFFEE SHOP", e.Description)
}

func TestConvertCreditBecomesIncome(t *testing.T) {
	e := Convert(ofxTx(300000, "ACME PAYROLL", ""))

	assert.Equal(t, model.TypeIncome, e.Type)
	assert.Equal(t, "other_income", e.Category)
	assert.Equal(t, 3000.0, e.Amount)
}

func TestConvertPrefersPayeeName(t *testing.T) {
	tx := ofxTx(-500, "DEBIT", "card 1234")
	tx.Payee = &ofxgo.Payee{Name: "  Corner Grocery  "}

	e := Convert(tx)
	assert.Equal(t, "Corner Grocery", e.Description)
}

func TestConvertGenericNameFallsBackToMemo(t *testing.T) {
	e := Convert(ofxTx(-500, "PURCHASE", "Corner Grocery #42"))
	assert.Equal(t, "Corner Grocery #42", e.Description)
}

func TestConvertStripsProcessorPrefix(t *testing.T) {
	e := Convert(ofxTx(-500, "POS PURCHASE Corner Grocery", ""))
	assert.Equal(t, "Corner Grocery", e.Description)
}

func TestConvertEmptyNameGetsPlaceholder(t *testing.T) {
	e := Convert(ofxTx(-500, "", ""))
	assert.Equal(t, "Imported transaction", e.Description)
}

func TestPreprocess(t *testing.T) {
	p := NewParser()

	in := "\r\n  OFXHEADER:100\n<SEVERITY>Info</SEVERITY>\n<TRNAMT\n"
	got := p.preprocess(in)

	assert.True(t, len(got) > 0 && got[0] == 'O', "leading whitespace trimmed")
	assert.Contains(t, got, "<SEVERITY>INFO</SEVERITY>")
	assert.Contains(t, got, "<TRNAMT>")
}
