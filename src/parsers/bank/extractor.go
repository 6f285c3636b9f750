// Package bank extracts transactions from the text of a PT-PT bank statement.
package bank

import (
	"regexp"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/username/finassist/backend/src/locale"
	"github.com/username/finassist/backend/src/logger"
	"github.com/username/finassist/backend/src/models"
)

const emptyDescription = "N/A"

var (
	leadingDate = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}|\d{1,2}[-/]\d{1,2}[-/]\d{4})`)
	// amounts such as "5.728,00"; a stray "." (as in "Lda.") is a zero token
	amountToken = regexp.MustCompile(`[\d.,]+`)
)

// Result is the outcome of extracting a statement.
type Result struct {
	Transactions []models.CanonicalBankTransaction
	Month        string // dominant "YYYY-MM", "" when no line matched
	LinesMatched int
	RawText      string
}

// Extractor converts statement text into canonical bank transactions.
type Extractor struct{}

// NewExtractor creates a new bank statement Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads one transaction per line that starts with a date. Lines
// without a leading date, or with an impossible one, are ignored.
func (e *Extractor) Extract(text string) Result {
	var (
		txs   []models.CanonicalBankTransaction
		dates []civil.Date
	)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		tx, ok := parseLine(line)
		if !ok {
			continue
		}
		txs = append(txs, tx)
		dates = append(dates, tx.Date)
	}

	logger.L.Debug("Bank statement extracted", "transactions", len(txs))

	return Result{
		Transactions: txs,
		Month:        locale.DominantMonth(dates),
		LinesMatched: len(txs),
		RawText:      text,
	}
}

func parseLine(line string) (models.CanonicalBankTransaction, bool) {
	match := leadingDate.FindString(line)
	if match == "" {
		return models.CanonicalBankTransaction{}, false
	}
	date, ok := locale.ParseDate(match)
	if !ok {
		return models.CanonicalBankTransaction{}, false
	}

	rest := strings.TrimSpace(line[len(match):])
	tokens := amountToken.FindAllString(rest, -1)
	n := len(tokens)

	tx := models.CanonicalBankTransaction{Date: date}
	description := rest

	if n >= 1 {
		tx.Balance = locale.ParseNumber(tokens[n-1])

		description = trimAmounts(rest, tokens[max(0, n-3):])

		lower := strings.ToLower(description)
		switch {
		case n >= 3:
			debit := locale.ParseNumber(tokens[n-3])
			credit := locale.ParseNumber(tokens[n-2])
			switch {
			case debit.IsPositive() && credit.IsZero():
				tx.Debit = valid(debit)
			case credit.IsPositive() && debit.IsZero():
				tx.Credit = valid(credit)
			case ambiguousAmountIsDebit(lower):
				tx.Debit = valid(debit)
				if credit.IsPositive() {
					tx.Credit = valid(credit)
				}
			default:
				tx.Credit = valid(credit)
				if debit.IsPositive() {
					tx.Debit = valid(debit)
				}
			}
		case n == 2:
			amount := locale.ParseNumber(tokens[0])
			if singleAmountIsCredit(lower) {
				tx.Credit = valid(amount)
			} else {
				tx.Debit = valid(amount)
			}
		}
	}

	class := Classify(description)
	tx.IsSettlement = class.IsSettlement
	tx.IsFee = class.IsFee
	tx.IsFeeVAT = class.IsFeeVAT

	if description == "" {
		description = emptyDescription
	}
	tx.Description = description
	return tx, true
}

// trimAmounts cuts the description at the last occurrence of each trailing
// amount token, in order. A token no longer found is skipped.
func trimAmounts(description string, trailing []string) string {
	for _, tok := range trailing {
		if i := strings.LastIndex(description, tok); i != -1 {
			description = strings.TrimSpace(description[:i])
		}
	}
	return description
}

func valid(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
