package models

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// CanonicalBankTransaction is one dated line of a bank statement.
// Debit and Credit are optional; Balance is always present.
type CanonicalBankTransaction struct {
	ID           int64               `json:"id,omitempty"` // Database primary key
	Date         civil.Date          `json:"date"`
	Description  string              `json:"description"`
	Debit        decimal.NullDecimal `json:"debit"`
	Credit       decimal.NullDecimal `json:"credit"`
	Balance      decimal.Decimal     `json:"balance"`
	IsSettlement bool                `json:"is_settlement"` // card terminal (TPA) settlement credit
	IsFee        bool                `json:"is_fee"`
	IsFeeVAT     bool                `json:"is_fee_vat"` // VAT charged on a bank commission
}

// CreditOrZero returns the credit amount, or zero when absent.
func (t CanonicalBankTransaction) CreditOrZero() decimal.Decimal {
	if t.Credit.Valid {
		return t.Credit.Decimal
	}
	return decimal.Zero
}

// DebitOrZero returns the debit amount, or zero when absent.
func (t CanonicalBankTransaction) DebitOrZero() decimal.Decimal {
	if t.Debit.Valid {
		return t.Debit.Decimal
	}
	return decimal.Zero
}

// TxFilter narrows a bank transaction query by classification.
type TxFilter int

const (
	FilterAll        TxFilter = iota
	FilterSettlement          // IsSettlement
	FilterFee                 // IsFee or IsFeeVAT
)

// Matches reports whether tx passes the filter.
func (f TxFilter) Matches(tx CanonicalBankTransaction) bool {
	switch f {
	case FilterSettlement:
		return tx.IsSettlement
	case FilterFee:
		return tx.IsFee || tx.IsFeeVAT
	}
	return true
}

// FeeDetail is a bank fee line for the fee breakdown report.
type FeeDetail struct {
	Date        civil.Date `json:"date"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	Category    string     `json:"category"`
}
