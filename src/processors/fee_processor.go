package processors

import (
	"strings"

	"github.com/username/finassist/backend/src/models"
	"github.com/username/finassist/backend/src/utils"
)

// Fee categories.
const (
	FeeCategoryCommission    = "Commission"
	FeeCategoryCommissionVAT = "Commission VAT"
	FeeCategoryTransfer      = "Transfer Fee"
)

type feeProcessorImpl struct{}

func NewFeeProcessor() FeeProcessor {
	return &feeProcessorImpl{}
}

// Process lists the debits of fee lines. Amounts are negative (a cost),
// matching how the bank books them.
func (p *feeProcessorImpl) Process(txs []models.CanonicalBankTransaction) []models.FeeDetail {
	feeDetails := []models.FeeDetail{}
	for _, tx := range txs {
		if !tx.IsFee && !tx.IsFeeVAT {
			continue
		}
		if !tx.Debit.Valid {
			// fee lines without a debit don't count towards reconciliation either
			continue
		}

		category := FeeCategoryCommission
		switch {
		case tx.IsFeeVAT:
			category = FeeCategoryCommissionVAT
		case isTransferFee(tx.Description):
			category = FeeCategoryTransfer
		}

		feeDetails = append(feeDetails, models.FeeDetail{
			Date:        tx.Date,
			Description: tx.Description,
			Amount:      utils.RoundMoney(tx.Debit.Decimal.Neg()),
			Category:    category,
		})
	}
	return feeDetails
}

func isTransferFee(description string) bool {
	return strings.Contains(strings.ToLower(description), "transf")
}
