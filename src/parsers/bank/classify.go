package bank

import "strings"

// Classification flags a statement line by its description keywords.
type Classification struct {
	IsSettlement bool
	IsFee        bool
	IsFeeVAT     bool
}

// keywordRule reports whether a lower-cased description matches.
type keywordRule func(desc string) bool

func containsAny(words ...string) keywordRule {
	return func(desc string) bool {
		for _, w := range words {
			if strings.Contains(desc, w) {
				return true
			}
		}
		return false
	}
}

func containsAll(words ...string) keywordRule {
	return func(desc string) bool {
		for _, w := range words {
			if !strings.Contains(desc, w) {
				return false
			}
		}
		return true
	}
}

func anyOf(rules ...keywordRule) keywordRule {
	return func(desc string) bool {
		for _, r := range rules {
			if r(desc) {
				return true
			}
		}
		return false
	}
}

func allOf(rules ...keywordRule) keywordRule {
	return func(desc string) bool {
		for _, r := range rules {
			if !r(desc) {
				return false
			}
		}
		return true
	}
}

var (
	mentionsCommission = containsAny("comissão", "comissao")

	// card terminal (TPA) batch close credited by the bank
	isSettlementDescription = anyOf(
		containsAny("fecho tpa", "fechotpa"),
		containsAll("tpa", "fecho"),
		containsAll("multicaixa", "credito"),
	)

	isFeeDescription = anyOf(
		mentionsCommission,
		containsAny("taxa"),
		containsAll("stc", "transf"),
	)

	isFeeVATDescription = allOf(containsAny("iva"), mentionsCommission)

	// used when a line has a single amount besides the balance
	singleAmountIsCredit = containsAny("credito", "fecho tpa", "deposito")

	// used when debit and credit columns are both zero or both set
	ambiguousAmountIsDebit = containsAny("debito", "pagamento", "transferencia")
)

// Classify applies the settlement and fee rules to a description.
func Classify(description string) Classification {
	desc := strings.ToLower(description)
	return Classification{
		IsSettlement: isSettlementDescription(desc),
		IsFee:        isFeeDescription(desc),
		IsFeeVAT:     isFeeVATDescription(desc),
	}
}
