package processors

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/username/finassist/backend/src/locale"
	"github.com/username/finassist/backend/src/models"
)

// amounts may differ by rounding up to this much before they are flagged
var AmountTolerance = decimal.RequireFromString("0.02")

type anomalyProcessorImpl struct{}

// NewAnomalyProcessor creates a new instance of AnomalyProcessor.
func NewAnomalyProcessor() AnomalyProcessor {
	return &anomalyProcessorImpl{}
}

type duplicateKey struct {
	invoice string
	product string
}

// Scan runs the arithmetic, month, sign and duplicate checks, in that order.
func (p *anomalyProcessorImpl) Scan(month string, sales []models.CanonicalSale) models.AnomalyReport {
	anomalies := []models.Anomaly{}

	for _, s := range sales {
		expectedVAT := s.NetAmount.Mul(s.VATRate).Div(hundred)
		if diff := s.VATAmount.Sub(expectedVAT).Abs(); diff.GreaterThan(AmountTolerance) {
			anomalies = append(anomalies, models.Anomaly{
				Kind:     models.AnomalyInconsistentTotal,
				Severity: models.SeverityWarning,
				Message:  fmt.Sprintf("VAT amount mismatch: expected %s, got %s", expectedVAT.StringFixed(2), s.VATAmount.StringFixed(2)),
				Record: models.AnomalyRecord{
					Date:      s.Date.String(),
					Invoice:   s.InvoiceNumber,
					Product:   s.Product,
					NetAmount: ptr(s.NetAmount),
					VATRate:   ptr(s.VATRate),
					VATAmount: ptr(s.VATAmount),
					Expected:  ptr(expectedVAT),
					Actual:    ptr(s.VATAmount),
					Delta:     ptr(diff),
				},
			})
		}

		expectedGross := s.NetAmount.Add(s.VATAmount)
		if diff := s.GrossAmount.Sub(expectedGross).Abs(); diff.GreaterThan(AmountTolerance) {
			anomalies = append(anomalies, models.Anomaly{
				Kind:     models.AnomalyInconsistentTotal,
				Severity: models.SeverityWarning,
				Message:  fmt.Sprintf("Gross amount mismatch: expected %s, got %s", expectedGross.StringFixed(2), s.GrossAmount.StringFixed(2)),
				Record: models.AnomalyRecord{
					Date:        s.Date.String(),
					Invoice:     s.InvoiceNumber,
					Product:     s.Product,
					NetAmount:   ptr(s.NetAmount),
					VATAmount:   ptr(s.VATAmount),
					GrossAmount: ptr(s.GrossAmount),
					Expected:    ptr(expectedGross),
					Actual:      ptr(s.GrossAmount),
					Delta:       ptr(diff),
				},
			})
		}
	}

	for _, s := range sales {
		if locale.MonthOf(s.Date) != month {
			anomalies = append(anomalies, models.Anomaly{
				Kind:     models.AnomalyInvalidDate,
				Severity: models.SeverityError,
				Message:  fmt.Sprintf("Date %s does not match month %s", s.Date, month),
				Record: models.AnomalyRecord{
					Date:    s.Date.String(),
					Invoice: s.InvoiceNumber,
					Product: s.Product,
				},
			})
		}
	}

	for _, s := range sales {
		if s.GrossAmount.IsNegative() || s.NetAmount.IsNegative() {
			anomalies = append(anomalies, models.Anomaly{
				Kind:     models.AnomalyNegative,
				Severity: models.SeverityWarning,
				Message:  "Negative amount detected (possibly a credit note)",
				Record: models.AnomalyRecord{
					Date:        s.Date.String(),
					Invoice:     s.InvoiceNumber,
					Product:     s.Product,
					NetAmount:   ptr(s.NetAmount),
					GrossAmount: ptr(s.GrossAmount),
				},
			})
		}
	}

	groups := make(map[duplicateKey][]models.CanonicalSale)
	var order []duplicateKey
	for _, s := range sales {
		key := duplicateKey{invoice: s.InvoiceNumber, product: s.Product}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], s)
	}
	for _, key := range order {
		group := groups[key]
		if len(group) < 2 {
			continue
		}
		dates := make([]string, len(group))
		for i, s := range group {
			dates[i] = s.Date.String()
		}
		anomalies = append(anomalies, models.Anomaly{
			Kind:     models.AnomalyDuplicate,
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("Potential duplicate: %d records with same invoice and product", len(group)),
			Record: models.AnomalyRecord{
				Invoice: key.invoice,
				Product: key.product,
				Count:   len(group),
				Dates:   dates,
			},
		})
	}

	return models.AnomalyReport{
		Month:     month,
		Anomalies: anomalies,
		Summary:   summarizeAnomalies(anomalies),
	}
}

func summarizeAnomalies(anomalies []models.Anomaly) models.AnomalySummary {
	summary := models.AnomalySummary{Total: len(anomalies)}
	for _, a := range anomalies {
		switch a.Severity {
		case models.SeverityError:
			summary.Errors++
		case models.SeverityWarning:
			summary.Warnings++
		}
	}
	return summary
}

func ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
