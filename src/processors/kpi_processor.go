package processors

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/username/finassist/backend/src/models"
	"github.com/username/finassist/backend/src/utils"
)

type kpiProcessorImpl struct{}

// NewKPIProcessor creates a new instance of KPIProcessor.
func NewKPIProcessor() KPIProcessor {
	return &kpiProcessorImpl{}
}

func (p *kpiProcessorImpl) Summary(month string, sales []models.CanonicalSale) models.KPISummary {
	result := models.KPISummary{Month: month, PaymentSplit: map[string]float64{}}
	if len(sales) == 0 {
		return result
	}

	revenue := decimal.Zero
	invoices := make(map[string]bool)
	split := make(map[string]decimal.Decimal)
	for _, s := range sales {
		revenue = revenue.Add(s.GrossAmount)
		invoices[s.InvoiceNumber] = true
		split[s.PaymentMethod] = split[s.PaymentMethod].Add(s.GrossAmount)
	}

	result.Revenue = utils.RoundMoney(revenue)
	result.Invoices = len(invoices)
	result.AvgTicket = utils.RoundMoney(revenue.Div(decimal.NewFromInt(int64(len(invoices)))))
	for method, total := range split {
		result.PaymentSplit[method] = utils.RoundMoney(total)
	}
	return result
}

func (p *kpiProcessorImpl) Daily(month string, sales []models.CanonicalSale) models.DailySeries {
	byDay := make(map[civil.Date]decimal.Decimal)
	for _, s := range sales {
		byDay[s.Date] = byDay[s.Date].Add(s.GrossAmount)
	}

	series := make([]models.DailyRevenue, 0, len(byDay))
	for _, date := range DistinctSaleDates(sales) {
		series = append(series, models.DailyRevenue{Date: date, Revenue: utils.RoundMoney(byDay[date])})
	}
	return models.DailySeries{Month: month, Series: series}
}

func (p *kpiProcessorImpl) TopCustomers(sales []models.CanonicalSale, limit int) []models.CustomerRevenue {
	totals, order := groupGross(sales, func(s models.CanonicalSale) string { return s.Customer })

	out := make([]models.CustomerRevenue, 0, len(order))
	for _, name := range order {
		out = append(out, models.CustomerRevenue{Customer: name, Revenue: utils.RoundMoney(totals[name])})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	return truncate(out, limit)
}

func (p *kpiProcessorImpl) TopProducts(sales []models.CanonicalSale, limit int) []models.ProductRevenue {
	totals, order := groupGross(sales, func(s models.CanonicalSale) string { return s.Product })
	quantities := make(map[string]decimal.Decimal)
	for _, s := range sales {
		quantities[s.Product] = quantities[s.Product].Add(s.Quantity)
	}

	out := make([]models.ProductRevenue, 0, len(order))
	for _, name := range order {
		out = append(out, models.ProductRevenue{
			Product:  name,
			Revenue:  utils.RoundMoney(totals[name]),
			Quantity: utils.RoundMoney(quantities[name]),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	return truncate(out, limit)
}

// groupGross sums gross amounts by key, remembering first-seen key order.
func groupGross(sales []models.CanonicalSale, key func(models.CanonicalSale) string) (map[string]decimal.Decimal, []string) {
	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, s := range sales {
		k := key(s)
		if _, ok := totals[k]; !ok {
			order = append(order, k)
		}
		totals[k] = totals[k].Add(s.GrossAmount)
	}
	return totals, order
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
