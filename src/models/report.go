package models

import "cloud.google.com/go/civil"

// KPISummary holds the headline sales figures of a month.
type KPISummary struct {
	Month        string             `json:"month"`
	Revenue      float64            `json:"revenue"`
	Invoices     int                `json:"invoices"` // distinct invoice numbers
	AvgTicket    float64            `json:"avg_ticket"`
	PaymentSplit map[string]float64 `json:"payment_split"` // gross by payment method
}

// DailyRevenue is one point of the daily revenue series.
type DailyRevenue struct {
	Date    civil.Date `json:"date"`
	Revenue float64    `json:"revenue"`
}

// DailySeries is the month's revenue per day, in date order.
type DailySeries struct {
	Month  string         `json:"month"`
	Series []DailyRevenue `json:"series"`
}

// CustomerRevenue is a customer with the gross total billed in the month.
type CustomerRevenue struct {
	Customer string  `json:"customer"`
	Revenue  float64 `json:"revenue"`
}

// ProductRevenue is a product with its gross total and quantity sold.
type ProductRevenue struct {
	Product  string  `json:"product"`
	Revenue  float64 `json:"revenue"`
	Quantity float64 `json:"quantity"`
}

// VATTotals aggregates taxable base, VAT and gross amounts.
type VATTotals struct {
	TaxableBase float64 `json:"taxable_base"`
	VATAmount   float64 `json:"vat_amount"`
	GrossAmount float64 `json:"gross_amount"`
}

// VATRateTotal is VATTotals for a single rate, e.g. "14%".
type VATRateTotal struct {
	Rate string `json:"rate"`
	VATTotals
}

// VATDay lists one day's totals per VAT rate.
type VATDay struct {
	Date   civil.Date     `json:"date"`
	ByRate []VATRateTotal `json:"by_rate"`
}

// VATReport is the monthly VAT breakdown.
type VATReport struct {
	Month        string         `json:"month"`
	Daily        []VATDay       `json:"daily"`
	TotalsByRate []VATRateTotal `json:"totals_by_rate"`
	GrandTotal   VATTotals      `json:"grand_total"`
}
