package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/username/finassist/backend/src/security"
)

// RegisterRoutes mounts the health check and the /api routes on r. A nil
// authService leaves /api unauthenticated.
func RegisterRoutes(r chi.Router, uploadHandler *UploadHandler, reconHandler *ReconHandler, reportHandler *ReportHandler, authService *security.AuthService) {
	r.Get("/health", HandleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(authService))

		r.Post("/files/upload", uploadHandler.HandleUpload)

		r.Get("/recon/card", reconHandler.HandleGetCardReconciliation)
		r.Post("/recon/card/recompute", reconHandler.HandleRecompute)
		r.Get("/recon/fees", reconHandler.HandleGetFees)

		r.Get("/quality/anomalies", reportHandler.HandleGetAnomalies)

		r.Get("/kpi/summary", reportHandler.HandleGetKPISummary)
		r.Get("/kpi/daily", reportHandler.HandleGetDailyRevenue)
		r.Get("/kpi/top-customers", reportHandler.HandleGetTopCustomers)
		r.Get("/kpi/top-products", reportHandler.HandleGetTopProducts)

		r.Get("/vat/report", reportHandler.HandleGetVATReport)
		r.Get("/export/vat.csv", reportHandler.HandleExportVATCSV)

		r.Get("/sales", reportHandler.HandleGetSales)
		r.Get("/bank-transactions", reportHandler.HandleGetBankTransactions)
		r.Get("/latest-month", reportHandler.HandleGetLatestMonth)
		r.Delete("/data", reportHandler.HandleDeleteMonth)
	})
}
