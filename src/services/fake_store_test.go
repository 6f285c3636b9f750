package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/username/finassist/backend/src/models"
)

type monthSale struct {
	month string
	sale  models.CanonicalSale
}

type monthTx struct {
	month string
	tx    models.CanonicalBankTransaction
}

// fakeStore keeps everything in memory. failUpsert makes UpsertReconciliationDay
// fail for the listed dates; failBankSave makes SaveBankUpload fail.
type fakeStore struct {
	mu           sync.Mutex
	uploads      []models.UploadedFile
	sales        []monthSale
	txs          []monthTx
	recon        map[string]models.ReconciliationDay
	failUpsert   map[civil.Date]bool
	failBankSave bool
	salesCalls   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{recon: map[string]models.ReconciliationDay{}, failUpsert: map[civil.Date]bool{}}
}

func (f *fakeStore) SaveSalesUpload(_ context.Context, file *models.UploadedFile, sales []models.CanonicalSale) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	file.ID = int64(len(f.uploads) + 1)
	f.uploads = append(f.uploads, *file)
	for _, s := range sales {
		f.sales = append(f.sales, monthSale{month: file.Month, sale: s})
	}
	return nil
}

func (f *fakeStore) SaveBankUpload(_ context.Context, file *models.UploadedFile, txs []models.CanonicalBankTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failBankSave {
		return errors.New("database is locked")
	}
	file.ID = int64(len(f.uploads) + 1)
	f.uploads = append(f.uploads, *file)
	for _, tx := range txs {
		f.txs = append(f.txs, monthTx{month: file.Month, tx: tx})
	}
	return nil
}

func (f *fakeStore) UpdateUploadDuration(_ context.Context, id int64, durationMs int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads[id-1].DurationMs = durationMs
	return nil
}

func (f *fakeStore) UpsertReconciliationDay(_ context.Context, d models.ReconciliationDay) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpsert[d.Date] {
		return errors.New("disk full")
	}
	f.recon[d.Month+"|"+d.Date.String()] = d
	return nil
}

func (f *fakeStore) SalesForMonth(_ context.Context, month string) ([]models.CanonicalSale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.salesCalls++
	out := []models.CanonicalSale{}
	for _, s := range f.sales {
		if s.month == month {
			out = append(out, s.sale)
		}
	}
	return out, nil
}

func (f *fakeStore) TransactionsForMonth(_ context.Context, month string) ([]models.CanonicalBankTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.CanonicalBankTransaction{}
	for _, t := range f.txs {
		if t.month == month {
			out = append(out, t.tx)
		}
	}
	return out, nil
}

func (f *fakeStore) TransactionsInWindow(_ context.Context, month string, start, end civil.Date, filter models.TxFilter) ([]models.CanonicalBankTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.CanonicalBankTransaction{}
	for _, t := range f.txs {
		if t.month != month || t.tx.Date.Before(start) || t.tx.Date.After(end) || !filter.Matches(t.tx) {
			continue
		}
		out = append(out, t.tx)
	}
	return out, nil
}

func (f *fakeStore) ReconciliationForMonth(_ context.Context, month string) ([]models.ReconciliationDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.ReconciliationDay{}
	for _, d := range f.recon {
		if d.Month == month {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeStore) LatestMonth(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.uploads) - 1; i >= 0; i-- {
		if f.uploads[i].Month != "" {
			return f.uploads[i].Month, nil
		}
	}
	return "", nil
}

func (f *fakeStore) DeleteMonth(_ context.Context, month string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	var uploads []models.UploadedFile
	for _, u := range f.uploads {
		if u.Month == month {
			deleted++
			continue
		}
		uploads = append(uploads, u)
	}
	f.uploads = uploads

	var sales []monthSale
	for _, s := range f.sales {
		if s.month != month {
			sales = append(sales, s)
		}
	}
	f.sales = sales

	var txs []monthTx
	for _, t := range f.txs {
		if t.month != month {
			txs = append(txs, t)
		}
	}
	f.txs = txs

	for k, d := range f.recon {
		if d.Month == month {
			delete(f.recon, k)
		}
	}
	return deleted, nil
}
