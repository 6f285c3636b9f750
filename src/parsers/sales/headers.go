package sales

import (
	"strings"

	"github.com/username/finassist/backend/src/locale"
)

// Canonical sales fields. Column headers are mapped onto these names.
const (
	FieldDate          = "date"
	FieldInvoiceNumber = "invoiceNumber"
	FieldCustomer      = "customer"
	FieldProduct       = "product"
	FieldQuantity      = "quantity"
	FieldUnitPriceNet  = "unitPriceNet"
	FieldVATRate       = "vatRate"
	FieldNetAmount     = "netAmount"
	FieldVATAmount     = "vatAmount"
	FieldGrossAmount   = "grossAmount"
	FieldPaymentMethod = "paymentMethod"
)

// headerAliases lists the PT-PT column titles seen in sales exports.
var headerAliases = map[string][]string{
	FieldDate:          {"data"},
	FieldInvoiceNumber: {"fatura", "factura", "n° fatura", "nº fatura", "numero"},
	FieldCustomer:      {"cliente", "nome"},
	FieldProduct:       {"produto", "artigo", "descrição", "descricao"},
	FieldQuantity:      {"quantidade", "qtd"},
	FieldUnitPriceNet:  {"preço unitário", "preco unitario", "p.u.", "preço", "preco"},
	FieldVATRate:       {"taxa iva", "taxa", "iva %", "%iva"},
	FieldNetAmount:     {"valor liquido", "valor líquido", "liquido", "líquido", "base"},
	FieldVATAmount:     {"valor iva", "iva"},
	FieldGrossAmount:   {"valor total", "total", "bruto"},
	FieldPaymentMethod: {"pagamento", "forma pagamento", "metodo", "método"},
}

var (
	lowerAliasIndex  map[string]string
	foldedAliasIndex map[string]string
)

func init() {
	lowerAliasIndex = make(map[string]string)
	foldedAliasIndex = make(map[string]string)
	for field, aliases := range headerAliases {
		for _, alias := range aliases {
			lowerAliasIndex[strings.ToLower(alias)] = field
			foldedAliasIndex[locale.FoldText(alias)] = field
		}
	}
}

// NormalizeHeader maps a column title to its canonical field name. Matching
// ignores case, then accents. Unknown titles are returned unchanged.
func NormalizeHeader(header string) string {
	cleaned := strings.TrimSpace(header)
	if cleaned == "" {
		return header
	}
	if field, ok := lowerAliasIndex[strings.ToLower(cleaned)]; ok {
		return field
	}
	if field, ok := foldedAliasIndex[locale.FoldText(cleaned)]; ok {
		return field
	}
	return header
}
