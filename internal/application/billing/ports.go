package billing

import (
	"context"
	"time"

	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
	"github.com/jhoicas/carpet-shop-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye repos de inventario y facturación.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// StockLedger interfaz para integrar facturación con inventario.
// Los métodos usan el repositorio del caller (misma transacción); si retornan error
// (ej: ErrInsufficientStock), el caller debe hacer rollback.
type StockLedger interface {
	DecrementInTx(ctx context.Context, items repository.ItemRepository, itemID string, n int, now time.Time) (*entity.Item, error)
	IncrementInTx(ctx context.Context, items repository.ItemRepository, itemID string, n int, now time.Time) (*entity.Item, error)
}

// InvoicePDFGenerator genera la representación gráfica (PDF) de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice) ([]byte, error)
}

// SignatureStorage guarda la imagen de la firma y devuelve su ruta pública.
type SignatureStorage interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, publicPath string) error
}

// SignatureProcessor normaliza la imagen de la firma antes de guardarla.
type SignatureProcessor interface {
	Process(data []byte) (out []byte, contentType, ext string, err error)
}
