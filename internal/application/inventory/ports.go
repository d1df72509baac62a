package inventory

import (
	"context"

	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
	"github.com/jhoicas/carpet-shop-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando el repositorio de ítems atado a esa tx.
// Garantiza atomicidad para el ledger y las operaciones de costo.
type TxRunner interface {
	Run(ctx context.Context, fn func(itemRepo repository.ItemRepository) error) error
}

// BlobStorage guarda archivos binarios (imágenes de ítems, firmas) y devuelve la ruta pública.
type BlobStorage interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Delete borra por ruta pública; una ruta desconocida no es error.
	Delete(ctx context.Context, publicPath string) error
}

// ImageProcessor normaliza una imagen subida (decodifica, reduce y re-codifica).
// Devuelve los bytes resultantes, su content type y la extensión del archivo.
type ImageProcessor interface {
	Process(data []byte) (out []byte, contentType, ext string, err error)
}

// CatalogRenderer genera la exportación del catálogo en un formato concreto (PDF, XLSX).
type CatalogRenderer interface {
	RenderCatalog(ctx context.Context, items []*entity.Item) ([]byte, error)
}
