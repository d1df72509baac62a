package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear una alfombra.
type CreateItemRequest struct {
	Pattern            string                   `json:"pattern" validate:"max=255"`
	Brand              string                   `json:"brand" validate:"max=255"`
	Material           string                   `json:"material" validate:"max=255"`
	Size               string                   `json:"size" validate:"required"`
	Description        string                   `json:"description"`
	PaymentMethod      string                   `json:"payment_method" validate:"required,oneof=cash check installment mixed"`
	PurchasePrice      decimal.Decimal          `json:"purchase_price"`
	SalePrice          *decimal.Decimal         `json:"sale_price"`
	Quantity           *int                     `json:"quantity" validate:"omitempty,min=0"`
	PurchaseDate       *time.Time               `json:"purchase_date"`
	SellerName         string                   `json:"seller_name" validate:"max=255"`
	HasPair            bool                     `json:"has_pair"`
	IsConsignment      bool                     `json:"is_consignment"`
	ConsignmentOwner   string                   `json:"consignment_owner" validate:"max=255"`
	OwnerDeclaredPrice *decimal.Decimal         `json:"owner_declared_price"`
	ConsignmentDate    *time.Time               `json:"consignment_date"`
	Operations         []CreateOperationRequest `json:"operations" validate:"dive"`
}

// UpdateItemRequest patch explícito: solo se aplican los campos presentes.
// Quantity no es editable aquí; la existencia la mueve el ledger.
type UpdateItemRequest struct {
	Pattern            *string          `json:"pattern" validate:"omitempty,max=255"`
	Brand              *string          `json:"brand" validate:"omitempty,max=255"`
	Material           *string          `json:"material" validate:"omitempty,max=255"`
	Size               *string          `json:"size"`
	Description        *string          `json:"description"`
	PaymentMethod      *string          `json:"payment_method" validate:"omitempty,oneof=cash check installment mixed"`
	PurchasePrice      *decimal.Decimal `json:"purchase_price"`
	SalePrice          *decimal.Decimal `json:"sale_price"`
	PurchaseDate       *time.Time       `json:"purchase_date"`
	SellerName         *string          `json:"seller_name" validate:"omitempty,max=255"`
	HasPair            *bool            `json:"has_pair"`
	IsConsignment      *bool            `json:"is_consignment"`
	ConsignmentOwner   *string          `json:"consignment_owner" validate:"omitempty,max=255"`
	OwnerDeclaredPrice *decimal.Decimal `json:"owner_declared_price"`
	ConsignmentDate    *time.Time       `json:"consignment_date"`
}

// ItemListRequest filtros del catálogo (query string).
type ItemListRequest struct {
	Size           string `query:"size"`
	Material       string `query:"material"`
	Search         string `query:"search"`
	AvailableOnly  bool   `query:"available_only"`
	IncludeDeleted bool   `query:"include_deleted"`
	PageRequest
}

// CreateOperationRequest entrada para agregar una operación de costo.
type CreateOperationRequest struct {
	Name          string          `json:"operation_name" validate:"required,max=255"`
	Price         decimal.Decimal `json:"price"`
	Description   string          `json:"description"`
	OperationDate *time.Time      `json:"operation_date"`
}

// UpdateOperationRequest patch de una operación.
type UpdateOperationRequest struct {
	Name          *string          `json:"operation_name" validate:"omitempty,min=1,max=255"`
	Price         *decimal.Decimal `json:"price"`
	Description   *string          `json:"description"`
	OperationDate *time.Time       `json:"operation_date"`
}

// OperationResponse operación de costo.
type OperationResponse struct {
	ID            string          `json:"id"`
	ItemID        string          `json:"carpet_id"`
	Name          string          `json:"operation_name"`
	Price         decimal.Decimal `json:"price"`
	Description   string          `json:"description"`
	OperationDate time.Time       `json:"operation_date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ItemResponse salida de una alfombra con costo total calculado.
type ItemResponse struct {
	ID                  string              `json:"id"`
	Pattern             string              `json:"pattern"`
	Brand               string              `json:"brand"`
	Material            string              `json:"material"`
	Size                string              `json:"size"`
	SizeLabel           string              `json:"size_label"`
	Description         string              `json:"description"`
	PaymentMethod       string              `json:"payment_method"`
	PurchasePrice       decimal.Decimal     `json:"purchase_price"`
	SalePrice           *decimal.Decimal    `json:"sale_price,omitempty"`
	Quantity            int                 `json:"quantity"`
	PurchaseDate        *time.Time          `json:"purchase_date,omitempty"`
	SellerName          string              `json:"seller_name,omitempty"`
	HasPair             bool                `json:"has_pair"`
	ImagePath           string              `json:"image_path,omitempty"`
	IsConsignment       bool                `json:"is_consignment"`
	ConsignmentOwner    string              `json:"consignment_owner,omitempty"`
	OwnerDeclaredPrice  *decimal.Decimal    `json:"owner_declared_price,omitempty"`
	ConsignmentDate     *time.Time          `json:"consignment_date,omitempty"`
	IsDeleted           bool                `json:"is_deleted"`
	DeletedAt           *time.Time          `json:"deleted_at,omitempty"`
	TotalOperationsCost decimal.Decimal     `json:"total_operations_cost"`
	TotalCost           decimal.Decimal     `json:"total_cost"`
	Operations          []OperationResponse `json:"operations"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
	LastEditedAt        time.Time           `json:"last_edited_at"`
}

// ItemListResponse lista paginada del catálogo.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
