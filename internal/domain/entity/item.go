package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tamaños de alfombra admitidos (enumeración cerrada).
const (
	SizeKoochik     = "koochik"
	SizePoshti      = "poshti"
	SizeZarcharak   = "zarcharak"
	SizeZarnim      = "zarnim"
	SizeGhalicheh   = "ghalicheh"
	SizePardeei     = "pardeei"
	SizeSixMeter    = "six_meter"
	SizeNineMeter   = "nine_meter"
	SizeTwelveMeter = "twelve_meter"
	SizeLarger      = "larger"
)

// Formas de pago de la compra de un ítem.
const (
	PaymentCash        = "cash"
	PaymentCheck       = "check"
	PaymentInstallment = "installment"
	PaymentMixed       = "mixed"
)

// Sizes enumeración ordenada de tamaños, de menor a mayor.
var Sizes = []string{
	SizeKoochik, SizePoshti, SizeZarcharak, SizeZarnim, SizeGhalicheh,
	SizePardeei, SizeSixMeter, SizeNineMeter, SizeTwelveMeter, SizeLarger,
}

// sizeLabels etiqueta en persa de cada tamaño (usada en exportaciones).
var sizeLabels = map[string]string{
	SizeKoochik:     "کوچیک",
	SizePoshti:      "پشتی",
	SizeZarcharak:   "زرچارک",
	SizeZarnim:      "زرنیم",
	SizeGhalicheh:   "قالیچه",
	SizePardeei:     "پرده‌ای",
	SizeSixMeter:    "شش متری",
	SizeNineMeter:   "نه متری",
	SizeTwelveMeter: "12 متری",
	SizeLarger:      "بزرگ‌تر",
}

// ValidSize indica si s pertenece a la enumeración de tamaños.
func ValidSize(s string) bool {
	_, ok := sizeLabels[s]
	return ok
}

// SizeLabel devuelve la etiqueta legible del tamaño (o el código si no se conoce).
func SizeLabel(s string) string {
	if l, ok := sizeLabels[s]; ok {
		return l
	}
	return s
}

// ValidPaymentMethod indica si m es una forma de pago de compra válida.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCheck, PaymentInstallment, PaymentMixed:
		return true
	}
	return false
}

// Item representa una alfombra en inventario. Quantity es el saldo del ledger.
// Los ítems en consignación se valoran por OwnerDeclaredPrice en lugar de PurchasePrice.
type Item struct {
	ID                 string
	Pattern            string
	Brand              string
	Material           string
	Size               string
	Description        string
	PaymentMethod      string
	PurchasePrice      decimal.Decimal
	SalePrice          *decimal.Decimal
	Quantity           int
	PurchaseDate       *time.Time
	SellerName         string
	HasPair            bool
	ImagePath          string
	IsConsignment      bool
	ConsignmentOwner   string
	OwnerDeclaredPrice *decimal.Decimal
	ConsignmentDate    *time.Time
	IsDeleted          bool
	DeletedAt          *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	LastEditedAt       time.Time

	Operations []*ItemOperation
}

// ItemOperation evento que suma costo a un ítem (lavado, reparación, flete...).
type ItemOperation struct {
	ID            string
	ItemID        string
	Name          string
	Price         decimal.Decimal
	Description   string
	OperationDate time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
