package model

import "time"

// Vendor — идентификатор источника товаров.
type Vendor string

const (
	// VendorA — Warung Klontong (таблица vendor_a_products).
	VendorA Vendor = "vendor-a"
	// VendorB — Distro Fashion (таблица vendor_b_products).
	VendorB Vendor = "vendor-b"
	// VendorC — Resto dan Kuliner (таблица products).
	VendorC Vendor = "vendor-c"
)

// Метки наличия товара.
const (
	StockAvailable = "ada"
	StockEmpty     = "habis"

	AvailabilityInStock    = "Tersedia"
	AvailabilityOutOfStock = "Habis"
)

// VendorAProduct — сырая запись vendor_a_products.
type VendorAProduct struct {
	// Code — kd_produk, первичный ключ
	Code string
	// Name — nm_brg
	Name string
	// ListPrice — hrg, десятичное число в виде строки
	ListPrice string
	// StockLabel — ket_stok: ada, habis
	StockLabel string
}

// VendorBProduct — сырая запись vendor_b_products.
type VendorBProduct struct {
	// SKU — первичный ключ
	SKU string
	// ProductName — product_name
	ProductName string
	// Price — цена
	Price float64
	// Availability — is_available: Tersedia, Habis
	Availability string
	// CreatedAt — время создания
	CreatedAt time.Time
}

// VendorCProduct — сырая запись таблицы products.
type VendorCProduct struct {
	// ID — первичный ключ (BIGSERIAL)
	ID int64
	// Name — название
	Name string
	// Category — категория (NULL допустим в схеме)
	Category *string
	// BasePrice — базовая цена
	BasePrice float64
	// Tax — налог
	Tax float64
	// FinalPrice — harga_final = BasePrice + Tax, вычисляется при записи
	FinalPrice float64
	// Stock — количество на складе
	Stock int
	// CreatedBy — username автора
	CreatedBy *string
	// CreatedAt — время создания
	CreatedAt time.Time
	// UpdatedBy — username последнего редактора
	UpdatedBy *string
	// UpdatedAt — время последнего обновления
	UpdatedAt *time.Time
}

// MaxPrice — верхняя граница любой цены (hrg, price, base_price, tax).
// Сумма base_price + tax остаётся конечной; то же ограничение
// стоит в CHECK-ограничениях таблиц.
const MaxPrice = 1_000_000_000_000

// RecomputeFinalPrice восстанавливает инвариант harga_final = base_price + tax.
func (p *VendorCProduct) RecomputeFinalPrice() {
	p.FinalPrice = p.BasePrice + p.Tax
}
