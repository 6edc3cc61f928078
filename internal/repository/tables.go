package repository

import (
	"github.com/jackc/pgx/v5"

	"github.com/habibulloh333/project-uas-prod/internal/domain/model"
)

// VendorATable — vendor_a_products (Warung Klontong).
// hrg читается как текст, чтобы сохранить десятичное значение без потерь.
var VendorATable = Table[string, model.VendorAProduct]{
	Name:    "vendor_a_products",
	Key:     "kd_produk",
	Columns: "kd_produk, nm_brg, hrg::text, ket_stok",
	Scan: func(row pgx.Row) (*model.VendorAProduct, error) {
		p := &model.VendorAProduct{}
		err := row.Scan(&p.Code, &p.Name, &p.ListPrice, &p.StockLabel)
		return p, err
	},
	Insert: "(kd_produk, nm_brg, hrg, ket_stok) VALUES ($1, $2, $3::numeric, $4)",
	InsertArgs: func(p *model.VendorAProduct) []any {
		return []any{p.Code, p.Name, p.ListPrice, p.StockLabel}
	},
	UpdateSet: "nm_brg = $2, hrg = $3::numeric, ket_stok = $4",
	UpdateArgs: func(p *model.VendorAProduct) []any {
		return []any{p.Name, p.ListPrice, p.StockLabel}
	},
}

// VendorBTable — vendor_b_products (Distro Fashion).
var VendorBTable = Table[string, model.VendorBProduct]{
	Name:    "vendor_b_products",
	Key:     "sku",
	Columns: "sku, product_name, price, is_available, created_at",
	Scan: func(row pgx.Row) (*model.VendorBProduct, error) {
		p := &model.VendorBProduct{}
		err := row.Scan(&p.SKU, &p.ProductName, &p.Price, &p.Availability, &p.CreatedAt)
		return p, err
	},
	Insert: "(sku, product_name, price, is_available) VALUES ($1, $2, $3, $4)",
	InsertArgs: func(p *model.VendorBProduct) []any {
		return []any{p.SKU, p.ProductName, p.Price, p.Availability}
	},
	UpdateSet: "product_name = $2, price = $3, is_available = $4",
	UpdateArgs: func(p *model.VendorBProduct) []any {
		return []any{p.ProductName, p.Price, p.Availability}
	},
}

// VendorCTable — products (Resto dan Kuliner).
// harga_final хранится вычисленным; вызывающий обязан пересчитать его перед записью.
var VendorCTable = Table[int64, model.VendorCProduct]{
	Name: "products",
	Key:  "id",
	Columns: `id, name, category, base_price, tax, harga_final, stock,
		created_by, created_at, updated_by, updated_at`,
	Scan: func(row pgx.Row) (*model.VendorCProduct, error) {
		p := &model.VendorCProduct{}
		err := row.Scan(
			&p.ID, &p.Name, &p.Category, &p.BasePrice, &p.Tax, &p.FinalPrice, &p.Stock,
			&p.CreatedBy, &p.CreatedAt, &p.UpdatedBy, &p.UpdatedAt,
		)
		return p, err
	},
	Insert: `(name, category, base_price, tax, harga_final, stock, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	InsertArgs: func(p *model.VendorCProduct) []any {
		return []any{p.Name, p.Category, p.BasePrice, p.Tax, p.FinalPrice, p.Stock, p.CreatedBy}
	},
	UpdateSet: `name = $2, category = $3, base_price = $4, tax = $5, harga_final = $6,
		stock = $7, updated_by = $8, updated_at = now()`,
	UpdateArgs: func(p *model.VendorCProduct) []any {
		return []any{p.Name, p.Category, p.BasePrice, p.Tax, p.FinalPrice, p.Stock, p.UpdatedBy}
	},
}

// NewVendorARepository создаёт репозиторий Vendor A.
func NewVendorARepository(db TxDB) *ProductRepository[string, model.VendorAProduct] {
	return NewProductRepository(db, VendorATable)
}

// NewVendorBRepository создаёт репозиторий Vendor B.
func NewVendorBRepository(db TxDB) *ProductRepository[string, model.VendorBProduct] {
	return NewProductRepository(db, VendorBTable)
}

// NewVendorCRepository создаёт репозиторий Vendor C.
func NewVendorCRepository(db TxDB) *ProductRepository[int64, model.VendorCProduct] {
	return NewProductRepository(db, VendorCTable)
}
