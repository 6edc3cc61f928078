// requests.go — схемы запросов и представления записей вендоров.
// Тело запроса проверяется здесь один раз; сервис получает готовую запись или патч.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/habibulloh333/project-uas-prod/internal/domain/model"
)

var errEmptyPatch = errors.New("нужно указать хотя бы одно поле для обновления")

// maxPriceDecimal — model.MaxPrice для сравнения с decimal.
var maxPriceDecimal = decimal.NewFromInt(model.MaxPrice)

func tooLarge(field string) error {
	return fmt.Errorf("поле %s не может превышать %d", field, int64(model.MaxPrice))
}

// requireString проверяет обязательную непустую строку.
func requireString(field string, v *string) (string, error) {
	if v == nil {
		return "", fmt.Errorf("поле %s обязательно", field)
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return "", fmt.Errorf("поле %s не может быть пустым", field)
	}
	return s, nil
}

// optionalString проверяет необязательную строку: если указана — непустая.
func optionalString(field string, v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	s, err := requireString(field, v)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// oneOf проверяет принадлежность значения множеству.
func oneOf(field, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("поле %s: допустимые значения — %s", field, strings.Join(allowed, ", "))
}

func parseStringKey(field string) func(string) (string, error) {
	return func(raw string) (string, error) {
		if strings.TrimSpace(raw) == "" {
			return "", fmt.Errorf("%s не может быть пустым", field)
		}
		return raw, nil
	}
}

// ----- Vendor A -----

type vendorARequest struct {
	Code       *string          `json:"kd_produk"`
	Name       *string          `json:"nm_brg"`
	ListPrice  *decimal.Decimal `json:"hrg"`
	StockLabel *string          `json:"ket_stok"`
}

type vendorAPatchRequest struct {
	Name       *string          `json:"nm_brg"`
	ListPrice  *decimal.Decimal `json:"hrg"`
	StockLabel *string          `json:"ket_stok"`
}

type vendorAView struct {
	Code       string      `json:"kd_produk"`
	Name       string      `json:"nm_brg"`
	ListPrice  json.Number `json:"hrg"`
	StockLabel string      `json:"ket_stok"`
}

func validListPrice(d *decimal.Decimal) error {
	if d.IsNegative() {
		return errors.New("поле hrg не может быть отрицательным")
	}
	if d.GreaterThan(maxPriceDecimal) {
		return tooLarge("hrg")
	}
	return nil
}

func validStockLabel(v string) error {
	return oneOf("ket_stok", v, model.StockAvailable, model.StockEmpty)
}

// VendorACodec — Vendor A: ключ kd_produk, hrg — десятичное число (строка или number).
var VendorACodec = VendorCodec[string, model.VendorAProduct]{
	ParseKey: parseStringKey("kd_produk"),
	DecodeCreate: func(w http.ResponseWriter, r *http.Request) (*model.VendorAProduct, error) {
		var req vendorARequest
		if err := decodeJSON(w, r, &req); err != nil {
			return nil, err
		}
		code, err := requireString("kd_produk", req.Code)
		if err != nil {
			return nil, err
		}
		name, err := requireString("nm_brg", req.Name)
		if err != nil {
			return nil, err
		}
		if req.ListPrice == nil {
			return nil, errors.New("поле hrg обязательно")
		}
		if err := validListPrice(req.ListPrice); err != nil {
			return nil, err
		}
		stock, err := requireString("ket_stok", req.StockLabel)
		if err != nil {
			return nil, err
		}
		if err := validStockLabel(stock); err != nil {
			return nil, err
		}
		return &model.VendorAProduct{
			Code: code, Name: name, ListPrice: req.ListPrice.String(), StockLabel: stock,
		}, nil
	},
	DecodePatch: func(w http.ResponseWriter, r *http.Request) (func(*model.VendorAProduct), error) {
		var req vendorAPatchRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return nil, err
		}
		if req.Name == nil && req.ListPrice == nil && req.StockLabel == nil {
			return nil, errEmptyPatch
		}
		name, err := optionalString("nm_brg", req.Name)
		if err != nil {
			return nil, err
		}
		if req.ListPrice != nil {
			if err := validListPrice(req.ListPrice); err != nil {
				return nil, err
			}
		}
		stock, err := optionalString("ket_stok", req.StockLabel)
		if err != nil {
			return nil, err
		}
		if stock != nil {
			if err := validStockLabel(*stock); err != nil {
				return nil, err
			}
		}
		return func(cur *model.VendorAProduct) {
			if name != nil {
				cur.Name = *name
			}
			if req.ListPrice != nil {
				cur.ListPrice = req.ListPrice.String()
			}
			if stock != nil {
				cur.StockLabel = *stock
			}
		}, nil
	},
	Present: func(p *model.VendorAProduct) any {
		return vendorAView{
			Code: p.Code, Name: p.Name, ListPrice: json.Number(p.ListPrice), StockLabel: p.StockLabel,
		}
	},
}

// ----- Vendor B -----

type vendorBRequest struct {
	SKU          *string  `json:"sku"`
	ProductName  *string  `json:"productName"`
	Price        *float64 `json:"price"`
	Availability *string  `json:"isAvailable"`
}

type vendorBPatchRequest struct {
	ProductName  *string  `json:"productName"`
	Price        *float64 `json:"price"`
	Availability *string  `json:"isAvailable"`
}

type vendorBView struct {
	SKU          string    `json:"sku"`
	ProductName  string    `json:"productName"`
	Price        float64   `json:"price"`
	Availability string    `json:"isAvailable"`
	CreatedAt    time.Time `json:"created_at"`
}

func validPrice(v float64) error {
	if v <= 0 {
		return errors.New("поле price должно быть больше 0")
	}
	if v > model.MaxPrice {
		return tooLarge("price")
	}
	return nil
}

func validAvailability(v string) error {
	return oneOf("isAvailable", v, model.AvailabilityInStock, model.AvailabilityOutOfStock)
}

// VendorBCodec — Vendor B: ключ sku, DELETE отвечает 204.
var VendorBCodec = VendorCodec[string, model.VendorBProduct]{
	ParseKey: parseStringKey("sku"),
	DecodeCreate: func(w http.ResponseWriter, r *http.Request) (*model.VendorBProduct, error) {
		var req vendorBRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return nil, err
		}
		sku, err := requireString("sku", req.SKU)
		if err != nil {
			return nil, err
		}
		name, err := requireString("productName", req.ProductName)
		if err != nil {
			return nil, err
		}
		if req.Price == nil {
			return nil, errors.New("поле price обязательно")
		}
		if err := validPrice(*req.Price); err != nil {
			return nil, err
		}
		avail, err := requireString("isAvailable", req.Availability)
		if err != nil {
			return nil, err
		}
		if err := validAvailability(avail); err != nil {
			return nil, err
		}
		return &model.VendorBProduct{SKU: sku, ProductName: name, Price: *req.Price, Availability: avail}, nil
	},
	DecodePatch: func(w http.ResponseWriter, r *http.Request) (func(*model.VendorBProduct), error) {
		var req vendorBPatchRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return nil, err
		}
		if req.ProductName == nil && req.Price == nil && req.Availability == nil {
			return nil, errEmptyPatch
		}
		name, err := optionalString("productName", req.ProductName)
		if err != nil {
			return nil, err
		}
		if req.Price != nil {
			if err := validPrice(*req.Price); err != nil {
				return nil, err
			}
		}
		avail, err := optionalString("isAvailable", req.Availability)
		if err != nil {
			return nil, err
		}
		if avail != nil {
			if err := validAvailability(*avail); err != nil {
				return nil, err
			}
		}
		return func(cur *model.VendorBProduct) {
			if name != nil {
				cur.ProductName = *name
			}
			if req.Price != nil {
				cur.Price = *req.Price
			}
			if avail != nil {
				cur.Availability = *avail
			}
		}, nil
	},
	Present: func(p *model.VendorBProduct) any {
		return vendorBView{
			SKU: p.SKU, ProductName: p.ProductName, Price: p.Price,
			Availability: p.Availability, CreatedAt: p.CreatedAt,
		}
	},
	DeleteNoContent: true,
}

// ----- Vendor C -----

// vendorCRequest — тело POST. harga_final не принимается: вычисляется сервером.
type vendorCRequest struct {
	Name      *string  `json:"name"`
	Category  *string  `json:"category"`
	BasePrice *float64 `json:"base_price"`
	Tax       *float64 `json:"tax"`
	Stock     *int     `json:"stock"`
}

// vendorCPatchRequest — тело PUT, все поля необязательны.
type vendorCPatchRequest struct {
	Name      *string  `json:"name"`
	Category  *string  `json:"category"`
	BasePrice *float64 `json:"base_price"`
	Tax       *float64 `json:"tax"`
	Stock     *int     `json:"stock"`
}

type vendorCView struct {
	ID      int64 `json:"id"`
	Details struct {
		Name     string  `json:"name"`
		Category *string `json:"category"`
	} `json:"details"`
	Pricing struct {
		BasePrice  float64 `json:"base_price"`
		Tax        float64 `json:"tax"`
		FinalPrice float64 `json:"harga_final"`
	} `json:"pricing"`
	Stock     int        `json:"stock"`
	CreatedBy *string    `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedBy *string    `json:"updated_by"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// validAmount проверяет необязательную сумму Vendor C: 0 <= v <= MaxPrice.
func validAmount(field string, v *float64) error {
	switch {
	case v == nil:
		return nil
	case *v < 0:
		return fmt.Errorf("поле %s не может быть отрицательным", field)
	case *v > model.MaxPrice:
		return tooLarge(field)
	}
	return nil
}

func validStock(v *int) error {
	if v != nil && *v < 0 {
		return errors.New("поле stock не может быть отрицательным")
	}
	return nil
}

// VendorCCodec — Vendor C: целочисленный ключ id, harga_final вычисляется сервером.
var VendorCCodec = VendorCodec[int64, model.VendorCProduct]{
	ParseKey: func(raw string) (int64, error) {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return 0, errors.New("id должен быть положительным целым числом")
		}
		return id, nil
	},
	DecodeCreate: func(w http.ResponseWriter, r *http.Request) (*model.VendorCProduct, error) {
		var req vendorCRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return nil, err
		}
		name, err := requireString("name", req.Name)
		if err != nil {
			return nil, err
		}
		category, err := requireString("category", req.Category)
		if err != nil {
			return nil, err
		}
		if req.BasePrice == nil {
			return nil, errors.New("поле base_price обязательно")
		}
		if err := validAmount("base_price", req.BasePrice); err != nil {
			return nil, err
		}
		if err := validAmount("tax", req.Tax); err != nil {
			return nil, err
		}
		if err := validStock(req.Stock); err != nil {
			return nil, err
		}

		p := &model.VendorCProduct{Name: name, Category: &category, BasePrice: *req.BasePrice}
		if req.Tax != nil {
			p.Tax = *req.Tax
		}
		if req.Stock != nil {
			p.Stock = *req.Stock
		}
		return p, nil
	},
	DecodePatch: func(w http.ResponseWriter, r *http.Request) (func(*model.VendorCProduct), error) {
		var req vendorCPatchRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return nil, err
		}
		if req.Name == nil && req.Category == nil && req.BasePrice == nil && req.Tax == nil && req.Stock == nil {
			return nil, errEmptyPatch
		}
		name, err := optionalString("name", req.Name)
		if err != nil {
			return nil, err
		}
		category, err := optionalString("category", req.Category)
		if err != nil {
			return nil, err
		}
		if err := validAmount("base_price", req.BasePrice); err != nil {
			return nil, err
		}
		if err := validAmount("tax", req.Tax); err != nil {
			return nil, err
		}
		if err := validStock(req.Stock); err != nil {
			return nil, err
		}
		return func(cur *model.VendorCProduct) {
			if name != nil {
				cur.Name = *name
			}
			if category != nil {
				cur.Category = category
			}
			if req.BasePrice != nil {
				cur.BasePrice = *req.BasePrice
			}
			if req.Tax != nil {
				cur.Tax = *req.Tax
			}
			if req.Stock != nil {
				cur.Stock = *req.Stock
			}
		}, nil
	},
	Present: func(p *model.VendorCProduct) any {
		v := vendorCView{
			ID: p.ID, Stock: p.Stock,
			CreatedBy: p.CreatedBy, CreatedAt: p.CreatedAt,
			UpdatedBy: p.UpdatedBy, UpdatedAt: p.UpdatedAt,
		}
		v.Details.Name = p.Name
		v.Details.Category = p.Category
		v.Pricing.BasePrice = p.BasePrice
		v.Pricing.Tax = p.Tax
		v.Pricing.FinalPrice = p.FinalPrice
		return v
	},
}
