// Пакет format — нормализация записей вендоров в единый формат
// агрегированного списка /all-products.
//
// Все функции чистые: без обращений к БД и без побочных эффектов.
// Бизнес-правила:
//   - Vendor A: скидка 10% (harga_diskon = hrg * 0.9)
//   - Vendor B: без правил, только переименование полей
//   - Vendor C: категория "makanan" (без учёта регистра) → суффикс " (Recommended)"
package format

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/habibulloh333/project-uas-prod/internal/domain/model"
)

// Отображаемые имена вендоров.
const (
	LabelVendorA = "Vendor A (Warung Klontong)"
	LabelVendorB = "Vendor B (Distro Fashion)"
	LabelVendorC = "Vendor C (Resto dan Kuliner)"
)

const (
	// DiscountLabel — размер скидки Vendor A в отображаемом виде.
	DiscountLabel = "10%"
	// discountFactor — множитель цены после скидки.
	discountFactor = 0.9

	// recommendedCategory — категория Vendor C, получающая метку.
	recommendedCategory = "makanan"
	// RecommendedSuffix — суффикс названия рекомендованного товара.
	RecommendedSuffix = " (Recommended)"
)

// Описания применённых правил, возвращаются в applied_rules.
const (
	RuleVendorADiscount    = "Vendor A: Diskon 10%"
	RuleVendorCRecommended = "Vendor C (Food): Tambahan label (Recommended)"
)

// AppliedRules возвращает фиксированный список правил агрегации.
// Каждый вызов возвращает новый срез.
func AppliedRules() []string {
	return []string{RuleVendorADiscount, RuleVendorCRecommended}
}

// ParseError — некорректное числовое значение в сырой записи.
type ParseError struct {
	// Field — имя поля
	Field string
	// Value — исходное значение
	Value string
	// Err — причина
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("поле %s: некорректное число %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InvalidRecordError — в сырой записи отсутствует обязательное поле.
type InvalidRecordError struct {
	// Vendor — источник записи
	Vendor model.Vendor
	// Key — первичный ключ записи
	Key string
	// Field — отсутствующее поле
	Field string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("%s: запись %s без поля %s", e.Vendor, e.Key, e.Field)
}

// Item — нормализованная запись любого вендора.
type Item interface {
	// VendorLabel — отображаемое имя вендора.
	VendorLabel() string
}

// VendorAItem — нормализованная запись Vendor A.
type VendorAItem struct {
	Vendor          string  `json:"vendor"`
	Code            string  `json:"kd_produk"`
	Name            string  `json:"nm_brg"`
	ListPrice       float64 `json:"hrg"`
	Discount        string  `json:"diskon"`
	DiscountedPrice float64 `json:"harga_diskon"`
	StockLabel      string  `json:"ket_stok"`
}

// VendorLabel реализует Item.
func (i *VendorAItem) VendorLabel() string { return i.Vendor }

// VendorBItem — нормализованная запись Vendor B.
type VendorBItem struct {
	Vendor       string  `json:"vendor"`
	SKU          string  `json:"sku"`
	ProductName  string  `json:"productName"`
	Price        float64 `json:"price"`
	Availability string  `json:"isAvailable"`
}

// VendorLabel реализует Item.
func (i *VendorBItem) VendorLabel() string { return i.Vendor }

// VendorCItem — нормализованная запись Vendor C.
type VendorCItem struct {
	Vendor  string         `json:"vendor"`
	ID      int64          `json:"id"`
	Details VendorCDetails `json:"details"`
	Pricing VendorCPricing `json:"pricing"`
	Stock   string         `json:"stock"`
}

// VendorCDetails — блок details записи Vendor C.
type VendorCDetails struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// VendorCPricing — блок pricing записи Vendor C.
type VendorCPricing struct {
	BasePrice  float64 `json:"base_price"`
	Tax        float64 `json:"tax"`
	FinalPrice float64 `json:"harga_final"`
}

// VendorLabel реализует Item.
func (i *VendorCItem) VendorLabel() string { return i.Vendor }

// VendorA нормализует запись Vendor A и применяет скидку 10%.
// hrg разбирается как десятичное число без учёта локали;
// некорректная строка возвращает *ParseError.
func VendorA(p *model.VendorAProduct) (*VendorAItem, error) {
	price, err := ParseListPrice(p.ListPrice)
	if err != nil {
		return nil, err
	}

	return &VendorAItem{
		Vendor:          LabelVendorA,
		Code:            p.Code,
		Name:            p.Name,
		ListPrice:       price,
		Discount:        DiscountLabel,
		DiscountedPrice: price * discountFactor,
		StockLabel:      p.StockLabel,
	}, nil
}

// errNotFinite — десятичное значение не представимо конечным float64.
var errNotFinite = errors.New("значение вне диапазона float64")

// ParseListPrice разбирает hrg Vendor A в float64.
// Значение, не представимое конечным float64 (например "1e400"), — *ParseError.
func ParseListPrice(raw string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ParseError{Field: "hrg", Value: raw, Err: err}
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, &ParseError{Field: "hrg", Value: raw, Err: errNotFinite}
	}
	return f, nil
}

// VendorB нормализует запись Vendor B. Правил нет.
func VendorB(p *model.VendorBProduct) *VendorBItem {
	return &VendorBItem{
		Vendor:       LabelVendorB,
		SKU:          p.SKU,
		ProductName:  p.ProductName,
		Price:        p.Price,
		Availability: p.Availability,
	}
}

// VendorC нормализует запись Vendor C.
// Для категории "makanan" (без учёта регистра) к названию добавляется
// " (Recommended)"; stock > 0 → "ada", иначе "habis".
// Запись без категории возвращает *InvalidRecordError.
func VendorC(p *model.VendorCProduct) (*VendorCItem, error) {
	if p.Category == nil {
		return nil, &InvalidRecordError{
			Vendor: model.VendorC,
			Key:    strconv.FormatInt(p.ID, 10),
			Field:  "category",
		}
	}
	category := *p.Category

	return &VendorCItem{
		Vendor: LabelVendorC,
		ID:     p.ID,
		Details: VendorCDetails{
			Name:     RecommendedName(p.Name, category),
			Category: category,
		},
		Pricing: VendorCPricing{
			BasePrice:  p.BasePrice,
			Tax:        p.Tax,
			FinalPrice: p.FinalPrice,
		},
		Stock: StockLabel(p.Stock),
	}, nil
}

// RecommendedName возвращает название с меткой для категории "makanan".
func RecommendedName(name, category string) string {
	if strings.EqualFold(category, recommendedCategory) {
		return name + RecommendedSuffix
	}
	return name
}

// StockLabel переводит количество на складе в метку наличия.
func StockLabel(count int) string {
	if count > 0 {
		return model.StockAvailable
	}
	return model.StockEmpty
}
