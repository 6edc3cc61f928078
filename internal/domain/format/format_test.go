package format

import (
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"

	"github.com/habibulloh333/project-uas-prod/internal/domain/model"
)

func ptr[T any](v T) *T { return &v }

func TestVendorA_Scenario(t *testing.T) {
	item, err := VendorA(&model.VendorAProduct{
		Code: "A1", Name: "Kopi", ListPrice: "10000", StockLabel: model.StockAvailable,
	})
	if err != nil {
		t.Fatalf("VendorA: %v", err)
	}
	if item.Vendor != LabelVendorA {
		t.Errorf("vendor = %q, ожидалось %q", item.Vendor, LabelVendorA)
	}
	if item.ListPrice != 10000 {
		t.Errorf("hrg = %v, ожидалось 10000", item.ListPrice)
	}
	if item.DiscountedPrice != 9000.0 {
		t.Errorf("harga_diskon = %v, ожидалось 9000", item.DiscountedPrice)
	}
	if item.Discount != "10%" {
		t.Errorf("diskon = %q, ожидалось 10%%", item.Discount)
	}
	if item.Code != "A1" || item.Name != "Kopi" || item.StockLabel != "ada" {
		t.Errorf("поля не перенесены: %+v", item)
	}
}

func TestVendorA_DiscountProperty(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for range 500 {
		raw := strconv.FormatFloat(r.Float64()*1_000_000, 'f', r.IntN(4), 64)
		item, err := VendorA(&model.VendorAProduct{Code: "X", ListPrice: raw})
		if err != nil {
			t.Fatalf("VendorA(%q): %v", raw, err)
		}
		want, _ := strconv.ParseFloat(raw, 64)
		if item.ListPrice != want {
			t.Fatalf("hrg(%q) = %v, ожидалось %v", raw, item.ListPrice, want)
		}
		if item.DiscountedPrice != item.ListPrice*0.9 {
			t.Fatalf("harga_diskon(%q) = %v, ожидалось %v", raw, item.DiscountedPrice, item.ListPrice*0.9)
		}
		if item.Discount != DiscountLabel {
			t.Fatalf("diskon = %q", item.Discount)
		}
	}
}

func TestVendorA_ParseError(t *testing.T) {
	for _, raw := range []string{"", "abc", "10.000,50", "12a", "NaN", "1e400", "-1e400"} {
		t.Run(raw, func(t *testing.T) {
			_, err := VendorA(&model.VendorAProduct{Code: "A1", ListPrice: raw})
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("ожидалась *ParseError, получено %v", err)
			}
			if pe.Field != "hrg" || pe.Value != raw {
				t.Errorf("ParseError = %+v", pe)
			}
		})
	}
}

func TestVendorB_IdentityTransform(t *testing.T) {
	item := VendorB(&model.VendorBProduct{
		SKU: "B-1", ProductName: "Kaos", Price: 75000, Availability: model.AvailabilityInStock,
	})
	want := VendorBItem{
		Vendor: LabelVendorB, SKU: "B-1", ProductName: "Kaos", Price: 75000, Availability: "Tersedia",
	}
	if *item != want {
		t.Errorf("VendorB = %+v, ожидалось %+v", *item, want)
	}
}

func TestVendorC(t *testing.T) {
	tests := []struct {
		name      string
		category  string
		stock     int
		wantName  string
		wantStock string
	}{
		{name: "makanan", category: "makanan", stock: 5, wantName: "Nasi Goreng (Recommended)", wantStock: "ada"},
		{name: "регистр не важен", category: "MaKaNaN", stock: 1, wantName: "Nasi Goreng (Recommended)", wantStock: "ada"},
		{name: "минуман без метки", category: "minuman", stock: 0, wantName: "Nasi Goreng", wantStock: "habis"},
		{name: "пустая категория", category: "", stock: -1, wantName: "Nasi Goreng", wantStock: "habis"},
		{name: "makanan с пробелом", category: "makanan ", stock: 2, wantName: "Nasi Goreng", wantStock: "ada"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := VendorC(&model.VendorCProduct{
				ID: 7, Name: "Nasi Goreng", Category: ptr(tt.category),
				BasePrice: 20000, Tax: 2000, FinalPrice: 22000, Stock: tt.stock,
			})
			if err != nil {
				t.Fatalf("VendorC: %v", err)
			}
			if item.Details.Name != tt.wantName {
				t.Errorf("name = %q, ожидалось %q", item.Details.Name, tt.wantName)
			}
			if item.Details.Category != tt.category {
				t.Errorf("category = %q, ожидалось %q", item.Details.Category, tt.category)
			}
			if item.Stock != tt.wantStock {
				t.Errorf("stock = %q, ожидалось %q", item.Stock, tt.wantStock)
			}
			if item.Pricing != (VendorCPricing{BasePrice: 20000, Tax: 2000, FinalPrice: 22000}) {
				t.Errorf("pricing = %+v", item.Pricing)
			}
			if item.Vendor != LabelVendorC || item.ID != 7 {
				t.Errorf("vendor/id = %q/%d", item.Vendor, item.ID)
			}
		})
	}
}

func TestVendorC_RecommendedProperty(t *testing.T) {
	categories := []string{"makanan", "MAKANAN", "Makanan", "minuman", "snack", "", "makan", "makanan!"}
	for _, c := range categories {
		item, err := VendorC(&model.VendorCProduct{ID: 1, Name: "X", Category: ptr(c)})
		if err != nil {
			t.Fatalf("VendorC(%q): %v", c, err)
		}
		recommended := strings.EqualFold(c, "makanan")
		if got := strings.HasSuffix(item.Details.Name, " (Recommended)"); got != recommended {
			t.Errorf("категория %q: суффикс = %v, ожидалось %v", c, got, recommended)
		}
		if !recommended && item.Details.Name != "X" {
			t.Errorf("категория %q: имя изменено на %q", c, item.Details.Name)
		}
	}
}

func TestVendorC_MissingCategory(t *testing.T) {
	_, err := VendorC(&model.VendorCProduct{ID: 42, Name: "X"})
	var ie *InvalidRecordError
	if !errors.As(err, &ie) {
		t.Fatalf("ожидалась *InvalidRecordError, получено %v", err)
	}
	if ie.Key != "42" || ie.Field != "category" || ie.Vendor != model.VendorC {
		t.Errorf("InvalidRecordError = %+v", ie)
	}
}

func TestAppliedRules_Copy(t *testing.T) {
	rules := AppliedRules()
	if len(rules) != 2 || rules[0] != RuleVendorADiscount || rules[1] != RuleVendorCRecommended {
		t.Fatalf("AppliedRules = %v", rules)
	}
	rules[0] = "изменено"
	if AppliedRules()[0] != RuleVendorADiscount {
		t.Error("AppliedRules должен возвращать новый срез")
	}
}
