// vendors.go — описания вендоров для CatalogService.
package service

import (
	"strconv"

	"github.com/habibulloh333/project-uas-prod/internal/domain/model"
)

// VendorASpec — Vendor A (Warung Klontong), ключ kd_produk.
var VendorASpec = VendorSpec[string, model.VendorAProduct]{
	Vendor:    model.VendorA,
	KeyOf:     func(p *model.VendorAProduct) string { return p.Code },
	KeyString: func(k string) string { return k },
}

// VendorBSpec — Vendor B (Distro Fashion), ключ sku.
var VendorBSpec = VendorSpec[string, model.VendorBProduct]{
	Vendor:    model.VendorB,
	KeyOf:     func(p *model.VendorBProduct) string { return p.SKU },
	KeyString: func(k string) string { return k },
}

// VendorCSpec — Vendor C (Resto dan Kuliner), ключ id.
// harga_final пересчитывается при каждой записи; автор фиксируется
// в created_by или updated_by.
var VendorCSpec = VendorSpec[int64, model.VendorCProduct]{
	Vendor:    model.VendorC,
	KeyOf:     func(p *model.VendorCProduct) int64 { return p.ID },
	KeyString: func(k int64) string { return strconv.FormatInt(k, 10) },
	BeforeCreate: func(p *model.VendorCProduct, actor string) {
		p.RecomputeFinalPrice()
		p.CreatedBy = optionalActor(actor)
	},
	BeforeUpdate: func(p *model.VendorCProduct, actor string) {
		p.RecomputeFinalPrice()
		p.UpdatedBy = optionalActor(actor)
	},
}

func optionalActor(actor string) *string {
	if actor == "" {
		return nil
	}
	return &actor
}

// Сервисы вендоров.
type (
	VendorAService = CatalogService[string, model.VendorAProduct]
	VendorBService = CatalogService[string, model.VendorBProduct]
	VendorCService = CatalogService[int64, model.VendorCProduct]
)
