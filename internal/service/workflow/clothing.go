package workflow

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"khawam-pro/pkg/utils"
)

// ClothingSpec is the typed form section for clothing printing.
type ClothingSpec struct {
	Source       string   `json:"source"` // "shop" garments or "customer" supplied
	GarmentType  string   `json:"garmentType"`
	GarmentSize  string   `json:"garmentSize"`
	GarmentColor string   `json:"garmentColor"`
	PrintSide    string   `json:"printSide"` // front, back, both
	DesignNotes  string   `json:"designNotes"`
	DesignURLs   []string `json:"designUrls"`
}

var clothingKeywords = []string{
	"clothing", "t-shirt", "tshirt", "shirt", "apparel",
	"ملابس", "قميص", "تيشيرت", "بلوزة",
}

// ClothingHandler owns clothing print orders.
type ClothingHandler struct {
	quoter PriceQuoter
	logger *zap.Logger
}

// NewClothingHandler creates the handler.
func NewClothingHandler(quoter PriceQuoter, logger *zap.Logger) *ClothingHandler {
	return &ClothingHandler{quoter: quoter, logger: logger}
}

// Name implements Handler.
func (h *ClothingHandler) Name() string { return "clothing_printing" }

// Matches implements Handler.
func (h *ClothingHandler) Matches(serviceName string, _ int64) bool {
	return utils.ContainsAnyKeyword(serviceName, clothingKeywords)
}

// RenderStep implements Handler.
func (h *ClothingHandler) RenderStep(step StepRequest, form *FormState) (*StepView, bool) {
	spec := form.Clothing
	if spec == nil {
		spec = &ClothingSpec{}
	}

	switch step.Type {
	case StepClothingSource:
		return &StepView{
			Number: step.Number,
			Type:   step.Type,
			Title:  "Garment source",
			Fields: []FieldView{
				{Name: "source", Label: "Garments provided by", Kind: "select", Options: []string{"shop", "customer"}, Required: true, Value: spec.Source},
				{Name: "garmentType", Label: "Garment type", Kind: "select", Options: []string{"tshirt", "polo", "hoodie", "cap"}, Required: true, Value: spec.GarmentType},
				{Name: "garmentSize", Label: "Size", Kind: "select", Options: []string{"S", "M", "L", "XL", "XXL"}, Value: spec.GarmentSize},
				{Name: "garmentColor", Label: "Color", Kind: "text", Value: spec.GarmentColor},
			},
		}, true
	case StepClothingDesigns:
		return &StepView{
			Number: step.Number,
			Type:   step.Type,
			Title:  "Designs",
			Fields: []FieldView{
				{Name: "designFiles", Label: "Design files", Kind: "file", Required: true},
				{Name: "printSide", Label: "Print side", Kind: "select", Options: []string{"front", "back", "both"}, Required: true, Value: spec.PrintSide},
				{Name: "quantity", Label: "Pieces", Kind: "number", Required: true, Value: strconv.Itoa(form.Quantity)},
			},
		}, true
	case StepFiles:
		return filesStep(step, form, "image/*"), true
	case StepCustomerInfo:
		return customerInfoStep(step, form), true
	case StepNotes:
		return notesStep(step, form), true
	default:
		return nil, false
	}
}

// PrepareOrderData implements Handler.
func (h *ClothingHandler) PrepareOrderData(form *FormState, base OrderRequest) (OrderRequest, error) {
	if form.Clothing == nil {
		return base, fmt.Errorf("clothing details missing from form state")
	}
	total := h.CalculatePrice(context.Background(), form)
	item := buildItem(form, total, h.Specifications(form))
	item.DesignFiles = append(item.DesignFiles, form.Clothing.DesignURLs...)
	return mergeBase(form, base, item), nil
}

// CalculatePrice implements Handler.
func (h *ClothingHandler) CalculatePrice(ctx context.Context, form *FormState) float64 {
	if form.Clothing == nil {
		h.logger.Warn("clothing price requested without clothing details")
		return 0
	}

	price, err := h.quoter.Quote(ctx, form.ServiceID, h.Specifications(form), normalizeQuantity(form.Quantity))
	if err != nil {
		h.logger.Warn("clothing price lookup failed, degrading to zero",
			zap.Int64("serviceID", form.ServiceID),
			zap.Error(err))
		return 0
	}
	return price
}

// Specifications implements Handler.
func (h *ClothingHandler) Specifications(form *FormState) map[string]string {
	specs := map[string]string{
		"service_kind": h.Name(),
		"quantity":     strconv.Itoa(normalizeQuantity(form.Quantity)),
	}
	if spec := form.Clothing; spec != nil {
		specs["source"] = spec.Source
		specs["garment_type"] = spec.GarmentType
		specs["garment_size"] = spec.GarmentSize
		specs["garment_color"] = spec.GarmentColor
		specs["print_side"] = spec.PrintSide
		if spec.DesignNotes != "" {
			specs["design_notes"] = spec.DesignNotes
		}
	}
	return specs
}
