package workflow

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"khawam-pro/pkg/utils"
)

// PrintingSpec is the typed form section for generic printing.
type PrintingSpec struct {
	Material  string  `json:"material"` // paper, vinyl, banner, sticker
	WidthCM   float64 `json:"widthCm"`
	HeightCM  float64 `json:"heightCm"`
	ColorMode string  `json:"colorMode"`
}

// The generic handler is the catch-all: its keyword list is broad and it is
// registered last, so any service that a specific handler did not claim but
// still looks like printing lands here.
var printingKeywords = []string{
	"print", "printing", "طباعة", "طباعه", "بنر", "ستيكر", "بوستر",
}

// PrintingHandler is the generic fallback for print services.
type PrintingHandler struct {
	quoter PriceQuoter
	logger *zap.Logger
}

// NewPrintingHandler creates the handler.
func NewPrintingHandler(quoter PriceQuoter, logger *zap.Logger) *PrintingHandler {
	return &PrintingHandler{quoter: quoter, logger: logger}
}

// Name implements Handler.
func (h *PrintingHandler) Name() string { return "generic_printing" }

// Matches implements Handler.
func (h *PrintingHandler) Matches(serviceName string, _ int64) bool {
	return utils.ContainsAnyKeyword(serviceName, printingKeywords)
}

// RenderStep implements Handler.
func (h *PrintingHandler) RenderStep(step StepRequest, form *FormState) (*StepView, bool) {
	spec := form.Printing
	if spec == nil {
		spec = &PrintingSpec{}
	}

	switch step.Type {
	case StepFiles:
		return filesStep(step, form, ""), true
	case StepPrintOptions:
		return &StepView{
			Number: step.Number,
			Type:   step.Type,
			Title:  "Print options",
			Fields: []FieldView{
				{Name: "material", Label: "Material", Kind: "select", Options: []string{"paper", "vinyl", "banner", "sticker"}, Required: true, Value: spec.Material},
				{Name: "colorMode", Label: "Color", Kind: "select", Options: []string{"bw", "color"}, Value: spec.ColorMode},
				{Name: "quantity", Label: "Quantity", Kind: "number", Required: true, Value: strconv.Itoa(form.Quantity)},
			},
		}, true
	case StepDimensions:
		return &StepView{
			Number: step.Number,
			Type:   step.Type,
			Title:  "Dimensions",
			Fields: []FieldView{
				{Name: "widthCm", Label: "Width (cm)", Kind: "number", Value: formatFloat(spec.WidthCM)},
				{Name: "heightCm", Label: "Height (cm)", Kind: "number", Value: formatFloat(spec.HeightCM)},
			},
		}, true
	case StepCustomerInfo:
		return customerInfoStep(step, form), true
	case StepNotes:
		return notesStep(step, form), true
	default:
		return nil, false
	}
}

// PrepareOrderData implements Handler. Generic printing tolerates a missing
// spec section: the order is still valid, priced from whatever the quoter
// can resolve.
func (h *PrintingHandler) PrepareOrderData(form *FormState, base OrderRequest) (OrderRequest, error) {
	total := h.CalculatePrice(context.Background(), form)
	item := buildItem(form, total, h.Specifications(form))
	return mergeBase(form, base, item), nil
}

// CalculatePrice implements Handler.
func (h *PrintingHandler) CalculatePrice(ctx context.Context, form *FormState) float64 {
	price, err := h.quoter.Quote(ctx, form.ServiceID, h.Specifications(form), normalizeQuantity(form.Quantity))
	if err != nil {
		h.logger.Warn("printing price lookup failed, degrading to zero",
			zap.Int64("serviceID", form.ServiceID),
			zap.Error(err))
		return 0
	}
	return price
}

// Specifications implements Handler.
func (h *PrintingHandler) Specifications(form *FormState) map[string]string {
	specs := map[string]string{
		"service_kind": h.Name(),
		"quantity":     strconv.Itoa(normalizeQuantity(form.Quantity)),
	}
	if spec := form.Printing; spec != nil {
		specs["material"] = spec.Material
		specs["color_mode"] = spec.ColorMode
		if spec.WidthCM > 0 && spec.HeightCM > 0 {
			specs["width_cm"] = formatFloat(spec.WidthCM)
			specs["height_cm"] = formatFloat(spec.HeightCM)
		}
	}
	return specs
}
