package workflow

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"

	"khawam-pro/pkg/utils"
)

// CertificateSpec is the typed form section for Quran memorization
// certificates.
type CertificateSpec struct {
	WidthCM  float64 `json:"widthCm"`
	HeightCM float64 `json:"heightCm"`
	CardType string  `json:"cardType"`
	Text     string  `json:"text"`
}

// Certificate pricing. The baseline is the classic 50x70 certificate: its
// area (3500 cm2) prices at basePrice * certificateFactor, and other sizes
// scale linearly by area. Card stock applies a multiplier on top.
const (
	certificateBasePrice = 1000.0
	certificateFactor    = 1.5
	baselineAreaCM2      = 3500.0
)

var cardTypeMultipliers = map[string]float64{
	"canson":   1.0,
	"matte":    1.1,
	"glossy":   1.15,
	"textured": 1.25,
	"wooden":   1.6,
}

var certificateKeywords = []string{
	"quran", "certificate", "ijaza",
	"قرآن", "القرآن", "إجازة", "اجازة", "شهادة",
}

// CertificateHandler owns Quran certificate orders. Pricing is a pure local
// formula; no remote call is made.
type CertificateHandler struct {
	logger *zap.Logger
}

// NewCertificateHandler creates the handler.
func NewCertificateHandler(logger *zap.Logger) *CertificateHandler {
	return &CertificateHandler{logger: logger}
}

// Name implements Handler.
func (h *CertificateHandler) Name() string { return "quran_certificate" }

// Matches implements Handler.
func (h *CertificateHandler) Matches(serviceName string, _ int64) bool {
	return utils.ContainsAnyKeyword(serviceName, certificateKeywords)
}

// RenderStep implements Handler.
func (h *CertificateHandler) RenderStep(step StepRequest, form *FormState) (*StepView, bool) {
	spec := form.Certificate
	if spec == nil {
		spec = &CertificateSpec{}
	}

	switch step.Type {
	case StepDimensions:
		return &StepView{
			Number: step.Number,
			Type:   step.Type,
			Title:  "Certificate dimensions",
			Fields: []FieldView{
				{Name: "widthCm", Label: "Width (cm)", Kind: "number", Required: true, Value: formatFloat(spec.WidthCM)},
				{Name: "heightCm", Label: "Height (cm)", Kind: "number", Required: true, Value: formatFloat(spec.HeightCM)},
			},
		}, true
	case StepCardType:
		options := make([]string, 0, len(cardTypeMultipliers))
		for name := range cardTypeMultipliers {
			options = append(options, name)
		}
		return &StepView{
			Number: step.Number,
			Type:   step.Type,
			Title:  "Card stock",
			Fields: []FieldView{
				{Name: "cardType", Label: "Card type", Kind: "select", Options: options, Required: true, Value: spec.CardType},
				{Name: "quantity", Label: "Quantity", Kind: "number", Required: true, Value: strconv.Itoa(form.Quantity)},
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

// PrepareOrderData implements Handler.
func (h *CertificateHandler) PrepareOrderData(form *FormState, base OrderRequest) (OrderRequest, error) {
	if form.Certificate == nil {
		return base, fmt.Errorf("certificate details missing from form state")
	}
	total := h.CalculatePrice(context.Background(), form)
	item := buildItem(form, total, h.Specifications(form))
	return mergeBase(form, base, item), nil
}

// CalculatePrice implements Handler. price =
// round(base * factor * (area/baseline) * cardMultiplier) * quantity.
// A missing or unknown card type prices at the canson baseline.
func (h *CertificateHandler) CalculatePrice(_ context.Context, form *FormState) float64 {
	spec := form.Certificate
	if spec == nil {
		h.logger.Warn("certificate price requested without certificate details")
		return 0
	}

	area := spec.WidthCM * spec.HeightCM
	if area <= 0 {
		h.logger.Warn("certificate price requested with non-positive area",
			zap.Float64("width", spec.WidthCM),
			zap.Float64("height", spec.HeightCM))
		return 0
	}

	multiplier, ok := cardTypeMultipliers[spec.CardType]
	if !ok {
		multiplier = cardTypeMultipliers["canson"]
	}

	unit := math.Round(certificateBasePrice * certificateFactor * (area / baselineAreaCM2) * multiplier)
	return unit * float64(normalizeQuantity(form.Quantity))
}

// Specifications implements Handler.
func (h *CertificateHandler) Specifications(form *FormState) map[string]string {
	specs := map[string]string{
		"service_kind": h.Name(),
		"quantity":     strconv.Itoa(normalizeQuantity(form.Quantity)),
	}
	if spec := form.Certificate; spec != nil {
		specs["width_cm"] = formatFloat(spec.WidthCM)
		specs["height_cm"] = formatFloat(spec.HeightCM)
		specs["card_type"] = spec.CardType
		if spec.Text != "" {
			specs["text"] = spec.Text
		}
	}
	return specs
}

func formatFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
