package workflow

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"khawam-pro/pkg/utils"
)

// LectureSpec is the typed form section for lecture/notes printing.
type LectureSpec struct {
	PageCount  int    `json:"pageCount"`
	PaperSize  string `json:"paperSize"`  // A4, A5, B5
	Sides      int    `json:"sides"`      // 1 or 2
	ColorMode  string `json:"colorMode"`  // bw, color
	Binding    string `json:"binding"`    // none, spiral, thermal
	CoverColor string `json:"coverColor"` // spiral/thermal cover
}

var lectureKeywords = []string{
	"lecture", "notes",
	"محاضرة", "محاضرات", "ملازم", "ملزمة", "نوطة",
}

// LectureHandler owns lecture printing orders. Pricing delegates to the
// hierarchical pricing table through the quoter; it never throws past its
// boundary.
type LectureHandler struct {
	quoter PriceQuoter
	logger *zap.Logger
}

// NewLectureHandler creates the handler.
func NewLectureHandler(quoter PriceQuoter, logger *zap.Logger) *LectureHandler {
	return &LectureHandler{quoter: quoter, logger: logger}
}

// Name implements Handler.
func (h *LectureHandler) Name() string { return "lecture_printing" }

// Matches implements Handler.
func (h *LectureHandler) Matches(serviceName string, _ int64) bool {
	return utils.ContainsAnyKeyword(serviceName, lectureKeywords)
}

// RenderStep implements Handler.
func (h *LectureHandler) RenderStep(step StepRequest, form *FormState) (*StepView, bool) {
	spec := form.Lecture
	if spec == nil {
		spec = &LectureSpec{}
	}

	switch step.Type {
	case StepFiles:
		return filesStep(step, form, "application/pdf"), true
	case StepPrintOptions:
		return &StepView{
			Number: step.Number,
			Type:   step.Type,
			Title:  "Print options",
			Fields: []FieldView{
				{Name: "pageCount", Label: "Page count", Kind: "number", Required: true, Value: strconv.Itoa(spec.PageCount)},
				{Name: "paperSize", Label: "Paper size", Kind: "select", Options: []string{"A4", "A5", "B5"}, Required: true, Value: spec.PaperSize},
				{Name: "sides", Label: "Sides", Kind: "select", Options: []string{"1", "2"}, Required: true, Value: strconv.Itoa(spec.Sides)},
				{Name: "colorMode", Label: "Color", Kind: "select", Options: []string{"bw", "color"}, Required: true, Value: spec.ColorMode},
				{Name: "binding", Label: "Binding", Kind: "select", Options: []string{"none", "spiral", "thermal"}, Value: spec.Binding},
				{Name: "quantity", Label: "Copies", Kind: "number", Required: true, Value: strconv.Itoa(form.Quantity)},
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
func (h *LectureHandler) PrepareOrderData(form *FormState, base OrderRequest) (OrderRequest, error) {
	if form.Lecture == nil {
		return base, fmt.Errorf("lecture details missing from form state")
	}
	total := h.CalculatePrice(context.Background(), form)
	item := buildItem(form, total, h.Specifications(form))
	return mergeBase(form, base, item), nil
}

// CalculatePrice implements Handler.
func (h *LectureHandler) CalculatePrice(ctx context.Context, form *FormState) float64 {
	if form.Lecture == nil {
		h.logger.Warn("lecture price requested without lecture details")
		return 0
	}

	price, err := h.quoter.Quote(ctx, form.ServiceID, h.Specifications(form), normalizeQuantity(form.Quantity))
	if err != nil {
		h.logger.Warn("lecture price lookup failed, degrading to zero",
			zap.Int64("serviceID", form.ServiceID),
			zap.Error(err))
		return 0
	}
	return price
}

// Specifications implements Handler.
func (h *LectureHandler) Specifications(form *FormState) map[string]string {
	specs := map[string]string{
		"service_kind": h.Name(),
		"quantity":     strconv.Itoa(normalizeQuantity(form.Quantity)),
	}
	if spec := form.Lecture; spec != nil {
		specs["page_count"] = strconv.Itoa(spec.PageCount)
		specs["paper_size"] = spec.PaperSize
		specs["sides"] = strconv.Itoa(spec.Sides)
		specs["color_mode"] = spec.ColorMode
		if spec.Binding != "" && spec.Binding != "none" {
			specs["binding"] = spec.Binding
			specs["cover_color"] = spec.CoverColor
		}
	}
	return specs
}
