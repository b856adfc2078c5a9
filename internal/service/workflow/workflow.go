// Package workflow implements the per-service order workflow: an ordered
// registry of handlers, each owning the wizard steps, pricing and payload
// shaping for one family of print services.
package workflow

import (
	"context"

	"go.uber.org/zap"
)

// Step types a wizard can ask a handler to render.
const (
	StepFiles           = "files"
	StepPrintOptions    = "print_options"
	StepCustomerInfo    = "customer_info"
	StepDimensions      = "dimensions"
	StepCardType        = "card_type"
	StepClothingSource  = "clothing_source"
	StepClothingDesigns = "clothing_designs"
	StepNotes           = "notes"
)

// StepRequest describes one abstract wizard step.
type StepRequest struct {
	Number int            `json:"number"`
	Type   string         `json:"type"`
	Config map[string]any `json:"config,omitempty"`
}

// FieldView is one form field inside a rendered step.
type FieldView struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Kind     string   `json:"kind"` // text, number, select, file, textarea
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required"`
	Value    string   `json:"value,omitempty"`
}

// StepView is the rendered form content for a step, bound to the current
// form state.
type StepView struct {
	Number int         `json:"number"`
	Type   string      `json:"type"`
	Title  string      `json:"title"`
	Fields []FieldView `json:"fields"`
}

// FormState is the caller-held wizard state. Handlers are stateless; the
// "current step" pointer lives in the surrounding wizard, not here. Each
// service family reads its own typed section, so the loosely-typed bag of
// the old storefront becomes a tagged union flattened only at the
// serialization boundary.
type FormState struct {
	ServiceID   int64  `json:"serviceId"`
	ServiceName string `json:"serviceName"`
	Quantity    int    `json:"quantity"`
	Notes       string `json:"notes"`

	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	CustomerEmail string `json:"customerEmail"`

	DesignFiles []string `json:"designFiles"`

	Certificate *CertificateSpec `json:"certificate,omitempty"`
	Lecture     *LectureSpec     `json:"lecture,omitempty"`
	Clothing    *ClothingSpec    `json:"clothing,omitempty"`
	Printing    *PrintingSpec    `json:"printing,omitempty"`
}

// OrderItemRequest is one prepared order line.
type OrderItemRequest struct {
	ServiceID      int64             `json:"serviceId"`
	ServiceName    string            `json:"serviceName"`
	Quantity       int               `json:"quantity"`
	UnitPrice      float64           `json:"unitPrice"`
	TotalPrice     float64           `json:"totalPrice"`
	Specifications map[string]string `json:"specifications"`
	DesignFiles    []string          `json:"designFiles"`
}

// OrderRequest is the generic order payload a handler enriches.
type OrderRequest struct {
	CustomerName  string             `json:"customerName"`
	CustomerPhone string             `json:"customerPhone"`
	CustomerEmail string             `json:"customerEmail"`
	DeliveryType  string             `json:"deliveryType"`
	Address       string             `json:"address"`
	Notes         string             `json:"notes"`
	TotalAmount   float64            `json:"totalAmount"`
	Items         []OrderItemRequest `json:"items"`
}

// PriceQuoter resolves a price for a specification bag, usually against the
// hierarchical pricing table.
type PriceQuoter interface {
	Quote(ctx context.Context, serviceID int64, specs map[string]string, quantity int) (float64, error)
}

// Handler is the per-service strategy. Implementations are stateless sets
// of pure functions over caller-held form state.
type Handler interface {
	// Name identifies the handler in logs and specifications.
	Name() string

	// Matches reports whether this handler owns the named service. The
	// service id is accepted for future use; current matchers key off the
	// name only.
	Matches(serviceName string, serviceID int64) bool

	// RenderStep maps an abstract step to form content. ok=false means the
	// handler does not recognize the step type; callers skip such steps
	// rather than treating them as errors.
	RenderStep(step StepRequest, form *FormState) (*StepView, bool)

	// PrepareOrderData merges handler-specific specifications and files
	// into the generic payload.
	PrepareOrderData(form *FormState, base OrderRequest) (OrderRequest, error)

	// CalculatePrice never fails: remote or rule failures degrade to 0
	// with a logged warning.
	CalculatePrice(ctx context.Context, form *FormState) float64

	// Specifications returns a flat display/export snapshot of the form.
	Specifications(form *FormState) map[string]string
}

// Registry is a fixed, ordered list of handlers. Order is the priority:
// handlers with more specific keywords are registered before the generic
// printing catch-all, so "Quran certificate printing" resolves to the
// certificate handler and not the fallback.
type Registry struct {
	handlers []Handler
}

// NewRegistry builds the registry in priority order.
func NewRegistry(quoter PriceQuoter, logger *zap.Logger) *Registry {
	return &Registry{
		handlers: []Handler{
			NewCertificateHandler(logger),
			NewLectureHandler(quoter, logger),
			NewClothingHandler(quoter, logger),
			NewPrintingHandler(quoter, logger),
		},
	}
}

// Find returns the first handler claiming the service, in registration
// order. ok=false means no handler matched; callers must surface that as an
// explicit error state, never fall through silently.
func (r *Registry) Find(serviceName string, serviceID int64) (Handler, bool) {
	for _, h := range r.handlers {
		if h.Matches(serviceName, serviceID) {
			return h, true
		}
	}
	return nil, false
}

// Handlers exposes the registration order, mainly for tests.
func (r *Registry) Handlers() []Handler {
	out := make([]Handler, len(r.handlers))
	copy(out, r.handlers)
	return out
}

// normalizeQuantity guards the unit-price division: quantity below one is
// treated as one so total/quantity never yields NaN or Inf.
func normalizeQuantity(q int) int {
	if q <= 0 {
		return 1
	}
	return q
}

// buildItem assembles an order line from a computed total.
func buildItem(form *FormState, total float64, specs map[string]string) OrderItemRequest {
	qty := normalizeQuantity(form.Quantity)
	return OrderItemRequest{
		ServiceID:      form.ServiceID,
		ServiceName:    form.ServiceName,
		Quantity:       qty,
		UnitPrice:      total / float64(qty),
		TotalPrice:     total,
		Specifications: specs,
		DesignFiles:    append([]string(nil), form.DesignFiles...),
	}
}

// mergeBase fills the generic payload from the form and appends the item.
func mergeBase(form *FormState, base OrderRequest, item OrderItemRequest) OrderRequest {
	if base.CustomerName == "" {
		base.CustomerName = form.CustomerName
	}
	if base.CustomerPhone == "" {
		base.CustomerPhone = form.CustomerPhone
	}
	if base.CustomerEmail == "" {
		base.CustomerEmail = form.CustomerEmail
	}
	if base.Notes == "" {
		base.Notes = form.Notes
	}
	base.Items = append(base.Items, item)
	base.TotalAmount += item.TotalPrice
	return base
}
