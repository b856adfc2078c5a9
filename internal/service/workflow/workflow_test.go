package workflow

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockQuoter is a mock implementation of PriceQuoter.
type MockQuoter struct {
	mock.Mock
}

func (m *MockQuoter) Quote(ctx context.Context, serviceID int64, specs map[string]string, quantity int) (float64, error) {
	args := m.Called(ctx, serviceID, specs, quantity)
	return args.Get(0).(float64), args.Error(1)
}

func newTestRegistry(quoter PriceQuoter) *Registry {
	if quoter == nil {
		quoter = &MockQuoter{}
	}
	return NewRegistry(quoter, zap.NewNop())
}

func TestCertificatePriceScenario(t *testing.T) {
	// The classic 50x70 canson certificate: area equals the baseline so the
	// area term cancels to 1 and two copies price at 3000.
	handler := NewCertificateHandler(zap.NewNop())
	form := &FormState{
		ServiceName: "طباعة إجازة حفظ القرآن الكريم",
		Quantity:    2,
		Certificate: &CertificateSpec{WidthCM: 50, HeightCM: 70, CardType: "canson"},
	}

	price := handler.CalculatePrice(context.Background(), form)
	assert.Equal(t, 3000.0, price)
}

func TestCertificatePriceScalesByArea(t *testing.T) {
	handler := NewCertificateHandler(zap.NewNop())
	form := &FormState{
		Quantity:    1,
		Certificate: &CertificateSpec{WidthCM: 100, HeightCM: 70, CardType: "canson"},
	}

	// Double the baseline area doubles the unit price.
	assert.Equal(t, 3000.0, handler.CalculatePrice(context.Background(), form))
}

func TestCertificatePriceZeroOnBadDimensions(t *testing.T) {
	handler := NewCertificateHandler(zap.NewNop())
	form := &FormState{
		Quantity:    1,
		Certificate: &CertificateSpec{WidthCM: 0, HeightCM: 70},
	}

	assert.Equal(t, 0.0, handler.CalculatePrice(context.Background(), form))
}

func TestPrepareOrderDataGuardsZeroQuantity(t *testing.T) {
	handler := NewCertificateHandler(zap.NewNop())
	form := &FormState{
		ServiceName: "Quran certificate",
		Quantity:    0,
		Certificate: &CertificateSpec{WidthCM: 50, HeightCM: 70, CardType: "canson"},
	}

	order, err := handler.PrepareOrderData(form, OrderRequest{})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)

	item := order.Items[0]
	assert.Equal(t, 1, item.Quantity, "quantity <= 0 is treated as 1")
	assert.False(t, math.IsNaN(item.UnitPrice))
	assert.False(t, math.IsInf(item.UnitPrice, 0))
	assert.Equal(t, item.TotalPrice, item.UnitPrice)
}

func TestPrepareOrderDataMergesCustomerFields(t *testing.T) {
	handler := NewCertificateHandler(zap.NewNop())
	form := &FormState{
		ServiceName:   "Quran certificate",
		Quantity:      2,
		CustomerName:  "Wael",
		CustomerPhone: "0999999999",
		Certificate:   &CertificateSpec{WidthCM: 50, HeightCM: 70, CardType: "canson"},
	}

	order, err := handler.PrepareOrderData(form, OrderRequest{DeliveryType: "self"})
	require.NoError(t, err)

	assert.Equal(t, "Wael", order.CustomerName)
	assert.Equal(t, "0999999999", order.CustomerPhone)
	assert.Equal(t, "self", order.DeliveryType)
	assert.Equal(t, 3000.0, order.TotalAmount)
}

func TestRemotePriceFailureDegradesToZero(t *testing.T) {
	quoter := &MockQuoter{}
	quoter.On("Quote", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(0.0, errors.New("pricing backend unreachable"))

	handler := NewLectureHandler(quoter, zap.NewNop())
	form := &FormState{
		ServiceID: 7,
		Quantity:  3,
		Lecture:   &LectureSpec{PageCount: 120, PaperSize: "A4", Sides: 2, ColorMode: "bw"},
	}

	assert.Equal(t, 0.0, handler.CalculatePrice(context.Background(), form))
	quoter.AssertExpectations(t)
}

func TestRenderStepUnknownTypeIsSkipped(t *testing.T) {
	for _, h := range newTestRegistry(nil).Handlers() {
		view, ok := h.RenderStep(StepRequest{Number: 1, Type: "holograms"}, &FormState{})
		assert.False(t, ok, "handler %s must not recognize unknown steps", h.Name())
		assert.Nil(t, view)
	}
}

func TestRenderStepBindsFormState(t *testing.T) {
	handler := NewLectureHandler(&MockQuoter{}, zap.NewNop())
	form := &FormState{
		Quantity: 4,
		Lecture:  &LectureSpec{PageCount: 80, PaperSize: "A5", Sides: 1, ColorMode: "color"},
	}

	view, ok := handler.RenderStep(StepRequest{Number: 2, Type: StepPrintOptions}, form)
	require.True(t, ok)
	require.NotNil(t, view)

	byName := map[string]FieldView{}
	for _, f := range view.Fields {
		byName[f.Name] = f
	}
	assert.Equal(t, "80", byName["pageCount"].Value)
	assert.Equal(t, "A5", byName["paperSize"].Value)
	assert.Equal(t, "4", byName["quantity"].Value)
}

func TestSpecificationsFlattenTypedSections(t *testing.T) {
	handler := NewClothingHandler(&MockQuoter{}, zap.NewNop())
	form := &FormState{
		Quantity: 5,
		Clothing: &ClothingSpec{
			Source:      "shop",
			GarmentType: "hoodie",
			GarmentSize: "L",
			PrintSide:   "both",
		},
	}

	specs := handler.Specifications(form)
	assert.Equal(t, "clothing_printing", specs["service_kind"])
	assert.Equal(t, "hoodie", specs["garment_type"])
	assert.Equal(t, "both", specs["print_side"])
	assert.Equal(t, "5", specs["quantity"])
}

func TestLecturePriceUsesQuoter(t *testing.T) {
	quoter := &MockQuoter{}
	quoter.On("Quote", mock.Anything, int64(7), mock.Anything, 2).Return(1500.0, nil)

	handler := NewLectureHandler(quoter, zap.NewNop())
	form := &FormState{
		ServiceID: 7,
		Quantity:  2,
		Lecture:   &LectureSpec{PageCount: 60, PaperSize: "A4", Sides: 2, ColorMode: "bw"},
	}

	assert.Equal(t, 1500.0, handler.CalculatePrice(context.Background(), form))
	quoter.AssertExpectations(t)
}
