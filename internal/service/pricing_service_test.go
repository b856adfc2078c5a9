package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"khawam-pro/models/khawam"
	"khawam-pro/pkg/redis"
	"khawam-pro/internal/database"
	"khawam-pro/internal/service/workflow"
)

// MockCache is a mock implementation of RedisHandlerInterface.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockCache) SetWithExpireTime(key string, value string, expiry time.Duration) {
	m.Called(key, value, expiry)
}

func (m *MockCache) ScanKeys(pattern string) ([]string, error) {
	args := m.Called(pattern)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCache) Delete(key string) {
	m.Called(key)
}

func seedRules(t *testing.T, svc *PricingService) {
	t.Helper()
	rules := []khawam.PricingRule{
		{ServiceID: 7, AttributePath: "", UnitPrice: 10, MinQuantity: 1, IsActive: true},
		{ServiceID: 7, AttributePath: "paper_size/A4", UnitPrice: 8, MinQuantity: 1, IsActive: true},
		{ServiceID: 7, AttributePath: "paper_size/A4/color_mode/color", UnitPrice: 15, MinQuantity: 1, IsActive: true},
		{ServiceID: 7, AttributePath: "paper_size/A4/color_mode/color", UnitPrice: 12, MinQuantity: 50, IsActive: true},
		{ServiceID: 7, AttributePath: "paper_size/A3", UnitPrice: 20, MinQuantity: 1, IsActive: false},
	}
	for i := range rules {
		require.NoError(t, svc.SaveRule(context.Background(), &rules[i]))
	}
}

func newTestPricing(t *testing.T, cache RedisHandlerInterface) *PricingService {
	db := newTestDB(t)
	return NewPricingService(db, cache, redis.NewKeyBuilder("khawam-test", "v1"), zap.NewNop())
}

func TestQuotePicksMostSpecificPath(t *testing.T) {
	svc := newTestPricing(t, nil)
	seedRules(t, svc)

	// Two-level path beats one-level and root.
	price, err := svc.Quote(context.Background(), 7, map[string]string{
		"paper_size": "A4", "color_mode": "color",
	}, 2)
	require.NoError(t, err)
	assert.Equal(t, 30.0, price)

	// Only one-level path satisfied.
	price, err = svc.Quote(context.Background(), 7, map[string]string{
		"paper_size": "A4", "color_mode": "bw",
	}, 2)
	require.NoError(t, err)
	assert.Equal(t, 16.0, price)

	// Nothing specific satisfied, root rule applies.
	price, err = svc.Quote(context.Background(), 7, map[string]string{
		"paper_size": "B5",
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, 10.0, price)
}

func TestQuoteHonorsMinQuantityTiers(t *testing.T) {
	svc := newTestPricing(t, nil)
	seedRules(t, svc)

	// At 50+ copies the cheaper bulk tier (same path length) wins.
	price, err := svc.Quote(context.Background(), 7, map[string]string{
		"paper_size": "A4", "color_mode": "color",
	}, 50)
	require.NoError(t, err)
	assert.Equal(t, 600.0, price)
}

func TestQuoteIgnoresInactiveRules(t *testing.T) {
	svc := newTestPricing(t, nil)
	seedRules(t, svc)

	price, err := svc.Quote(context.Background(), 7, map[string]string{
		"paper_size": "A3",
	}, 1)
	require.NoError(t, err)
	// The A3 rule is inactive; only the root rule matches.
	assert.Equal(t, 10.0, price)
}

func TestQuotePricesPerPageWhenPageCountPresent(t *testing.T) {
	svc := newTestPricing(t, nil)
	seedRules(t, svc)

	price, err := svc.Quote(context.Background(), 7, map[string]string{
		"paper_size": "A4", "page_count": "100",
	}, 3)
	require.NoError(t, err)
	assert.Equal(t, 2400.0, price)
}

func TestQuoteErrorsWhenNoRuleMatches(t *testing.T) {
	svc := newTestPricing(t, nil)

	_, err := svc.Quote(context.Background(), 99, map[string]string{}, 1)
	assert.Error(t, err)
}

func TestQuoteUsesCache(t *testing.T) {
	cache := &MockCache{}
	cache.On("Get", mock.Anything).Return("42.5").Once()

	svc := newTestPricing(t, cache)

	price, err := svc.Quote(context.Background(), 7, map[string]string{"paper_size": "A4"}, 1)
	require.NoError(t, err)
	assert.Equal(t, 42.5, price)
	cache.AssertExpectations(t)
}

func TestQuoteMatchesSeededLectureTiers(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.AutoMigrate(&khawam.PrintService{}))
	require.NoError(t, database.SeedCatalog(db))

	svc := NewPricingService(db, nil, redis.NewKeyBuilder("khawam-test", "v1"), zap.NewNop())
	handler := workflow.NewLectureHandler(svc, zap.NewNop())

	form := &workflow.FormState{
		ServiceID: database.ServiceIDLecture,
		Quantity:  2,
		Lecture: &workflow.LectureSpec{
			PageCount: 10,
			PaperSize: "A4",
			Sides:     2,
			ColorMode: "color",
			Binding:   "none",
		},
	}

	// Double-sided color reaches the deeper seeded tier, not the plain
	// color rule.
	assert.Equal(t, 2500.0, handler.CalculatePrice(context.Background(), form))

	form.Lecture.Sides = 1
	assert.Equal(t, 3000.0, handler.CalculatePrice(context.Background(), form))
}

func TestSaveRuleInvalidatesQuotes(t *testing.T) {
	cache := &MockCache{}
	cache.On("ScanKeys", mock.Anything).Return([]string{"k1", "k2"}, nil)
	cache.On("Delete", "k1").Once()
	cache.On("Delete", "k2").Once()

	svc := newTestPricing(t, cache)
	rule := khawam.PricingRule{ServiceID: 7, UnitPrice: 5, MinQuantity: 1, IsActive: true}
	require.NoError(t, svc.SaveRule(context.Background(), &rule))

	cache.AssertExpectations(t)
}
