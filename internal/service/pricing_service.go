package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"khawam-pro/models/khawam"
	"khawam-pro/pkg/redis"
)

const (
	fieldServiceIDEq = "service_id = ?"
	fieldActiveEq    = "is_active = ?"

	priceQuoteCacheTTL = 10 * time.Minute
)

// RedisHandlerInterface is the subset of the redis handler the pricing
// service needs; it keeps the service mockable in tests.
type RedisHandlerInterface interface {
	Get(key string) string
	SetWithExpireTime(key string, value string, expiry time.Duration)
	ScanKeys(pattern string) ([]string, error)
	Delete(key string)
}

// PricingService resolves prices from the hierarchical pricing table. It
// implements workflow.PriceQuoter. More specific attribute paths win; a
// quote with no matching rule is an error, which handlers degrade to zero.
type PricingService struct {
	db         *gorm.DB
	cache      RedisHandlerInterface
	keyBuilder *redis.KeyBuilder
	logger     *zap.Logger
}

// NewPricingService creates the service. cache may be nil, which disables
// quote caching.
func NewPricingService(db *gorm.DB, cache RedisHandlerInterface, keyBuilder *redis.KeyBuilder, logger *zap.Logger) *PricingService {
	return &PricingService{
		db:         db,
		cache:      cache,
		keyBuilder: keyBuilder,
		logger:     logger,
	}
}

// Quote resolves the total price for a specification bag. Rules are matched
// by attribute path: every "key/value" pair in a rule's path must be present
// in the bag, and the longest satisfied path wins.
func (s *PricingService) Quote(ctx context.Context, serviceID int64, specs map[string]string, quantity int) (float64, error) {
	if quantity <= 0 {
		quantity = 1
	}

	cacheKey := ""
	if s.cache != nil {
		cacheKey = s.keyBuilder.PriceQuoteKey(specHash(serviceID, specs, quantity))
		if cached := s.cache.Get(cacheKey); cached != "" {
			if price, err := strconv.ParseFloat(cached, 64); err == nil {
				return price, nil
			}
		}
	}

	var rules []khawam.PricingRule
	err := s.db.WithContext(ctx).
		Where(fieldServiceIDEq, serviceID).
		Where(fieldActiveEq, true).
		Find(&rules).Error
	if err != nil {
		return 0, fmt.Errorf("loading pricing rules for service %d: %w", serviceID, err)
	}

	rule, ok := bestRule(rules, specs, quantity)
	if !ok {
		return 0, fmt.Errorf("no pricing rule matches service %d", serviceID)
	}

	price := rule.UnitPrice * float64(quantity)

	// Lecture-style services price per page, not per copy.
	if pages, err := strconv.Atoi(specs["page_count"]); err == nil && pages > 0 {
		price = rule.UnitPrice * float64(pages) * float64(quantity)
	}

	if s.cache != nil {
		s.cache.SetWithExpireTime(cacheKey, strconv.FormatFloat(price, 'f', -1, 64), priceQuoteCacheTTL)
	}
	return price, nil
}

// InvalidateQuotes drops every cached quote. Called after pricing-rule
// mutations.
func (s *PricingService) InvalidateQuotes() {
	if s.cache == nil {
		return
	}
	keys, err := s.cache.ScanKeys(s.keyBuilder.PriceQuotePattern())
	if err != nil {
		s.logger.Warn("failed to scan price quote cache", zap.Error(err))
		return
	}
	for _, key := range keys {
		s.cache.Delete(key)
	}
}

// ListRules returns the active rules for a service.
func (s *PricingService) ListRules(ctx context.Context, serviceID int64) ([]khawam.PricingRule, error) {
	var rules []khawam.PricingRule
	err := s.db.WithContext(ctx).
		Where(fieldServiceIDEq, serviceID).
		Order("attribute_path").
		Find(&rules).Error
	return rules, err
}

// SaveRule creates or updates a pricing rule and invalidates cached quotes.
func (s *PricingService) SaveRule(ctx context.Context, rule *khawam.PricingRule) error {
	if err := s.db.WithContext(ctx).Save(rule).Error; err != nil {
		return err
	}
	s.InvalidateQuotes()
	return nil
}

// DeleteRule removes a pricing rule and invalidates cached quotes.
func (s *PricingService) DeleteRule(ctx context.Context, id int64) error {
	if err := s.db.WithContext(ctx).Delete(&khawam.PricingRule{}, id).Error; err != nil {
		return err
	}
	s.InvalidateQuotes()
	return nil
}

// bestRule picks the longest satisfied attribute path whose MinQuantity the
// order meets. Ties go to the lower price.
func bestRule(rules []khawam.PricingRule, specs map[string]string, quantity int) (khawam.PricingRule, bool) {
	var best khawam.PricingRule
	bestLen := -1
	found := false

	for _, rule := range rules {
		if quantity < rule.MinQuantity {
			continue
		}
		if !pathSatisfied(rule.AttributePath, specs) {
			continue
		}
		pathLen := len(strings.Split(rule.AttributePath, "/"))
		if rule.AttributePath == "" {
			pathLen = 0
		}
		if pathLen > bestLen || (pathLen == bestLen && rule.UnitPrice < best.UnitPrice) {
			best = rule
			bestLen = pathLen
			found = true
		}
	}
	return best, found
}

// pathSatisfied checks that every key/value pair in the slash-separated path
// appears in the specification bag. The empty path matches anything.
func pathSatisfied(path string, specs map[string]string) bool {
	if path == "" {
		return true
	}
	parts := strings.Split(path, "/")
	if len(parts)%2 != 0 {
		return false
	}
	for i := 0; i < len(parts); i += 2 {
		if specs[parts[i]] != parts[i+1] {
			return false
		}
	}
	return true
}

// specHash builds a stable cache key from the quote inputs.
func specHash(serviceID int64, specs map[string]string, quantity int) string {
	keys := make([]string, 0, len(specs))
	for k := range specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d|%d", serviceID, quantity)
	for _, k := range keys {
		fmt.Fprintf(&sb, "|%s=%s", k, specs[k])
	}

	sum := sha1.Sum([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}
