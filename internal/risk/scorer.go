package risk

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/mantoshmedhansh-dot/lsp-backend/internal/metricstore"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
)

// Factor names. The factor map plus these names must be enough to explain
// any profile without re-running the scorer.
const (
	FactorVelocity        = "velocity"
	FactorValue           = "value"
	FactorAddress         = "address"
	FactorCustomerHistory = "customer_history"
	FactorPaymentRisk     = "payment_risk"
	FactorPattern         = "pattern"
)

// Fixed factor weights, summing to 1.
var factorWeights = map[string]float64{
	FactorVelocity:        0.20,
	FactorValue:           0.20,
	FactorAddress:         0.15,
	FactorCustomerHistory: 0.20,
	FactorPaymentRisk:     0.15,
	FactorPattern:         0.10,
}

// flagThreshold is the sub-score above which a factor emits a flag.
const flagThreshold = 40

// severityFloorCount is how many independently high factors (>= 60) force
// severity up to HIGH even when the weighted composite lands lower. A burst
// of unrelated signals is worse than any one of them alone.
const severityFloorCount = 2

var placeholderKeywords = []string{"test", "demo", "fake", "asdf", "xxx", "n/a", "na"}

// Profile is the risk assessment of one order.
type Profile struct {
	OrderID   uuid.UUID          `json:"order_id"`
	RiskScore float64            `json:"risk_score"`
	Severity  enums.RiskSeverity `json:"severity"`
	Action    enums.RiskAction   `json:"action"`
	Factors   map[string]float64 `json:"factors"`
	Flags     []string           `json:"flags"`
}

// Scorer computes order risk from six weighted factors. Pure; all inputs
// arrive as arguments.
type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

// Score assesses one order against the customer's history, the windowed
// velocity counts, and the population order-value distribution.
func (s *Scorer) Score(
	order metricstore.OrderSnapshot,
	history []metricstore.OrderSnapshot,
	velocity metricstore.CustomerVelocity,
	stats metricstore.PopulationStats,
) Profile {
	factors := map[string]float64{
		FactorVelocity:        velocityScore(velocity),
		FactorValue:           valueScore(order, stats),
		FactorAddress:         addressScore(order),
		FactorCustomerHistory: historyScore(history),
		FactorPaymentRisk:     paymentScore(order, history, stats),
		FactorPattern:         patternScore(order),
	}

	var composite float64
	for name, score := range factors {
		composite += score * factorWeights[name]
	}
	composite = clamp(composite)

	severity := SeverityForScore(composite)
	if highFactors(factors) >= severityFloorCount && severity.Rank() < enums.RiskSeverityHigh.Rank() {
		severity = enums.RiskSeverityHigh
	}

	return Profile{
		OrderID:   order.ID,
		RiskScore: composite,
		Severity:  severity,
		Action:    enums.ActionForSeverity(severity),
		Factors:   factors,
		Flags:     flags(factors, order, velocity),
	}
}

// SeverityForScore maps a composite score to its severity band. Pure and
// order-preserving: a higher score never yields a lower severity.
func SeverityForScore(score float64) enums.RiskSeverity {
	switch {
	case score >= 80:
		return enums.RiskSeverityCritical
	case score >= 60:
		return enums.RiskSeverityHigh
	case score >= 40:
		return enums.RiskSeverityMedium
	default:
		return enums.RiskSeverityLow
	}
}

func velocityScore(velocity metricstore.CustomerVelocity) float64 {
	var score float64
	switch {
	case velocity.OrdersLastHour >= 3:
		score += 60
	case velocity.OrdersLastHour == 2:
		score += 35
	case velocity.OrdersLastHour == 1:
		score += 10
	}
	switch {
	case velocity.AddressOrdersLast24h >= 4:
		score += 40
	case velocity.AddressOrdersLast24h >= 2:
		score += 20
	}
	return clamp(score)
}

func valueScore(order metricstore.OrderSnapshot, stats metricstore.PopulationStats) float64 {
	if stats.AvgValue <= 0 {
		return 0
	}
	value := order.TotalAmount.InexactFloat64()
	var score float64

	if stats.StdDevValue > 0 {
		z := (value - stats.AvgValue) / stats.StdDevValue
		switch {
		case z >= 3:
			score += 50
		case z >= 2:
			score += 35
		case z >= 1.5:
			score += 20
		}
	}

	multiple := value / stats.AvgValue
	switch {
	case multiple >= 3:
		score += 40
	case multiple >= 2:
		score += 25
	}
	return clamp(score)
}

func addressScore(order metricstore.OrderSnapshot) float64 {
	address := order.ShippingAddress
	var score float64

	switch {
	case strings.TrimSpace(address.Line1) == "":
		score += 30
	case len(strings.TrimSpace(address.Line1)) < 5:
		score += 15
	}
	if postal := strings.TrimSpace(address.PostalCode); len(postal) < 4 || !alphanumeric(postal) {
		score += 25
	}
	haystack := strings.ToLower(address.Line1 + " " + address.City)
	for _, keyword := range placeholderKeywords {
		if strings.Contains(haystack, keyword) {
			score += 40
			break
		}
	}
	if order.BillingPostalCode != nil && *order.BillingPostalCode != "" &&
		!strings.EqualFold(*order.BillingPostalCode, address.PostalCode) {
		score += 20
	}
	return clamp(score)
}

func historyScore(history []metricstore.OrderSnapshot) float64 {
	prior := 0
	delivered := 0
	cancelled := 0
	for _, past := range history {
		if past.Status == enums.OrderStatusCancelled {
			cancelled++
			continue
		}
		prior++
		if past.Status == enums.OrderStatusDelivered {
			delivered++
		}
	}

	// No non-cancelled track record at all: unknown counterparty.
	if prior == 0 {
		return 60
	}

	score := 20.0
	total := prior + cancelled
	if float64(delivered)/float64(total) >= 0.8 {
		score -= 15
	}
	cancelRate := float64(cancelled) / float64(total)
	switch {
	case cancelRate >= 0.5:
		score += 50
	case cancelRate >= 0.3:
		score += 30
	}
	return clamp(score)
}

func paymentScore(order metricstore.OrderSnapshot, history []metricstore.OrderSnapshot, stats metricstore.PopulationStats) float64 {
	if order.PaymentMode != enums.PaymentModeCOD {
		return 0
	}
	score := 20.0
	value := order.TotalAmount.InexactFloat64()

	if stats.AvgValue > 0 && value >= 2*stats.AvgValue {
		score += 15
	}

	deliveredBefore := 0
	for _, past := range history {
		if past.Status == enums.OrderStatusDelivered {
			deliveredBefore++
		}
	}
	if deliveredBefore == 0 && stats.AvgValue > 0 && value >= 2*stats.AvgValue {
		// High-value cash order with no successful delivery on record.
		score += 25
	}
	return clamp(score)
}

func patternScore(order metricstore.OrderSnapshot) float64 {
	var score float64
	maxQty := 0
	totalQty := 0
	for _, item := range order.Items {
		if item.Quantity > maxQty {
			maxQty = item.Quantity
		}
		totalQty += item.Quantity
	}
	if maxQty >= 10 {
		score += 40
	}
	if len(order.Items) >= 15 {
		score += 30
	}
	if len(order.Items) == 1 && totalQty >= 5 {
		score += 30
	}
	return clamp(score)
}

func flags(factors map[string]float64, order metricstore.OrderSnapshot, velocity metricstore.CustomerVelocity) []string {
	var result []string
	appendFlag := func(name, reason string) {
		if factors[name] > flagThreshold {
			result = append(result, fmt.Sprintf("%s: %s", name, reason))
		}
	}
	appendFlag(FactorVelocity, fmt.Sprintf("%d orders in the last hour, %d to this address in 24h",
		velocity.OrdersLastHour, velocity.AddressOrdersLast24h))
	appendFlag(FactorValue, "order value far above the recent population average")
	appendFlag(FactorAddress, "shipping address looks incomplete or suspicious")
	appendFlag(FactorCustomerHistory, "customer has no reliable delivery history")
	appendFlag(FactorPaymentRisk, fmt.Sprintf("high-value cash on delivery order (%s)", order.TotalAmount.StringFixed(2)))
	appendFlag(FactorPattern, "unusual item quantity pattern")
	return result
}

func highFactors(factors map[string]float64) int {
	count := 0
	for _, score := range factors {
		if score >= 60 {
			count++
		}
	}
	return count
}

func alphanumeric(s string) bool {
	for _, r := range s {
		isDigit := r >= '0' && r <= '9'
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !isDigit && !isAlpha && r != ' ' && r != '-' {
			return false
		}
	}
	return true
}

func clamp(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}
