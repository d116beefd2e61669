package allocation

import (
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/db/models"
	pkgerrors "github.com/mantoshmedhansh-dot/lsp-backend/pkg/errors"
)

var (
	// ErrNoRuleMatched means no active rule's filters and conditions
	// accepted the shipment. The caller decides whether that escalates.
	ErrNoRuleMatched = errors.New("no allocation rule matched shipment")

	// ErrNoCarrierAvailable means a rule matched but every resolution path,
	// including the fallback, failed to yield a usable carrier.
	ErrNoCarrierAvailable = errors.New("no carrier available for matched rule")
)

// Decision is the outcome of one engine run. Score is set only when the
// winning carrier came out of a CSR scoring round.
type Decision struct {
	TransporterID uuid.UUID
	RuleID        uuid.UUID
	RuleCode      string
	Score         *float64
	UsedFallback  bool
	Ranking       []CarrierCandidate
}

// Engine evaluates allocation rules against a shipment. It is pure: all
// state comes in through Allocate and nothing is persisted here.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Allocate walks active rules in priority order (ascending, rule code as the
// deterministic tiebreak) and resolves the first rule whose filter and
// conditions accept the shipment. Later rules are never consulted once a
// rule matches, even if its resolution fails.
func (e *Engine) Allocate(
	shipment ShipmentRequest,
	rules []models.AllocationRule,
	candidates []CarrierCandidate,
	configs map[uuid.UUID]models.CSRConfig,
) (Decision, error) {
	ordered := orderRules(rules)

	for _, rule := range ordered {
		if !rule.IsActive {
			continue
		}
		if rule.ShipmentTypeFilter != nil && *rule.ShipmentTypeFilter != shipment.Type {
			continue
		}
		matched, err := EvaluateConditions(rule.Conditions, shipment)
		if err != nil {
			return Decision{}, pkgerrors.Wrap(pkgerrors.CodeConfiguration, err, "rule "+rule.Code+" has an invalid condition")
		}
		if !matched {
			continue
		}
		return e.resolve(shipment, rule, candidates, configs)
	}
	return Decision{}, ErrNoRuleMatched
}

func (e *Engine) resolve(
	shipment ShipmentRequest,
	rule models.AllocationRule,
	candidates []CarrierCandidate,
	configs map[uuid.UUID]models.CSRConfig,
) (Decision, error) {
	if rule.FixedTransporterID != nil {
		return Decision{
			TransporterID: *rule.FixedTransporterID,
			RuleID:        rule.ID,
			RuleCode:      rule.Code,
		}, nil
	}

	if rule.UseCSRScoring {
		config, err := resolveConfig(rule, configs)
		if err != nil {
			return Decision{}, err
		}
		eligible := eligibleCandidates(shipment, candidates)
		if len(eligible) > 0 {
			scored, err := ScoreCandidates(config, eligible)
			if err != nil {
				return Decision{}, pkgerrors.Wrap(pkgerrors.CodeConfiguration, err, "rule "+rule.Code+" references an invalid csr config")
			}
			ranked := RankCandidates(scored)
			winner := ranked[0]
			score := winner.Score
			return Decision{
				TransporterID: winner.TransporterID,
				RuleID:        rule.ID,
				RuleCode:      rule.Code,
				Score:         &score,
				Ranking:       ranked,
			}, nil
		}
	}

	if rule.FallbackTransporterID != nil {
		return Decision{
			TransporterID: *rule.FallbackTransporterID,
			RuleID:        rule.ID,
			RuleCode:      rule.Code,
			UsedFallback:  true,
		}, nil
	}
	return Decision{}, ErrNoCarrierAvailable
}

func resolveConfig(rule models.AllocationRule, configs map[uuid.UUID]models.CSRConfig) (models.CSRConfig, error) {
	if rule.CSRConfigID != nil {
		config, ok := configs[*rule.CSRConfigID]
		if !ok {
			return models.CSRConfig{}, pkgerrors.New(pkgerrors.CodeConfiguration, "rule "+rule.Code+" references a missing csr config")
		}
		return config, nil
	}
	for _, config := range configs {
		if config.IsDefault {
			return config, nil
		}
	}
	return models.CSRConfig{}, pkgerrors.New(pkgerrors.CodeConfiguration, "rule "+rule.Code+" needs csr scoring but no default csr config exists")
}

func eligibleCandidates(shipment ShipmentRequest, candidates []CarrierCandidate) []CarrierCandidate {
	eligible := make([]CarrierCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.servesShipmentType(shipment.Type) {
			eligible = append(eligible, candidate)
		}
	}
	return eligible
}

func orderRules(rules []models.AllocationRule) []models.AllocationRule {
	ordered := make([]models.AllocationRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority < ordered[j].Priority
		}
		return ordered[i].Code < ordered[j].Code
	})
	return ordered
}
