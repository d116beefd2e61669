package risk

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mantoshmedhansh-dot/lsp-backend/internal/metricstore"
	appconfig "github.com/mantoshmedhansh-dot/lsp-backend/pkg/config"
	pkgerrors "github.com/mantoshmedhansh-dot/lsp-backend/pkg/errors"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/logger"
)

// Scanner scores single orders on demand and sweeps recent orders for
// anomalies. Scans are read-only and idempotent: re-running one never
// changes any source data.
type Scanner struct {
	store  metricstore.Store
	scorer *Scorer
	cfg    appconfig.RiskConfig
	log    *logger.Logger
}

func NewScanner(store metricstore.Store, cfg appconfig.RiskConfig, log *logger.Logger) (*Scanner, error) {
	if store == nil {
		return nil, fmt.Errorf("metric store required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Scanner{
		store:  store,
		scorer: NewScorer(),
		cfg:    cfg,
		log:    log,
	}, nil
}

// ScoreOrder assesses one order by id.
func (s *Scanner) ScoreOrder(ctx context.Context, companyID, orderID uuid.UUID) (*Profile, error) {
	order, err := s.store.FindOrder(ctx, companyID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDataUnavailable, err, "failed to load order")
	}

	stats, err := s.store.PopulationStats(ctx, companyID, s.cfg.StatsWindowDays)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDataUnavailable, err, "failed to load population stats")
	}
	profile, err := s.score(ctx, companyID, *order, stats)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// ScanRecent scores orders created inside the window and returns those at or
// above minScore, sorted by descending risk. Zero arguments fall back to the
// configured defaults. Cancellation is checked between orders.
func (s *Scanner) ScanRecent(ctx context.Context, companyID uuid.UUID, windowHours int, minScore float64, limit int) ([]Profile, error) {
	if windowHours <= 0 {
		windowHours = s.cfg.ScanWindowHours
	}
	if minScore <= 0 {
		minScore = s.cfg.ScanMinScore
	}
	if limit <= 0 {
		limit = s.cfg.ScanLimit
	}

	since := time.Now().UTC().Add(-time.Duration(windowHours) * time.Hour)
	orders, err := s.store.ListRecentOrders(ctx, companyID, since, 0)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDataUnavailable, err, "failed to list recent orders")
	}
	stats, err := s.store.PopulationStats(ctx, companyID, s.cfg.StatsWindowDays)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDataUnavailable, err, "failed to load population stats")
	}

	var profiles []Profile
	for _, order := range orders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		profile, err := s.score(ctx, companyID, order, stats)
		if err != nil {
			s.log.Error(s.log.WithOrderID(ctx, order.ID.String()), "failed to score order during scan", err)
			continue
		}
		if profile.RiskScore >= minScore {
			profiles = append(profiles, *profile)
		}
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].RiskScore > profiles[j].RiskScore
	})
	if len(profiles) > limit {
		profiles = profiles[:limit]
	}
	return profiles, nil
}

func (s *Scanner) score(ctx context.Context, companyID uuid.UUID, order metricstore.OrderSnapshot, stats metricstore.PopulationStats) (*Profile, error) {
	history, err := s.store.ListCustomerHistory(ctx, companyID, order.CustomerID, order.ID, s.cfg.HistoryOrderCap)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDataUnavailable, err, "failed to load customer history")
	}
	velocity, err := s.store.CustomerVelocity(ctx, companyID, order.CustomerID, order.ShippingAddress.PostalCode, time.Now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDataUnavailable, err, "failed to load customer velocity")
	}
	profile := s.scorer.Score(order, history, velocity, stats)
	return &profile, nil
}
