// Package destinations uploads collected URLs into Umbrella destination
// lists and reconciles what the API reports with what the list really holds.
package destinations

import (
	"context"
	"fmt"
	"riskblock/internal/config"
	"riskblock/internal/discovery"
	"riskblock/pkg/domain"
	"riskblock/pkg/logger"
	"riskblock/pkg/metrics"
	"riskblock/pkg/storage"
	"riskblock/pkg/umbrella"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBatchSize is the largest batch the add-destinations endpoint accepts.
	DefaultBatchSize = 500
	// DefaultAccess is the access type of created lists.
	DefaultAccess = "block"
)

// Options configure batching, pacing and list creation.
type Options struct {
	// BatchSize is the number of destinations per add request.
	BatchSize int
	// RequestDelay is the pause between batches and between individual submissions.
	RequestDelay time.Duration
	// Access and BundleTypeID are used when a list has to be created.
	Access       string
	BundleTypeID int
	// InputDir is where risk level files are read from.
	InputDir string
	// DryRun builds destinations and resolves the list without changing anything.
	DryRun bool
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		BatchSize:    cfg.Destinations.BatchSize,
		RequestDelay: cfg.Destinations.RequestDelay,
		Access:       cfg.Destinations.Access,
		BundleTypeID: cfg.Destinations.BundleTypeID,
		InputDir:     cfg.Discovery.OutputDir,
	}
}

// Pusher manages destination lists. Calls are sequential.
type Pusher struct {
	options     Options
	policies    umbrella.Policies
	storage     storage.Storage
	instruments *metrics.Instruments
	sleep       func(ctx context.Context, d time.Duration) error
}

// New creates a Pusher. storage and instruments may be nil.
func New(policies umbrella.Policies,
	storage storage.Storage,
	instruments *metrics.Instruments,
	options Options) *Pusher {
	if options.BatchSize <= 0 {
		options.BatchSize = DefaultBatchSize
	}
	if options.Access == "" {
		options.Access = DefaultAccess
	}
	if options.BundleTypeID == 0 {
		options.BundleTypeID = 1
	}

	return &Pusher{
		options:     options,
		policies:    policies,
		storage:     storage,
		instruments: instruments,
		sleep:       discovery.Sleep,
	}
}

// EnsureList returns the list with exactly this name, creating it when it
// does not exist. In dry-run mode a missing list is returned with a zero ID
// instead of being created.
func (p *Pusher) EnsureList(ctx context.Context, name string) (*domain.DestinationList, error) {
	lists, err := p.policies.DestinationLists(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get destination lists: %w", err)
	}
	logger.Info(ctx, "found existing destination lists", zap.Int("count", len(lists)))

	for i := range lists {
		if lists[i].Name == name {
			logger.Info(ctx, "found existing destination list",
				zap.String("list", name),
				zap.Int64("listID", int64(lists[i].ID)))

			return &lists[i], nil
		}
	}

	if p.options.DryRun {
		logger.Info(ctx, "dry run: would create destination list", zap.String("list", name))

		return &domain.DestinationList{Name: name, Access: p.options.Access}, nil
	}

	created, err := p.policies.CreateDestinationList(ctx, umbrella.CreateListReq{
		Name:         name,
		Access:       p.options.Access,
		IsGlobal:     false,
		BundleTypeID: p.options.BundleTypeID,
		Destinations: []domain.Destination{},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create destination list %q: %w", name, err)
	}
	logger.Info(ctx, "created destination list",
		zap.String("list", name),
		zap.Int64("listID", int64(created.ID)))

	return created, nil
}
