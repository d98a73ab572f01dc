package destinations

import (
	"context"
	"path/filepath"
	"riskblock/internal/discovery"
	"riskblock/pkg/domain"
	"riskblock/pkg/jsonfile"
	"riskblock/pkg/logger"
	"riskblock/pkg/serrors"
	"riskblock/pkg/storage"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// Report describes one processed file.
type Report struct {
	Outcome

	RunID    domain.RunID
	File     string
	ListID   domain.DestinationListID
	ListName string
	DryRun   bool
}

// LoadURLFile reads a URL collection written by discovery.
func LoadURLFile(path string) (domain.URLCollection, error) {
	var c domain.URLCollection
	if err := jsonfile.Read(path, &c); err != nil {
		return nil, err //nolint: wrapcheck
	}

	return c, nil
}

// RiskListName is the list a risk level is pushed into ("high" -> "High Risk Apps URLs").
func RiskListName(level string) string {
	return titleCase(level) + " Risk Apps URLs"
}

// ListNameForFile guesses the list for a file from the risk level in its
// name, checking high, medium and low in that order.
func ListNameForFile(path string) string {
	lower := strings.ToLower(path)
	for _, level := range []string{"high", "medium", "low"} {
		if strings.Contains(lower, level) {
			return RiskListName(level)
		}
	}

	return "Apps URLs from " + path
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}

	return strings.Join(words, " ")
}

// ProcessRiskLevel pushes output_<level>.json into "<Level> Risk Apps URLs".
func (p *Pusher) ProcessRiskLevel(ctx context.Context, level string) (*Report, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	file := filepath.Join(p.options.InputDir, discovery.OutputFileName(level))

	return p.process(ctx, level, file, RiskListName(level), RiskComment(level))
}

// ProcessFile pushes an arbitrary URL collection file into listName. An
// empty listName is derived with ListNameForFile.
func (p *Pusher) ProcessFile(ctx context.Context, path, listName string) (*Report, error) {
	if listName == "" {
		listName = ListNameForFile(path)
	}

	return p.process(ctx, path, path, listName, FileComment)
}

func (p *Pusher) process(ctx context.Context,
	target, file, listName string,
	comment CommentFunc) (*Report, error) {
	ctx = logger.WithFields(ctx, zap.String("file", file), zap.String("list", listName))

	var run domain.RunID
	if !p.options.DryRun {
		run = p.startRun(ctx, target)
	}

	report, err := p.processFile(ctx, file, listName, comment)
	if report != nil {
		report.RunID = run
	}
	if !p.options.DryRun {
		p.finishRun(ctx, run, report, err)
	}

	return report, err
}

func (p *Pusher) processFile(ctx context.Context,
	file, listName string,
	comment CommentFunc) (*Report, error) {
	collection, err := LoadURLFile(file)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "loaded url data", zap.Int("apps", len(collection)))

	destinations := BuildDestinations(ctx, collection, comment)
	logger.Info(ctx, "processed urls into destinations",
		zap.Int("urls", collection.TotalURLs()),
		zap.Int("destinations", len(destinations)))
	if len(destinations) == 0 {
		return nil, serrors.With(serrors.ErrBadRequest, "no valid destinations found in %s", file)
	}

	list, err := p.EnsureList(ctx, listName)
	if err != nil {
		return nil, err
	}

	report := &Report{
		File:     file,
		ListID:   list.ID,
		ListName: listName,
		DryRun:   p.options.DryRun,
	}

	if p.options.DryRun {
		report.Submitted = len(destinations)
		for i, d := range destinations[:min(sampleSize, len(destinations))] {
			logger.Info(ctx, "dry run: sample destination",
				zap.Int("sample", i+1),
				zap.String("destination", d.Destination),
				zap.String("type", string(d.Type)),
				zap.String("comment", d.Comment))
		}
		logger.Info(ctx, "dry run: nothing was added",
			zap.Int64("listID", int64(list.ID)),
			zap.Int("destinations", len(destinations)))

		return report, nil
	}

	logger.Info(ctx, "adding destinations to list", zap.Int("count", len(destinations)))
	outcome, err := p.AddDestinations(ctx, list.ID, destinations)
	if err != nil {
		return nil, err
	}
	report.Outcome = *outcome

	p.instruments.AddDestinations(ctx, listName, outcome.Added, outcome.Rejected)
	if outcome.Fallback {
		p.instruments.AddFallback(ctx, listName)
	}

	logger.Info(ctx, "processing completed",
		zap.Int64("listID", int64(list.ID)),
		zap.Int("processed", outcome.Submitted),
		zap.Int("added", outcome.Added))
	if outcome.Added < outcome.Submitted {
		logger.Warn(ctx, "some destinations were not added, possibly due to high-volume domains or other restrictions",
			zap.Int("notAdded", outcome.Submitted-outcome.Added))
	}

	return report, nil
}

func (p *Pusher) startRun(ctx context.Context, target string) domain.RunID {
	if p.storage == nil {
		return domain.RunID{}
	}

	run, err := p.storage.StoreRun(ctx, domain.SyncRun{
		Kind:   domain.RunKindPush,
		Target: target,
		Status: domain.RunStatusRunning,
	})
	if err != nil {
		logger.Warn(ctx, "could not record run", zap.Error(err))

		return domain.RunID{}
	}

	return run.ID
}

func (p *Pusher) finishRun(ctx context.Context, id domain.RunID, report *Report, runErr error) {
	if p.storage == nil || id == (domain.RunID{}) {
		return
	}

	updates := storage.RunUpdates{Status: domain.RunStatusCompleted}
	var rejections []domain.Rejection
	if report != nil {
		updates.ListID = report.ListID
		updates.ListName = report.ListName
		updates.Submitted = report.Submitted
		updates.Added = report.Added
		updates.Rejected = report.Rejected
		updates.Fallback = report.Fallback
		rejections = report.Rejections
	}
	if runErr != nil {
		updates.Status = domain.RunStatusFailed
		updates.LastError = runErr.Error()
	}

	if _, err := p.storage.FinishRun(ctx, id, updates, rejections); err != nil {
		logger.Warn(ctx, "could not record run result", zap.Error(err))
	}
}
