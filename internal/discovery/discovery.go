// Package discovery fetches App Discovery applications, filters them by
// weighted risk and collects the URLs referenced anywhere in their metadata.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"riskblock/internal/config"
	"riskblock/pkg/domain"
	"riskblock/pkg/jsonfile"
	"riskblock/pkg/logger"
	"riskblock/pkg/metrics"
	"riskblock/pkg/serrors"
	"riskblock/pkg/storage"
	"riskblock/pkg/umbrella"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultInputFile is read by URL collection when no input is given.
	DefaultInputFile = "medium.json"
	// DefaultOutputFile is written by URL collection over DefaultInputFile.
	DefaultOutputFile = "medium_apps_urls.json"
)

// Options configure paging, pacing and file locations.
type Options struct {
	// PageLimit is the number of applications requested per page.
	PageLimit int
	// DetailDelay is the pause between applications while collecting URLs.
	DetailDelay time.Duration
	// OutputDir is where Run writes its files.
	OutputDir string
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		PageLimit:   cfg.Discovery.PageLimit,
		DetailDelay: cfg.Discovery.DetailDelay,
		OutputDir:   cfg.Discovery.OutputDir,
	}
}

// Result summarizes a discovery or collection run.
type Result struct {
	RunID domain.RunID
	// Apps is the number of applications that matched (or were read from the input file).
	Apps int
	// URLs is the total number of URLs collected.
	URLs int
	// OutputFile is the written URL collection.
	OutputFile string
	Collection domain.URLCollection
}

// Service runs App Discovery extraction. Calls are sequential.
type Service struct {
	options     Options
	apps        umbrella.AppDiscovery
	storage     storage.Storage
	instruments *metrics.Instruments
	sleep       func(ctx context.Context, d time.Duration) error
}

// New creates a Service. storage and instruments may be nil.
func New(apps umbrella.AppDiscovery, storage storage.Storage, instruments *metrics.Instruments, options Options) *Service {
	if options.PageLimit <= 0 {
		options.PageLimit = 100
	}

	return &Service{
		options:     options,
		apps:        apps,
		storage:     storage,
		instruments: instruments,
		sleep:       Sleep,
	}
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err() //nolint: wrapcheck
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err() //nolint: wrapcheck
	case <-t.C:
		return nil
	}
}

// FetchApplications pages through every application until totalPages is
// reached. A failing page stops paging; what was fetched before it is
// returned. Failing on the first page is an error.
func (s *Service) FetchApplications(ctx context.Context) ([]domain.Application, error) {
	var apps []domain.Application
	for page, total := 1, 1; page <= total; page++ {
		res, err := s.apps.Applications(ctx, page, s.options.PageLimit)
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("could not fetch applications: %w", err)
			}
			logger.Warn(ctx, "could not fetch applications page, using pages fetched so far",
				zap.Int("page", page),
				zap.Int("fetched", len(apps)),
				zap.Error(err))

			break
		}

		apps = append(apps, res.Items...)
		total = res.TotalPages
		logger.Info(ctx, "fetched applications page", zap.Int("page", page), zap.Int("totalPages", total))
	}

	return apps, nil
}

// FilterByRisk returns the applications whose weightedRisk equals level, ignoring case.
func FilterByRisk(apps []domain.Application, level string) []domain.Application {
	out := make([]domain.Application, 0, len(apps))
	for _, app := range apps {
		if app.HasRisk(level) {
			out = append(out, app)
		}
	}

	return out
}

// CollectURLs extracts URLs from each application's listing record and its
// detail record. When details cannot be fetched the listing URLs are used
// alone. Applications without URLs are left out.
func (s *Service) CollectURLs(ctx context.Context, apps []domain.Application) (domain.URLCollection, error) {
	collection := domain.URLCollection{}
	for i, app := range apps {
		if i > 0 {
			if err := s.sleep(ctx, s.options.DetailDelay); err != nil {
				return nil, fmt.Errorf("could not collect urls: %w", err)
			}
		}

		ctx := logger.WithFields(ctx,
			zap.String("app", app.DisplayName()),
			zap.String("appID", app.ID.OrUnknown()))
		logger.Info(ctx, "processing application", zap.Int("index", i+1), zap.Int("total", len(apps)))

		set := newURLSet()
		raw := app.Raw
		if len(raw) == 0 {
			b, err := json.Marshal(app)
			if err != nil {
				return nil, fmt.Errorf("could not encode application: %w", err)
			}
			raw = b
		}
		if err := extractInto(ctx, raw, set); err != nil {
			logger.Warn(ctx, "could not extract urls from application record", zap.Error(err))
		}

		if app.ID != "" {
			details, err := s.apps.ApplicationDetails(ctx, app.ID)
			if err != nil {
				logger.Warn(ctx, "could not fetch application details, using listing record only", zap.Error(err))
			} else if err := extractInto(ctx, details, set); err != nil {
				logger.Warn(ctx, "could not extract urls from application details", zap.Error(err))
			}
		}

		urls := set.sorted()
		if len(urls) == 0 {
			logger.Info(ctx, "no urls found")

			continue
		}

		collection[app.DisplayName()] = domain.AppURLs{
			AppID:    app.ID,
			URLs:     urls,
			URLCount: len(urls),
		}
		logger.Info(ctx, "found urls", zap.Int("count", len(urls)))
	}

	return collection, nil
}

// FileStem turns a risk level into a file name stem ("Very High" -> "very_high").
func FileStem(level string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(level)), " ", "_")
}

// OutputFileName is the URL collection file written by Run for level.
func OutputFileName(level string) string {
	return "output_" + FileStem(level) + ".json"
}

// Run fetches all applications, keeps those with the given risk level and
// writes their URLs to output_<level>.json. The filtered applications are
// written to <level>.json first and removed once collection succeeds.
func (s *Service) Run(ctx context.Context, level string) (*Result, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "risk level is required")
	}

	run := s.startRun(ctx, level)
	res, err := s.run(ctx, level)
	if res != nil {
		res.RunID = run
	}
	s.finishRun(ctx, run, res, err)

	return res, err
}

func (s *Service) run(ctx context.Context, level string) (*Result, error) {
	logger.Info(ctx, "fetching applications")
	apps, err := s.FetchApplications(ctx)
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		logger.Warn(ctx, "no applications returned")

		return &Result{}, nil
	}

	filtered := FilterByRisk(apps, level)
	s.instruments.AddApps(ctx, strings.ToLower(level), len(filtered))

	intermediate := filepath.Join(s.options.OutputDir, FileStem(level)+".json")
	if err := jsonfile.Write(intermediate, filtered); err != nil {
		return nil, err //nolint: wrapcheck
	}
	logger.Info(ctx, "saved applications",
		zap.Int("count", len(filtered)),
		zap.String("risk", level),
		zap.String("file", intermediate))

	collection, err := s.CollectURLs(ctx, filtered)
	if err != nil {
		return nil, err
	}

	output := filepath.Join(s.options.OutputDir, OutputFileName(level))
	if err := jsonfile.Write(output, collection); err != nil {
		return nil, err //nolint: wrapcheck
	}
	s.instruments.AddURLs(ctx, strings.ToLower(level), collection.TotalURLs())
	s.logCollection(ctx, output, collection)

	if err := os.Remove(intermediate); err != nil {
		logger.Warn(ctx, "could not remove intermediate file", zap.String("file", intermediate), zap.Error(err))
	} else {
		logger.Info(ctx, "cleaned up intermediate file", zap.String("file", intermediate))
	}

	return &Result{
		Apps:       len(filtered),
		URLs:       collection.TotalURLs(),
		OutputFile: output,
		Collection: collection,
	}, nil
}

// CollectOutputName derives the output file for CollectFromFile: the
// default pair when input is empty, <input without .json>_urls.json when
// only input is given.
func CollectOutputName(input, output string) (string, string) {
	if input == "" {
		if output == "" {
			output = DefaultOutputFile
		}

		return DefaultInputFile, output
	}
	if output == "" {
		output = strings.ReplaceAll(input, ".json", "") + "_urls.json"
	}

	return input, output
}

// CollectFromFile collects URLs for the applications stored in an existing
// applications file and writes the collection to output.
func (s *Service) CollectFromFile(ctx context.Context, input, output string) (*Result, error) {
	input, output = CollectOutputName(input, output)

	run := s.startRun(ctx, input)
	res, err := s.collectFromFile(ctx, input, output)
	if res != nil {
		res.RunID = run
	}
	s.finishRun(ctx, run, res, err)

	return res, err
}

func (s *Service) collectFromFile(ctx context.Context, input, output string) (*Result, error) {
	var apps []domain.Application
	if err := jsonfile.Read(input, &apps); err != nil {
		return nil, err //nolint: wrapcheck
	}
	logger.Info(ctx, "read applications", zap.String("file", input), zap.Int("count", len(apps)))

	collection, err := s.CollectURLs(ctx, apps)
	if err != nil {
		return nil, err
	}
	if err := jsonfile.Write(output, collection); err != nil {
		return nil, err //nolint: wrapcheck
	}
	s.instruments.AddURLs(ctx, strings.TrimSuffix(filepath.Base(input), ".json"), collection.TotalURLs())
	s.logCollection(ctx, output, collection)

	return &Result{
		Apps:       len(apps),
		URLs:       collection.TotalURLs(),
		OutputFile: output,
		Collection: collection,
	}, nil
}

func (s *Service) logCollection(ctx context.Context, output string, c domain.URLCollection) {
	logger.Info(ctx, "url collection completed",
		zap.String("file", output),
		zap.Int("appsWithURLs", len(c)),
		zap.Int("totalURLs", c.TotalURLs()))
}

func (s *Service) startRun(ctx context.Context, target string) domain.RunID {
	if s.storage == nil {
		return domain.RunID{}
	}

	run, err := s.storage.StoreRun(ctx, domain.SyncRun{
		Kind:   domain.RunKindDiscover,
		Target: target,
		Status: domain.RunStatusRunning,
	})
	if err != nil {
		logger.Warn(ctx, "could not record run", zap.Error(err))

		return domain.RunID{}
	}
	logger.Debug(ctx, "recorded run", zap.Stringer("historyID", run.ID))

	return run.ID
}

func (s *Service) finishRun(ctx context.Context, id domain.RunID, res *Result, runErr error) {
	if s.storage == nil || id == (domain.RunID{}) {
		return
	}

	updates := storage.RunUpdates{Status: domain.RunStatusCompleted}
	if res != nil {
		updates.Submitted = res.Apps
		updates.Added = res.URLs
	}
	if runErr != nil {
		updates.Status = domain.RunStatusFailed
		updates.LastError = runErr.Error()
	}

	if _, err := s.storage.FinishRun(ctx, id, updates, nil); err != nil {
		logger.Warn(ctx, "could not record run result", zap.Error(err))
	}
}
