package destinations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"riskblock/pkg/domain"
	"riskblock/pkg/logger"
	"riskblock/pkg/umbrella"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// highVolumeMarker identifies refusals of popular domains, which the API
// will never accept into a block list.
const highVolumeMarker = "high-volume domain"

// sampleSize is the number of destinations logged before each batch.
const sampleSize = 3

var messageUnescaper = strings.NewReplacer(`\"`, `"`, `\/`, `/`) //nolint: gochecknoglobals

// Outcome is the result of adding destinations to a list.
type Outcome struct {
	// Submitted is the number of destinations sent.
	Submitted int
	// Added is the best known number of destinations that made it into the list.
	Added int
	// Rejected is Submitted minus Added, or the count reported by the API.
	Rejected int
	// Rejections lists refused destinations when the API named them.
	Rejections []domain.Rejection
	// Fallback is set when destinations were resubmitted one at a time.
	Fallback bool
}

// AddDestinations submits destinations in batches and interprets each
// response. When the API reports rejections or fewer additions than sent,
// the list is re-read: an empty list means the batches did not land and every
// destination is resubmitted on its own. Otherwise a gain over the count seen
// before the upload is taken as the number added, and without a gain the
// batch results stand.
func (p *Pusher) AddDestinations(ctx context.Context,
	listID domain.DestinationListID,
	destinations []domain.Destination) (*Outcome, error) {
	out := &Outcome{Submitted: len(destinations)}
	if len(destinations) == 0 {
		return out, nil
	}

	baseline, err := p.destinationCount(ctx, listID)
	if err != nil {
		logger.Warn(ctx, "could not read destination count before upload, assuming 0", zap.Error(err))
		baseline = 0
	}

	if err := p.addBatches(ctx, listID, destinations, out); err != nil {
		return nil, err
	}

	logger.Info(ctx, "batch processing summary",
		zap.Int("processed", out.Submitted),
		zap.Int("added", out.Added),
		zap.Int("rejected", out.Rejected))

	if out.Rejected == 0 && out.Added >= out.Submitted {
		return out, nil
	}

	logger.Warn(ctx, "batch processing had errors or rejections, verifying list")
	after, err := p.destinationCount(ctx, listID)
	if err != nil {
		logger.Warn(ctx, "could not verify destination count, keeping batch results", zap.Error(err))

		return out, nil
	}
	logger.Info(ctx, "destination count after batch processing",
		zap.Int("baseline", baseline),
		zap.Int("count", after))

	if after > 0 {
		if gained := after - baseline; gained > 0 {
			logger.Info(ctx, "batch processing added destinations", zap.Int("added", gained))
			out.setAdded(gained)
		} else {
			logger.Info(ctx, "list count unchanged, keeping batch results", zap.Int("added", out.Added))
		}

		return out, nil
	}

	logger.Warn(ctx, "list is empty after batch processing, submitting individually")
	out.Fallback = true

	added, rejections, err := p.addIndividually(ctx, listID, destinations)
	if err != nil {
		return nil, err
	}
	out.Rejections = rejections

	final, err := p.destinationCount(ctx, listID)
	if err != nil {
		logger.Warn(ctx, "could not read final destination count", zap.Error(err))
		out.setAdded(added)

		return out, nil
	}
	logger.Info(ctx, "destination count after individual processing", zap.Int("count", final))
	out.setAdded(final)

	return out, nil
}

func (o *Outcome) setAdded(n int) {
	o.Added = max(n, 0)
	o.Rejected = max(o.Submitted-o.Added, 0)
}

func (p *Pusher) destinationCount(ctx context.Context, listID domain.DestinationListID) (int, error) {
	l, err := p.policies.DestinationList(ctx, listID)
	if err != nil {
		return 0, fmt.Errorf("could not get destination list: %w", err)
	}

	return l.Meta.DestinationCount, nil
}

// addBatches sends fixed-size batches until all are sent or a failure that
// is not a high-volume refusal stops it. Only context cancellation is
// returned as an error; everything else is folded into out.
func (p *Pusher) addBatches(ctx context.Context,
	listID domain.DestinationListID,
	destinations []domain.Destination,
	out *Outcome) error {
	size := p.options.BatchSize
	total := (len(destinations) + size - 1) / size

	for start, n := 0, 1; start < len(destinations); start, n = start+size, n+1 {
		if start > 0 {
			if err := p.sleep(ctx, p.options.RequestDelay); err != nil {
				return fmt.Errorf("could not add destinations: %w", err)
			}
		}

		batch := destinations[start:min(start+size, len(destinations))]
		ctx := logger.WithFields(ctx, zap.Int("batch", n), zap.Int("batches", total))
		logger.Info(ctx, "adding batch", zap.Int("size", len(batch)))
		for i, d := range batch[:min(sampleSize, len(batch))] {
			logger.Info(ctx, "sample destination",
				zap.Int("sample", i+1),
				zap.String("destination", d.Destination),
				zap.String("type", string(d.Type)))
		}

		res, err := p.policies.AddDestinations(ctx, listID, batch)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("could not add destinations: %w", ctx.Err())
			}
			if strings.Contains(err.Error(), highVolumeMarker) {
				logger.Warn(ctx, "batch refused for high-volume domains, skipping it", zap.Error(err))
				out.Rejected += len(batch)
				out.Rejections = append(out.Rejections, rejectAll(batch, err.Error())...)

				continue
			}
			logger.Error(ctx, "could not add batch, stopping", zap.Error(err))

			return nil
		}

		added, rejections := interpretBatch(ctx, res, batch)
		out.Added += added
		out.Rejected += len(batch) - added
		out.Rejections = append(out.Rejections, rejections...)
	}

	return nil
}

// interpretBatch returns how many destinations of batch were added
// according to res, and the rejected ones it could identify.
func interpretBatch(ctx context.Context,
	res *umbrella.AddDestinationsRes,
	batch []domain.Destination) (int, []domain.Rejection) {
	switch res.Shape {
	case umbrella.ShapeEmbeddedError:
		logger.Warn(ctx, "api returned an error inside a successful response", zap.String("message", res.Message))
		rejected, ok := ParseRejections(res.Message)
		if !ok {
			logger.Warn(ctx, "all destinations in batch were rejected", zap.Int("rejected", len(batch)))

			return 0, rejectAll(batch, res.Message)
		}

		added := max(len(batch)-len(rejected), 0)
		logger.Warn(ctx, "destinations rejected due to high-volume domains", zap.Int("rejected", len(rejected)))
		for _, r := range rejected {
			logger.Warn(ctx, "rejected destination", zap.String("destination", r.Destination), zap.String("reason", r.Reason))
		}
		if added > 0 {
			logger.Info(ctx, "added destinations from batch", zap.Int("added", added))
		}

		return added, rejected
	case umbrella.ShapeStatus:
		if res.HasDestinationCount {
			logger.Info(ctx, "batch processed", zap.Int("destinationCount", res.DestinationCount))
		} else {
			logger.Info(ctx, "batch processed", zap.Int("added", len(batch)))
		}

		return len(batch), nil
	case umbrella.ShapeDataList:
		added := min(len(res.Items), len(batch))
		rejected := missingFrom(batch, res.Items, len(batch)-added)
		if len(batch) > added {
			logger.Warn(ctx, "destinations were rejected in batch", zap.Int("rejected", len(batch)-added))
		}
		logger.Info(ctx, "added destinations from batch", zap.Int("added", added))

		return added, rejected
	case umbrella.ShapeUnknown:
		fallthrough
	default:
		logger.Info(ctx, "added destinations", zap.Int("added", len(batch)))

		return len(batch), nil
	}
}

// ParseRejections decodes the destination -> reason object embedded in an
// error message such as `Invalid destinations: {\"google.com\":\"high-volume domain\"}`.
// ok is false when the message holds no braces or the object cannot be decoded.
func ParseRejections(message string) ([]domain.Rejection, bool) {
	start, end := strings.Index(message, "{"), strings.LastIndex(message, "}")
	if start < 0 || end < start {
		return nil, false
	}

	var details map[string]any
	if err := json.Unmarshal([]byte(messageUnescaper.Replace(message[start:end+1])), &details); err != nil {
		return nil, false
	}

	out := make([]domain.Rejection, 0, len(details))
	for dest, reason := range details {
		r, ok := reason.(string)
		if !ok {
			b, _ := json.Marshal(reason)
			r = string(b)
		}
		out = append(out, domain.Rejection{Destination: dest, Reason: r})
	}
	slices.SortFunc(out, func(a, b domain.Rejection) int { return strings.Compare(a.Destination, b.Destination) })

	return out, true
}

func rejectAll(batch []domain.Destination, reason string) []domain.Rejection {
	out := make([]domain.Rejection, len(batch))
	for i, d := range batch {
		out[i] = domain.Rejection{Destination: d.Destination, Reason: reason}
	}

	return out
}

// missingFrom returns up to limit destinations of batch that are not in accepted.
func missingFrom(batch, accepted []domain.Destination, limit int) []domain.Rejection {
	if limit <= 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(accepted))
	for _, d := range accepted {
		seen[d.Destination] = struct{}{}
	}

	var out []domain.Rejection
	for _, d := range batch {
		if _, ok := seen[d.Destination]; ok {
			continue
		}
		out = append(out, domain.Rejection{Destination: d.Destination, Reason: "not accepted"})
		if len(out) == limit {
			break
		}
	}

	return out
}

// addIndividually submits each destination on its own. An embedded 400 or
// a failed request counts as a rejection.
func (p *Pusher) addIndividually(ctx context.Context,
	listID domain.DestinationListID,
	destinations []domain.Destination) (int, []domain.Rejection, error) {
	logger.Info(ctx, "adding destinations individually", zap.Int("count", len(destinations)))

	added := 0
	var rejections []domain.Rejection
	for i, d := range destinations {
		logger.Info(ctx, "processing destination",
			zap.Int("index", i+1),
			zap.Int("total", len(destinations)),
			zap.String("destination", d.Destination))

		res, err := p.policies.AddDestinations(ctx, listID, []domain.Destination{d})
		switch {
		case err != nil && ctx.Err() != nil:
			return 0, nil, fmt.Errorf("could not add destinations: %w", ctx.Err())
		case err != nil:
			logger.Error(ctx, "destination failed", zap.String("destination", d.Destination), zap.Error(err))
			rejections = append(rejections, domain.Rejection{Destination: d.Destination, Reason: err.Error()})
		case res.HasStatusCode && res.StatusCode == http.StatusBadRequest:
			logger.Warn(ctx, "destination rejected", zap.String("destination", d.Destination), zap.String("reason", res.Message))
			rejections = append(rejections, domain.Rejection{Destination: d.Destination, Reason: res.Message})
		default:
			logger.Info(ctx, "destination added", zap.String("destination", d.Destination))
			added++
		}

		if err := p.sleep(ctx, p.options.RequestDelay); err != nil {
			return 0, nil, fmt.Errorf("could not add destinations: %w", err)
		}
	}

	logger.Info(ctx, "individual processing summary",
		zap.Int("added", added),
		zap.Int("rejected", len(rejections)))

	return added, rejections, nil
}
