package destinations

import (
	"context"
	"fmt"
	"net/url"
	"riskblock/pkg/domain"
	"riskblock/pkg/logger"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// Classify turns a collected URL into a destination. URLs with a path are
// kept whole as url destinations; everything else is reduced to its host as
// a domain destination. Strings without a scheme are domains unless they
// start with www., which are treated as https URLs. ok is false for empty
// or unparsable input.
func Classify(raw string) (domain.Destination, bool) {
	if raw == "" {
		return domain.Destination{}, false
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		if !strings.HasPrefix(raw, "www.") {
			return domain.Destination{Destination: raw, Type: domain.DestinationTypeDomain}, true
		}
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return domain.Destination{}, false
	}

	if u.Path != "" && u.Path != "/" {
		return domain.Destination{Destination: raw, Type: domain.DestinationTypeURL}, true
	}

	host := u.Host
	if host == "" {
		host = u.Path
	}
	if host == "" {
		return domain.Destination{}, false
	}

	return domain.Destination{Destination: host, Type: domain.DestinationTypeDomain}, true
}

// CommentFunc builds the comment stored with each destination of an application.
type CommentFunc func(appName string, appID domain.AppID) string

// RiskComment labels destinations collected for a risk level.
func RiskComment(level string) CommentFunc {
	level = strings.ToLower(level)

	return func(appName string, appID domain.AppID) string {
		return fmt.Sprintf("From %s risk app: %s (ID: %s)", level, appName, appID.OrUnknown())
	}
}

// FileComment labels destinations read from an arbitrary file.
func FileComment(appName string, appID domain.AppID) string {
	return fmt.Sprintf("From app: %s (ID: %s)", appName, appID.OrUnknown())
}

// BuildDestinations classifies every URL of the collection, applications in
// name order. URLs that cannot be classified are logged and skipped.
func BuildDestinations(ctx context.Context, c domain.URLCollection, comment CommentFunc) []domain.Destination {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	slices.Sort(names)

	var out []domain.Destination
	for _, name := range names {
		app := c[name]
		for _, raw := range app.URLs {
			d, ok := Classify(raw)
			if !ok {
				logger.Warn(ctx, "could not classify url", zap.String("app", name), zap.String("url", raw))

				continue
			}
			d.Comment = comment(name, app.AppID)
			if err := d.Validate(); err != nil {
				logger.Warn(ctx, "invalid destination", zap.String("url", raw), zap.Error(err))

				continue
			}
			out = append(out, d)
		}
	}

	return out
}
