package discovery

import (
	"context"
	"riskblock/pkg/logger"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// urlKeyHints are substrings of keys whose values are expected to hold URLs.
var urlKeyHints = []string{"url", "uri", "link", "href", "endpoint", "domain"} //nolint: gochecknoglobals

// ExtractURLs walks an application record of any shape and returns every
// URL-like string in it, de-duplicated and sorted. A string is collected when
//   - it starts with http:// or https://,
//   - it starts with www. (collected as https://<value>), or
//   - it starts with http and sits under a URL-like key (see urlKeyHints).
//
// Strings inside arrays are judged against the key holding the array.
func ExtractURLs(ctx context.Context, raw []byte) ([]string, error) {
	set := newURLSet()
	if err := extractInto(ctx, raw, set); err != nil {
		return nil, err
	}

	return set.sorted(), nil
}

func extractInto(ctx context.Context, raw []byte, set *urlSet) error {
	w := walker{ctx: ctx, set: set, debug: logger.IsDebug(ctx)}
	if err := w.walk(jx.DecodeBytes(raw), "", ""); err != nil {
		return errors.Wrap(err, "extract urls")
	}

	return nil
}

type walker struct {
	ctx   context.Context //nolint: containedctx
	set   *urlSet
	debug bool
}

func (w walker) walk(d *jx.Decoder, key, path string) error {
	switch tt := d.Next(); tt {
	case jx.Object:
		return d.ObjBytes(func(d *jx.Decoder, k []byte) error {
			name := string(k)
			child := name
			if path != "" {
				child = path + "." + name
			}
			if err := w.walk(d, name, child); err != nil {
				return errors.Wrapf(err, "field %q", name)
			}

			return nil
		})
	case jx.Array:
		i := 0

		return d.Arr(func(d *jx.Decoder) error {
			child := path + "[" + strconv.Itoa(i) + "]"
			i++

			return w.walk(d, key, child)
		})
	case jx.String:
		v, err := d.Str()
		if err != nil {
			return errors.Wrap(err, "read string")
		}
		w.collect(key, path, v)

		return nil
	case jx.Invalid:
		return errors.New("invalid json")
	default:
		if err := d.Skip(); err != nil {
			return errors.Wrapf(err, "skip %s", tt)
		}

		return nil
	}
}

func (w walker) collect(key, path, v string) {
	var found string
	switch {
	case strings.HasPrefix(v, "http://"), strings.HasPrefix(v, "https://"):
		found = v
	case strings.HasPrefix(v, "www."):
		found = "https://" + v
	case isURLKey(key) && strings.HasPrefix(v, "http"):
		found = v
	default:
		return
	}

	if w.set.add(found) && w.debug {
		logger.Debug(w.ctx, "found url", zap.String("path", path), zap.String("url", found))
	}
}

func isURLKey(key string) bool {
	key = strings.ToLower(key)
	for _, hint := range urlKeyHints {
		if strings.Contains(key, hint) {
			return true
		}
	}

	return false
}
