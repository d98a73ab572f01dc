package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// UnknownAppID is used in destination comments when a record carries no app ID.
const UnknownAppID = "unknown"

// AppID identifies an App Discovery application. The API reports numeric IDs
// but intermediate files may carry strings, so both forms are accepted and a
// numeric ID is written back as a JSON number.
type AppID string

// UnmarshalJSON accepts a JSON number, string or null.
func (id *AppID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*id = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("could not decode app id: %w", err)
		}
		*id = AppID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("could not decode app id: %w", err)
		}
		*id = AppID(n.String())
	}

	return nil
}

// MarshalJSON writes integer IDs as numbers, empty IDs as null and anything
// else as a string.
func (id AppID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}

	return json.Marshal(string(id))
}

// OrUnknown returns the ID, or UnknownAppID when it is empty.
func (id AppID) OrUnknown() string {
	if id == "" {
		return UnknownAppID
	}

	return string(id)
}

// Application is one App Discovery record. Only the fields the tool acts on
// are decoded; Raw keeps the full record so files written back out preserve
// every attribute returned by the API.
type Application struct {
	ID           AppID  `json:"id"`
	Name         string `json:"name"`
	WeightedRisk string `json:"weightedRisk"`

	// Raw is the record exactly as received.
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps a copy of the raw record.
func (a *Application) UnmarshalJSON(b []byte) error {
	type plain Application
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("could not decode application: %w", err)
	}
	*a = Application(p)
	a.Raw = append(json.RawMessage(nil), b...)

	return nil
}

// MarshalJSON writes the raw record when available.
func (a Application) MarshalJSON() ([]byte, error) {
	if len(a.Raw) > 0 {
		return a.Raw, nil
	}

	type plain Application

	return json.Marshal(plain(a))
}

// DisplayName returns the application name, or "Unknown" for unnamed records.
func (a Application) DisplayName() string {
	if a.Name == "" {
		return "Unknown"
	}

	return a.Name
}

// HasRisk reports whether the application's weighted risk equals level,
// ignoring case.
func (a Application) HasRisk(level string) bool {
	return strings.EqualFold(a.WeightedRisk, level)
}

// AppURLs is the per-application record of the URL collection file.
type AppURLs struct {
	AppID    AppID    `json:"app_id"`
	URLs     []string `json:"urls"`
	URLCount int      `json:"url_count"`
}

// URLCollection maps application names to their collected URLs. It is the
// format shared by URL collection (writer) and the destination list push
// (reader).
type URLCollection map[string]AppURLs

// TotalURLs sums url_count over all applications.
func (c URLCollection) TotalURLs() int {
	total := 0
	for _, app := range c {
		total += app.URLCount
	}

	return total
}
