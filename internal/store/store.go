// Package store reads job, candidate and user documents. The scoring core never writes.
package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/ablejobs/matchcore/internal/match"
)

var ErrNotFound = errors.New("record not found")

const (
	collectionJobs       = "jobs"
	collectionCandidates = "candidates"
	collectionUsers      = "users"
)

// Reader is the read side of the document store used by the scoring service.
type Reader interface {
	Job(ctx context.Context, id string) (match.JobRecord, error)
	Candidate(ctx context.Context, id string) (match.CandidateRecord, error)
	// ApplicantsForJob returns the candidates who applied to the job, in application order.
	// Applications that point at a missing candidate are skipped.
	ApplicantsForJob(ctx context.Context, jobID string) ([]match.CandidateRecord, error)
	User(ctx context.Context, id string) (match.UserProfile, error)
	// Users returns every user profile ordered by id.
	Users(ctx context.Context) ([]match.UserProfile, error)
}

type Store interface {
	Reader
	Close() error
}

type Config struct {
	Backend  string         `mapstructure:"backend"`
	File     string         `mapstructure:"file"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// Open connects the configured backend. An empty backend means "file".
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch backend := strings.ToLower(strings.TrimSpace(cfg.Backend)); backend {
	case "", "file":
		return OpenFile(cfg.File)
	case "redis":
		return OpenRedis(ctx, cfg.Redis)
	case "postgres", "postgresql":
		return OpenPostgres(ctx, cfg.Postgres)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Backend)
	}
}

func notFound(collection, id string) error {
	return fmt.Errorf("%s %q: %w", strings.TrimSuffix(collection, "s"), id, ErrNotFound)
}

// decode turns a loosely typed document into a record. Values are converted where the intent
// is clear, e.g. "12" into an int or a single string into a one-element list. A document
// without an "id" field takes the key it was stored under.
func decode(doc map[string]any, id string, out any) error {
	if doc == nil {
		doc = map[string]any{}
	}
	if _, ok := doc["id"]; !ok && id != "" {
		doc["id"] = id
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook:       flattenStructuredText,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if err := dec.Decode(doc); err != nil {
		return fmt.Errorf("decode document %q: %w", id, err)
	}
	return nil
}

// flattenStructuredText lets a text field hold an object or a list, as structured résumés do.
// Objects become "key: value" lines in key order. Lists are joined with ", ", or one entry
// per line when an entry spans several lines.
func flattenStructuredText(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	switch from.Kind() {
	case reflect.Map, reflect.Slice:
		return flattenValue(data, ""), nil
	default:
		return data, nil
	}
}

func flattenValue(v any, indent string) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			text := flattenValue(val[k], indent+"  ")
			if strings.Contains(text, "\n") {
				lines = append(lines, indent+k+":", text)
				continue
			}
			lines = append(lines, indent+k+": "+strings.TrimSpace(text))
		}
		return strings.Join(lines, "\n")
	case []any:
		items := make([]string, 0, len(val))
		sep := ", "
		for _, item := range val {
			text := flattenValue(item, indent)
			if text == "" {
				continue
			}
			if strings.Contains(text, "\n") {
				sep = "\n"
			}
			items = append(items, text)
		}
		return strings.Join(items, sep)
	case []string:
		return strings.Join(val, ", ")
	default:
		return fmt.Sprint(val)
	}
}

func decodeJob(doc map[string]any, id string) (match.JobRecord, error) {
	var job match.JobRecord
	err := decode(doc, id, &job)
	return job, err
}

func decodeCandidate(doc map[string]any, id string) (match.CandidateRecord, error) {
	var c match.CandidateRecord
	err := decode(doc, id, &c)
	return c, err
}

func decodeUser(doc map[string]any, id string) (match.UserProfile, error) {
	var u match.UserProfile
	err := decode(doc, id, &u)
	return u, err
}
