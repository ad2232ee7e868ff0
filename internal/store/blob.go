package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/dukerupert/nosso/internal/model"
)

const (
	DefaultDataKey    = "nosso-app-data"
	DefaultVersionKey = "nosso-app-version"

	// UnreadableSuffix is appended to the data key to name the copy of a
	// blob that could not be decoded.
	UnreadableSuffix = ".unreadable"
)

// BlobStore reads and writes the whole dataset as one JSON value under a
// single key. It does no concurrency control: the last Save wins.
type BlobStore struct {
	kv         KV
	dataKey    string
	versionKey string
	logger     *slog.Logger
}

func NewBlobStore(kv KV, dataKey, versionKey string, logger *slog.Logger) *BlobStore {
	if dataKey == "" {
		dataKey = DefaultDataKey
	}
	if versionKey == "" {
		versionKey = DefaultVersionKey
	}
	return &BlobStore{kv: kv, dataKey: dataKey, versionKey: versionKey, logger: logger}
}

// Load returns the stored dataset. A missing or unparseable blob yields an
// empty dataset; an unparseable one is first copied under UnreadableKey so
// the next Save cannot destroy it. Dates come back as time.Time values.
func (b *BlobStore) Load(ctx context.Context) (*model.Dataset, error) {
	raw, err := b.LoadRaw(ctx)
	if err != nil {
		return nil, err
	}

	ds := &model.Dataset{}
	if raw != "" {
		decoded, err := decodeDataset(raw)
		if err != nil {
			if err := b.kv.Set(ctx, b.UnreadableKey(), raw); err != nil {
				return nil, fmt.Errorf("keep unreadable dataset: %w", err)
			}
			b.logger.Warn("stored dataset is unreadable, starting empty",
				"key", b.dataKey, "kept_as", b.UnreadableKey(), "error", err)
		} else {
			ds = decoded
		}
	}
	ds.Normalize()
	ds.Revision = revision(raw)
	return ds, nil
}

// UnreadableKey is where Load keeps a blob it could not decode.
func (b *BlobStore) UnreadableKey() string {
	return b.dataKey + UnreadableSuffix
}

// Save writes every collection of ds in one Set and records the new
// revision on ds. Session fields are never written.
func (b *BlobStore) Save(ctx context.Context, ds *model.Dataset) error {
	out := *ds
	out.CurrentUser = nil
	out.Couple = nil
	out.Partner = nil
	out.IsLoading = false
	out.Normalize()

	data, err := json.Marshal(&out)
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	if err := b.kv.Set(ctx, b.dataKey, string(data)); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}
	ds.Revision = revision(string(data))
	return nil
}

// LoadRaw returns the stored JSON text, or "" when nothing was ever saved.
func (b *BlobStore) LoadRaw(ctx context.Context) (string, error) {
	raw, err := b.kv.Get(ctx, b.dataKey)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load dataset: %w", err)
	}
	return raw, nil
}

// SaveRaw replaces the stored blob with raw after checking it decodes.
func (b *BlobStore) SaveRaw(ctx context.Context, raw string) error {
	ds, err := decodeDataset(raw)
	if err != nil {
		return fmt.Errorf("decode dataset: %w", err)
	}
	return b.Save(ctx, ds)
}

// CheckVersion compares the stored version marker with version and
// overwrites it on mismatch. Stored data is kept across versions.
func (b *BlobStore) CheckVersion(ctx context.Context, version string) (bool, error) {
	stored, err := b.kv.Get(ctx, b.versionKey)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return false, fmt.Errorf("get version marker: %w", err)
	}
	if stored == version {
		return false, nil
	}
	if err := b.kv.Set(ctx, b.versionKey, version); err != nil {
		return false, fmt.Errorf("set version marker: %w", err)
	}
	b.logger.Info("app version changed", "from", stored, "to", version)
	return true, nil
}

// decodeDataset parses raw into a dataset. Browser clients store points
// straight from number inputs, so a blob may hold values like 12.5 where
// an integer is expected; those are rounded and the decode retried.
func decodeDataset(raw string) (*model.Dataset, error) {
	ds := &model.Dataset{}
	err := json.Unmarshal([]byte(raw), ds)
	if err == nil {
		return ds, nil
	}
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		return nil, err
	}

	rounded, rerr := roundFractions(raw)
	if rerr != nil {
		return nil, err
	}
	ds = &model.Dataset{}
	if err := json.Unmarshal(rounded, ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// roundFractions re-encodes raw with every non-integer number rounded to
// the nearest integer.
func roundFractions(raw string) ([]byte, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return json.Marshal(roundValue(v))
}

func roundValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = roundValue(e)
		}
	case []any:
		for i, e := range x {
			x[i] = roundValue(e)
		}
	case json.Number:
		if _, err := x.Int64(); err == nil {
			return x
		}
		if f, err := x.Float64(); err == nil {
			return json.Number(strconv.FormatFloat(math.Round(f), 'f', -1, 64))
		}
	}
	return v
}

func revision(raw string) string {
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:8])
}
