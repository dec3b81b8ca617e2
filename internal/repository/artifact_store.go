package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"TrendCast/internal/domain/models"
	domrepo "TrendCast/internal/domain/repository"
	applogger "TrendCast/pkg/logger"
)

const (
	modelSuffix = "_model.json"
	metaSuffix  = "_meta.json"

	// versionLayout is zero-padded UTC down to nanoseconds so tags sort
	// lexicographically in creation order.
	versionLayout = "20060102T150405.000000000"
)

// FSArtifactStore persists artifacts as two companion files per version
// under one directory: <SYMBOL>_<tag>_model.json and <SYMBOL>_<tag>_meta.json.
// Files are write-once; nothing here mutates or deletes an existing pair.
type FSArtifactStore struct {
	dir string
	l   *applogger.Logger

	mu       sync.Mutex
	lastTags map[string]string // per-symbol guard for strictly increasing tags
	now      func() time.Time
}

// NewFSArtifactStore creates the store rooted at dir, creating it if needed.
func NewFSArtifactStore(dir string, l *applogger.Logger) (*FSArtifactStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifact dir: %w", err)
	}
	return &FSArtifactStore{
		dir:      dir,
		l:        l,
		lastTags: make(map[string]string),
		now:      time.Now,
	}, nil
}

// Save writes the metadata record first and the model blob last, so a model
// file on disk implies its metadata already exists. The version tag is
// unique and strictly increasing per symbol.
func (s *FSArtifactStore) Save(ctx context.Context, meta models.ArtifactMeta, model []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if meta.Symbol == "" {
		return "", fmt.Errorf("save artifact: symbol required")
	}
	if len(meta.Schema) == 0 {
		return "", fmt.Errorf("save artifact: feature schema required")
	}

	symbol := strings.ToUpper(meta.Symbol)
	version := s.nextVersion(symbol)
	meta.Symbol = symbol
	meta.Version = version
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = s.now().UTC()
	}

	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal meta: %w", err)
	}

	prefix := symbol + "_" + version
	if err := s.writeExclusive(prefix+metaSuffix, metaBytes); err != nil {
		return "", err
	}
	if err := s.writeExclusive(prefix+modelSuffix, model); err != nil {
		return "", err
	}

	if s.l != nil {
		s.l.Info("artifact saved",
			applogger.String("symbol", symbol),
			applogger.String("version", version),
			applogger.Int("schema_cols", len(meta.Schema)),
		)
	}
	return version, nil
}

// Latest resolves the greatest version tag for the symbol.
func (s *FSArtifactStore) Latest(ctx context.Context, symbol string) (*models.ModelArtifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	symbol = strings.ToUpper(symbol)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read artifact dir: %w", err)
	}

	prefix := symbol + "_"
	versions := make([]string, 0, 4)
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, modelSuffix) {
			continue
		}
		versions = append(versions, strings.TrimSuffix(strings.TrimPrefix(name, prefix), modelSuffix))
	}
	if len(versions) == 0 {
		return nil, models.NewArtifactNotFoundError(symbol)
	}
	sort.Strings(versions)

	return s.load(symbol, versions[len(versions)-1])
}

// Load deserializes the artifact pinned by "SYMBOL_version".
func (s *FSArtifactStore) Load(ctx context.Context, ref string) (*models.ModelArtifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	symbol, version, ok := strings.Cut(ref, "_")
	if !ok {
		return nil, models.NewArtifactCorruptError(ref, "artifact reference must be SYMBOL_version", nil)
	}
	return s.load(strings.ToUpper(symbol), version)
}

func (s *FSArtifactStore) load(symbol, version string) (*models.ModelArtifact, error) {
	prefix := filepath.Join(s.dir, symbol+"_"+version)
	ref := symbol + "_" + version

	model, err := os.ReadFile(prefix + modelSuffix)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.NewArtifactNotFoundError(ref)
		}
		return nil, fmt.Errorf("read model: %w", err)
	}

	metaBytes, err := os.ReadFile(prefix + metaSuffix)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.NewArtifactCorruptError(ref, "model blob present but metadata missing", err)
		}
		return nil, fmt.Errorf("read meta: %w", err)
	}

	var meta models.ArtifactMeta
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, models.NewArtifactCorruptError(ref, "metadata not parseable", err)
	}
	if len(meta.Schema) == 0 {
		return nil, models.NewArtifactCorruptError(ref, "metadata lacks feature schema", nil)
	}

	return &models.ModelArtifact{
		Symbol:  symbol,
		Version: version,
		Model:   model,
		Meta:    meta,
	}, nil
}

// nextVersion produces a tag strictly greater than any this process issued
// for the symbol. Nanosecond precision keeps concurrent savers across
// processes on distinct filenames; O_EXCL in writeExclusive backstops it.
func (s *FSArtifactStore) nextVersion(symbol string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	tag := s.now().UTC().Format(versionLayout)
	for tag <= s.lastTags[symbol] {
		next, _ := time.Parse(versionLayout, s.lastTags[symbol])
		tag = next.Add(time.Nanosecond).Format(versionLayout)
	}
	s.lastTags[symbol] = tag
	return tag
}

func (s *FSArtifactStore) writeExclusive(name string, data []byte) error {
	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	return nil
}

var _ domrepo.ArtifactStore = (*FSArtifactStore)(nil)
