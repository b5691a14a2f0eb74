package model

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ArtifactVersion tags the on-disk model format. Bump when the
// serialized shape changes incompatibly.
const ArtifactVersion = 1

// FeatureListName is the sidecar file listing the model's feature
// columns in training order, one per line.
const FeatureListName = "feature_columns.txt"

// Artifact is a self-contained trained model: the forest itself plus
// everything needed to rebuild identical input vectors at predict time.
type Artifact struct {
	Version      int        `json:"version"`
	TrainedAt    time.Time  `json:"trained_at"`
	Seed         int64      `json:"seed"`
	Options      Options    `json:"options"`
	FeatureNames []string   `json:"feature_names"`
	ConfigHash   string     `json:"config_hash,omitempty"`
	Evaluation   Evaluation `json:"evaluation"`
	Forest       *Forest    `json:"forest"`
}

// Hash identifies the artifact for tracking. It covers the forest and
// feature layout but not the training timestamp, so retraining on the
// same data with the same seed yields the same hash.
func (a *Artifact) Hash() string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	_ = enc.Encode(a.Seed)
	_ = enc.Encode(a.FeatureNames)
	_ = enc.Encode(a.Forest)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Save writes the artifact as JSON plus the feature_columns.txt sidecar
// into dir, creating it if needed. Returns the artifact path.
func (a *Artifact) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create model dir: %w", err)
	}

	path := filepath.Join(dir, "model.json")
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write model: %w", err)
	}

	if err := WriteFeatureList(filepath.Join(dir, FeatureListName), a.FeatureNames); err != nil {
		return "", err
	}
	return path, nil
}

// LoadArtifact reads a model saved by Save.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	if a.Forest == nil || len(a.Forest.Trees) == 0 {
		return nil, fmt.Errorf("model %s has no trees", path)
	}
	if a.Version != ArtifactVersion {
		return nil, fmt.Errorf("model %s has version %d, want %d", path, a.Version, ArtifactVersion)
	}
	return &a, nil
}

// WriteFeatureList writes the feature names one per line.
func WriteFeatureList(path string, names []string) error {
	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write feature list: %w", err)
	}
	return nil
}

// ReadFeatureList reads a feature_columns.txt sidecar.
func ReadFeatureList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read feature list: %w", err)
	}
	defer f.Close()

	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			names = append(names, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read feature list: %w", err)
	}
	return names, nil
}
