// Package file implements the filesystem persistence backend: definition
// documents under the catalog directory and one snapshot file per owner
// under the data directory.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"medscore-backend/application/ports"
	"medscore-backend/domain/catalog"
	pkgerrors "medscore-backend/pkg/errors"
)

// definitionDocument is the on-disk shape of a catalog file. A file may
// bundle any number of definitions of either kind.
type definitionDocument struct {
	Algorithms  []*catalog.AlgorithmDefinition  `json:"algorithms,omitempty" yaml:"algorithms,omitempty"`
	Calculators []*catalog.CalculatorDefinition `json:"calculators,omitempty" yaml:"calculators,omitempty"`
}

// CatalogRepository loads definitions from *.json and *.yaml files in a
// directory and writes admin-managed definitions back as standalone files
// named <kind>-<id>.json.
type CatalogRepository struct {
	dir    string
	logger *zap.Logger
}

// NewCatalogRepository creates the repository
func NewCatalogRepository(dir string, logger *zap.Logger) *CatalogRepository {
	return &CatalogRepository{dir: dir, logger: logger}
}

// LoadDefinitions implements ports.DefinitionSource
func (r *CatalogRepository) LoadDefinitions(ctx context.Context) ([]*catalog.AlgorithmDefinition, []*catalog.CalculatorDefinition, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.Warn("Catalog directory does not exist, starting empty", zap.String("dir", r.dir))
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("reading catalog directory %s: %w", r.dir, err)
	}

	var algorithms []*catalog.AlgorithmDefinition
	var calculators []*catalog.CalculatorDefinition

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(r.dir, entry.Name())
		doc, err := readDocument(path, ext)
		if err != nil {
			return nil, nil, err
		}

		algorithms = append(algorithms, doc.Algorithms...)
		calculators = append(calculators, doc.Calculators...)
	}

	return algorithms, calculators, nil
}

func readDocument(path, ext string) (*definitionDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc definitionDocument
	if ext == ".json" {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, pkgerrors.NewDefinitionError(fmt.Sprintf("catalog file %s is not valid JSON", path)).WithCause(err)
		}
		return &doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, pkgerrors.NewDefinitionError(fmt.Sprintf("catalog file %s is not valid YAML", path)).WithCause(err)
	}
	return &doc, nil
}

// SaveAlgorithm implements ports.DefinitionRepository
func (r *CatalogRepository) SaveAlgorithm(ctx context.Context, def *catalog.AlgorithmDefinition) error {
	return r.writeDefinition(ports.KindAlgorithm, def.ID, definitionDocument{
		Algorithms: []*catalog.AlgorithmDefinition{def},
	})
}

// SaveCalculator implements ports.DefinitionRepository
func (r *CatalogRepository) SaveCalculator(ctx context.Context, def *catalog.CalculatorDefinition) error {
	return r.writeDefinition(ports.KindCalculator, def.ID, definitionDocument{
		Calculators: []*catalog.CalculatorDefinition{def},
	})
}

func (r *CatalogRepository) writeDefinition(kind ports.DefinitionKind, id string, doc definitionDocument) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("creating catalog directory %s: %w", r.dir, err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling definition %s: %w", id, err)
	}

	path := r.definitionPath(kind, id)
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("writing definition file %s: %w", path, err)
	}

	r.logger.Info("Definition saved",
		zap.String("kind", string(kind)),
		zap.String("definitionID", id),
		zap.String("path", path),
	)
	return nil
}

// DeleteDefinition implements ports.DefinitionRepository. Only definitions
// stored as standalone files can be deleted; definitions that came from a
// bundle file are managed by hand.
func (r *CatalogRepository) DeleteDefinition(ctx context.Context, kind ports.DefinitionKind, id string) error {
	path := r.definitionPath(kind, id)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return pkgerrors.NewValidationError(fmt.Sprintf(
				"%s %q is not stored as a standalone file and cannot be deleted through the API", kind, id))
		}
		return fmt.Errorf("removing definition file %s: %w", path, err)
	}

	r.logger.Info("Definition file removed",
		zap.String("kind", string(kind)),
		zap.String("definitionID", id),
	)
	return nil
}

func (r *CatalogRepository) definitionPath(kind ports.DefinitionKind, id string) string {
	return filepath.Join(r.dir, fmt.Sprintf("%s-%s.json", kind, sanitizeName(id)))
}

// sanitizeName keeps ids safe to use as file names
func sanitizeName(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		}
		return '_'
	}, id)
}

// writeFileAtomic writes via a temp file and rename so readers never see a
// partial write.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
