// Package seed imports authored catalog content from a content directory
// into a catalog store.
//
// The directory holds a catalog.json manifest declaring grades and subjects,
// plus any number of *.unit.yaml files each describing one unit and its
// lessons. The manifest is validated against a JSON schema before anything is
// written, so a bad authoring change fails at import time rather than at
// render time.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/afrolearn/afrolearn/internal/catalog"
)

const manifestName = "catalog.json"

const manifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["grades", "subjects"],
  "properties": {
    "grades": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1}
        }
      }
    },
    "subjects": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "icon": {"type": "string"}
        }
      }
    }
  }
}`

// Manifest is the parsed catalog.json document.
type Manifest struct {
	Grades []struct {
		Name string `json:"name"`
	} `json:"grades"`
	Subjects []struct {
		Name string `json:"name"`
		Icon string `json:"icon"`
	} `json:"subjects"`
}

// unitFile is one *.unit.yaml document.
type unitFile struct {
	Subject string `yaml:"subject"`
	Grade   string `yaml:"grade"`
	Name    string `yaml:"name"`
	Lessons []struct {
		Name     string `yaml:"name"`
		VideoURL string `yaml:"video_url"`
		Content  string `yaml:"content"`
	} `yaml:"lessons"`
}

// Importer loads a content directory into a catalog writer.
type Importer struct {
	writer catalog.Writer
}

// NewImporter creates an importer writing to the given catalog.
func NewImporter(writer catalog.Writer) *Importer {
	return &Importer{writer: writer}
}

// Import reads the manifest and every unit file under rootDir and inserts
// the content. Unit files referencing a subject or grade absent from the
// manifest fail the import.
func (i *Importer) Import(ctx context.Context, rootDir string) error {
	manifest, err := loadManifest(filepath.Join(rootDir, manifestName))
	if err != nil {
		return err
	}

	grades := map[string]catalog.Grade{}
	for _, g := range manifest.Grades {
		stored, err := i.writer.InsertGrade(ctx, g.Name)
		if err != nil {
			return fmt.Errorf("insert grade %q: %w", g.Name, err)
		}
		grades[g.Name] = stored
	}

	subjects := map[string]catalog.Subject{}
	for _, s := range manifest.Subjects {
		stored, err := i.writer.InsertSubject(ctx, s.Name, s.Icon)
		if err != nil {
			return fmt.Errorf("insert subject %q: %w", s.Name, err)
		}
		subjects[s.Name] = stored
	}

	units := 0
	lessons := 0
	err = filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		if !strings.HasSuffix(path, ".unit.yaml") && !strings.HasSuffix(path, ".unit.yml") {
			return nil
		}

		u, l, err := i.importUnitFile(ctx, path, subjects, grades)
		if err != nil {
			return err
		}
		units += u
		lessons += l
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("catalog seeded",
		"grades", len(grades),
		"subjects", len(subjects),
		"units", units,
		"lessons", lessons,
	)
	return nil
}

func (i *Importer) importUnitFile(ctx context.Context, path string, subjects map[string]catalog.Subject, grades map[string]catalog.Grade) (int, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read unit file: %w", err)
	}

	var uf unitFile
	if err := yaml.Unmarshal(data, &uf); err != nil {
		return 0, 0, fmt.Errorf("parse %s: %w", path, err)
	}
	if uf.Name == "" {
		return 0, 0, fmt.Errorf("%s: unit name is required", path)
	}

	subject, ok := subjects[uf.Subject]
	if !ok {
		return 0, 0, fmt.Errorf("%s: unknown subject %q", path, uf.Subject)
	}
	grade, ok := grades[uf.Grade]
	if !ok {
		return 0, 0, fmt.Errorf("%s: unknown grade %q", path, uf.Grade)
	}

	unit, err := i.writer.InsertUnit(ctx, catalog.Unit{
		Name:      uf.Name,
		SubjectID: subject.ID,
		GradeID:   grade.ID,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("insert unit %q: %w", uf.Name, err)
	}

	for _, l := range uf.Lessons {
		if _, err := i.writer.InsertLesson(ctx, catalog.Lesson{
			Name:     l.Name,
			UnitID:   unit.ID,
			VideoURL: l.VideoURL,
			Content:  l.Content,
		}); err != nil {
			return 0, 0, fmt.Errorf("insert lesson %q: %w", l.Name, err)
		}
	}

	return 1, len(uf.Lessons), nil
}

// loadManifest reads and schema-validates the catalog manifest.
func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(manifestSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate manifest: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("manifest invalid: %s", strings.Join(msgs, "; "))
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &manifest, nil
}
