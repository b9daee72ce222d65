package blogindex

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/byteland/bytelog/pkg/interfaces"
)

// ErrManifestInvalid wraps schema violations found before the artifact is written.
var ErrManifestInvalid = errors.New("blogindex: manifest failed schema validation")

const artifactMode = 0o644

//go:embed manifest.schema.json
var manifestSchemaJSON []byte

// ArtifactWriter persists an encoded manifest.
type ArtifactWriter interface {
	Write(ctx context.Context, path string, manifest interfaces.Manifest) error
}

// Issue is a single schema violation.
type Issue struct {
	Location string
	Message  string
}

// ValidationError lists the schema violations of a manifest document.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "#"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return fmt.Sprintf("%s: %s", ErrManifestInvalid.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrManifestInvalid
}

// FileWriter encodes the manifest as indented JSON, validates it, and replaces
// the artifact atomically.
type FileWriter struct{}

// NewFileWriter returns the default artifact writer.
func NewFileWriter() *FileWriter {
	return &FileWriter{}
}

func (w *FileWriter) Write(ctx context.Context, path string, manifest interfaces.Manifest) error {
	if strings.TrimSpace(path) == "" {
		return ErrOutputPathRequired
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(manifest)
	if err != nil {
		return err
	}
	if err := ValidateDocument(data); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("blogindex: create output directory %s: %w", dir, err)
		}
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("blogindex: write manifest %s: %w", path, err)
	}
	if err := os.Chmod(path, artifactMode); err != nil {
		return fmt.Errorf("blogindex: set manifest permissions %s: %w", path, err)
	}
	return nil
}

// Encode renders the manifest as a two-space indented JSON array followed by
// a newline. A nil manifest encodes as [].
func Encode(manifest interfaces.Manifest) ([]byte, error) {
	if manifest == nil {
		manifest = interfaces.Manifest{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(manifest); err != nil {
		return nil, fmt.Errorf("blogindex: encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a manifest document.
func Decode(data []byte) (interfaces.Manifest, error) {
	var manifest interfaces.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("blogindex: decode manifest: %w", err)
	}
	if manifest == nil {
		manifest = interfaces.Manifest{}
	}
	return manifest, nil
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func manifestSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("manifest.schema.json", bytes.NewReader(manifestSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("blogindex: load manifest schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("manifest.schema.json")
	})
	return compiledSchema, schemaErr
}

// ValidateDocument checks an encoded manifest against the manifest schema.
func ValidateDocument(data []byte) error {
	schema, err := manifestSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrManifestInvalid, err)
	}
	if err := schema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &ValidationError{Issues: collectIssues(validationErr)}
		}
		return fmt.Errorf("%w: %v", ErrManifestInvalid, err)
	}
	return nil
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	issues := []Issue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
