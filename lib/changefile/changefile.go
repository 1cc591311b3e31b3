// Package changefile reads and writes change definitions kept in files, used
// for offline processing and fixtures. A file holds one or more YAML
// documents, each a single definition or a list of them. JSON is accepted as
// the YAML subset it is.
package changefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

var ErrEmptyChangeType = errors.New("change definition without changeType")

// FormatFromPath picks the format by file extension. Unknown extensions are
// treated as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

func Read(r io.Reader) ([]change.Definition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) ([]change.Definition, error) {
	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, fmt.Errorf("could not parse change file: %w", err)
	}

	var definitions []change.Definition
	for i, doc := range file.Docs {
		if doc.Body == nil {
			continue
		}
		var decoded []change.Definition
		if doc.Body.Type() == ast.SequenceType {
			err = yaml.NodeToValue(doc.Body, &decoded)
		} else {
			var single change.Definition
			err = yaml.NodeToValue(doc.Body, &single)
			decoded = append(decoded, single)
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		for j, def := range decoded {
			if def.ChangeType == "" {
				return nil, fmt.Errorf("document %d, entry %d: %w", i, j, ErrEmptyChangeType)
			}
			normalized := *change.NewChange(def).Definition()
			if err := change.ValidateID(normalized.FileName); err != nil {
				return nil, fmt.Errorf("document %d, entry %d: %w", i, j, err)
			}
			definitions = append(definitions, normalized)
		}
	}
	return definitions, nil
}

func ReadFile(path string) ([]change.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	definitions, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return definitions, nil
}

func Write(w io.Writer, definitions []change.Definition, format Format) error {
	if definitions == nil {
		definitions = []change.Definition{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(definitions)
	default:
		data, err := yaml.MarshalWithOptions(definitions, yaml.Indent(2), yaml.IndentSequence(true))
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
}

func WriteFile(path string, definitions []change.Definition) error {
	var buf bytes.Buffer
	if err := Write(&buf, definitions, FormatFromPath(path)); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Changes wraps definitions into runtime changes.
func Changes(definitions []change.Definition) []*change.Change {
	changes := make([]*change.Change, 0, len(definitions))
	for _, def := range definitions {
		changes = append(changes, change.NewChange(def))
	}
	return changes
}
