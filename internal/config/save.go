package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Keys returns every settable key in dot notation, sorted.
func Keys() []string {
	values := DefaultValues()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetValue updates a single dotted key (e.g. "theme.accent") in the config
// file. Comments and formatting elsewhere are preserved by editing the
// yaml.Node tree. The result is validated before it replaces the file.
func SetValue(configPath, key, raw string) error {
	def, ok := DefaultValues()[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	value, err := scalarNode(def, raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // G304: path is the user's config file
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config: top level is not a mapping")
	}

	if err := setPath(doc.Content[0], strings.Split(key, "."), value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeValidated(configPath, buf.Bytes())
}

// setPath walks mapping nodes along path, creating missing sections, and
// replaces the leaf value. Comments attached to an existing leaf are kept.
func setPath(node *yaml.Node, path []string, value *yaml.Node) error {
	name := path[0]
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != name {
			continue
		}
		child := node.Content[i+1]
		if len(path) == 1 {
			value.LineComment = child.LineComment
			value.HeadComment = child.HeadComment
			value.FootComment = child.FootComment
			node.Content[i+1] = value
			return nil
		}
		if child.Kind != yaml.MappingNode {
			// "editor:" with no body decodes as a null scalar.
			if child.Kind == yaml.ScalarNode && child.Tag == "!!null" {
				child.Kind = yaml.MappingNode
				child.Tag = ""
				child.Value = ""
			} else {
				return fmt.Errorf("section %q is not a mapping", name)
			}
		}
		return setPath(child, path[1:], value)
	}

	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: name}
	if len(path) == 1 {
		node.Content = append(node.Content, keyNode, value)
		return nil
	}
	section := &yaml.Node{Kind: yaml.MappingNode}
	node.Content = append(node.Content, keyNode, section)
	return setPath(section, path[1:], value)
}

// scalarNode parses raw into a node with the same type as def.
func scalarNode(def any, raw string) (*yaml.Node, error) {
	switch def.(type) {
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("expected true or false, got %q", raw)
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}, nil
	case float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("expected a number, got %q", raw)
		}
		v := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(v, ".") {
			v += ".0"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: v}, nil
	default:
		n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: raw}
		if raw == "" || strings.HasPrefix(raw, "#") {
			n.Style = yaml.DoubleQuotedStyle
		}
		return n, nil
	}
}

// writeValidated writes data to a temp file next to configPath, loads it
// as a config, and renames it into place only if it is valid.
func writeValidated(configPath string, data []byte) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".modeline.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if _, err := Load(tempPath); err != nil {
		_ = os.Remove(tempPath)
		return err
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
