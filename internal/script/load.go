package script

import (
	"errors"
	"fmt"
	"maps"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmpty is returned for a document with no content.
	ErrEmpty = errors.New("script is empty")
	// ErrInvalidSteps is returned when steps is not one of the accepted shapes.
	ErrInvalidSteps = errors.New("steps must be a list of steps, a map of group name to steps, or a list of groups")
)

type document struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Steps       yaml.Node `yaml:"steps"`
	Scenes      yaml.Node `yaml:"scenes"`
}

type group struct {
	Name  string    `yaml:"name"`
	App   string    `yaml:"app"`
	Steps yaml.Node `yaml:"steps"`
	Parts yaml.Node `yaml:"parts"`
}

// Load reads and parses the script file at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse script %s: %w", path, err)
	}
	return s, nil
}

// Parse parses a script document.
func Parse(data []byte) (*Script, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, ErrEmpty
	}
	if top := root.Content[0]; top.Kind == yaml.ScalarNode && top.Tag == "!!null" {
		return nil, ErrEmpty
	}
	// A bare list is the steps of an unnamed script.
	if top := resolveAlias(root.Content[0]); top.Kind == yaml.SequenceNode {
		parts, err := parseParts(top)
		if err != nil {
			return nil, err
		}
		return &Script{Parts: parts}, nil
	}
	if root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a list of steps or a mapping with name, description and steps", root.Content[0].Line)
	}

	var doc document
	if err := root.Content[0].Decode(&doc); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}

	stepsNode := &doc.Steps
	if stepsNode.Kind == 0 {
		stepsNode = &doc.Scenes
	}
	parts, err := parseParts(stepsNode)
	if err != nil {
		return nil, err
	}

	return &Script{
		Name:        doc.Name,
		Description: doc.Description,
		Parts:       parts,
	}, nil
}

// parseParts reduces any of the accepted step shapes to ordered parts.
func parseParts(node *yaml.Node) ([]Part, error) {
	node = resolveAlias(node)
	switch node.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, nil
		}
		return nil, fmt.Errorf("line %d: %w", node.Line, ErrInvalidSteps)
	case yaml.MappingNode:
		// Group name -> steps, in document order.
		parts := make([]Part, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			steps, err := parseSteps(node.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("group %q: %w", node.Content[i].Value, err)
			}
			parts = append(parts, Part{Name: node.Content[i].Value, Steps: steps})
		}
		return parts, nil
	case yaml.SequenceNode:
		var parts []Part
		var flat []Step
		for _, item := range node.Content {
			item = resolveAlias(item)
			if !isGroup(item) {
				step, err := decodeStepNode(item)
				if err != nil {
					return nil, err
				}
				flat = append(flat, step)
				continue
			}
			if len(flat) > 0 {
				parts = append(parts, Part{Steps: flat})
				flat = nil
			}
			p, err := parseGroup(item)
			if err != nil {
				return nil, err
			}
			parts = append(parts, p)
		}
		if len(flat) > 0 {
			parts = append(parts, Part{Steps: flat})
		}
		return parts, nil
	default:
		return nil, fmt.Errorf("line %d: %w", node.Line, ErrInvalidSteps)
	}
}

func parseGroup(node *yaml.Node) (Part, error) {
	var g group
	if err := node.Decode(&g); err != nil {
		return Part{}, fmt.Errorf("line %d: %w", node.Line, err)
	}
	stepsNode := &g.Steps
	if stepsNode.Kind == 0 {
		stepsNode = &g.Parts
	}
	steps, err := parseSteps(stepsNode)
	if err != nil {
		return Part{}, fmt.Errorf("group %q: %w", g.Name, err)
	}
	return Part{Name: g.Name, App: g.App, Steps: steps}, nil
}

func parseSteps(node *yaml.Node) ([]Step, error) {
	node = resolveAlias(node)
	switch node.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, nil
		}
	case yaml.SequenceNode:
		steps := make([]Step, 0, len(node.Content))
		for _, item := range node.Content {
			step, err := decodeStepNode(resolveAlias(item))
			if err != nil {
				return nil, err
			}
			steps = append(steps, step)
		}
		return steps, nil
	}
	return nil, fmt.Errorf("line %d: expected a list of steps", node.Line)
}

func decodeStepNode(node *yaml.Node) (Step, error) {
	if node.Kind != yaml.MappingNode {
		return Step{}, fmt.Errorf("line %d: step must be a mapping with an action", node.Line)
	}
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return Step{}, fmt.Errorf("line %d: %w", node.Line, err)
	}
	step, err := DecodeStep(raw)
	if err != nil {
		return Step{}, fmt.Errorf("line %d: %w", node.Line, err)
	}
	return step, nil
}

// DecodeStep builds a Step from a generic field map, as produced by a YAML or
// JSON decoder. Scalars are converted leniently (e.g. text: 42 becomes "42").
func DecodeStep(raw map[string]any) (Step, error) {
	var step Step
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &step,
	})
	if err != nil {
		return Step{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Step{}, fmt.Errorf("decode step: %w", err)
	}
	step.Fields = maps.Clone(raw)
	return step, nil
}

// isGroup reports whether a list item is a group object rather than a step.
func isGroup(node *yaml.Node) bool {
	if node.Kind != yaml.MappingNode {
		return false
	}
	var hasName, hasAction bool
	for i := 0; i+1 < len(node.Content); i += 2 {
		switch node.Content[i].Value {
		case "steps", "parts":
			return true
		case "name":
			hasName = true
		case "action":
			hasAction = true
		}
	}
	return hasName && !hasAction
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}
