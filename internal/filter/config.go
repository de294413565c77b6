package filter

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"mcqkit/internal/manifest"
)

// Config is a declarative filter description discriminated by Type. It is
// decoded from YAML; the fields accepted depend on the type.
type Config struct {
	Type string
	spec builder
}

type builder interface {
	build(opts buildOptions) (Filter, error)
}

type buildOptions struct {
	baseDir string
}

// Option configures FromConfig.
type Option func(*buildOptions)

// WithBaseDir resolves relative manifest paths against dir.
func WithBaseDir(dir string) Option {
	return func(opts *buildOptions) {
		opts.baseDir = dir
	}
}

type tagSpec struct {
	Tags     []string `yaml:"tags"`
	Value    []string `yaml:"value"`
	MatchAll bool     `yaml:"match_all"`
	Exclude  bool     `yaml:"exclude"`
}

type difficultySpec struct {
	Difficulty string `yaml:"difficulty"`
	Value      string `yaml:"value"`
}

type dateSpec struct {
	Date          string `yaml:"date"`
	DateValue     string `yaml:"date_value"`
	Value         string `yaml:"value"`
	StrictMissing bool   `yaml:"strict_missing"`
}

type manifestSpec struct {
	ManifestPath string          `yaml:"manifest_path"`
	Manifest     []manifest.Item `yaml:"manifest"`
	Exclude      *bool           `yaml:"exclude"`
}

type slugSpec struct {
	Slugs   []string `yaml:"slugs"`
	Value   []string `yaml:"value"`
	Exclude bool     `yaml:"exclude"`
}

type compositeSpec struct {
	Filters []Config `yaml:"filters"`
}

type stratifiedSpec struct {
	Filters           []Config  `yaml:"filters"`
	Proportions       []float64 `yaml:"proportions"`
	NumberOfQuestions int       `yaml:"number_of_questions"`
}

// UnmarshalYAML reads the type discriminator, then decodes the remaining keys
// into the matching variant and rejects keys the variant does not know.
func (cfg *Config) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: filter must be a mapping", ErrInvalidConfig, node.Line)
	}
	var head struct {
		Type string `yaml:"type"`
	}
	if err := node.Decode(&head); err != nil {
		return fmt.Errorf("%w: line %d: %v", ErrInvalidConfig, node.Line, err)
	}
	kind := strings.ToLower(strings.TrimSpace(head.Type))
	if kind == "" {
		return fmt.Errorf("%w: line %d: filter type is required", ErrInvalidConfig, node.Line)
	}
	var spec builder
	switch kind {
	case "tag", "tags":
		spec = &tagSpec{}
	case "difficulty":
		spec = &difficultySpec{}
	case "date":
		spec = &dateSpec{}
	case "manifest":
		spec = &manifestSpec{}
	case "slug", "slugs":
		spec = &slugSpec{}
	case "composite":
		spec = &compositeSpec{}
	case "stratified":
		spec = &stratifiedSpec{}
	default:
		return &UnknownTypeError{Type: head.Type}
	}
	if err := checkKeys(node, spec); err != nil {
		return err
	}
	if err := node.Decode(spec); err != nil {
		return fmt.Errorf("%w: %s filter: %w", ErrInvalidConfig, kind, err)
	}
	cfg.Type = kind
	cfg.spec = spec
	return nil
}

func checkKeys(node *yaml.Node, spec builder) error {
	allowed := map[string]struct{}{"type": {}}
	for _, key := range yamlKeys(spec) {
		allowed[key] = struct{}{}
	}
	var unknown []string
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if _, ok := allowed[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: line %d: unknown field(s) %s", ErrInvalidConfig, node.Line, strings.Join(unknown, ", "))
	}
	return nil
}

func yamlKeys(spec builder) []string {
	switch spec.(type) {
	case *tagSpec:
		return []string{"tags", "value", "match_all", "exclude"}
	case *difficultySpec:
		return []string{"difficulty", "value"}
	case *dateSpec:
		return []string{"date", "date_value", "value", "strict_missing"}
	case *manifestSpec:
		return []string{"manifest_path", "manifest", "exclude"}
	case *slugSpec:
		return []string{"slugs", "value", "exclude"}
	case *compositeSpec:
		return []string{"filters"}
	case *stratifiedSpec:
		return []string{"filters", "proportions", "number_of_questions"}
	}
	return nil
}

// ParseConfig decodes a single YAML filter configuration.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&cfg); err != nil {
		if err == io.EOF {
			return Config{}, fmt.Errorf("%w: empty document", ErrInvalidConfig)
		}
		return Config{}, err
	}
	return cfg, nil
}

// FromMap builds a filter from a generic configuration map such as
// {"type": "tag", "tags": ["python"], "exclude": true}.
func FromMap(values map[string]any, opts ...Option) (Filter, error) {
	data, err := yaml.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}
	return FromConfig(cfg, opts...)
}

// FromConfig builds the filter described by cfg.
func FromConfig(cfg Config, opts ...Option) (Filter, error) {
	if cfg.spec == nil {
		if cfg.Type == "" {
			return nil, fmt.Errorf("%w: filter type is required", ErrInvalidConfig)
		}
		return nil, &UnknownTypeError{Type: cfg.Type}
	}
	var options buildOptions
	for _, opt := range opts {
		opt(&options)
	}
	return cfg.spec.build(options)
}

// FromConfigs builds a composite of cfgs, or nil when cfgs is empty.
func FromConfigs(cfgs []Config, opts ...Option) (Filter, error) {
	if len(cfgs) == 0 {
		return nil, nil
	}
	var options buildOptions
	for _, opt := range opts {
		opt(&options)
	}
	return buildAll(cfgs, options)
}

func buildAll(cfgs []Config, opts buildOptions) (*CompositeFilter, error) {
	filters := make([]Filter, 0, len(cfgs))
	for i, cfg := range cfgs {
		if cfg.spec == nil {
			return nil, fmt.Errorf("filters[%d]: %w", i, &UnknownTypeError{Type: cfg.Type})
		}
		f, err := cfg.spec.build(opts)
		if err != nil {
			return nil, fmt.Errorf("filters[%d]: %w", i, err)
		}
		filters = append(filters, f)
	}
	return Composite(filters...), nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func (spec *tagSpec) build(buildOptions) (Filter, error) {
	tags := append(append([]string(nil), spec.Tags...), spec.Value...)
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: tag filter requires tags", ErrInvalidConfig)
	}
	return Tag(tags, spec.MatchAll, spec.Exclude), nil
}

func (spec *difficultySpec) build(buildOptions) (Filter, error) {
	return Difficulty(firstNonEmpty(spec.Difficulty, spec.Value))
}

func (spec *dateSpec) build(buildOptions) (Filter, error) {
	return Date(firstNonEmpty(spec.Date, spec.DateValue, spec.Value), spec.StrictMissing)
}

func (spec *manifestSpec) build(opts buildOptions) (Filter, error) {
	exclude := true
	if spec.Exclude != nil {
		exclude = *spec.Exclude
	}
	options := ManifestOptions{Exclude: exclude}
	if spec.Manifest != nil {
		m, err := manifest.FromItems(spec.Manifest)
		if err != nil {
			return nil, err
		}
		options.Manifest = m
	}
	if spec.ManifestPath != "" {
		options.Path = spec.ManifestPath
		if opts.baseDir != "" && !filepath.IsAbs(options.Path) {
			options.Path = filepath.Join(opts.baseDir, options.Path)
		}
	}
	return Manifest(options)
}

func (spec *slugSpec) build(buildOptions) (Filter, error) {
	slugs := append(append([]string(nil), spec.Slugs...), spec.Value...)
	if len(slugs) == 0 {
		return nil, fmt.Errorf("%w: slug filter requires slugs", ErrInvalidConfig)
	}
	return Slug(slugs, spec.Exclude), nil
}

func (spec *compositeSpec) build(opts buildOptions) (Filter, error) {
	if len(spec.Filters) == 0 {
		return nil, fmt.Errorf("%w: composite filter requires filters", ErrInvalidConfig)
	}
	return buildAll(spec.Filters, opts)
}

func (spec *stratifiedSpec) build(opts buildOptions) (Filter, error) {
	composite, err := buildAll(spec.Filters, opts)
	if err != nil {
		return nil, err
	}
	return Stratified(composite.filters, spec.Proportions, spec.NumberOfQuestions)
}
