package sqltree

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/zoobzio/sqltree/expr"
	"github.com/zoobzio/sqltree/internal/render"
)

// Identifiers holds identifier quoting and casing rules.
type Identifiers = render.Identifiers

// Casing is the case unquoted identifiers are folded to.
type Casing = render.Casing

// Identifier casings.
const (
	CaseAsIs  = render.CaseAsIs
	CaseUpper = render.CaseUpper
	CaseLower = render.CaseLower
)

// ParseCasing reads a casing name such as "upper", "lower" or "as-is".
func ParseCasing(s string) (Casing, bool) {
	return render.ParseCasing(s)
}

// Capabilities describes the SQL features supported by a dialect.
type Capabilities = render.Capabilities

// PaginationStyle is the pagination syntax of a dialect.
type PaginationStyle = render.PaginationStyle

// Pagination styles.
const (
	PaginationNone        = render.PaginationNone
	PaginationLimitOffset = render.PaginationLimitOffset
	PaginationLimitComma  = render.PaginationLimitComma
	PaginationOffsetFetch = render.PaginationOffsetFetch
)

// Dialect supplies the rendering rules of one database.
type Dialect interface {
	// Name identifies the dialect in errors and configuration.
	Name() string

	// Identifiers returns the default identifier rules.
	Identifiers() Identifiers

	// Capabilities reports which constructs the dialect can render.
	Capabilities() Capabilities

	// CreateFormatter returns a formatter bound to cfg. Each call returns a
	// fresh formatter.
	CreateFormatter(cfg *Config, pretty bool, indent int) *Formatter
}

type ansiDialect struct{}

// Ansi is the fallback dialect. It renders standard SQL with "?"
// placeholders and refuses pagination.
var Ansi Dialect = ansiDialect{}

func (ansiDialect) Name() string { return "ansi" }

func (ansiDialect) Identifiers() Identifiers {
	return Identifiers{Open: `"`, Close: `"`, Keywords: render.AnsiKeywords}
}

func (ansiDialect) Capabilities() Capabilities {
	return Capabilities{Pagination: PaginationNone, RightJoin: true}
}

func (ansiDialect) CreateFormatter(cfg *Config, pretty bool, indent int) *Formatter {
	return NewFormatter(cfg, pretty, indent)
}

// ResolveDialect picks the dialect to use from the available candidates.
// No candidates yields Ansi, a single candidate is used as is and more than
// one is a configuration error.
func ResolveDialect(candidates ...Dialect) (Dialect, error) {
	switch len(candidates) {
	case 0:
		return Ansi, nil
	case 1:
		return candidates[0], nil
	}
	names := make([]string, len(candidates))
	for i, d := range candidates {
		names[i] = d.Name()
	}
	return nil, fmt.Errorf("%w: %s", ErrAmbiguousDialect, strings.Join(names, ", "))
}

// DialectRegistry maps dialect names to factories. Applications register
// the dialects they link in and resolve one by name at startup.
type DialectRegistry struct {
	factories map[string]func() Dialect
}

// NewDialectRegistry creates an empty registry.
func NewDialectRegistry() *DialectRegistry {
	return &DialectRegistry{factories: make(map[string]func() Dialect)}
}

// Register adds a dialect factory under name.
func (r *DialectRegistry) Register(name string, factory func() Dialect) error {
	key := strings.ToLower(name)
	if _, ok := r.factories[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateDialect, name)
	}
	r.factories[key] = factory
	return nil
}

// Names returns the registered names in sorted order.
func (r *DialectRegistry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the dialect registered under name. An empty name resolves
// over every registered dialect with ResolveDialect.
func (r *DialectRegistry) Resolve(name string) (Dialect, error) {
	if name == "" {
		candidates := make([]Dialect, 0, len(r.factories))
		for _, n := range r.Names() {
			candidates = append(candidates, r.factories[n]())
		}
		return ResolveDialect(candidates...)
	}
	factory, ok := r.factories[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDialect, name)
	}
	return factory(), nil
}

// Config binds a dialect to identifier rules and a logger. A Config is
// immutable once built and may be shared.
type Config struct {
	dialect     Dialect
	identifiers Identifiers
	logger      *slog.Logger
}

type configOptions struct {
	dialect     Dialect
	logger      *slog.Logger
	identifiers []func(*Identifiers)
}

// Option configures NewConfig.
type Option func(*configOptions)

// WithDialect selects the dialect. The default is Ansi.
func WithDialect(d Dialect) Option {
	return func(o *configOptions) { o.dialect = d }
}

// WithLogger sets the logger used by Database.
func WithLogger(l *slog.Logger) Option {
	return func(o *configOptions) { o.logger = l }
}

// WithAlwaysQuote forces quoting of every identifier.
func WithAlwaysQuote(always bool) Option {
	return func(o *configOptions) {
		o.identifiers = append(o.identifiers, func(ids *Identifiers) { ids.AlwaysQuote = always })
	}
}

// WithCasing overrides the dialect's identifier casing.
func WithCasing(c Casing) Option {
	return func(o *configOptions) {
		o.identifiers = append(o.identifiers, func(ids *Identifiers) { ids.Casing = c })
	}
}

// WithKeywords adds words that must be quoted when used as identifiers.
func WithKeywords(words ...string) Option {
	return func(o *configOptions) {
		o.identifiers = append(o.identifiers, func(ids *Identifiers) { *ids = ids.WithKeywords(words...) })
	}
}

// NewConfig builds a Config. Identifier options are applied on top of the
// selected dialect's rules regardless of option order.
func NewConfig(opts ...Option) *Config {
	o := configOptions{dialect: Ansi}
	for _, opt := range opts {
		opt(&o)
	}
	ids := o.dialect.Identifiers()
	for _, apply := range o.identifiers {
		apply(&ids)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Config{dialect: o.dialect, identifiers: ids, logger: logger}
}

// Dialect returns the configured dialect.
func (c *Config) Dialect() Dialect { return c.dialect }

// Identifiers returns the effective identifier rules.
func (c *Config) Identifiers() Identifiers { return c.identifiers }

// Logger returns the configured logger.
func (c *Config) Logger() *slog.Logger { return c.logger }

// FormatExpression renders e on a single line.
func (c *Config) FormatExpression(e expr.Expression) (string, []*expr.Argument, error) {
	return c.Format(e, false, 0)
}

// Format renders e with a fresh formatter of the configured dialect.
func (c *Config) Format(e expr.Expression, pretty bool, indent int) (string, []*expr.Argument, error) {
	return c.dialect.CreateFormatter(c, pretty, indent).Format(e)
}
