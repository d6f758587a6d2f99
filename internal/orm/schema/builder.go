package schema

import (
	"reflect"

	"go.uber.org/zap"
)

// BuildOption configures Build
type BuildOption func(*builder)

// WithLogger sets the logger used while building the registry
func WithLogger(logger *zap.Logger) BuildOption {
	return func(b *builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

type builder struct {
	logger *zap.Logger
}

// Build creates the descriptor of every type carrying a Document marker and
// returns them keyed by collection name. Types without a marker are skipped.
// When two types declare the same collection the later one wins. A marker
// with an empty collection name or schema version fails the whole build
// with a *ConfigurationError.
func Build(types []reflect.Type, cmp Comparator, opts ...BuildOption) (*Registry, error) {
	b := &builder{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}

	registry := newRegistry()
	for _, t := range types {
		info, ok := DocumentOf(t)
		if !ok {
			b.logger.Debug("skipping type without document marker", zap.Stringer("type", t))
			continue
		}
		if info.Collection == "" {
			return nil, &ConfigurationError{Type: t, Reason: "collection name is empty"}
		}
		if info.SchemaVersion == "" {
			return nil, &ConfigurationError{Type: t, Reason: "schema version is empty"}
		}

		d := NewDescriptor(info.Collection, t, info.SchemaVersion, cmp)
		if len(d.idCandidates) > 1 {
			b.logger.Warn("multiple identifier fields, using the last one",
				zap.String("collection", info.Collection),
				zap.Strings("fields", d.idCandidates),
				zap.String("id_field", d.idField))
		}

		if prev := registry.put(d); prev != nil {
			b.logger.Warn("duplicate collection name, replacing earlier type",
				zap.String("collection", info.Collection),
				zap.Stringer("previous", prev.RecordType()),
				zap.Stringer("type", d.RecordType()))
		}

		b.logger.Debug("registered collection",
			zap.String("collection", info.Collection),
			zap.String("schema_version", info.SchemaVersion),
			zap.Stringer("type", d.RecordType()),
			zap.Bool("has_id", d.hasID),
			zap.Int("secret_fields", len(d.secretFields)))
	}

	return registry, nil
}
