package platform

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Scalar is the set of value types a descriptor conditions per platform.
type Scalar interface {
	string | int
}

// Absent returns the sentinel meaning "no value for this platform": the
// empty string for text and math.MinInt for integers.
func Absent[T Scalar]() T {
	var zero T
	if p, ok := any(&zero).(*int); ok {
		*p = math.MinInt
	}
	return zero
}

type form int

const (
	formUnset form = iota
	formScalar
	formMapping
	formVector
)

// Value is either a single value for every platform or a set of
// per-platform overrides. A platform without an override resolves to
// nothing, never to an error.
type Value[T Scalar] struct {
	form      form
	scalar    T
	overrides map[Platform]T
	vectorLen int
}

// Of returns a Value that applies v on every platform.
func Of[T Scalar](v T) Value[T] {
	return Value[T]{form: formScalar, scalar: v}
}

// PerPlatform returns a Value with explicit overrides. Platforms missing
// from m have no value.
func PerPlatform[T Scalar](m map[Platform]T) Value[T] {
	o := make(map[Platform]T, len(m))
	for p, v := range m {
		o[p] = v
	}
	return Value[T]{form: formMapping, overrides: o}
}

// Resolve returns the effective value on p and whether one exists.
func (v Value[T]) Resolve(p Platform) (T, bool) {
	switch v.form {
	case formScalar:
		return v.scalar, true
	case formMapping, formVector:
		if x, ok := v.overrides[p]; ok {
			return x, true
		}
	}
	return Absent[T](), false
}

// Get returns the effective value on p or the Absent sentinel.
func (v Value[T]) Get(p Platform) T {
	x, _ := v.Resolve(p)
	return x
}

// Or returns the effective value on p, falling back to def.
func (v Value[T]) Or(p Platform, def T) T {
	if x, ok := v.Resolve(p); ok {
		return x
	}
	return def
}

// IsZero reports whether the value was never set. yaml.v3 uses it for
// omitempty.
func (v Value[T]) IsZero() bool { return v.form == formUnset }

func (v *Value[T]) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			*v = Value[T]{}
			return nil
		}
		var x T
		if err := node.Decode(&x); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*v = Of(x)
		return nil

	case yaml.MappingNode:
		out := Value[T]{form: formMapping, overrides: map[Platform]T{}}
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			p, err := Parse(key.Value)
			if err != nil {
				return fmt.Errorf("line %d: %w", key.Line, err)
			}
			if val.ShortTag() == "!!null" {
				continue
			}
			var x T
			if err := val.Decode(&x); err != nil {
				return fmt.Errorf("line %d: %s: %w", val.Line, p, err)
			}
			out.overrides[p] = x
		}
		*v = out
		return nil

	case yaml.SequenceNode:
		// Legacy positional form: index is the platform ordinal.
		out := Value[T]{form: formVector, overrides: map[Platform]T{}, vectorLen: len(node.Content)}
		for i, item := range node.Content {
			if i >= len(All) {
				break
			}
			if item.ShortTag() == "!!null" {
				continue
			}
			var x T
			if err := item.Decode(&x); err != nil {
				return fmt.Errorf("line %d: %s: %w", item.Line, Platform(i), err)
			}
			out.overrides[Platform(i)] = x
		}
		*v = out
		return nil
	}
	return fmt.Errorf("line %d: expected a value, a platform mapping or a list", node.Line)
}

func (v Value[T]) MarshalYAML() (interface{}, error) {
	switch v.form {
	case formScalar:
		return v.scalar, nil
	case formMapping:
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, p := range All {
			x, ok := v.overrides[p]
			if !ok {
				continue
			}
			val := &yaml.Node{}
			if err := val.Encode(x); err != nil {
				return nil, err
			}
			m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: p.String()}, val)
		}
		return m, nil
	case formVector:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
		for i := 0; i < v.vectorLen; i++ {
			item := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
			if x, ok := v.overrides[Platform(i)]; ok {
				if err := item.Encode(x); err != nil {
					return nil, err
				}
			}
			seq.Content = append(seq.Content, item)
		}
		return seq, nil
	}
	return nil, nil
}
