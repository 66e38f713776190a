package fixture

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-hdf5-schema/internal/memfile"
	"github.com/robert-malhotra/go-hdf5-schema/native"
)

// Type is a datatype written in a layout.
type Type struct {
	dt *memfile.Datatype
}

// Datatype returns the parsed datatype.
func (t Type) Datatype() *memfile.Datatype { return t.dt }

// Member is a compound member written in a layout.
type Member struct {
	Name string `yaml:"name"`
	Type Type   `yaml:"type"`
}

type typeSpec struct {
	Enum     *Type    `yaml:"enum"`
	Compound []Member `yaml:"compound"`
	Array    *Type    `yaml:"array"`
	Dims     []uint64 `yaml:"dims"`
	VarLen   *Type    `yaml:"vlen"`
}

// UnmarshalYAML implements yaml.InterfaceUnmarshaler.
func (t *Type) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err == nil {
		dt, err := ParseType(name)
		if err != nil {
			return err
		}
		t.dt = dt
		return nil
	}

	var spec typeSpec
	if err := unmarshal(&spec); err != nil {
		return errors.Wrap(err, "expected a type name or a type mapping")
	}
	switch {
	case spec.Enum != nil:
		if spec.Enum.dt.Class != native.ClassInteger {
			return errors.New("enum base must be an integer type")
		}
		t.dt = memfile.Enum(spec.Enum.dt)
	case spec.Compound != nil:
		members := make([]memfile.Member, len(spec.Compound))
		for i, m := range spec.Compound {
			if m.Type.dt == nil {
				return errors.Errorf("compound member %q has no type", m.Name)
			}
			members[i] = memfile.Field(m.Name, m.Type.dt)
		}
		t.dt = memfile.Compound(members...)
	case spec.Array != nil:
		if len(spec.Dims) == 0 {
			return errors.New("array type needs dims")
		}
		t.dt = memfile.Array(spec.Array.dt, spec.Dims...)
	case spec.VarLen != nil:
		t.dt = memfile.VarLen(spec.VarLen.dt)
	default:
		return errors.New("type mapping needs one of enum, compound, array or vlen")
	}
	return nil
}

var namedTypes = map[string]func() *memfile.Datatype{
	"int8":      func() *memfile.Datatype { return memfile.Int(1, true) },
	"int16":     func() *memfile.Datatype { return memfile.Int(2, true) },
	"int32":     func() *memfile.Datatype { return memfile.Int(4, true) },
	"int64":     func() *memfile.Datatype { return memfile.Int(8, true) },
	"uint8":     func() *memfile.Datatype { return memfile.Int(1, false) },
	"uint16":    func() *memfile.Datatype { return memfile.Int(2, false) },
	"uint32":    func() *memfile.Datatype { return memfile.Int(4, false) },
	"uint64":    func() *memfile.Datatype { return memfile.Int(8, false) },
	"float32":   memfile.Float32,
	"float64":   memfile.Float64,
	"string":    memfile.VarString,
	"reference": memfile.Reference,
	"none":      memfile.NoClass,
	"time":      func() *memfile.Datatype { return memfile.Time(8) },
	"bitfield":  func() *memfile.Datatype { return memfile.Bitfield(1) },
	"opaque":    func() *memfile.Datatype { return memfile.Opaque(1) },
}

// ParseType parses a type name such as "int32", "string(8)" or
// "float(8,40)".
func ParseType(name string) (*memfile.Datatype, error) {
	name = strings.TrimSpace(name)
	if fn, ok := namedTypes[name]; ok {
		return fn(), nil
	}

	fn, rest, ok := strings.Cut(name, "(")
	if !ok || !strings.HasSuffix(rest, ")") {
		return nil, errors.Errorf("unknown type %q", name)
	}
	args, err := parseArgs(strings.TrimSuffix(rest, ")"))
	if err != nil {
		return nil, errors.Wrapf(err, "type %q", name)
	}

	switch {
	case fn == "int" && len(args) == 1:
		return memfile.Int(args[0], true), nil
	case fn == "uint" && len(args) == 1:
		return memfile.Int(args[0], false), nil
	case fn == "float" && len(args) == 2:
		return memfile.Float(args[0], args[1]), nil
	case fn == "string" && len(args) == 1:
		return memfile.FixedString(args[0]), nil
	case fn == "time" && len(args) == 1:
		return memfile.Time(args[0]), nil
	case fn == "bitfield" && len(args) == 1:
		return memfile.Bitfield(args[0]), nil
	case fn == "opaque" && len(args) == 1:
		return memfile.Opaque(args[0]), nil
	default:
		return nil, errors.Errorf("unknown type %q", name)
	}
}

func parseArgs(s string) ([]int, error) {
	var args []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, errors.Errorf("size %d must be positive", n)
		}
		args = append(args, n)
	}
	return args, nil
}
