package formatter

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/philipp01105/easylog/core"
)

// objectTag marks values that have no YAML form. The dumped scalar holds
// the object's index and a per-dump nonce, and is expanded after encoding.
// User strings cannot carry a marker since they never see the nonce.
const objectTag = "!go/object"

// dumper renders a Map as YAML. Collections nested at least inline
// levels deep are written in flow style on a single line.
type dumper struct {
	inline  int
	nonce   string
	objects []interface{}
}

// dump renders m with the given inline depth and indentation.
// The emitter only supports indents from 2 to 9.
func dump(m core.Map, inline, indent int) (string, error) {
	if indent < 2 {
		indent = 2
	} else if indent > 9 {
		indent = 9
	}

	d := &dumper{inline: inline}
	node := d.collection(m, 0)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(node); err != nil {
		return "", fmt.Errorf("dump: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("dump: %w", err)
	}
	return d.expandObjects(buf.String()), nil
}

func (d *dumper) node(v core.Value, depth int) *yaml.Node {
	switch v.Type {
	case core.NullType:
		return scalar("!!null", "null")
	case core.StringType:
		return scalar("!!str", v.Str)
	case core.IntType:
		return scalar("!!int", strconv.FormatInt(v.Int64, 10))
	case core.FloatType:
		return scalar("!!float", formatFloat(v.Float64))
	case core.BoolType:
		return scalar("!!bool", strconv.FormatBool(v.Bool()))
	case core.TimeType:
		return scalar("!!str", v.Time.Format(isoTime))
	case core.ErrorType:
		return scalar("!!str", v.Err.Message)
	case core.MapType:
		return d.collection(v.Map, depth)
	case core.ListType:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if depth >= d.inline {
			seq.Style = yaml.FlowStyle
		}
		for _, item := range v.List {
			seq.Content = append(seq.Content, d.node(item, depth+1))
		}
		return seq
	default:
		d.objects = append(d.objects, v.Any)
		return scalar(objectTag, d.objectRef(len(d.objects)-1))
	}
}

// collection renders a Map. A Map keyed 0..n-1 is written as a sequence.
func (d *dumper) collection(m core.Map, depth int) *yaml.Node {
	var n *yaml.Node
	if isSequential(m) {
		n = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, f := range m {
			n.Content = append(n.Content, d.node(f.Value, depth+1))
		}
	} else {
		n = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range m {
			n.Content = append(n.Content, keyNode(f.Key), d.node(f.Value, depth+1))
		}
	}
	if depth >= d.inline {
		n.Style = yaml.FlowStyle
	}
	return n
}

func (d *dumper) objectRef(idx int) string {
	if d.nonce == "" {
		d.nonce = strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return "o" + strconv.Itoa(idx) + "x" + d.nonce
}

// expandObjects swaps every marker for the object's printed form. Quoted
// forms come first so the replacer consumes the quotes with the marker.
func (d *dumper) expandObjects(out string) string {
	if len(d.objects) == 0 {
		return out
	}
	pairs := make([]string, 0, len(d.objects)*6)
	for idx, obj := range d.objects {
		ref := d.objectRef(idx)
		printed := fmt.Sprintf("%T %+v", obj, obj)
		pairs = append(pairs,
			objectTag+" '"+ref+"'", printed,
			objectTag+` "`+ref+`"`, printed,
			objectTag+" "+ref, printed,
		)
	}
	return strings.NewReplacer(pairs...).Replace(out)
}

func isSequential(m core.Map) bool {
	if len(m) == 0 {
		return false
	}
	for i, f := range m {
		if !f.Key.Indexed || f.Key.Index != i {
			return false
		}
	}
	return true
}

func keyNode(k core.Key) *yaml.Node {
	if k.Indexed {
		return scalar("!!int", strconv.Itoa(k.Index))
	}
	return scalar("!!str", k.Name)
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// formatFloat keeps a float recognizable as such once dumped
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
