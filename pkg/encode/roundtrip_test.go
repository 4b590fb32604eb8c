package encode

import (
	"encoding/json"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// TestFormRoundTrip checks the encoder against its defining property: for
// any nested payload, the encoded form body parsed back with bracket rules
// reconstructs the original object, with every leaf coming back as a string.
func TestFormRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		obj := genObject(3).Draw(t, "payload")

		raw, err := json.Marshal(obj)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		body, err := Form(raw)
		if err != nil {
			t.Fatalf("Form: %v", err)
		}

		got, err := decodeBracketForm(body)
		if err != nil {
			t.Fatalf("decode %q: %v", body, err)
		}

		want := stringify(obj).(map[string]any)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("round trip mismatch\nbody: %q\ngot:  %#v\nwant: %#v", body, got, want)
		}
	})
}

// genObject generates a non-empty JSON object. Arrays are homogeneous
// (all-scalar or all-object) because the bracket notation distinguishes the
// two shapes; mixed arrays are not representable upstream either.
func genObject(depth int) *rapid.Generator[map[string]any] {
	return rapid.Custom(func(t *rapid.T) map[string]any {
		return rapid.MapOfN(genKey(), genValue(depth-1), 1, 4).Draw(t, "object")
	})
}

func genKey() *rapid.Generator[string] {
	return rapid.StringMatching(`[a-z][a-z0-9_]{0,7}`)
}

func genValue(depth int) *rapid.Generator[any] {
	return rapid.Custom(func(t *rapid.T) any {
		choices := []*rapid.Generator[any]{genScalar()}
		if depth > 0 {
			choices = append(choices,
				rapid.Custom(func(t *rapid.T) any {
					return any(genObject(depth).Draw(t, "nested"))
				}),
				rapid.Custom(func(t *rapid.T) any {
					return any(genScalarArray().Draw(t, "scalars"))
				}),
				rapid.Custom(func(t *rapid.T) any {
					return any(genObjectArray(depth).Draw(t, "objects"))
				}),
			)
		}
		return rapid.OneOf(choices...).Draw(t, "value")
	})
}

func genScalar() *rapid.Generator[any] {
	return rapid.OneOf(
		rapid.Custom(func(t *rapid.T) any {
			return any(rapid.StringMatching(`[ -~]{0,12}`).Draw(t, "str"))
		}),
		rapid.Custom(func(t *rapid.T) any {
			return any(rapid.Int64Range(-1e9, 1e9).Draw(t, "int"))
		}),
		rapid.Custom(func(t *rapid.T) any {
			return any(rapid.Bool().Draw(t, "bool"))
		}),
	)
}

func genScalarArray() *rapid.Generator[[]any] {
	return rapid.SliceOfN(genScalar(), 1, 4)
}

func genObjectArray(depth int) *rapid.Generator[[]any] {
	return rapid.Custom(func(t *rapid.T) []any {
		objs := rapid.SliceOfN(genObject(depth-1), 1, 3).Draw(t, "objs")
		out := make([]any, len(objs))
		for i, o := range objs {
			out[i] = o
		}
		return out
	})
}

// stringify converts a generated payload to the shape the decoder should
// reconstruct: every scalar leaf becomes its string form.
func stringify(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = stringify(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = stringify(val)
		}
		return out
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return t
	}
}

// decodeBracketForm parses a form body back into a nested object by applying
// the bracket-notation rules in reverse. Pair order is preserved, which is
// what makes the repeated empty-bracket form (a[]=v) reconstructible.
func decodeBracketForm(body string) (map[string]any, error) {
	root := map[string]any{}
	if body == "" {
		return root, nil
	}

	for _, field := range strings.Split(body, "&") {
		k, v, _ := strings.Cut(field, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, err
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return nil, err
		}

		segs, err := splitBracketKey(key)
		if err != nil {
			return nil, err
		}
		if err := insertPair(root, segs, value); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// splitBracketKey splits "a[b][0][]" into ["a", "b", "0", ""].
func splitBracketKey(key string) ([]string, error) {
	head, rest, found := strings.Cut(key, "[")
	segs := []string{head}
	if !found {
		return segs, nil
	}
	for _, part := range strings.Split(rest, "[") {
		seg, ok := strings.CutSuffix(part, "]")
		if !ok {
			return nil, strconv.ErrSyntax
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

// insertPair writes a value into the nested structure at the bracket path.
func insertPair(node map[string]any, segs []string, value string) error {
	key := segs[0]
	rest := segs[1:]

	if len(rest) == 0 {
		node[key] = value
		return nil
	}

	if rest[0] == "" {
		// Scalar array element: append in encounter order.
		arr, _ := node[key].([]any)
		node[key] = append(arr, value)
		return nil
	}

	if idx, err := strconv.Atoi(rest[0]); err == nil {
		arr, _ := node[key].([]any)
		for len(arr) <= idx {
			arr = append(arr, nil)
		}
		child, _ := arr[idx].(map[string]any)
		if child == nil {
			child = map[string]any{}
		}
		arr[idx] = child
		node[key] = arr
		if len(rest) == 1 {
			return strconv.ErrSyntax
		}
		return insertPair(child, rest[1:], value)
	}

	child, _ := node[key].(map[string]any)
	if child == nil {
		child = map[string]any{}
		node[key] = child
	}
	return insertPair(child, rest, value)
}
