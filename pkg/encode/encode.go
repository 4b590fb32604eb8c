package encode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Pair is a single encoded (key, value) pair. Keys carry the full bracket
// path (e.g. "transfer_data[destination]"); values are always strings.
type Pair struct {
	Key   string
	Value string
}

// Pairs expands a JSON object into an ordered sequence of bracket-notation
// pairs. The walk is depth-first and emits keys in the order they appear in
// the document. Null values produce no pair.
//
// An empty or absent payload yields no pairs. The top-level value must be an
// object; anything else is rejected because the upstream APIs only accept
// named parameters.
func Pairs(data json.RawMessage) ([]Pair, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, fmt.Errorf("payload must be a JSON object, got %v", tok)
	}

	var pairs []Pair
	if err := walkObject(dec, "", &pairs); err != nil {
		return nil, err
	}
	return pairs, nil
}

// walkObject consumes object members until the closing brace. prefix is the
// bracket path of the enclosing value ("" at the top level).
func walkObject(dec *json.Decoder, prefix string, out *[]Pair) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("invalid payload: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}

		path := key
		if prefix != "" {
			path = prefix + "[" + key + "]"
		}
		if err := walkValue(dec, path, out); err != nil {
			return err
		}
	}
	// Consume the closing '}'.
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

// walkArray consumes array elements until the closing bracket. Elements that
// are themselves objects or arrays get an explicit index (a[0][b]); scalar
// elements use the repeated empty-bracket form (a[]=v).
func walkArray(dec *json.Decoder, prefix string, out *[]Pair) error {
	for i := 0; dec.More(); i++ {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("invalid payload: %w", err)
		}

		switch t := tok.(type) {
		case json.Delim:
			indexed := prefix + "[" + strconv.Itoa(i) + "]"
			switch t {
			case '{':
				if err := walkObject(dec, indexed, out); err != nil {
					return err
				}
			case '[':
				if err := walkArray(dec, indexed, out); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unexpected delimiter %v in array", t)
			}
		default:
			if pair, emit := scalarPair(prefix+"[]", t); emit {
				*out = append(*out, pair)
			}
		}
	}
	// Consume the closing ']'.
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

// walkValue dispatches on the next token: nested containers recurse, scalars
// emit a pair, nulls are dropped.
func walkValue(dec *json.Decoder, path string, out *[]Pair) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return walkObject(dec, path, out)
		case '[':
			return walkArray(dec, path, out)
		default:
			return fmt.Errorf("unexpected delimiter %v", t)
		}
	default:
		if pair, emit := scalarPair(path, t); emit {
			*out = append(*out, pair)
		}
		return nil
	}
}

// scalarPair converts a scalar token into a pair. Null tokens report
// emit=false so the caller drops them.
func scalarPair(path string, tok json.Token) (Pair, bool) {
	switch v := tok.(type) {
	case string:
		return Pair{Key: path, Value: v}, true
	case json.Number:
		return Pair{Key: path, Value: v.String()}, true
	case bool:
		return Pair{Key: path, Value: strconv.FormatBool(v)}, true
	case nil:
		return Pair{}, false
	default:
		// json.Decoder only produces the types above for scalars.
		return Pair{Key: path, Value: fmt.Sprintf("%v", v)}, true
	}
}

// Form encodes a JSON payload as an application/x-www-form-urlencoded body
// using bracket notation, preserving the document's key order. An empty
// payload encodes to the empty string.
func Form(data json.RawMessage) (string, error) {
	pairs, err := Pairs(data)
	if err != nil {
		return "", err
	}
	return joinPairs(pairs), nil
}

// Query encodes a JSON payload as a URL query string using the same pair
// expansion as Form. Used for GET operations where the payload becomes query
// parameters verbatim.
func Query(data json.RawMessage) (string, error) {
	pairs, err := Pairs(data)
	if err != nil {
		return "", err
	}
	return joinPairs(pairs), nil
}

// SQLQuery lifts the "query" field of a payload into a single query
// parameter. This is the QuickBooks query-endpoint special case: the
// SQL-like statement travels as ?query=... and never as a request body.
func SQLQuery(data json.RawMessage) (string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return "", fmt.Errorf("query payload is empty")
	}

	var payload struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("invalid query payload: %w", err)
	}
	if payload.Query == "" {
		return "", fmt.Errorf("query payload missing %q field", "query")
	}
	return "query=" + escape(payload.Query), nil
}

// joinPairs renders pairs as k=v&k=v without reordering. url.Values.Encode
// sorts keys, which would break the order guarantee, so the join is manual.
func joinPairs(pairs []Pair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escapeKey(p.Key))
		b.WriteByte('=')
		b.WriteString(escape(p.Value))
	}
	return b.String()
}

// escapeKey escapes a bracket-notation key but keeps the brackets literal,
// the way Stripe documents its nested parameters
// (payment_intent_data[application_fee_amount]=123).
func escapeKey(s string) string {
	escaped := escape(s)
	escaped = strings.ReplaceAll(escaped, "%5B", "[")
	return strings.ReplaceAll(escaped, "%5D", "]")
}

// escape percent-encodes a component, using %20 for spaces so the output
// matches what the upstream APIs document for query strings.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
