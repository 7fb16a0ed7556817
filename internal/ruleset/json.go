package ruleset

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/bfv/ruletypes/internal/rules"
)

// ParseJSON decodes a JSON document from its token stream so that the order
// of the rules object is kept.
func ParseJSON(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	doc := &Document{}
	for {
		key, done, err := nextKey(dec)
		if err != nil {
			return nil, err
		}
		if done {
			return doc, nil
		}
		switch key {
		case "name":
			doc.Name, err = nextString(dec)
		case "namespace":
			doc.Namespace, err = nextString(dec)
		case "rules":
			doc.Rules, err = jsonRules(dec)
		default:
			err = skipValue(dec)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}
}

func jsonRules(dec *json.Decoder) (rules.Set, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var set rules.Set
	for {
		path, done, err := nextKey(dec)
		if err != nil {
			return nil, err
		}
		if done {
			return set, nil
		}
		spec, err := jsonSpec(dec)
		if err != nil {
			return nil, fmt.Errorf("rules for %q: %w", path, err)
		}
		set = append(set, rules.Field{Path: path, Spec: spec})
	}
}

func jsonSpec(dec *json.Decoder) (rules.Spec, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case nil:
		return rules.Spec{}, nil
	case string:
		return rules.SplitSpec(v), nil
	case json.Delim:
		if v != '[' {
			return nil, fmt.Errorf("expected a string or a list")
		}
	default:
		return nil, fmt.Errorf("expected a string or a list")
	}

	spec := rules.Spec{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch v := tok.(type) {
		case string:
			spec = append(spec, rules.StringRule(v))
		case json.Delim:
			switch v {
			case ']':
				return spec, nil
			case '{':
				r, err := jsonObjectRule(dec)
				if err != nil {
					return nil, err
				}
				spec = append(spec, r)
			default:
				return nil, fmt.Errorf("unexpected %q in rule list", v)
			}
		default:
			return nil, fmt.Errorf("rule must be a string or an object")
		}
	}
}

// jsonObjectRule reads the remainder of an object whose '{' was consumed.
func jsonObjectRule(dec *json.Decoder) (rules.Rule, error) {
	fields := map[string]string{}
	for {
		key, done, err := nextKey(dec)
		if err != nil {
			return nil, err
		}
		if done {
			return objectRule(fields)
		}
		if fields[key], err = nextString(dec); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q", want)
	}
	return nil
}

// nextKey returns the next object key, or done at the closing brace.
func nextKey(dec *json.Decoder) (key string, done bool, err error) {
	tok, err := dec.Token()
	if err != nil {
		return "", false, err
	}
	switch v := tok.(type) {
	case string:
		return v, false, nil
	case json.Delim:
		if v == '}' {
			return "", true, nil
		}
	}
	return "", false, errors.New("expected an object key")
}

func nextString(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", errors.New("expected a string")
	}
	return s, nil
}

func skipValue(dec *json.Decoder) error {
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
		if depth == 0 {
			return nil
		}
	}
}
