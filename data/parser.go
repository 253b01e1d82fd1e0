package data

import (
	"encoding/json"
	"fmt"

	yaml "gopkg.in/yaml.v3"
)

// ParseJSONOrYAML is used in the same way as json.Unmarshal, but also accepts YAML. YAML input is
// converted to the equivalent JSON before it is unmarshaled, so the target only needs json tags.
func ParseJSONOrYAML(data []byte, target interface{}) error {
	if json.Valid(data) {
		return json.Unmarshal(data, target)
	}
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	normalized, err := yamlToJSONCompatible(raw)
	if err != nil {
		return err
	}
	converted, err := json.Marshal(normalized)
	if err != nil {
		return err
	}
	return json.Unmarshal(converted, target)
}

// yamlToJSONCompatible rewrites any maps with interface{} keys, which yaml.v3 produces for
// non-string keys, into maps that encoding/json can marshal.
func yamlToJSONCompatible(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			converted, err := yamlToJSONCompatible(item)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			converted, err := yamlToJSONCompatible(item)
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			s, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("YAML map key %v is of type %T; only string keys are allowed", key, key)
			}
			converted, err := yamlToJSONCompatible(item)
			if err != nil {
				return nil, err
			}
			out[s] = converted
		}
		return out, nil
	default:
		return value, nil
	}
}
