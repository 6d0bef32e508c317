package pipeline

import (
	"math"

	"gopkg.in/yaml.v3"
)

// Params holds the parsed parameters for a single pipeline stage.
type Params struct {
	Type string
	Num  map[string]float64
	Str  map[string]string
}

// GetNum safely extracts a numeric parameter, returning def if missing or invalid.
func (p Params) GetNum(key string, def float64) float64 {
	if p.Num == nil {
		return def
	}

	v, ok := p.Num[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}

	return v
}

// GetStr safely extracts a string parameter, returning def if missing.
func (p Params) GetStr(key, def string) string {
	if p.Str == nil {
		return def
	}

	v, ok := p.Str[key]
	if !ok || v == "" {
		return def
	}

	return v
}

// UnmarshalYAML decodes a stage mapping of the form
//
//	type: notch
//	freq: 60
//	q: 5
//
// into Type plus numeric and string parameter maps.
func (p *Params) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]any
	if err := value.Decode(&raw); err != nil {
		return err
	}

	num, str := splitParams(raw)
	p.Type = str["type"]
	delete(str, "type")
	p.Num = num
	p.Str = str

	return nil
}

// splitParams sorts raw decoded values into numeric and string parameters.
// Booleans map to 1/0; unsupported value kinds are dropped.
func splitParams(raw map[string]any) (map[string]float64, map[string]string) {
	num := map[string]float64{}
	str := map[string]string{}

	for k, v := range raw {
		switch t := v.(type) {
		case float64:
			num[k] = t
		case float32:
			num[k] = float64(t)
		case int:
			num[k] = float64(t)
		case int64:
			num[k] = float64(t)
		case string:
			str[k] = t
		case bool:
			if t {
				num[k] = 1
			} else {
				num[k] = 0
			}
		}
	}

	return num, str
}
