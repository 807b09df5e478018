package extraction

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ortoflow/internal/domain/orderparse"
)

var deliveryDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	time.RFC3339,
}

// sanitizeOptionalFields drops or normalizes optional fields that would fail
// validation. Required structure (items, product names) is never invented.
// It returns the cleaned document and the JSON paths it dropped.
func sanitizeOptionalFields(doc []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, nil, err
	}

	var dropped []string
	for k := range m {
		switch k {
		case "items", "customer_name", "delivery_date", "notes":
		default:
			delete(m, k)
			dropped = append(dropped, k)
		}
	}

	for _, k := range []string{"customer_name", "notes"} {
		if v, ok := m[k]; ok {
			s, isString := v.(string)
			if !isString || strings.TrimSpace(s) == "" {
				delete(m, k)
				dropped = append(dropped, k)
				continue
			}
			m[k] = strings.TrimSpace(s)
		}
	}

	if v, ok := m["delivery_date"]; ok {
		if d, ok := normalizeDate(v); ok {
			m["delivery_date"] = d
		} else {
			delete(m, "delivery_date")
			dropped = append(dropped, "delivery_date")
		}
	}

	if items, ok := m["items"].([]any); ok {
		for i, raw := range items {
			line, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			dropped = append(dropped, sanitizeLine(line, fmt.Sprintf("items[%d]", i))...)
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, nil, err
	}
	return out, dropped, nil
}

func sanitizeLine(line map[string]any, path string) []string {
	var dropped []string
	for k := range line {
		switch k {
		case "product_name", "quantity", "unit":
		default:
			delete(line, k)
			dropped = append(dropped, path+"."+k)
		}
	}

	if s, ok := line["product_name"].(string); ok {
		line["product_name"] = strings.TrimSpace(s)
	}

	if v, ok := line["quantity"]; ok {
		if q, ok := positiveNumber(v); ok {
			line["quantity"] = q
		} else {
			delete(line, "quantity")
			dropped = append(dropped, path+".quantity")
		}
	}

	if v, ok := line["unit"]; ok {
		s, _ := v.(string)
		u := orderparse.Unit(strings.ToUpper(strings.TrimSpace(s)))
		if u.Valid() {
			line["unit"] = string(u)
		} else {
			delete(line, "unit")
			dropped = append(dropped, path+".unit")
		}
	}
	return dropped
}

func positiveNumber(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(t), ",", "."), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	return f, f > 0
}

func normalizeDate(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	for _, layout := range deliveryDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}
