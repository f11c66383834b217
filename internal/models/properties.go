package models

import (
	"encoding/json"
	"strconv"
)

// Well-known property keys
const (
	PropTitle       = "title"
	PropLetter      = "letter"
	PropNumber      = "number"
	PropFolderID    = "folderId"
	PropClass       = "class"
	PropDescription = "description"
	PropUpdated     = "updated"
)

// Properties открытое отображение свойств объекта.
// Неизвестные ключи сохраняются как есть и возвращаются серверу без изменений.
type Properties map[string]any

// String возвращает значение ключа как строку.
// Числа форматируются без экспоненты, отсутствующий ключ дает пустую строку.
func (p Properties) String(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

func (p Properties) Title() string       { return p.String(PropTitle) }
func (p Properties) Letter() string      { return p.String(PropLetter) }
func (p Properties) Number() string      { return p.String(PropNumber) }
func (p Properties) FolderID() string    { return p.String(PropFolderID) }
func (p Properties) Description() string { return p.String(PropDescription) }
func (p Properties) Class() Class        { return Class(p.String(PropClass)) }

// Clone создает глубокую копию свойств
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

// Merge возвращает копию p, в которой ключи из other перезаписывают существующие.
// Ключи, отсутствующие в other, не трогаются.
func (p Properties) Merge(other Properties) Properties {
	out := p.Clone()
	if out == nil {
		out = make(Properties, len(other))
	}
	for k, v := range other {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, inner := range val {
			m[k] = cloneValue(inner)
		}
		return m
	case Properties:
		return val.Clone()
	case []any:
		s := make([]any, len(val))
		for i, inner := range val {
			s[i] = cloneValue(inner)
		}
		return s
	default:
		return v
	}
}
