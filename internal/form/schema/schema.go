// Package schema declares entity form shapes: ordered field definitions,
// input coercion, and the two validation passes the workflow engine runs
// (custom rules per field, structural required/type checks at submit).
package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tamanomi/tamanomi-services/api/internal/form/rules"
)

type FieldType string

const (
	TypeString      FieldType = "string"
	TypeTextarea    FieldType = "textarea"
	TypePassword    FieldType = "password"
	TypeNumber      FieldType = "number"
	TypeBoolean     FieldType = "boolean"
	TypeSelect      FieldType = "select"
	TypeMultiSelect FieldType = "multiselect"
)

// Field declares one form control. Name may be dotted for nested groups
// (emergencyContact.name, operatingHours.月.open). The enumeration is always
// static, never built from runtime strings.
type Field struct {
	Name     string
	Label    string
	Type     FieldType
	Required bool
	Options  []string
	Rules    rules.Rule
	Default  any
}

// CrossRule validates a relationship between fields and reports on one of them.
// Fields lists every member of the relationship so the interactive pass can
// re-check the rule whenever any member changes, not only the report field.
type CrossRule struct {
	Field  string
	Fields []string
	Check  func(values map[string]any) string
}

func (c CrossRule) involves(name string) bool {
	if c.Field == name {
		return true
	}
	for _, member := range c.Fields {
		if member == name {
			return true
		}
	}
	return false
}

// Schema is an ordered field table plus cross-field rules. Field order defines
// the scroll-to-first-error order surfaced to the client.
type Schema struct {
	Entity string
	Fields []Field
	Cross  []CrossRule

	byName map[string]int
}

// New builds a schema and indexes fields by name.
func New(entity string, fields []Field, cross ...CrossRule) *Schema {
	byName := make(map[string]int, len(fields))
	for i, f := range fields {
		byName[f.Name] = i
	}
	return &Schema{Entity: entity, Fields: fields, Cross: cross, byName: byName}
}

// Lookup returns the field definition for name.
func (s *Schema) Lookup(name string) (*Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return &s.Fields[i], true
}

// Defaults returns the initial value map for a fresh create session.
func (s *Schema) Defaults() map[string]any {
	values := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		if f.Default != nil {
			values[f.Name] = f.Default
			continue
		}
		switch f.Type {
		case TypeBoolean:
			values[f.Name] = false
		case TypeNumber:
			values[f.Name] = nil
		case TypeMultiSelect:
			values[f.Name] = []string{}
		default:
			values[f.Name] = ""
		}
	}
	return values
}

// Coerce normalises a raw client value for storage in the session value map.
// 数値フィールドは空文字を nil（未入力）へ写す。0 や NaN には決してしない。
func (s *Schema) Coerce(name string, raw any) (any, error) {
	field, ok := s.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown field: %s", name)
	}

	switch field.Type {
	case TypeNumber:
		return coerceNumber(raw)
	case TypeBoolean:
		if raw == nil {
			return false, nil
		}
		if b, ok := raw.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("field %s expects a boolean", name)
	case TypeMultiSelect:
		items, err := coerceStringSlice(raw)
		if err != nil {
			return nil, fmt.Errorf("field %s expects a string list", name)
		}
		return items, nil
	default:
		if raw == nil {
			return "", nil
		}
		if str, ok := raw.(string); ok {
			return str, nil
		}
		return nil, fmt.Errorf("field %s expects a string", name)
	}
}

// ValidateField runs the custom rules for one field. Empty result means valid.
func (s *Schema) ValidateField(name string, values map[string]any) string {
	field, ok := s.Lookup(name)
	if !ok {
		return ""
	}
	if field.Rules != nil {
		if msg := field.Rules(values[name]); msg != "" {
			return msg
		}
	}
	for _, cross := range s.Cross {
		if cross.Field != name {
			continue
		}
		if msg := cross.Check(values); msg != "" {
			return msg
		}
	}
	return ""
}

// Validate runs the custom rule pass over every field, touched 状態は見ない。
// The first failing message per field wins; cross rules run after unary rules.
func (s *Schema) Validate(values map[string]any) map[string]string {
	errs := make(map[string]string)
	for _, field := range s.Fields {
		if field.Rules == nil {
			continue
		}
		if msg := field.Rules(values[field.Name]); msg != "" {
			errs[field.Name] = msg
		}
	}
	for _, cross := range s.Cross {
		if _, taken := errs[cross.Field]; taken {
			continue
		}
		if msg := cross.Check(values); msg != "" {
			errs[cross.Field] = msg
		}
	}
	return errs
}

// Structural is the second, submit-time pass: required presence plus
// type/option conformance. Errors land on the same per-field channel as the
// custom pass so the client sees a single error surface.
func (s *Schema) Structural(values map[string]any) map[string]string {
	errs := make(map[string]string)
	for _, field := range s.Fields {
		value, present := values[field.Name]
		if field.Required && (!present || isZeroValue(field.Type, value)) {
			errs[field.Name] = fmt.Sprintf("%sは必須です", field.Label)
			continue
		}
		if !present || value == nil {
			continue
		}
		if msg := checkShape(field, value); msg != "" {
			errs[field.Name] = msg
		}
	}
	return errs
}

// CrossPartners returns the other fields sharing a cross rule with name.
// 相手側に付いたペアエラーは、こちらを編集して整合した時点で消す必要がある。
func (s *Schema) CrossPartners(name string) []string {
	seen := map[string]bool{name: true}
	var partners []string
	for _, cross := range s.Cross {
		if !cross.involves(name) {
			continue
		}
		for _, member := range append([]string{cross.Field}, cross.Fields...) {
			if seen[member] {
				continue
			}
			seen[member] = true
			partners = append(partners, member)
		}
	}
	return partners
}

// FirstErrorField returns the schema-order first field present in errs.
func (s *Schema) FirstErrorField(errs map[string]string) string {
	for _, field := range s.Fields {
		if _, ok := errs[field.Name]; ok {
			return field.Name
		}
	}
	return ""
}

func checkShape(field Field, value any) string {
	switch field.Type {
	case TypeNumber:
		if _, ok := asFloat(value); !ok {
			return fmt.Sprintf("%sは数値で入力してください", field.Label)
		}
	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Sprintf("%sの値が不正です", field.Label)
		}
	case TypeSelect:
		str, ok := value.(string)
		if !ok {
			return fmt.Sprintf("%sの値が不正です", field.Label)
		}
		if str != "" && !containsOption(field.Options, str) {
			return fmt.Sprintf("%sの選択肢が不正です: %s", field.Label, str)
		}
	case TypeMultiSelect:
		items, err := coerceStringSlice(value)
		if err != nil {
			return fmt.Sprintf("%sの値が不正です", field.Label)
		}
		for _, item := range items {
			if !containsOption(field.Options, item) {
				return fmt.Sprintf("%sの選択肢が不正です: %s", field.Label, item)
			}
		}
	default:
		if _, ok := value.(string); !ok {
			return fmt.Sprintf("%sの値が不正です", field.Label)
		}
	}
	return ""
}

func isZeroValue(fieldType FieldType, value any) bool {
	if value == nil {
		return true
	}
	switch fieldType {
	case TypeMultiSelect:
		items, err := coerceStringSlice(value)
		return err == nil && len(items) == 0
	case TypeNumber, TypeBoolean:
		return false
	default:
		str, ok := value.(string)
		return ok && strings.TrimSpace(str) == ""
	}
}

func coerceNumber(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, fmt.Errorf("数値として解釈できません: %s", trimmed)
		}
		return parsed, nil
	default:
		if num, ok := asFloat(raw); ok {
			return num, nil
		}
		return nil, fmt.Errorf("数値として解釈できません")
	}
}

func coerceStringSlice(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return []string{}, nil
	case []string:
		return v, nil
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("not a string list")
			}
			items = append(items, str)
		}
		return items, nil
	}
	return nil, fmt.Errorf("not a string list")
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func containsOption(options []string, value string) bool {
	if len(options) == 0 {
		return true
	}
	for _, opt := range options {
		if opt == value {
			return true
		}
	}
	return false
}

// Number reads a coerced numeric value back out of a session value map.
// nil のまま（未入力）なら ok=false。
func Number(values map[string]any, name string) (float64, bool) {
	return asFloat(values[name])
}

// Text reads a trimmed string value out of a session value map.
func Text(values map[string]any, name string) string {
	if str, ok := values[name].(string); ok {
		return strings.TrimSpace(str)
	}
	return ""
}

// TextList reads a string-slice value out of a session value map.
func TextList(values map[string]any, name string) []string {
	items, err := coerceStringSlice(values[name])
	if err != nil {
		return nil
	}
	return items
}

// Flag reads a boolean value out of a session value map.
func Flag(values map[string]any, name string) bool {
	b, _ := values[name].(bool)
	return b
}
