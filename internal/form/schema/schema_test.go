package schema

import (
	"testing"

	"github.com/tamanomi/tamanomi-services/api/internal/form/rules"
)

func testSchema() *Schema {
	return New("shop",
		[]Field{
			{Name: "name", Label: "店舗名", Type: TypeString, Required: true, Rules: rules.Chain(rules.Required("店舗名"), rules.MaxLength("店舗名", 100))},
			{Name: "genre", Label: "ジャンル", Type: TypeSelect, Required: true, Options: []string{"居酒屋", "バー"}, Rules: rules.Required("ジャンル")},
			{Name: "seatCount", Label: "席数", Type: TypeNumber},
			{Name: "usageStart", Label: "利用開始", Type: TypeString},
			{Name: "usageEnd", Label: "利用終了", Type: TypeString},
			{Name: "days", Label: "利用可能曜日", Type: TypeMultiSelect, Options: []string{"月", "火"}},
		},
		CrossRule{
			Field:  "usageEnd",
			Fields: []string{"usageStart", "usageEnd"},
			Check: func(values map[string]any) string {
				start := Text(values, "usageStart")
				end := Text(values, "usageEnd")
				if (start == "") != (end == "") {
					return "利用開始と利用終了は両方指定してください"
				}
				return ""
			},
		},
	)
}

func TestCoerceNumberEmptyStringBecomesNil(t *testing.T) {
	s := testSchema()

	value, err := s.Coerce("seatCount", "20")
	if err != nil {
		t.Fatalf("Coerce: %v", err)
	}
	if value != float64(20) {
		t.Errorf("coerced = %v, want 20", value)
	}

	// 入力して消した数値は undefined 相当の nil に戻る。0 や NaN ではない。
	value, err = s.Coerce("seatCount", "")
	if err != nil {
		t.Fatalf("Coerce empty: %v", err)
	}
	if value != nil {
		t.Errorf("cleared numeric input = %v, want nil", value)
	}

	if _, err := s.Coerce("seatCount", "abc"); err == nil {
		t.Error("non-numeric input should fail coercion")
	}
}

func TestValidateFieldFirstFailureWins(t *testing.T) {
	s := testSchema()
	values := s.Defaults()

	if msg := s.ValidateField("name", values); msg != "店舗名を入力してください" {
		t.Errorf("empty name = %q, want required message", msg)
	}

	values["name"] = "テスト店舗"
	if msg := s.ValidateField("name", values); msg != "" {
		t.Errorf("valid name = %q, want empty", msg)
	}
}

func TestCrossRulePairedFields(t *testing.T) {
	s := testSchema()
	values := s.Defaults()
	values["name"] = "テスト店舗"
	values["genre"] = "居酒屋"

	values["usageStart"] = "2026-10-01"
	errs := s.Validate(values)
	if errs["usageEnd"] == "" {
		t.Error("start without end should report on usageEnd")
	}

	values["usageEnd"] = "2026-10-31"
	errs = s.Validate(values)
	if msg, ok := errs["usageEnd"]; ok {
		t.Errorf("paired period should pass, got %q", msg)
	}

	delete(values, "usageStart")
	values["usageStart"] = ""
	values["usageEnd"] = ""
	errs = s.Validate(values)
	if msg, ok := errs["usageEnd"]; ok {
		t.Errorf("both absent should pass, got %q", msg)
	}
}

func TestStructuralRequiredAndOptions(t *testing.T) {
	s := testSchema()
	values := s.Defaults()

	errs := s.Structural(values)
	if errs["name"] == "" {
		t.Error("missing required name should fail structural pass")
	}
	if errs["genre"] == "" {
		t.Error("missing required genre should fail structural pass")
	}

	values["name"] = "テスト店舗"
	values["genre"] = "喫茶店" // 許可リスト外
	errs = s.Structural(values)
	if errs["genre"] == "" {
		t.Error("out-of-options genre should fail structural pass")
	}

	values["genre"] = "居酒屋"
	values["days"] = []string{"月"}
	errs = s.Structural(values)
	if len(errs) != 0 {
		t.Errorf("clean values should pass, got %v", errs)
	}
}

func TestStructuralChecksValueShapes(t *testing.T) {
	s := testSchema()
	values := s.Defaults()
	values["name"] = "テスト店舗"
	values["genre"] = "居酒屋"

	values["seatCount"] = "二十"
	errs := s.Structural(values)
	if errs["seatCount"] == "" {
		t.Error("non-numeric seatCount should fail structural pass")
	}

	values["seatCount"] = float64(20)
	values["days"] = []string{"日"} // 許可リスト外
	errs = s.Structural(values)
	if errs["days"] == "" {
		t.Error("out-of-options day should fail structural pass")
	}
}

func TestCrossPartnersListsPairedFields(t *testing.T) {
	s := testSchema()

	partners := s.CrossPartners("usageStart")
	if len(partners) != 1 || partners[0] != "usageEnd" {
		t.Errorf("partners of usageStart = %v, want [usageEnd]", partners)
	}

	partners = s.CrossPartners("usageEnd")
	if len(partners) != 1 || partners[0] != "usageStart" {
		t.Errorf("partners of usageEnd = %v, want [usageStart]", partners)
	}

	if partners := s.CrossPartners("name"); len(partners) != 0 {
		t.Errorf("partners of name = %v, want none", partners)
	}
}

func TestFirstErrorFieldFollowsSchemaOrder(t *testing.T) {
	s := testSchema()
	errs := map[string]string{
		"genre": "ジャンルは必須です",
		"name":  "店舗名は必須です",
	}
	if first := s.FirstErrorField(errs); first != "name" {
		t.Errorf("first error field = %q, want name", first)
	}
}

func TestDefaults(t *testing.T) {
	s := testSchema()
	values := s.Defaults()

	if values["name"] != "" {
		t.Errorf("string default = %v, want empty string", values["name"])
	}
	if values["seatCount"] != nil {
		t.Errorf("number default = %v, want nil", values["seatCount"])
	}
	if days, ok := values["days"].([]string); !ok || len(days) != 0 {
		t.Errorf("multiselect default = %v, want empty slice", values["days"])
	}
}
