package discount

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"save10":     "SAVE10",
		"  SAVE10  ": "SAVE10",
		" flat5 ":    "FLAT5",
		"":           "",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q): 期望%q, 实际%q", in, want, got)
		}
	}
}

func TestLookup_KnownCodes(t *testing.T) {
	table := DefaultTable()

	cases := []struct {
		code  string
		kind  Kind
		value int64
	}{
		{"SAVE10", KindPercentage, 10},
		{"SAVE20", KindPercentage, 20},
		{"WELCOME", KindPercentage, 15},
		{"BOOKWORM", KindPercentage, 25},
		{"FLAT5", KindFixed, 500},
		{"FLAT10", KindFixed, 1000},
	}
	for _, c := range cases {
		normalized, rule, err := table.Lookup(c.code)
		if err != nil {
			t.Errorf("Lookup(%s)失败: %v", c.code, err)
			continue
		}
		if normalized != c.code {
			t.Errorf("Lookup(%s): 归一化结果%q", c.code, normalized)
		}
		if rule.Kind != c.kind || rule.Value != c.value {
			t.Errorf("Lookup(%s): 期望%s/%d, 实际%s/%d", c.code, c.kind, c.value, rule.Kind, rule.Value)
		}
	}
}

func TestLookup_CaseInsensitive(t *testing.T) {
	table := DefaultTable()

	normalized, rule, err := table.Lookup("  save20  ")
	if err != nil {
		t.Fatalf("大小写混合的折扣码应可识别: %v", err)
	}
	if normalized != "SAVE20" {
		t.Errorf("归一化结果应为SAVE20, 实际%q", normalized)
	}
	if rule.Value != 20 {
		t.Errorf("SAVE20折扣值应为20, 实际%d", rule.Value)
	}
}

func TestLookup_UnknownCode(t *testing.T) {
	table := DefaultTable()

	_, _, err := table.Lookup("NOSUCHCODE")
	if !errors.Is(err, ErrInvalidDiscountCode) {
		t.Errorf("未知折扣码应返回ErrInvalidDiscountCode, 实际%v", err)
	}
}

func TestKindString(t *testing.T) {
	if KindPercentage.String() != "PERCENTAGE" || KindFixed.String() != "FIXED" {
		t.Error("Kind.String()输出不符合预期")
	}
	if Kind(0).String() != "UNKNOWN" {
		t.Error("未知Kind应输出UNKNOWN")
	}
}
