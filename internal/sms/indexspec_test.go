package sms

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestParseIndexSpec(t *testing.T) {
	tests := []struct {
		spec     string
		max      int
		want     []int
		warnings int
	}{
		{"0,2,4-6", 10, []int{0, 2, 4, 5, 6}, 0},
		{"5-3", 10, []int{3, 4, 5}, 0},
		{"0,99", 5, []int{0}, 1},
		{"abc", 5, []int{}, 1},
		{" 1 , 1,1-1 ", 5, []int{1}, 0},
		{"", 5, []int{}, 0},
		{"3-8", 5, []int{3, 4, 5}, 1},
		{"1-2-3,-1,2", 5, []int{2}, 2},
		{"0", -1, []int{}, 1},
		{"0-99999999999", 2, []int{0, 1, 2}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, warnings := ParseIndexSpec(tt.spec, tt.max)
			be.Equal(t, got, tt.want)
			be.Equal(t, len(warnings), tt.warnings)
			for _, i := range got {
				be.True(t, i >= 0 && i <= tt.max)
			}
		})
	}
}

func TestParseIndexSpecWarningText(t *testing.T) {
	_, warnings := ParseIndexSpec("0,99", 5)
	be.Equal(t, warnings, []string{"Index 99 is out of bounds (0-5) and was ignored."})

	_, warnings = ParseIndexSpec("abc", 5)
	be.True(t, strings.Contains(warnings[0], "'abc'"))

	_, warnings = ParseIndexSpec("a-b", 5)
	be.Equal(t, warnings, []string{"Invalid range 'a-b' ignored."})
}

func TestNormalize(t *testing.T) {
	rule := DefaultNumberRule

	got, changed := rule.Normalize("13800138000")
	be.Equal(t, got, "+8613800138000")
	be.True(t, changed)

	got, changed = rule.Normalize("+1234567890")
	be.Equal(t, got, "+1234567890")
	be.True(t, !changed)

	got, _ = rule.Normalize("+8613800138")
	be.Equal(t, got, "+8613800138")

	got, _ = rule.Normalize("10086")
	be.Equal(t, got, "10086")

	got, _ = rule.Normalize("1380013800a")
	be.Equal(t, got, "1380013800a")

	got, changed = NumberRule{}.Normalize("13800138000")
	be.Equal(t, got, "13800138000")
	be.True(t, !changed)

	got, _ = NumberRule{CountryCode: "+44", LocalLength: 10}.Normalize("7700900123")
	be.Equal(t, got, "+447700900123")
}

func TestPreview(t *testing.T) {
	be.Equal(t, Preview("line one\nline two", 50), "line one line two")
	be.Equal(t, Preview(strings.Repeat("x", 60), 50), strings.Repeat("x", 50)+"...")
	be.Equal(t, Preview("短信内容短信内容", 4), "短信内容...")
	be.Equal(t, Preview("a\r\nb", 50), "a b")
}
