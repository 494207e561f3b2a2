package interpreter

import "testing"

// TestStripFences verifies the markdown fence cleanup models keep wrapping
// JSON output in.
func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"attribute":"height"}`, `{"attribute":"height"}`},
		{"fenced json", "```json\n{\"attribute\":\"height\"}\n```", `{"attribute":"height"}`},
		{"fenced bare", "```\n{\"attribute\":\"height\"}\n```", `{"attribute":"height"}`},
		{"leading whitespace", "  \n```json\n{}\n```  ", `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripFences(tc.in); got != tc.want {
				t.Errorf("stripFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
