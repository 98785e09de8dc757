package cli

import "testing"

func TestNotationInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want string
	}{
		{[]string{`"Jin", 1+2`}, "argument"},
		{[]string{"-"}, "stdin"},
		{nil, "stdin"},
	}

	for _, tt := range tests {
		if got := notationInput(tt.args); got != tt.want {
			t.Errorf("notationInput(%q) = %q, want %q", tt.args, got, tt.want)
		}
	}
}
