package agent

import "testing"

func TestTokenizeCommandLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "echo hi", []string{"echo", "hi"}},
		{"quoted arg with space", `echo "hi there"`, []string{"echo", "hi there"}},
		{"extra whitespace", "  echo   hi  ", []string{"echo", "hi"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tokenizeCommandLine(tt.in)
			if err != nil {
				t.Fatalf("tokenizeCommandLine(%q) error = %v", tt.in, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("tokenizeCommandLine(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTokenizeCommandLine_UnterminatedQuote(t *testing.T) {
	if _, err := tokenizeCommandLine(`echo "hi`); err == nil {
		t.Error("expected an error for an unterminated quote")
	}
}

func TestSplitCommandLine_AppOverridesFirstToken(t *testing.T) {
	name, args, err := splitCommandLine("/bin/echo", "ignored hi there")
	if err != nil {
		t.Fatalf("splitCommandLine() error = %v", err)
	}
	if name != "/bin/echo" {
		t.Errorf("name = %q, want /bin/echo", name)
	}
	if len(args) != 2 || args[0] != "hi" || args[1] != "there" {
		t.Errorf("args = %v, want [hi there]", args)
	}
}

func TestSplitCommandLine_FallsBackToCmdlineFirstToken(t *testing.T) {
	name, args, err := splitCommandLine("", "echo hi there")
	if err != nil {
		t.Fatalf("splitCommandLine() error = %v", err)
	}
	if name != "echo" {
		t.Errorf("name = %q, want echo", name)
	}
	if len(args) != 2 {
		t.Errorf("args = %v, want 2 elements", args)
	}
}

func TestSplitCommandLine_EmptyBothIsError(t *testing.T) {
	if _, _, err := splitCommandLine("", ""); err == nil {
		t.Error("expected an error when both app and cmdline are empty")
	}
}
