package procenv

import (
	"os"
	"testing"

	envcmd "github.com/KilianKilmister/env-cmd"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		environ  []string
		expected envcmd.Environment
	}{
		{
			name:     "basic entries",
			environ:  []string{"HOST=localhost", "PORT=8080"},
			expected: envcmd.Environment{"HOST": "localhost", "PORT": "8080"},
		},
		{
			name:     "value containing equals",
			environ:  []string{"QUERY=a=b=c"},
			expected: envcmd.Environment{"QUERY": "a=b=c"},
		},
		{
			name:     "empty value kept",
			environ:  []string{"EMPTY_VAR="},
			expected: envcmd.Environment{"EMPTY_VAR": ""},
		},
		{
			name:     "entries without separator skipped",
			environ:  []string{"BROKEN", "", "OK=1"},
			expected: envcmd.Environment{"OK": "1"},
		},
		{
			name:     "windows drive entry",
			environ:  []string{`=C:=C:\work`},
			expected: envcmd.Environment{"=C:": `C:\work`},
		},
		{
			name:     "later duplicate wins",
			environ:  []string{"A=1", "A=2"},
			expected: envcmd.Environment{"A": "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.environ)
			if len(result) != len(tt.expected) {
				t.Fatalf("Parse() = %v, want %v", result, tt.expected)
			}
			for key, want := range tt.expected {
				got, ok := result[key]
				if !ok {
					t.Errorf("expected key %q not found in result", key)
					continue
				}
				if got != want {
					t.Errorf("key %q: got %q, want %q", key, got, want)
				}
			}
		})
	}
}

func TestParse_ProcessEnvironment(t *testing.T) {
	t.Setenv("ENVCMD_PROCENV_TEST", "present")

	result := Parse(os.Environ())
	if got := result["ENVCMD_PROCENV_TEST"]; got != "present" {
		t.Errorf("ENVCMD_PROCENV_TEST = %q, want %q", got, "present")
	}
}

func TestMerge(t *testing.T) {
	fileEnv := envcmd.Environment{"THANKS": "FOR ALL THE FISH", "ONLY_FILE": "f"}
	processEnv := envcmd.Environment{"THANKS": "NO", "ONLY_PROCESS": "p"}

	t.Run("file overrides process", func(t *testing.T) {
		result := Merge(fileEnv, processEnv, FileOverrides)
		if result["THANKS"] != "FOR ALL THE FISH" {
			t.Errorf("THANKS = %q, want file value", result["THANKS"])
		}
		if result["ONLY_FILE"] != "f" || result["ONLY_PROCESS"] != "p" {
			t.Errorf("non-colliding keys lost: %v", result)
		}
	})

	t.Run("process overrides file", func(t *testing.T) {
		result := Merge(fileEnv, processEnv, ProcessOverrides)
		if result["THANKS"] != "NO" {
			t.Errorf("THANKS = %q, want process value", result["THANKS"])
		}
		if len(result) != 3 {
			t.Errorf("expected 3 keys, got %d", len(result))
		}
	})

	t.Run("inputs untouched", func(t *testing.T) {
		Merge(fileEnv, processEnv, FileOverrides)
		if processEnv["THANKS"] != "NO" || len(processEnv) != 2 {
			t.Errorf("processEnv modified: %v", processEnv)
		}
		if len(fileEnv) != 2 {
			t.Errorf("fileEnv modified: %v", fileEnv)
		}
	})

	t.Run("nil inputs", func(t *testing.T) {
		result := Merge(nil, nil, FileOverrides)
		if result == nil || len(result) != 0 {
			t.Errorf("Merge(nil, nil) = %v, want empty map", result)
		}
	})
}

func TestEnviron(t *testing.T) {
	result := Environ(envcmd.Environment{"B": "2", "A": "1", "C": "x=y"})
	want := []string{"A=1", "B=2", "C=x=y"}

	if len(result) != len(want) {
		t.Fatalf("Environ() = %v, want %v", result, want)
	}
	for i := range want {
		if result[i] != want[i] {
			t.Errorf("Environ()[%d] = %q, want %q", i, result[i], want[i])
		}
	}
}

func TestEnviron_RoundTrip(t *testing.T) {
	env := envcmd.Environment{"A": "1", "EMPTY": "", "EQ": "a=b"}
	back := Parse(Environ(env))
	if len(back) != len(env) {
		t.Fatalf("round trip = %v, want %v", back, env)
	}
	for key, value := range env {
		if back[key] != value {
			t.Errorf("key %q: got %q, want %q", key, back[key], value)
		}
	}
}
