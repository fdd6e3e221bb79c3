package debug

import (
	"bytes"
	"context"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

func TestParseCategories(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]bool
	}{
		{"empty", "", map[string]bool{}},
		{"single", "providers", map[string]bool{"providers": true}},
		{"multiple", "providers,streaming", map[string]bool{"providers": true, "streaming": true}},
		{"with spaces", " providers , streaming ", map[string]bool{"providers": true, "streaming": true}},
		{"uppercase normalized", "PROVIDERS,Streaming", map[string]bool{"providers": true, "streaming": true}},
		{"empty segments", "providers,,streaming", map[string]bool{"providers": true, "streaming": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseCategories(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseCategories(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEnabled(t *testing.T) {
	t.Cleanup(func() { Configure("") })

	Configure("providers")
	if !Enabled(Providers) {
		t.Error("providers should be enabled")
	}
	if Enabled(Streaming) {
		t.Error("streaming should not be enabled")
	}

	Configure("all")
	if !Enabled(Providers) || !Enabled(Streaming) {
		t.Error("all should enable every category")
	}

	Configure("")
	if Enabled(Providers) {
		t.Error("nothing should be enabled after reset")
	}
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() {
		slog.SetDefault(prev)
		Configure("")
	})

	Configure("streaming")
	Log(context.Background(), Providers, "hidden")
	Log(context.Background(), Streaming, "shown", "bytes", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("disabled category was logged: %s", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "debug=streaming") || !strings.Contains(out, "bytes=3") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestCategoriesSorted(t *testing.T) {
	t.Cleanup(func() { Configure("") })
	Configure("streaming,providers")

	want := []string{"providers", "streaming"}
	if got := Categories(); !reflect.DeepEqual(got, want) {
		t.Errorf("Categories() = %v, want %v", got, want)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"abcdefghij", 4, "abcd..."},
		{"héllo", 2, "h..."},
		{"日本語", 4, "日..."},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
