package theme

import "testing"

type mapStore map[string]string

func (m mapStore) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m mapStore) Set(key, value string) { m[key] = value }

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Theme
	}{
		{"light", Light},
		{"dark", Dark},
		{"", Dark},
		{"LIGHT", Dark},
	}
	for _, tt := range tests {
		if got := Parse(tt.in); got != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestThemeAttributes(t *testing.T) {
	if Light.Icon() != "☾" || Dark.Icon() != "☀" {
		t.Errorf("Unexpected icons %q %q", Light.Icon(), Dark.Icon())
	}
	if Light.BodyClass() != "light-mode" || Dark.BodyClass() != "" {
		t.Errorf("Unexpected body classes %q %q", Light.BodyClass(), Dark.BodyClass())
	}
	if Light.Toggle() != Dark || Dark.Toggle() != Light {
		t.Error("Toggle() is not an involution")
	}
}

func TestStoreToggle(t *testing.T) {
	s := mapStore{}

	if Load(s) != Dark {
		t.Fatal("Expected dark when nothing is stored")
	}
	if got := Toggle(s); got != Light || s[Key] != "light" {
		t.Errorf("First toggle = %s, stored %q", got, s[Key])
	}
	if got := Toggle(s); got != Dark || s[Key] != "dark" {
		t.Errorf("Second toggle = %s, stored %q", got, s[Key])
	}
}
