// Package theme models the light/dark preference. Only the "light" value is
// ever persisted; anything else, including no value, means dark.
package theme

// Key is the storage key of the preference.
const Key = "theme"

type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// Parse reads a stored value.
func Parse(v string) Theme {
	if v == string(Light) {
		return Light
	}
	return Dark
}

func (t Theme) Toggle() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

// Icon is the toggle button label: the moon switches back to dark, the sun
// switches to light.
func (t Theme) Icon() string {
	if t == Light {
		return "☾"
	}
	return "☀"
}

// BodyClass is the class added to <body>.
func (t Theme) BodyClass() string {
	if t == Light {
		return "light-mode"
	}
	return ""
}

// Store is key-value storage for the preference.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Load reads the preference from s.
func Load(s Store) Theme {
	v, _ := s.Get(Key)
	return Parse(v)
}

// Toggle flips the stored preference and returns the new theme.
func Toggle(s Store) Theme {
	next := Load(s).Toggle()
	s.Set(Key, string(next))
	return next
}
