package profile

import (
	"sort"

	"github.com/AnyUserName/pxflood/internal/resize"
	"github.com/AnyUserName/pxflood/internal/serializer"
)

// Profile is a named painting preset.
type Profile struct {
	Name       string
	Serializer string // pixel order: row, column, random
	Fit        resize.Fit
	Filter     string // resampling filter name
}

// Built-in profiles.
var profiles = map[string]Profile{
	"sweep": {
		Name:       "sweep",
		Serializer: "row",
		Fit:        resize.Stretch,
		Filter:     "lanczos",
	},
	"curtain": {
		Name:       "curtain",
		Serializer: "column",
		Fit:        resize.Stretch,
		Filter:     "lanczos",
	},
	"scatter": {
		Name:       "scatter",
		Serializer: "random",
		Fit:        resize.Stretch,
		Filter:     "lanczos",
	},
	"letterbox": {
		Name:       "letterbox",
		Serializer: "random",
		Fit:        resize.Fill,
		Filter:     "gaussian",
	},
	"poster": {
		Name:       "poster",
		Serializer: "random",
		Fit:        resize.Crop,
		Filter:     "lanczos",
	},
}

// Get returns a profile by name. Falls back to scatter if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles["scatter"]
	p.Name = name // preserve requested name
	return p
}

// Known reports whether name is a built-in profile.
func Known(name string) bool {
	_, ok := profiles[name]
	return ok
}

// Names lists the built-in profiles.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Override replaces the profile's settings with any non-empty value.
func (p Profile) Override(serializerName, fit, filter string) (Profile, error) {
	if serializerName != "" {
		p.Serializer = serializerName
	}
	if fit != "" {
		f, err := resize.ParseFit(fit)
		if err != nil {
			return p, err
		}
		p.Fit = f
	}
	if filter != "" {
		p.Filter = filter
	}
	return p, nil
}

// Settings resolves the names into a serializer and a filter.
func (p Profile) Settings() (serializer.Serializer, resize.Filter, error) {
	s, err := serializer.Parse(p.Serializer)
	if err != nil {
		return nil, resize.Filter{}, err
	}
	f, err := resize.ParseFilter(p.Filter)
	if err != nil {
		return nil, resize.Filter{}, err
	}
	return s, f, nil
}
