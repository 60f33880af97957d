package profile

import (
	"errors"
	"testing"

	"github.com/AnyUserName/pxflood/internal/resize"
	"github.com/AnyUserName/pxflood/internal/serializer"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name       string
		serializer string
		fit        resize.Fit
		filter     string
	}{
		{"sweep", "row", resize.Stretch, "lanczos"},
		{"curtain", "column", resize.Stretch, "lanczos"},
		{"scatter", "random", resize.Stretch, "lanczos"},
		{"letterbox", "random", resize.Fill, "gaussian"},
		{"poster", "random", resize.Crop, "lanczos"},
	}
	for _, tt := range tests {
		p := Get(tt.name)
		if p.Name != tt.name || p.Serializer != tt.serializer || p.Fit != tt.fit || p.Filter != tt.filter {
			t.Errorf("Get(%q) = %+v", tt.name, p)
		}
		s, f, err := p.Settings()
		if err != nil {
			t.Fatalf("%s: Settings: %v", tt.name, err)
		}
		if s.Name() != tt.serializer || f.Name != tt.filter {
			t.Errorf("%s: resolved %s/%s", tt.name, s.Name(), f.Name)
		}
	}
}

func TestGetFallback(t *testing.T) {
	p := Get("mystery")
	if p.Name != "mystery" {
		t.Errorf("requested name not kept: %q", p.Name)
	}
	if p.Serializer != "random" || p.Fit != resize.Stretch {
		t.Errorf("fallback is not scatter: %+v", p)
	}
	if Known("mystery") || !Known("poster") {
		t.Error("Known")
	}
	if len(Names()) != 5 || Names()[0] != "curtain" {
		t.Errorf("Names: %v", Names())
	}
}

func TestOverride(t *testing.T) {
	p, err := Get("sweep").Override("column", "fill", "box")
	if err != nil {
		t.Fatalf("Override: %v", err)
	}
	if p.Serializer != "column" || p.Fit != resize.Fill || p.Filter != "box" || p.Name != "sweep" {
		t.Errorf("Override: %+v", p)
	}

	same, err := Get("poster").Override("", "", "")
	if err != nil || same != Get("poster") {
		t.Errorf("empty override changed the profile: %+v %v", same, err)
	}

	if _, err := Get("sweep").Override("", "squash", ""); !errors.Is(err, resize.ErrUnknownFit) {
		t.Errorf("bad fit: got %v", err)
	}
	if _, _, err := (Profile{Serializer: "spiral", Filter: "box"}).Settings(); !errors.Is(err, serializer.ErrUnknown) {
		t.Errorf("bad serializer: got %v", err)
	}
}
