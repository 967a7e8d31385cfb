package remix

import (
	"testing"

	"github.com/pixremix/server/internal/domain"
)

func assertAnchors(t *testing.T, got domain.AnchorSet, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("anchors = %#v, want %#v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("anchors[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtractAnchorsOrdering(t *testing.T) {
	d := domain.ImageDescriptor{
		MustKeep: []string{"lamp"},
		Objects:  []string{"a", "b", "c", "d", "e", "f"},
		Vibe:     []string{"moody"},
		People:   nil,
	}
	got := ExtractAnchors(d)
	assertAnchors(t, got, []string{"lamp", "a", "b", "c", "d", "e", "moody"})
}

func TestExtractAnchorsMustKeepOutranksObjects(t *testing.T) {
	d := domain.ImageDescriptor{
		MustKeep: []string{"red bicycle", "street sign"},
		Objects:  []string{"red bicycle", "curb"},
	}
	got := ExtractAnchors(d)
	assertAnchors(t, got, []string{"red bicycle", "street sign", "curb"})
}

func TestExtractAnchorsCapTen(t *testing.T) {
	d := domain.ImageDescriptor{
		MustKeep: []string{"k1", "k2", "k3", "k4", "k5", "k6", "k7", "k8"},
		Objects:  []string{"o1", "o2", "o3", "o4", "o5"},
		Vibe:     []string{"v1"},
		People:   []string{"p1"},
	}
	got := ExtractAnchors(d)
	if len(got) != 10 {
		t.Fatalf("len = %d, want 10", len(got))
	}
	if got[9] != "o2" {
		t.Fatalf("anchors[9] = %q, want %q", got[9], "o2")
	}
}

func TestExtractAnchorsCaseSensitiveDedup(t *testing.T) {
	d := domain.ImageDescriptor{
		MustKeep: []string{"Lamp"},
		Objects:  []string{"lamp", "Lamp"},
	}
	got := ExtractAnchors(d)
	assertAnchors(t, got, []string{"Lamp", "lamp"})
}

func TestExtractAnchorsDeterministic(t *testing.T) {
	d := domain.ImageDescriptor{
		MustKeep: []string{"kite"},
		Objects:  []string{"string", "clouds"},
		Vibe:     []string{"breezy"},
		People:   []string{"child"},
	}
	first := ExtractAnchors(d)
	second := ExtractAnchors(d)
	assertAnchors(t, second, first)
}
