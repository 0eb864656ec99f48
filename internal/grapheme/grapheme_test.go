package grapheme

import "testing"

func TestBoundariesASCII(t *testing.T) {
	s := New(ModeUnicode)
	clusters := s.Boundaries("abc")
	if len(clusters) != 3 {
		t.Fatalf("expected 3 clusters, got %d", len(clusters))
	}
	for i, c := range clusters {
		if c.Width != 1 {
			t.Errorf("cluster %d: expected width 1, got %d", i, c.Width)
		}
	}
}

func TestWidthWideRune(t *testing.T) {
	s := New(ModeUnicode)
	if w := s.Width("世界"); w != 4 {
		t.Errorf("expected width 4 for two wide runes, got %d", w)
	}
}

func TestCombiningMarkZeroWidth(t *testing.T) {
	s := New(ModeUnicode)
	// "e" + combining acute accent (U+0301) forms one grapheme cluster.
	clusters := s.Boundaries("é")
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	if clusters[0].Width != 1 {
		t.Errorf("expected combined cluster width 1, got %d", clusters[0].Width)
	}
}

func TestCountAndWidthAgree(t *testing.T) {
	s := New(ModeWCWidth)
	text := "hi世"
	if got := s.Count(text); got != 3 {
		t.Errorf("expected 3 graphemes, got %d", got)
	}
	if got := s.Width(text); got != 4 {
		t.Errorf("expected width 4, got %d", got)
	}
}

func TestEmptyString(t *testing.T) {
	s := New(ModeUnicode)
	if clusters := s.Boundaries(""); clusters != nil {
		t.Errorf("expected nil clusters for empty string, got %v", clusters)
	}
	if w := s.Width(""); w != 0 {
		t.Errorf("expected width 0, got %d", w)
	}
}
