// Package grapheme fulfills the external Unicode-data collaborator contract
// described by the engine: segmenting byte runs into user-perceived grapheme
// clusters and assigning each cluster a terminal display width.
//
// The engine core never owns Unicode tables itself — it is handed a
// *Service by reference at buffer construction and never reaches past it
// into rivo/uniseg or golang.org/x/text directly.
package grapheme

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/width"
)

// Mode selects how ambiguous-width runes are sized.
type Mode int

const (
	// ModeUnicode uses uniseg's East-Asian-width-and-emoji-aware StringWidth,
	// the more accurate of the two for modern terminals.
	ModeUnicode Mode = iota
	// ModeWCWidth approximates the traditional POSIX wcwidth(3) table via
	// golang.org/x/text/width's East Asian width classification.
	ModeWCWidth
)

// Cluster describes one grapheme cluster within a byte run.
type Cluster struct {
	Start, End int // byte offsets into the measured run, End exclusive
	Width      int // terminal display width, 0, 1, or 2
}

// Service is the process-wide Unicode measurement collaborator. It is
// stateless and safe for concurrent use; callers typically construct one at
// startup and share it across every buffer.
type Service struct {
	mode Mode
}

// New creates a Service using the given measurement mode.
func New(mode Mode) *Service {
	return &Service{mode: mode}
}

// Mode returns the service's configured measurement mode.
func (s *Service) Mode() Mode {
	return s.mode
}

// Boundaries segments s into grapheme clusters, returning each cluster's
// byte range and display width in order. Malformed UTF-8 bytes are mapped
// to a synthetic width-1 replacement cluster one byte wide rather than
// aborting, per the engine's error-handling contract.
func (s *Service) Boundaries(text string) []Cluster {
	if text == "" {
		return nil
	}

	clusters := make([]Cluster, 0, len(text)/2+1)
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		start, end := g.Positions()
		runes := g.Runes()
		if len(runes) == 1 && runes[0] == unicode.ReplacementChar && !validUTF8Rune(text[start:end]) {
			clusters = append(clusters, Cluster{Start: start, End: end, Width: 1})
			continue
		}
		clusters = append(clusters, Cluster{Start: start, End: end, Width: s.clusterWidth(text[start:end], runes)})
	}
	return clusters
}

// Width returns the total display width of s under the service's mode.
func (s *Service) Width(text string) int {
	if text == "" {
		return 0
	}
	if s.mode == ModeUnicode {
		// uniseg sizes a tab (its own cluster) as 0; count it as 1.
		return uniseg.StringWidth(text) + strings.Count(text, "\t")
	}
	total := 0
	for _, c := range s.Boundaries(text) {
		total += c.Width
	}
	return total
}

// Count returns the number of grapheme clusters in s.
func (s *Service) Count(text string) int {
	return len(s.Boundaries(text))
}

func (s *Service) clusterWidth(cluster string, runes []rune) int {
	switch s.mode {
	case ModeWCWidth:
		return wcwidthCluster(runes)
	default:
		if cluster == "\t" {
			return 1
		}
		return uniseg.StringWidth(cluster)
	}
}

func wcwidthCluster(runes []rune) int {
	w := 0
	for i, r := range runes {
		rw := wcwidthRune(r)
		if i == 0 {
			w = rw
			continue
		}
		// Combining marks attached to the base rune contribute no width.
		if rw == 0 {
			continue
		}
		if rw > w {
			w = rw
		}
	}
	return w
}

func wcwidthRune(r rune) int {
	if r == 0 {
		return 0
	}
	if unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Me, r) || unicode.Is(unicode.Cf, r) {
		return 0
	}
	if r == '\t' {
		return 1
	}
	if r < 0x20 || r == 0x7f {
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

func validUTF8Rune(s string) bool {
	for _, r := range s {
		if r == unicode.ReplacementChar {
			return false
		}
	}
	return true
}
