// Package imagevariant keeps fixed-width WebP copies of an uploaded image in
// step with the original, and removes them when the original goes away.
package imagevariant

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// Extension is the file extension of every derived variant.
const Extension = ".webp"

// DefaultQuality is the lossy WebP quality used when none is configured.
const DefaultQuality = 82

// Variant is a labelled target width, e.g. "2x" at 2048 pixels.
type Variant struct {
	Label string
	Width int
}

// DefaultVariants are the base-density and double-density widths.
var DefaultVariants = []Variant{
	{Label: "1x", Width: 1280},
	{Label: "2x", Width: 2048},
}

// Name returns the storage name of the label variant of original: same
// directory and base name, "@label" appended, extension replaced by .webp.
//
//	posts/featured/photo.jpg, "2x" -> posts/featured/photo@2x.webp
func Name(original, label string) string {
	original = strings.ReplaceAll(original, "\\", "/")
	dir, file := path.Split(original)
	stem := strings.TrimSuffix(file, path.Ext(file))
	return dir + stem + "@" + label + Extension
}

// Labels returns the labels of vs in order.
func Labels(vs []Variant) []string {
	labels := make([]string, len(vs))
	for i, v := range vs {
		labels[i] = v.Label
	}
	return labels
}

// ParseVariants parses "1x=1280,2x=2048".
func ParseVariants(s string) ([]Variant, error) {
	var out []Variant
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		label, width, ok := strings.Cut(part, "=")
		label = strings.TrimSpace(label)
		if !ok || label == "" {
			return nil, fmt.Errorf("imagevariant: invalid variant %q, want label=width", part)
		}
		w, err := strconv.Atoi(strings.TrimSpace(width))
		if err != nil || w <= 0 {
			return nil, fmt.Errorf("imagevariant: invalid width in %q", part)
		}
		if seen[label] {
			return nil, fmt.Errorf("imagevariant: duplicate label %q", label)
		}
		seen[label] = true
		out = append(out, Variant{Label: label, Width: w})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("imagevariant: no variants in %q", s)
	}
	return out, nil
}
