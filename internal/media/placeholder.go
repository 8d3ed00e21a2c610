package media

import (
	"fmt"
	"html"
	"os"
)

// writePlaceholder writes a small vector graphic naming the file and the
// reason there is no real thumbnail. It keeps the deterministic artifact
// name so the existence check still works as a cache.
func writePlaceholder(dest, filename string) error {
	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="640" height="360" viewBox="0 0 640 360">
  <rect width="640" height="360" fill="#2b2d31"/>
  <polygon points="290,140 290,220 360,180" fill="#5a5d63"/>
  <text x="320" y="270" font-family="sans-serif" font-size="20" fill="#9a9da3" text-anchor="middle">%s</text>
  <text x="320" y="300" font-family="sans-serif" font-size="14" fill="#6d7076" text-anchor="middle">preview unavailable</text>
</svg>
`, html.EscapeString(filename))

	return os.WriteFile(dest, []byte(svg), 0o644)
}
