package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/ajoubert/newsdesk/internal/article"
)

// Open launches the system browser on an article link. Placeholder links
// (records that arrived without one) are refused rather than handed to the
// shell.
func Open(rawURL string) error {
	if rawURL == "" || rawURL == article.PlaceholderLink {
		return fmt.Errorf("article has no link")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", rawURL).Start()
	case "windows":
		// rundll32 avoids cmd /c start shell interpretation
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL).Start()
	default:
		return exec.Command("xdg-open", rawURL).Start()
	}
}
