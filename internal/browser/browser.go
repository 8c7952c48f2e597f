// Package browser hands a web link or an exported file to the desktop's
// default application.
package browser

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Open launches the default handler for an http(s) URL or an existing local
// file such as an exported CSV.
func Open(target string) error {
	arg, err := resolve(target)
	if err != nil {
		return err
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", arg).Start()
	case "windows":
		// Use rundll32 instead of cmd /c start to avoid shell interpretation
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", arg).Start()
	default:
		return exec.Command("xdg-open", arg).Start()
	}
}

// resolve returns the argument to pass to the opener: an absolute path for
// local files, the URL itself for http(s) links.
func resolve(target string) (string, error) {
	if target == "" {
		return "", fmt.Errorf("nothing to open")
	}
	if info, err := os.Stat(target); err == nil {
		if info.IsDir() {
			return "", fmt.Errorf("refusing to open directory %s", target)
		}
		return filepath.Abs(target)
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("refusing to open %q (only existing files and http/https URLs)", target)
	}
	return target, nil
}
