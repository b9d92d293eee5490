package server

import (
	"fmt"
	"os/exec"
	"runtime"
)

// OpenURL opens url in the default browser. On Linux it needs xdg-open.
func OpenURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("server: open %s: %w", url, err)
	}
	go cmd.Wait()
	return nil
}
