package present

import (
	"os"

	"github.com/atotto/clipboard"
)

// SystemClipboard writes to the desktop clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteText(text string) error { return clipboard.WriteAll(text) }

// FileClipboard stands in for a clipboard on headless machines.
type FileClipboard struct {
	Path string
}

func (f FileClipboard) WriteText(text string) error {
	return os.WriteFile(f.Path, []byte(text), 0o644)
}
