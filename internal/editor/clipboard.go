package editor

import "github.com/atotto/clipboard"

// MemoryClipboard keeps text in process.
type MemoryClipboard struct {
	text string
}

// ReadAll returns the stored text.
func (c *MemoryClipboard) ReadAll() (string, error) {
	return c.text, nil
}

// WriteAll stores text.
func (c *MemoryClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

// SystemClipboard uses the system clipboard and falls back to an in-process
// copy when none is available, for example over SSH.
type SystemClipboard struct {
	mem MemoryClipboard
}

// ReadAll reads the system clipboard, or the fallback copy.
func (c *SystemClipboard) ReadAll() (string, error) {
	if !clipboard.Unsupported {
		if text, err := clipboard.ReadAll(); err == nil {
			return text, nil
		}
	}
	return c.mem.ReadAll()
}

// WriteAll writes to both the system clipboard and the fallback copy.
func (c *SystemClipboard) WriteAll(text string) error {
	_ = c.mem.WriteAll(text)
	if !clipboard.Unsupported {
		_ = clipboard.WriteAll(text)
	}
	return nil
}
