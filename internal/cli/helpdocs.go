package cli

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed help/*.md
var helpPages embed.FS

// helpFileName maps "mk point" to "mk_point.md".
func helpFileName(name string) string {
	return strings.Join(strings.Fields(name), "_") + ".md"
}

func builtinHelp(name string) (string, error) {
	b, err := helpPages.ReadFile("help/" + helpFileName(name))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// installHelpPages copies the built-in pages into dir. With force unset,
// pages that already exist are kept.
func installHelpPages(dir string, force bool) (int, error) {
	entries, err := fs.ReadDir(helpPages, "help")
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	written := 0
	for _, e := range entries {
		b, err := helpPages.ReadFile("help/" + e.Name())
		if err != nil {
			return written, err
		}
		ok, err := writeTemplateFile(filepath.Join(dir, e.Name()), string(b), force)
		if err != nil {
			return written, err
		}
		if ok {
			written++
		}
	}
	return written, nil
}

func writeTemplateFile(path string, content string, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		}
	}
	data := strings.TrimRight(content, "\n") + "\n"
	return true, atomicWriteFile(path, []byte(data), 0o644)
}

func atomicWriteFile(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}
	if err := os.Chmod(name, perm); err != nil {
		_ = os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return err
	}
	return nil
}
