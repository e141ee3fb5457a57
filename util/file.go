package util

import (
	"os"
	"path/filepath"
	"strings"
)

// WriteToFile writes the strings to the file separated by new lines,
// creating the parent folder when needed.
func WriteToFile(savePath string, content ...string) error {
	if err := os.MkdirAll(filepath.Dir(savePath), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(savePath, []byte(strings.Join(content, "\n")), 0644)
}

// AppendToFile appends the strings to the file, one per line, creating the
// file and its parent folder when needed.
func AppendToFile(savePath string, content ...string) error {
	if err := os.MkdirAll(filepath.Dir(savePath), os.ModePerm); err != nil {
		return err
	}
	f, err := os.OpenFile(savePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, s := range content {
		if _, err = f.WriteString(s + "\n"); err != nil {
			return err
		}
	}
	return nil
}
