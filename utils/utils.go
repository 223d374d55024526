// Package utils collects small helpers shared across the CLI and the
// blob/config layers: env lookup with defaults, blob key derivation, and
// local-file staging for the index command.
package utils

import (
	"fmt"
	"io"
	"os"
)

// GetEnv returns the value of key, or fallback if unset or empty.
func GetEnv(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GenerateSongKey derives the blob store key for a song from its title
// and artist.
func GenerateSongKey(songTitle, songArtist string) string {
	return songTitle + "___" + songArtist
}

// RenameFile moves sourcePath to destinationPath by copy-then-remove,
// for the index command's local-file ingest path.
func RenameFile(sourcePath, destinationPath string) error {
	srcFile, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("renamefile: failed to open source path: %v", err)
	}

	destFile, err := os.Create(destinationPath)
	if err != nil {
		srcFile.Close()
		return fmt.Errorf("renamefile: failed to create destination path: %v", err)
	}
	defer destFile.Close()

	if _, err = io.Copy(destFile, srcFile); err != nil {
		srcFile.Close()
		return fmt.Errorf("renamefile: cannot copy src into dest: %v", err)
	}

	if err = srcFile.Close(); err != nil {
		return err
	}

	return os.Remove(sourcePath)
}
