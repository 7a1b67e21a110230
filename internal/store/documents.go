package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadPlayerCache loads the player info cache.
func ReadPlayerCache(path string) (PlayerCache, error) {
	cache := PlayerCache{}
	if err := readJSON(path, &cache); err != nil {
		return nil, err
	}
	return cache, nil
}

// WritePlayerCache atomically replaces the player info cache.
func WritePlayerCache(path string, cache PlayerCache) error {
	if cache == nil {
		cache = PlayerCache{}
	}
	return writeJSON(path, cache)
}

// ReadInjuries loads the current injury list.
func ReadInjuries(path string) ([]InjuryReport, error) {
	var reports []InjuryReport
	if err := readJSON(path, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// WriteInjuries atomically replaces the injury list.
func WriteInjuries(path string, reports []InjuryReport) error {
	if reports == nil {
		reports = []InjuryReport{}
	}
	return writeJSON(path, reports)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		return nil
	})
}
