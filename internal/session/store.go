package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// header is the first JSONL record of a dataset file. It carries the
// observation window the episodes were recorded under.
type header struct {
	ObservationWindow int `json:"observation_window"`
}

// Load reads a dataset from a JSONL file: one header record followed by one
// episode per line. Any malformed record fails the whole load with a
// *ValidationError naming the offending line.
func Load(path string) (*Collection, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sessions file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	// Episodes with hundreds of boards routinely exceed the default token size.
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("error reading sessions file: %w", err)
		}
		return nil, &ValidationError{Line: 1, Field: "observation_window", Msg: "missing dataset header"}
	}

	var h header
	if err := json.Unmarshal(scanner.Bytes(), &h); err != nil {
		return nil, &ValidationError{Line: 1, Field: "observation_window", Msg: "malformed dataset header"}
	}
	if h.ObservationWindow <= 0 {
		return nil, &ValidationError{Line: 1, Field: "observation_window", Msg: "must be a positive integer"}
	}

	col := &Collection{ObservationWindow: h.ObservationWindow}

	line := 1
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var ep Episode
		if err := json.Unmarshal(raw, &ep); err != nil {
			return nil, &ValidationError{Line: line, Field: "episode", Msg: err.Error()}
		}
		if err := ep.Validate(h.ObservationWindow, line); err != nil {
			return nil, err
		}
		col.Episodes = append(col.Episodes, ep)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading sessions file: %w", err)
	}

	log.Info().
		Str("path", path).
		Int("episodes", len(col.Episodes)).
		Int("boards", col.TotalBoards()).
		Int("window", col.ObservationWindow).
		Msg("Loaded session dataset")

	return col, nil
}

// Save writes a dataset as JSONL, using a temp file and atomic rename so a
// crashed write never leaves a truncated dataset behind.
func Save(col *Collection, path string) error {
	if col.ObservationWindow <= 0 {
		return &ValidationError{Field: "observation_window", Msg: "must be a positive integer"}
	}
	for i, ep := range col.Episodes {
		if err := ep.Validate(col.ObservationWindow, i+2); err != nil {
			return err
		}
	}

	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp sessions file: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)

	if err := encoder.Encode(header{ObservationWindow: col.ObservationWindow}); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to encode dataset header: %w", err)
	}
	for _, ep := range col.Episodes {
		if err := encoder.Encode(ep); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to encode episode: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize sessions file: %w", err)
	}

	log.Info().Str("path", path).Int("episodes", len(col.Episodes)).Msg("Saved session dataset")
	return nil
}
