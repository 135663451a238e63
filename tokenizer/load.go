package tokenizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/argmaxinc/gpttok/envconfig"
)

// Sidecar file names of one tokenizer configuration, following the GPT-2
// release layout.
const (
	VocabFile  = "encoder.json"
	MergesFile = "vocab.bpe"
)

// LoadVocabulary reads a JSON object mapping symbol strings to token ids.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}

	var symbols map[string]int32
	if err := json.Unmarshal(data, &symbols); err != nil {
		return nil, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}

	maxID := int32(-1)
	for symbol, id := range symbols {
		if symbol == "" {
			return nil, fmt.Errorf("vocabulary %s: empty symbol for id %d", path, id)
		}
		if id < 0 {
			return nil, fmt.Errorf("vocabulary %s: symbol %q has negative id %d", path, symbol, id)
		}
		if id > maxID {
			maxID = id
		}
	}

	values := make([]string, maxID+1)
	for symbol, id := range symbols {
		if values[id] != "" {
			return nil, fmt.Errorf("vocabulary %s: id %d assigned to both %q and %q", path, id, values[id], symbol)
		}
		values[id] = symbol
	}

	return &Vocabulary{Values: values}, nil
}

// LoadMerges reads newline-delimited merge rules in priority order. The
// first line is a version header and is discarded, as are trailing blank
// lines.
func LoadMerges(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read merges: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	merges := make([]string, 0, len(lines))
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("merges %s: line %d: expected two symbols, got %q", path, i+2, line)
		}
		merges = append(merges, fields[0]+" "+fields[1])
	}

	return merges, nil
}

// GetEncoder resolves the configuration named name under the models
// directory and picks a backend from which sidecar files are present: a
// vocabulary without merge rules selects WordLevel, a vocabulary with merge
// rules selects byte pair encoding (Linewise when GPTTOK_FAST is set). The
// choice depends only on file presence, never on file content.
func GetEncoder(name string) (TextProcessor, error) {
	return getEncoder(envconfig.Models, name)
}

func getEncoder(dir, name string) (TextProcessor, error) {
	vocabPath := filepath.Join(dir, name, VocabFile)
	mergesPath := filepath.Join(dir, name, MergesFile)

	if _, err := os.Stat(vocabPath); err != nil {
		return nil, fmt.Errorf("tokenizer %q: %w", name, err)
	}

	vocab, err := LoadVocabulary(vocabPath)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(mergesPath); errors.Is(err, os.ErrNotExist) {
		slog.Debug("no merge rules, using whitespace tokenizer", "name", name)
		return NewWordLevel(vocab), nil
	} else if err != nil {
		return nil, fmt.Errorf("tokenizer %q: %w", name, err)
	}

	if vocab.Merges, err = LoadMerges(mergesPath); err != nil {
		return nil, err
	}

	opts := []Option{WithCacheSize(envconfig.CacheSize)}
	if envconfig.StrictDecode {
		opts = append(opts, WithStrictDecode())
	}

	if envconfig.Fast {
		slog.Debug("using linewise tokenizer", "name", name)
		return NewLinewise(vocab, opts...)
	}

	return NewBytePairEncoding(vocab, opts...)
}
