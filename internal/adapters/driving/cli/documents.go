package cli

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/logger"
)

// stdinArg reads a document from standard input.
const stdinArg = "-"

// documentExtensions are collected when walking a directory.
// Files named explicitly are read whatever their extension.
var documentExtensions = map[string]bool{
	".json":   true,
	".jsonld": true,
	".yaml":   true,
	".yml":    true,
}

// collectDocuments reads every document named by args. Directories are
// walked recursively; hidden directories are skipped.
func collectDocuments(stdin io.Reader, args []string) ([]domain.RawDocument, error) {
	var docs []domain.RawDocument
	readStdin := false

	for _, arg := range args {
		if arg == stdinArg {
			if readStdin {
				continue
			}
			readStdin = true
			content, err := io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("reading stdin: %w", err)
			}
			docs = append(docs, domain.RawDocument{URI: stdinArg, Content: content})
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", arg, err)
		}
		if !info.IsDir() {
			doc, err := readDocument(arg)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
			continue
		}

		found, err := walkDocuments(arg)
		if err != nil {
			return nil, err
		}
		docs = append(docs, found...)
	}
	return docs, nil
}

func walkDocuments(root string) ([]domain.RawDocument, error) {
	var docs []domain.RawDocument
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !documentExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		doc, err := readDocument(path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	logger.Debug("Found %d documents under %s", len(docs), root)
	return docs, nil
}

func readDocument(path string) (domain.RawDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return domain.RawDocument{URI: path, Content: content}, nil
}
