package element

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tmc/langchaingo/schema"

	"github.com/snova-jorgep/sambaparse/internal/storage"
)

// Options controls the post-ingest normalization pass.
type Options struct {
	// ExtendMetadata merges AdditionalMetadata into every element's
	// metadata mapping; extra keys overwrite on conflict.
	ExtendMetadata     bool
	AdditionalMetadata map[string]any
	// ReplaceTableText swaps a Table element's text for the value stored
	// under TableTextKey in its metadata.
	ReplaceTableText bool
	TableTextKey     string
	// ReturnDocs materializes retrieval documents alongside the raw
	// texts/metadata sequences.
	ReturnDocs bool
}

// Result holds the three aligned output sequences of a normalization
// pass. Documents is empty unless Options.ReturnDocs was set.
type Result struct {
	Texts    []string
	Metadata []map[string]any
	Docs     []schema.Document
}

// Process normalizes every element JSON file under path (or path itself
// when it is a single file): metadata extension, table-text
// substitution, record flattening, and an in-place rewrite of each file
// with whatever mutations were applied.
//
// Document conversion happens at each file boundary over the full
// running texts/metadata lists, not per file. With multiple input files
// this duplicates earlier files' records in Docs. Known quirk, kept for
// output compatibility; see the cross-file test before changing it.
func Process(fs storage.FileSystem, path string, opts Options) (*Result, error) {
	paths, err := listElementFiles(fs, path)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, filePath := range paths {
		if err := processFile(fs, filePath, opts, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// listElementFiles resolves the input path to the ordered set of element
// JSON files: the path itself when it is a file, otherwise every
// .json-suffixed entry directly under it.
func listElementFiles(fs storage.FileSystem, path string) ([]string, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat output path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := fs.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read output dir: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(path, entry.Name()))
	}
	return paths, nil
}

func processFile(fs storage.FileSystem, path string, opts Options, res *Result) error {
	data, err := fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var elements []Element
	if err := json.Unmarshal(data, &elements); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	for i, elem := range elements {
		meta, ok := elem.Metadata()
		if !ok {
			return &StructuralError{Path: path, Index: i, Key: keyMetadata}
		}

		if opts.ExtendMetadata && len(opts.AdditionalMetadata) > 0 {
			for k, v := range opts.AdditionalMetadata {
				meta[k] = v
			}
		}

		if opts.ReplaceTableText && elem.Type() == tableType {
			replacement, ok := meta[opts.TableTextKey]
			if !ok {
				return &StructuralError{Path: path, Index: i, Key: opts.TableTextKey}
			}
			elem[keyText] = replacement
		}

		text, ok := elem.Text()
		if !ok {
			return &StructuralError{Path: path, Index: i, Key: keyText}
		}

		res.Texts = append(res.Texts, text)
		res.Metadata = append(res.Metadata, buildRecord(elem, meta))
	}

	if opts.ReturnDocs {
		// Converts the whole accumulated run so far, not just this
		// file's slice (see the Process doc comment).
		res.Docs = append(res.Docs, toDocuments(res.Texts, res.Metadata)...)
	}

	rewritten, err := json.MarshalIndent(elements, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := fs.WriteFile(path, rewritten, 0o644); err != nil {
		return fmt.Errorf("rewrite %s: %w", path, err)
	}
	return nil
}

// buildRecord flattens one element into a standalone metadata record: a
// copy of its metadata, overlaid with every other top-level field, plus
// a page key defaulting to 1.
func buildRecord(elem Element, meta map[string]any) map[string]any {
	record := make(map[string]any, len(meta)+len(elem))
	for k, v := range meta {
		record[k] = v
	}
	for k, v := range elem {
		if k == keyText || k == keyMetadata || k == keyEmbeddings {
			continue
		}
		record[k] = v
	}
	if page, ok := record[keyPageNumber]; ok {
		record[keyPage] = page
	} else {
		record[keyPage] = 1
	}
	return record
}

func toDocuments(texts []string, metadata []map[string]any) []schema.Document {
	docs := make([]schema.Document, 0, len(texts))
	for i, text := range texts {
		docs = append(docs, schema.Document{
			PageContent: text,
			Metadata:    metadata[i],
		})
	}
	return docs
}
