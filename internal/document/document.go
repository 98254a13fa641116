// Package document turns uploaded resume files into plain text.
//
// Extraction never fails loudly: a file that cannot be read yields a Result
// carrying the error, and TextOrEmpty lets callers continue with an empty
// string so scoring always runs on well-defined input.
package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
	KindDOC  Kind = "doc"
)

var (
	ErrUnsupportedKind = errors.New("unsupported file type")
	ErrEmptyFile       = errors.New("empty file")
)

// KindOf maps a file name to a supported document kind by its extension.
func KindOf(filename string) (Kind, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch Kind(ext) {
	case KindPDF, KindDOCX, KindDOC:
		return Kind(ext), true
	default:
		return "", false
	}
}

func Allowed(filename string) bool {
	_, ok := KindOf(filename)
	return ok
}

type Result struct {
	Text string
	Err  error
}

func (r Result) OK() bool {
	return r.Err == nil
}

func (r Result) TextOrEmpty() string {
	if r.Err != nil {
		return ""
	}
	return r.Text
}

// Extract reads the text of a PDF or Word document held in memory.
func Extract(filename string, data []byte) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: fmt.Errorf("extract %s: panic: %v", filename, r)}
		}
	}()

	kind, ok := KindOf(filename)
	if !ok {
		return Result{Err: fmt.Errorf("extract %s: %w", filename, ErrUnsupportedKind)}
	}
	if len(data) == 0 {
		return Result{Err: fmt.Errorf("extract %s: %w", filename, ErrEmptyFile)}
	}

	var (
		text string
		err  error
	)
	switch kind {
	case KindPDF:
		text, err = extractPDF(data)
	case KindDOCX, KindDOC:
		text, err = extractDocx(data)
	}
	if err != nil {
		return Result{Err: fmt.Errorf("extract %s: %w", filename, err)}
	}
	return Result{Text: text}
}
