// Package evidence turns finalized uploads under evidence/ into stored analyses and owner notifications.
package evidence

import (
	"errors"
	"path"
	"strings"
)

const Prefix = "evidence/"

var (
	ErrNoObjectName = errors.New("evidence: object event has no name")
	ErrNotEvidence  = errors.New("evidence: object is outside the evidence prefix")
)

// ObjectRef is an evidence object path broken into its parts.
type ObjectRef struct {
	Name        string
	OwnerUserID string
	DocumentID  string
	FileName    string
}

// ParseEvidencePath accepts "evidence/<owner>/.../<file>". The document id is the file name without its last extension.
func ParseEvidencePath(name string) (ObjectRef, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ObjectRef{}, ErrNoObjectName
	}
	if !strings.HasPrefix(name, Prefix) {
		return ObjectRef{}, ErrNotEvidence
	}
	rest := strings.TrimPrefix(name, Prefix)
	owner, tail, ok := strings.Cut(rest, "/")
	if !ok || strings.TrimSpace(owner) == "" {
		return ObjectRef{}, ErrNotEvidence
	}
	file := path.Base(tail)
	if tail == "" || strings.HasSuffix(tail, "/") || file == "." || file == "/" {
		return ObjectRef{}, ErrNotEvidence
	}
	stem := strings.TrimSuffix(file, path.Ext(file))
	if stem == "" {
		stem = file
	}
	return ObjectRef{Name: name, OwnerUserID: owner, DocumentID: stem, FileName: file}, nil
}

// ObjectKey builds the storage key an upload from uid is written to.
// It returns "" when uid or the file's base name is empty.
func ObjectKey(uid, fileName string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(fileName), "\\", "/"))
	if uid == "" || base == "." || base == "/" || base == ".." {
		return ""
	}
	return Prefix + uid + "/" + base
}
