package manifest

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

// EntryKind discriminates the supported package entry formats.
type EntryKind int

const (
	// EntryInvalid marks entries that are not a mapping with a usable
	// local or git key. They are reported, never fatal.
	EntryInvalid EntryKind = iota

	// EntryLocal points at a package folder on disk
	EntryLocal

	// EntryGit points at a remote repository, optionally suffixed @ref
	EntryGit
)

// PackageEntry is one element of the manifest packages list. Entries are
// tagged unions in YAML: {local: <path>} or {git: <url>[@ref]}. When both
// keys are present, local wins.
type PackageEntry struct {
	Local string
	Git   string

	kind EntryKind
	raw  interface{}
}

// Kind reports which entry format was parsed.
func (e *PackageEntry) Kind() EntryKind {
	return e.kind
}

// String renders the raw YAML value, used when reporting unknown formats.
func (e *PackageEntry) String() string {
	return fmt.Sprintf("%v", e.raw)
}

// UnmarshalYAML decodes a single packages list element. Malformed elements
// parse as EntryInvalid instead of failing the whole manifest, so one bad
// entry cannot take down the run.
func (e *PackageEntry) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	e.raw = raw

	mapping, ok := raw.(map[interface{}]interface{})
	if !ok {
		e.kind = EntryInvalid
		return nil
	}

	if value, present := mapping["local"]; present {
		if path, ok := value.(string); ok {
			e.kind = EntryLocal
			e.Local = path
		}
		return nil
	}

	if value, present := mapping["git"]; present {
		if url, ok := value.(string); ok {
			e.kind = EntryGit
			e.Git = url
		}
		return nil
	}

	e.kind = EntryInvalid
	return nil
}

// RepoDisplayName derives a short repository name from a git entry for
// progress output. The @ref suffix and a trailing .git are dropped.
func (e *PackageEntry) RepoDisplayName() string {
	base, _, _ := strings.Cut(e.Git, "@")
	base = strings.TrimRight(base, "/")

	name := base
	if endpoint, err := transport.NewEndpoint(base); err == nil {
		name = strings.TrimRight(endpoint.Path, "/")
	}
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}

	return strings.TrimSuffix(name, ".git")
}
