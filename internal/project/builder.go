package project

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Builder assembles a Project one configuration at a time. It checks that
// every artifact exists under the root directory and reports configurations
// with an empty artifact list to its output writer.
type Builder struct {
	root    string
	out     io.Writer
	project *Project
	current *Configuration
}

// NewBuilder starts a project rooted at root. Warnings are written to out.
func NewBuilder(root string, out io.Writer, name, toolset string) *Builder {
	if out == nil {
		out = io.Discard
	}
	return &Builder{
		root:    root,
		out:     out,
		project: &Project{Name: name, Toolset: toolset},
	}
}

// BeginConfiguration closes the open configuration, if any, and opens a new one.
func (b *Builder) BeginConfiguration(name, architecture string) {
	b.closeConfiguration()
	b.current = &Configuration{Name: name, Architecture: architecture}
}

// AddBinary appends a DLL path to the open configuration.
func (b *Builder) AddBinary(path string) error {
	return b.add(Binary, path)
}

// AddLibrary appends a link library path to the open configuration.
func (b *Builder) AddLibrary(path string) error {
	return b.add(Library, path)
}

// Project closes the open configuration and returns the finished project.
func (b *Builder) Project() *Project {
	b.closeConfiguration()
	return b.project
}

func (b *Builder) add(kind ArtifactKind, path string) error {
	if b.current == nil {
		return &ArgumentError{Msg: "Expected -c"}
	}
	if err := b.checkArtifact(kind, path); err != nil {
		return err
	}
	switch kind {
	case Binary:
		b.current.Binaries = append(b.current.Binaries, path)
	case Library:
		b.current.Libraries = append(b.current.Libraries, path)
	}
	return nil
}

func (b *Builder) checkArtifact(kind ArtifactKind, path string) error {
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(b.root, path)
	}
	info, err := os.Stat(full)
	if err != nil {
		return &ArtifactError{Kind: kind, Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return &ArtifactError{Kind: kind, Path: path}
	}
	return nil
}

func (b *Builder) closeConfiguration() {
	c := b.current
	if c == nil {
		return
	}
	b.current = nil

	if len(c.Libraries) == 0 {
		fmt.Fprintf(b.out, "Warning: Configuration '%s' has no libs\n", c.Key())
	}
	if len(c.Binaries) == 0 {
		fmt.Fprintf(b.out, "Warning: Configuration '%s' has no DLLs\n", c.Key())
	}

	slog.Debug("configuration added", "configuration", c.Key(), "dlls", len(c.Binaries), "libs", len(c.Libraries))
	b.project.Configurations = append(b.project.Configurations, *c)
}
