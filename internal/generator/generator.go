package generator

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vcppgen/vcppgen/internal/msbuild"
	"github.com/vcppgen/vcppgen/internal/project"
	"github.com/vcppgen/vcppgen/internal/ui"
)

// Options contains optional flags for the generation process.
type Options struct {
	// ProjectGuid emits a deterministic ProjectGuid in the Globals group.
	ProjectGuid bool
	// DryRun renders the project in memory and prints how it differs from
	// the file on disk instead of writing it.
	DryRun bool
	// Out receives the dry-run report. Nil means os.Stdout.
	Out io.Writer
}

// Generate writes <dir>/<name>.vcxproj for p, replacing any existing file.
//
// Parameters:
//   - p: The project model built from the command line or a manifest.
//   - dir: The output directory.
//   - opts: Additional generation options.
//
// Returns:
//   - string: The path of the project file.
//   - error: An error if the file cannot be created or written.
func Generate(p *project.Project, dir string, opts Options) (string, error) {
	path := filepath.Join(dir, p.FileName())
	emit := msbuild.Options{ProjectGuid: opts.ProjectGuid}

	if opts.DryRun {
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		return path, preview(out, p, path, emit)
	}

	if err := writeProject(p, path, emit); err != nil {
		return path, fmt.Errorf("failed to write %s: %w", p.FileName(), err)
	}
	slog.Info("generated project", "file", path, "configurations", len(p.Configurations))
	return path, nil
}

func writeProject(p *project.Project, path string, opts msbuild.Options) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return msbuild.Write(f, p, opts)
}

// preview compares the rendered document with the file at path and reports
// the difference to w.
func preview(w io.Writer, p *project.Project, path string, opts msbuild.Options) error {
	rendered, err := msbuild.Render(p, opts)
	if err != nil {
		return err
	}

	existing, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		ui.PrintHeader(w, "Dry run: "+p.FileName()+" would be created")
		ui.PrintDiff(w, "", string(rendered))
		return nil
	case err != nil:
		return fmt.Errorf("failed to read %s: %w", p.FileName(), err)
	}

	if bytes.Equal(existing, rendered) {
		ui.PrintSuccess(w, "Up to date", p.FileName())
		return nil
	}

	ui.PrintHeader(w, "Dry run: "+p.FileName()+" would change")
	added, removed := ui.PrintDiff(w, string(existing), string(rendered))
	ui.PrintWarning(w, "Changes", fmt.Sprintf("%d added, %d removed", added, removed))
	return nil
}
