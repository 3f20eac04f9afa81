// Package msbuild renders a project.Project as a .vcxproj wrapper project.
package msbuild

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/vcppgen/vcppgen/internal/project"
)

const (
	xmlHeader   = `<?xml version="1.0" encoding="utf-8"?>`
	projectOpen = `<Project DefaultTargets="Build" ToolsVersion="15.0" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">`

	projectDir = "$(ProjectDir)"
)

var defaultImports = []string{
	`$(VCTargetsPath)\Microsoft.Cpp.Default.props`,
	`$(VCTargetsPath)\Microsoft.Cpp.props`,
	`$(VCTargetsPath)\Microsoft.Cpp.targets`,
}

// guidNamespace scopes the name-based project GUIDs.
var guidNamespace = uuid.MustParse("6d1f0a4e-3c7b-4f7e-9a51-2b8c0e4d9f13")

// Options tweaks the rendered document.
type Options struct {
	// ProjectGuid adds a ProjectGuid derived from the project name to Globals.
	ProjectGuid bool
}

// ProjectGuid returns the braced, upper-case GUID used for name. The same
// name always yields the same GUID.
func ProjectGuid(name string) string {
	id := uuid.NewSHA1(guidNamespace, []byte(name))
	return "{" + strings.ToUpper(id.String()) + "}"
}

// Render returns the complete project document.
func Render(p *project.Project, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, p, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write emits the project document to w.
func Write(w io.Writer, p *project.Project, opts Options) error {
	x := NewWriter(w)

	x.Println(xmlHeader)
	x.Println(projectOpen)
	x.BeginIndent()

	writeConfigurations(x, p)
	writeGlobals(x, p, opts)

	for _, imp := range defaultImports {
		x.Tag("Import", nil, Attr{Name: "Project", Value: imp})
	}

	// Both GetTargetPath targets are part of the output consumers were
	// written against; the second one wins in MSBuild.
	x.Tag("Target", func() {},
		Attr{Name: "Name", Value: "GetTargetPath"},
		Attr{Name: "DependsOnTargets", Value: "GetNativeTargetPath"},
		Attr{Name: "Returns", Value: "@(NativeTargetPath)"})
	writeNativeTargetPaths(x, p)

	if p.HasLibraries() {
		writeLinkLibraries(x, p)
	}
	if p.HasBinaries() {
		writeCopyTarget(x, p)
	}

	x.EndIndent()
	x.Println("</Project>")
	return x.Err()
}

func condition(c project.Configuration) string {
	return fmt.Sprintf("'$(Configuration)|$(Platform)'=='%s'", c.Key())
}

func designTimeCondition(c project.Configuration) string {
	return condition(c) + " and '$(DesignTimeBuild)'=='true'"
}

func writeConfigurations(x *Writer, p *project.Project) {
	x.Tag("ItemGroup", func() {
		for _, c := range p.Configurations {
			x.Tag("ProjectConfiguration", func() {
				x.InnerString("Configuration", c.Name)
				x.InnerString("Platform", c.Architecture)
			}, Attr{Name: "Include", Value: c.Key()})
		}
	}, Attr{Name: "Label", Value: "ProjectConfigurations"})
}

func writeGlobals(x *Writer, p *project.Project, opts Options) {
	x.Tag("PropertyGroup", func() {
		x.InnerString("PlatformToolset", p.Toolset)
	}, Attr{Name: "Label", Value: "Configuration"})

	x.Tag("PropertyGroup", func() {
		x.InnerString("Keyword", "Win32Proj")
		if opts.ProjectGuid {
			x.InnerString("ProjectGuid", ProjectGuid(p.Name))
		}
		x.InnerString("RootNamespace", p.Name)
	}, Attr{Name: "Label", Value: "Globals"})
}

// writeNativeTargetPaths advertises every artifact at design time, DLLs
// before libs within each configuration.
func writeNativeTargetPaths(x *Writer, p *project.Project) {
	x.Tag("Target", func() {
		x.Tag("ItemGroup", func() {
			for _, c := range p.Configurations {
				cond := designTimeCondition(c)
				for _, path := range c.Binaries {
					x.Tag("NativeTargetPath", nil,
						Attr{Name: "Condition", Value: cond},
						Attr{Name: "Include", Value: projectDir + path})
				}
				for _, path := range c.Libraries {
					x.Tag("NativeTargetPath", nil,
						Attr{Name: "Condition", Value: cond},
						Attr{Name: "Include", Value: projectDir + path})
				}
			}
		})
	},
		Attr{Name: "Name", Value: "GetTargetPath"},
		Attr{Name: "Returns", Value: "@(NativeTargetPath)"})
}

func writeLinkLibraries(x *Writer, p *project.Project) {
	x.Tag("Target", func() {
		x.Tag("ItemGroup", func() {
			for _, c := range p.Configurations {
				if len(c.Libraries) == 0 {
					continue
				}
				includes := make([]string, len(c.Libraries))
				for i, lib := range c.Libraries {
					includes[i] = projectDir + lib
				}
				projectType := "StaticLibrary"
				if len(c.Binaries) > 0 {
					projectType = "DynamicLibrary"
				}
				x.Tag("Libs", func() {
					x.InnerString("ProjectType", projectType)
					x.InnerString("FileType", "lib")
					x.InnerString("ResolveableAssembly", "false")
				},
					Attr{Name: "Condition", Value: condition(c)},
					Attr{Name: "Include", Value: strings.Join(includes, ";")})
			}
		})
	},
		Attr{Name: "Name", Value: "GetResolvedLinkLibs"},
		Attr{Name: "Returns", Value: "@(Libs)"})
}

// writeCopyTarget copies the DLLs of the active configuration into the
// consumer's output directory and makes that the project's Build target.
func writeCopyTarget(x *Writer, p *project.Project) {
	x.Tag("Target", func() {
		x.Tag("ItemGroup", func() {
			for _, c := range p.Configurations {
				for _, path := range c.Binaries {
					x.Tag("NativeTargetPath", nil,
						Attr{Name: "Condition", Value: condition(c)},
						Attr{Name: "Include", Value: projectDir + path})
				}
			}
		})
		x.Tag("Copy", nil,
			Attr{Name: "SourceFiles", Value: "@(NativeTargetPath)"},
			Attr{Name: "DestinationFolder", Value: "$(OutDir)"})
	}, Attr{Name: "Name", Value: "CopyBinaryFiles"})

	x.Tag("Target", nil,
		Attr{Name: "Name", Value: "Build"},
		Attr{Name: "DependsOnTargets", Value: "CopyBinaryFiles"})
}
