package project

// Project is the in-memory model of a wrapper project: a named set of
// configurations, each listing the pre-built artifacts it exposes.
type Project struct {
	// Name is the output file stem and the MSBuild RootNamespace.
	Name string
	// Toolset is emitted verbatim as PlatformToolset (e.g. "v141").
	Toolset string
	// Configurations keeps the order in which configurations were declared.
	// Duplicate keys are preserved.
	Configurations []Configuration
}

// Configuration is one (Configuration, Platform) pair and its artifacts.
type Configuration struct {
	// Name is the configuration label (e.g. "Debug").
	Name string
	// Architecture is the platform label (e.g. "x64").
	Architecture string
	// Binaries lists DLL paths relative to the project directory.
	Binaries []string
	// Libraries lists link library paths relative to the project directory.
	Libraries []string
}

// Key returns the "<name>|<architecture>" pair MSBuild conditions are keyed on.
func (c Configuration) Key() string {
	return c.Name + "|" + c.Architecture
}

// HasBinaries reports whether any configuration lists a DLL.
func (p *Project) HasBinaries() bool {
	for _, c := range p.Configurations {
		if len(c.Binaries) > 0 {
			return true
		}
	}
	return false
}

// HasLibraries reports whether any configuration lists a link library.
func (p *Project) HasLibraries() bool {
	for _, c := range p.Configurations {
		if len(c.Libraries) > 0 {
			return true
		}
	}
	return false
}

// FileName returns the name of the generated project file.
func (p *Project) FileName() string {
	return p.Name + ".vcxproj"
}
