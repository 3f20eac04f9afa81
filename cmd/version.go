package cmd

import "runtime/debug"

// appVersion can be injected with -ldflags "-X github.com/vcppgen/vcppgen/cmd.appVersion=...".
var appVersion = ""

// version returns the module version recorded by go install, falling back
// to the ldflags-injected value, or "(devel)" when neither is available.
func version() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	if appVersion != "" {
		return appVersion
	}
	return "(devel)"
}
