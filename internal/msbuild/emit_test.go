package msbuild

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/vcppgen/vcppgen/internal/project"
)

type xmlItem struct {
	Condition string `xml:"Condition,attr"`
	Include   string `xml:"Include,attr"`
}

type xmlLibs struct {
	Condition           string `xml:"Condition,attr"`
	Include             string `xml:"Include,attr"`
	ProjectType         string `xml:"ProjectType"`
	FileType            string `xml:"FileType"`
	ResolveableAssembly string `xml:"ResolveableAssembly"`
}

type xmlItemGroup struct {
	Label                 string    `xml:"Label,attr"`
	ProjectConfigurations []xmlItem `xml:"ProjectConfiguration"`
	NativeTargetPaths     []xmlItem `xml:"NativeTargetPath"`
	Libs                  []xmlLibs `xml:"Libs"`
}

type xmlTarget struct {
	Name             string        `xml:"Name,attr"`
	DependsOnTargets string        `xml:"DependsOnTargets,attr"`
	Returns          string        `xml:"Returns,attr"`
	ItemGroup        *xmlItemGroup `xml:"ItemGroup"`
	Copy             *struct {
		SourceFiles       string `xml:"SourceFiles,attr"`
		DestinationFolder string `xml:"DestinationFolder,attr"`
	} `xml:"Copy"`
}

type xmlPropertyGroup struct {
	Label           string `xml:"Label,attr"`
	PlatformToolset string `xml:"PlatformToolset"`
	Keyword         string `xml:"Keyword"`
	ProjectGuid     string `xml:"ProjectGuid"`
	RootNamespace   string `xml:"RootNamespace"`
}

type xmlProject struct {
	DefaultTargets string             `xml:"DefaultTargets,attr"`
	ToolsVersion   string             `xml:"ToolsVersion,attr"`
	ItemGroups     []xmlItemGroup     `xml:"ItemGroup"`
	PropertyGroups []xmlPropertyGroup `xml:"PropertyGroup"`
	Imports        []struct {
		Project string `xml:"Project,attr"`
	} `xml:"Import"`
	Targets []xmlTarget `xml:"Target"`
}

func (p *xmlProject) targets(name string) []xmlTarget {
	var out []xmlTarget
	for _, t := range p.Targets {
		if t.Name == name {
			out = append(out, t)
		}
	}
	return out
}

func render(t *testing.T, p *project.Project, opts Options) []byte {
	t.Helper()
	out, err := Render(p, opts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return out
}

// decode checks that doc is well-formed and returns its structure.
func decode(t *testing.T, doc []byte) *xmlProject {
	t.Helper()
	d := xml.NewDecoder(bytes.NewReader(doc))
	for {
		_, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("document is not well-formed: %v\n%s", err, doc)
		}
	}
	var p xmlProject
	if err := xml.Unmarshal(doc, &p); err != nil {
		t.Fatalf("xml.Unmarshal failed: %v", err)
	}
	return &p
}

func TestRender_Golden(t *testing.T) {
	p := &project.Project{
		Name:    "foo",
		Toolset: "v141",
		Configurations: []project.Configuration{
			{Name: "Debug", Architecture: "x64", Binaries: []string{`Debug\foo.dll`}, Libraries: []string{`Debug\foo.lib`}},
		},
	}

	lines := []string{
		`<?xml version="1.0" encoding="utf-8"?>`,
		`<Project DefaultTargets="Build" ToolsVersion="15.0" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">`,
		`	<ItemGroup Label="ProjectConfigurations">`,
		`		<ProjectConfiguration Include="Debug|x64">`,
		`			<Configuration>Debug</Configuration>`,
		`			<Platform>x64</Platform>`,
		`		</ProjectConfiguration>`,
		`	</ItemGroup>`,
		`	<PropertyGroup Label="Configuration">`,
		`		<PlatformToolset>v141</PlatformToolset>`,
		`	</PropertyGroup>`,
		`	<PropertyGroup Label="Globals">`,
		`		<Keyword>Win32Proj</Keyword>`,
		`		<RootNamespace>foo</RootNamespace>`,
		`	</PropertyGroup>`,
		`	<Import Project="$(VCTargetsPath)\Microsoft.Cpp.Default.props" />`,
		`	<Import Project="$(VCTargetsPath)\Microsoft.Cpp.props" />`,
		`	<Import Project="$(VCTargetsPath)\Microsoft.Cpp.targets" />`,
		`	<Target Name="GetTargetPath" DependsOnTargets="GetNativeTargetPath" Returns="@(NativeTargetPath)">`,
		`	</Target>`,
		`	<Target Name="GetTargetPath" Returns="@(NativeTargetPath)">`,
		`		<ItemGroup>`,
		`			<NativeTargetPath Condition="'$(Configuration)|$(Platform)'=='Debug|x64' and '$(DesignTimeBuild)'=='true'" Include="$(ProjectDir)Debug\foo.dll" />`,
		`			<NativeTargetPath Condition="'$(Configuration)|$(Platform)'=='Debug|x64' and '$(DesignTimeBuild)'=='true'" Include="$(ProjectDir)Debug\foo.lib" />`,
		`		</ItemGroup>`,
		`	</Target>`,
		`	<Target Name="GetResolvedLinkLibs" Returns="@(Libs)">`,
		`		<ItemGroup>`,
		`			<Libs Condition="'$(Configuration)|$(Platform)'=='Debug|x64'" Include="$(ProjectDir)Debug\foo.lib">`,
		`				<ProjectType>DynamicLibrary</ProjectType>`,
		`				<FileType>lib</FileType>`,
		`				<ResolveableAssembly>false</ResolveableAssembly>`,
		`			</Libs>`,
		`		</ItemGroup>`,
		`	</Target>`,
		`	<Target Name="CopyBinaryFiles">`,
		`		<ItemGroup>`,
		`			<NativeTargetPath Condition="'$(Configuration)|$(Platform)'=='Debug|x64'" Include="$(ProjectDir)Debug\foo.dll" />`,
		`		</ItemGroup>`,
		`		<Copy SourceFiles="@(NativeTargetPath)" DestinationFolder="$(OutDir)" />`,
		`	</Target>`,
		`	<Target Name="Build" DependsOnTargets="CopyBinaryFiles" />`,
		`</Project>`,
	}
	want := strings.Join(lines, "\r\n") + "\r\n"

	got := string(render(t, p, Options{}))
	if got != want {
		t.Errorf("rendered document mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_CRLFOnly(t *testing.T) {
	doc := render(t, &project.Project{Name: "foo", Toolset: "v141"}, Options{})
	if bytes.HasPrefix(doc, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("document must not start with a byte-order mark")
	}
	if n := bytes.Count(doc, []byte("\n")); n != bytes.Count(doc, []byte("\r\n")) {
		t.Errorf("found bare LF line endings")
	}
	if !bytes.HasSuffix(doc, []byte("</Project>\r\n")) {
		t.Errorf("document does not end with </Project>CRLF")
	}
}

func TestRender_ZeroConfigurations(t *testing.T) {
	doc := render(t, &project.Project{Name: "foo", Toolset: "v141"}, Options{})
	x := decode(t, doc)

	if x.DefaultTargets != "Build" || x.ToolsVersion != "15.0" {
		t.Errorf("root attributes = %q %q", x.DefaultTargets, x.ToolsVersion)
	}
	if len(x.ItemGroups) != 1 || x.ItemGroups[0].Label != "ProjectConfigurations" || len(x.ItemGroups[0].ProjectConfigurations) != 0 {
		t.Errorf("ProjectConfigurations group = %+v", x.ItemGroups)
	}
	if len(x.PropertyGroups) != 2 {
		t.Fatalf("expected 2 property groups, got %d", len(x.PropertyGroups))
	}
	if x.PropertyGroups[0].PlatformToolset != "v141" {
		t.Errorf("PlatformToolset = %q", x.PropertyGroups[0].PlatformToolset)
	}
	if g := x.PropertyGroups[1]; g.RootNamespace != "foo" || g.Keyword != "Win32Proj" || g.ProjectGuid != "" {
		t.Errorf("Globals = %+v", g)
	}
	if len(x.Imports) != 3 {
		t.Errorf("expected 3 imports, got %d", len(x.Imports))
	}
	if n := len(x.targets("GetTargetPath")); n != 2 {
		t.Errorf("expected 2 GetTargetPath targets, got %d", n)
	}
	for _, name := range []string{"GetResolvedLinkLibs", "CopyBinaryFiles", "Build"} {
		if len(x.targets(name)) != 0 {
			t.Errorf("unexpected target %s", name)
		}
	}
}

func TestRender_Invariants(t *testing.T) {
	p := &project.Project{
		Name:    "foo",
		Toolset: "v142",
		Configurations: []project.Configuration{
			{Name: "Debug", Architecture: "x64", Binaries: []string{`Debug\a.dll`, `Debug\b.dll`}},
			{Name: "Release", Architecture: "x64", Binaries: []string{`Release\a.dll`}, Libraries: []string{`Release\a.lib`, `Release\b.lib`}},
			{Name: "Release", Architecture: "ARM64", Libraries: []string{`arm\a.lib`}},
			{Name: "Debug", Architecture: "x64"},
		},
	}
	x := decode(t, render(t, p, Options{}))

	var includes []string
	for _, pc := range x.ItemGroups[0].ProjectConfigurations {
		includes = append(includes, pc.Include)
	}
	wantIncludes := []string{"Debug|x64", "Release|x64", "Release|ARM64", "Debug|x64"}
	if strings.Join(includes, ",") != strings.Join(wantIncludes, ",") {
		t.Errorf("ProjectConfiguration includes = %v, want %v", includes, wantIncludes)
	}

	design := x.targets("GetTargetPath")[1].ItemGroup.NativeTargetPaths
	wantDesign := []string{
		`$(ProjectDir)Debug\a.dll`, `$(ProjectDir)Debug\b.dll`,
		`$(ProjectDir)Release\a.dll`, `$(ProjectDir)Release\a.lib`, `$(ProjectDir)Release\b.lib`,
		`$(ProjectDir)arm\a.lib`,
	}
	if len(design) != len(wantDesign) {
		t.Fatalf("design-time items = %+v", design)
	}
	for i, item := range design {
		if item.Include != wantDesign[i] {
			t.Errorf("design-time item %d = %q, want %q", i, item.Include, wantDesign[i])
		}
		if !strings.HasSuffix(item.Condition, " and '$(DesignTimeBuild)'=='true'") {
			t.Errorf("design-time item %d condition = %q", i, item.Condition)
		}
	}

	libs := x.targets("GetResolvedLinkLibs")
	if len(libs) != 1 || libs[0].Returns != "@(Libs)" {
		t.Fatalf("GetResolvedLinkLibs = %+v", libs)
	}
	wantLibs := []xmlLibs{
		{
			Condition:           "'$(Configuration)|$(Platform)'=='Release|x64'",
			Include:             `$(ProjectDir)Release\a.lib;$(ProjectDir)Release\b.lib`,
			ProjectType:         "DynamicLibrary",
			FileType:            "lib",
			ResolveableAssembly: "false",
		},
		{
			Condition:           "'$(Configuration)|$(Platform)'=='Release|ARM64'",
			Include:             `$(ProjectDir)arm\a.lib`,
			ProjectType:         "StaticLibrary",
			FileType:            "lib",
			ResolveableAssembly: "false",
		},
	}
	got := libs[0].ItemGroup.Libs
	if len(got) != len(wantLibs) {
		t.Fatalf("Libs = %+v", got)
	}
	for i := range wantLibs {
		if got[i] != wantLibs[i] {
			t.Errorf("Libs[%d] = %+v, want %+v", i, got[i], wantLibs[i])
		}
	}

	copyTargets := x.targets("CopyBinaryFiles")
	if len(copyTargets) != 1 {
		t.Fatalf("expected one CopyBinaryFiles target, got %d", len(copyTargets))
	}
	copied := copyTargets[0].ItemGroup.NativeTargetPaths
	if len(copied) != 3 {
		t.Fatalf("copy items = %+v", copied)
	}
	if copied[2].Condition != "'$(Configuration)|$(Platform)'=='Release|x64'" || copied[2].Include != `$(ProjectDir)Release\a.dll` {
		t.Errorf("copy item 2 = %+v", copied[2])
	}
	if c := copyTargets[0].Copy; c == nil || c.SourceFiles != "@(NativeTargetPath)" || c.DestinationFolder != "$(OutDir)" {
		t.Errorf("Copy task = %+v", c)
	}
	if b := x.targets("Build"); len(b) != 1 || b[0].DependsOnTargets != "CopyBinaryFiles" {
		t.Errorf("Build target = %+v", b)
	}
}

func TestRender_LibrariesOnly(t *testing.T) {
	p := &project.Project{
		Name:    "foo",
		Toolset: "v141",
		Configurations: []project.Configuration{
			{Name: "Debug", Architecture: "x64", Libraries: []string{`Debug\foo.lib`}},
		},
	}
	x := decode(t, render(t, p, Options{}))

	libs := x.targets("GetResolvedLinkLibs")
	if len(libs) != 1 {
		t.Fatalf("expected GetResolvedLinkLibs")
	}
	if l := libs[0].ItemGroup.Libs; len(l) != 1 || l[0].ProjectType != "StaticLibrary" || l[0].Include != `$(ProjectDir)Debug\foo.lib` {
		t.Errorf("Libs = %+v", l)
	}
	if len(x.targets("CopyBinaryFiles")) != 0 || len(x.targets("Build")) != 0 {
		t.Error("CopyBinaryFiles/Build must be absent without DLLs")
	}
}

func TestRender_Deterministic(t *testing.T) {
	p := &project.Project{
		Name:    "foo",
		Toolset: "v141",
		Configurations: []project.Configuration{
			{Name: "Debug", Architecture: "x86", Binaries: []string{"a.dll"}, Libraries: []string{"a.lib"}},
		},
	}
	first := render(t, p, Options{ProjectGuid: true})
	second := render(t, p, Options{ProjectGuid: true})
	if !bytes.Equal(first, second) {
		t.Error("rendering the same project twice produced different output")
	}
}

func TestRender_ProjectGuid(t *testing.T) {
	x := decode(t, render(t, &project.Project{Name: "foo", Toolset: "v141"}, Options{ProjectGuid: true}))
	guid := x.PropertyGroups[1].ProjectGuid
	if !regexp.MustCompile(`^\{[0-9A-F]{8}-[0-9A-F]{4}-5[0-9A-F]{3}-[89AB][0-9A-F]{3}-[0-9A-F]{12}\}$`).MatchString(guid) {
		t.Errorf("ProjectGuid = %q", guid)
	}
	if guid != ProjectGuid("foo") {
		t.Errorf("ProjectGuid = %q, want %q", guid, ProjectGuid("foo"))
	}
	if ProjectGuid("foo") == ProjectGuid("bar") {
		t.Error("different names must yield different GUIDs")
	}
}

func TestRender_EscapesSpecialCharacters(t *testing.T) {
	p := &project.Project{
		Name:    "a&b",
		Toolset: "v141",
		Configurations: []project.Configuration{
			{Name: "Debug", Architecture: "x64", Binaries: []string{`R&D\"x".dll`}},
		},
	}
	x := decode(t, render(t, p, Options{}))
	if x.PropertyGroups[1].RootNamespace != "a&b" {
		t.Errorf("RootNamespace = %q", x.PropertyGroups[1].RootNamespace)
	}
	if got := x.targets("CopyBinaryFiles")[0].ItemGroup.NativeTargetPaths[0].Include; got != `$(ProjectDir)R&D\"x".dll` {
		t.Errorf("Include = %q", got)
	}
}

func TestRender_ConditionQuotesStayLiteral(t *testing.T) {
	p := &project.Project{
		Name:    "foo",
		Toolset: "v141",
		Configurations: []project.Configuration{
			{Name: "Debug", Architecture: "x64", Binaries: []string{`it's.dll`}},
		},
	}
	doc := string(render(t, p, Options{}))
	if strings.Contains(doc, "&apos;") || strings.Contains(doc, "&#39;") {
		t.Error("single quotes must not be escaped")
	}
	for _, want := range []string{
		`Condition="'$(Configuration)|$(Platform)'=='Debug|x64'"`,
		`Include="$(ProjectDir)it's.dll"`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("output missing %s", want)
		}
	}
}

func TestWrite_PropagatesWriteError(t *testing.T) {
	err := Write(&failingWriter{}, &project.Project{Name: "foo", Toolset: "v141"}, Options{})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Write() error = %v", err)
	}
	if errors.Unwrap(err) != nil {
		t.Errorf("expected the writer's own error, got wrapped %v", err)
	}
}
