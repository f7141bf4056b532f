package workspace

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Csproj is what aspnetlint needs from an MSBuild project file.
type Csproj struct {
	Path string
	// SDKs from the Project Sdk attribute and Sdk elements, without versions.
	SDKs                []string
	FrameworkReferences []string
	PackageReferences   []string
	// ProjectReferences are absolute paths of referenced project files.
	ProjectReferences []string
}

// References returns every name the symbol catalog may resolve.
func (c *Csproj) References() []string {
	out := make([]string, 0, len(c.SDKs)+len(c.FrameworkReferences)+len(c.PackageReferences))
	out = append(out, c.SDKs...)
	out = append(out, c.FrameworkReferences...)
	out = append(out, c.PackageReferences...)
	return out
}

type msbuildItem struct {
	Include string `xml:"Include,attr"`
	Update  string `xml:"Update,attr"`
}

type msbuildProject struct {
	Sdk      string `xml:"Sdk,attr"`
	SdkElems []struct {
		Name string `xml:"Name,attr"`
	} `xml:"Sdk"`
	Imports []struct {
		Sdk string `xml:"Sdk,attr"`
	} `xml:"Import"`
	ItemGroups []struct {
		FrameworkReferences []msbuildItem `xml:"FrameworkReference"`
		PackageReferences   []msbuildItem `xml:"PackageReference"`
		ProjectReferences   []msbuildItem `xml:"ProjectReference"`
	} `xml:"ItemGroup"`
}

// CsprojScanner reads .csproj files
type CsprojScanner struct{}

// NewCsprojScanner creates a new csproj scanner
func NewCsprojScanner() *CsprojScanner {
	return &CsprojScanner{}
}

// Detect reports whether path is a C# project file
func (s *CsprojScanner) Detect(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csproj")
}

// Scan parses the project file at path
func (s *CsprojScanner) Scan(path string) (*Csproj, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return s.Parse(path, content)
}

// Parse reads project file content; path anchors relative project references
func (s *CsprojScanner) Parse(path string, content []byte) (*Csproj, error) {
	var p msbuildProject
	if err := xml.Unmarshal(content, &p); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	c := &Csproj{Path: path}
	addSDK := func(sdk string) {
		for _, part := range strings.Split(sdk, ";") {
			name, _, _ := strings.Cut(strings.TrimSpace(part), "/")
			if name != "" {
				c.SDKs = appendUniqueString(c.SDKs, name)
			}
		}
	}
	addSDK(p.Sdk)
	for _, e := range p.SdkElems {
		addSDK(e.Name)
	}
	for _, imp := range p.Imports {
		addSDK(imp.Sdk)
	}

	dir := filepath.Dir(path)
	for _, g := range p.ItemGroups {
		for _, r := range g.FrameworkReferences {
			if r.Include != "" {
				c.FrameworkReferences = appendUniqueString(c.FrameworkReferences, r.Include)
			}
		}
		for _, r := range g.PackageReferences {
			if r.Include != "" {
				c.PackageReferences = appendUniqueString(c.PackageReferences, r.Include)
			}
		}
		for _, r := range g.ProjectReferences {
			if r.Include == "" {
				continue
			}
			ref := filepath.FromSlash(strings.ReplaceAll(r.Include, `\`, "/"))
			if !filepath.IsAbs(ref) {
				ref = filepath.Join(dir, ref)
			}
			c.ProjectReferences = appendUniqueString(c.ProjectReferences, filepath.Clean(ref))
		}
	}
	return c, nil
}

func appendUniqueString(list []string, s string) []string {
	for _, x := range list {
		if x == s {
			return list
		}
	}
	return append(list, s)
}
