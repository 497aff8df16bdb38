package registry

import (
	"encoding/xml"
	"io"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/kodiakgen/errors"
)

// DefaultAPI is the API name features and extensions are filtered by.
const DefaultAPI = "vulkan"

// DecodeOptions controls which parts of the registry document are kept.
type DecodeOptions struct {
	// API is matched against feature api= and extension supported= lists.
	// Empty means DefaultAPI.
	API string

	// VersionConstraint, when set, drops versions whose number does not
	// satisfy it. Versions without a parsable number are kept.
	VersionConstraint *semver.Constraints
}

// ParseVersionConstraint parses a semver constraint such as "<= 1.3".
// An empty string yields a nil constraint.
func ParseVersionConstraint(s string) (*semver.Constraints, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	c, err := semver.NewConstraint(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "invalid version constraint %q: %v", s, err)
	}
	return c, nil
}

type xmlRegistry struct {
	Types      []xmlType      `xml:"types>type"`
	Commands   []xmlCommand   `xml:"commands>command"`
	Features   []xmlFeature   `xml:"feature"`
	Extensions []xmlExtension `xml:"extensions>extension"`
}

type xmlType struct {
	NameAttr string `xml:"name,attr"`
	Name     string `xml:"name"`
	Parent   string `xml:"parent,attr"`
	Alias    string `xml:"alias,attr"`
	API      string `xml:"api,attr"`
}

type xmlCommand struct {
	NameAttr string `xml:"name,attr"`
	Alias    string `xml:"alias,attr"`
	API      string `xml:"api,attr"`
	Proto    struct {
		Name string `xml:"name"`
	} `xml:"proto"`
	Params []struct {
		Type string `xml:"type"`
		API  string `xml:"api,attr"`
	} `xml:"param"`
}

type xmlFeature struct {
	API      string       `xml:"api,attr"`
	Name     string       `xml:"name,attr"`
	Number   string       `xml:"number,attr"`
	Requires []xmlRequire `xml:"require"`
}

type xmlExtension struct {
	Name      string       `xml:"name,attr"`
	Type      string       `xml:"type,attr"`
	Supported string       `xml:"supported,attr"`
	Requires  []xmlRequire `xml:"require"`
}

type xmlRequire struct {
	API       string `xml:"api,attr"`
	Feature   string `xml:"feature,attr"`
	Extension string `xml:"extension,attr"`
	Depends   string `xml:"depends,attr"`
	Commands  []struct {
		Name string `xml:"name,attr"`
	} `xml:"command"`
}

var versionNamePattern = regexp.MustCompile(`_VERSION_(\d+)_(\d+)$`)

// Decode reads a registry document (vk.xml layout) and builds the entity
// model. Missing optional attributes decode as empty values.
func Decode(r io.Reader, opts DecodeOptions) (*Registry, error) {
	api := opts.API
	if api == "" {
		api = DefaultAPI
	}

	var doc xmlRegistry
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse registry XML")
	}

	reg := &Registry{}

	for _, t := range doc.Types {
		if !apiMatches(t.API, api, true) {
			continue
		}
		switch {
		case t.Name != "":
			reg.Types = append(reg.Types, TypeNode{Name: strings.TrimSpace(t.Name), Parent: t.Parent})
		case t.NameAttr != "" && t.Alias != "":
			// An alias descends through its target.
			reg.Types = append(reg.Types, TypeNode{Name: t.NameAttr, Parent: t.Alias})
		}
	}

	for _, c := range doc.Commands {
		if !apiMatches(c.API, api, true) {
			continue
		}
		if c.Alias != "" {
			reg.Commands = append(reg.Commands, Command{Name: c.NameAttr, Alias: c.Alias})
			continue
		}
		name := strings.TrimSpace(c.Proto.Name)
		if name == "" {
			continue
		}
		cmd := Command{Name: name}
		for _, p := range c.Params {
			if apiMatches(p.API, api, true) {
				cmd.ParamType = strings.TrimSpace(p.Type)
				break
			}
		}
		reg.Commands = append(reg.Commands, cmd)
	}

	for _, f := range doc.Features {
		if !apiMatches(f.API, api, false) {
			continue
		}
		number := f.Number
		if number == "" {
			if m := versionNamePattern.FindStringSubmatch(f.Name); m != nil {
				number = m[1] + "." + m[2]
			}
		}
		if opts.VersionConstraint != nil && number != "" {
			if v, err := semver.NewVersion(number); err == nil && !opts.VersionConstraint.Check(v) {
				continue
			}
		}

		version := Version{Name: f.Name, Number: number}
		seen := make(map[string]struct{})
		for _, req := range f.Requires {
			if !apiMatches(req.API, api, true) {
				continue
			}
			for _, c := range req.Commands {
				if _, dup := seen[c.Name]; dup || c.Name == "" {
					continue
				}
				seen[c.Name] = struct{}{}
				version.Commands = append(version.Commands, c.Name)
			}
		}
		reg.Versions = append(reg.Versions, version)
	}

	for _, e := range doc.Extensions {
		if !apiMatches(e.Supported, api, false) {
			continue
		}
		ext := Extension{Name: e.Name, Kind: ParseKind(e.Type)}
		for _, req := range e.Requires {
			if !apiMatches(req.API, api, true) {
				continue
			}
			requirement := Requirement{
				Features:   splitList(req.Feature),
				Extensions: splitList(req.Extension),
				Depends:    req.Depends,
			}
			for _, c := range req.Commands {
				if c.Name != "" {
					requirement.Commands = append(requirement.Commands, c.Name)
				}
			}
			ext.Requirements = append(ext.Requirements, requirement)
		}
		reg.Extensions = append(reg.Extensions, ext)
	}

	return reg, nil
}

// apiMatches reports whether a comma-separated api list names api.
// An empty list matches only when emptyMatches is set.
func apiMatches(list, api string, emptyMatches bool) bool {
	if list == "" {
		return emptyMatches
	}
	for _, item := range strings.Split(list, ",") {
		if strings.TrimSpace(item) == api {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
