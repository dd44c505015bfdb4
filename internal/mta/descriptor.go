package mta

import (
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File names recognised inside an MTA project directory.
const (
	DescriptorFile    = "mta.yaml"
	DevExtensionFile  = "dev.mtaext"
	ExtensionFileGlob = "*.mtaext"
)

// Descriptor is the subset of mta.yaml the tools care about.
// Field tags drive both yaml key names in messages and struct validation.
type Descriptor struct {
	SchemaVersion string     `yaml:"_schema-version" validate:"required"`
	ID            string     `yaml:"ID" validate:"required,mtaid"`
	Version       string     `yaml:"version" validate:"omitempty,semver"`
	Modules       []Module   `yaml:"modules" validate:"dive"`
	Resources     []Resource `yaml:"resources" validate:"dive"`
}

// Module is one entry of the modules section.
type Module struct {
	Name     string     `yaml:"name" validate:"required"`
	Type     string     `yaml:"type" validate:"required"`
	Path     string     `yaml:"path"`
	Provides []Provided `yaml:"provides" validate:"dive"`
	Requires []Required `yaml:"requires" validate:"dive"`
}

// Resource is one entry of the resources section.
type Resource struct {
	Name string `yaml:"name" validate:"required"`
	Type string `yaml:"type"`
}

// Provided is a named property set exposed by a module.
type Provided struct {
	Name string `yaml:"name" validate:"required"`
}

// Required references a provided set or a resource by name.
type Required struct {
	Name string `yaml:"name" validate:"required"`
}

// Extension is the subset of an *.mtaext file the tools care about.
type Extension struct {
	SchemaVersion string      `yaml:"_schema-version" validate:"required"`
	ID            string      `yaml:"ID" validate:"required,mtaid"`
	Extends       string      `yaml:"extends" validate:"required"`
	Modules       []Reference `yaml:"modules" validate:"dive"`
	Resources     []Reference `yaml:"resources" validate:"dive"`
}

// Reference is a module or resource entry in an extension descriptor.
type Reference struct {
	Name string `yaml:"name" validate:"required"`
}

// ModuleNames returns the module names in declaration order, skipping unnamed modules.
func (d *Descriptor) ModuleNames() []string {
	names := make([]string, 0, len(d.Modules))
	for _, m := range d.Modules {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names
}

// LoadDescriptor reads <dir>/mta.yaml. dir may also be the descriptor path itself.
// Unlike Validate, syntax problems are returned as an error.
func LoadDescriptor(dir string) (*Descriptor, error) {
	path := dir
	if filepath.Base(path) != DescriptorFile {
		path = filepath.Join(dir, DescriptorFile)
	}

	root, issues, err := parseFile(path)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("parsing %s: %s", path, issues[0].Message)
	}

	desc, _ := buildDescriptor(root)
	return desc, nil
}

// positions maps a validator namespace (yaml names, "modules[0].type") to
// the node the value came from.
type positions map[string]*yaml.Node

// lookup returns the closest recorded node for namespace, walking up to the
// parent when the field itself is missing.
func (p positions) lookup(namespace string) *yaml.Node {
	for ns := namespace; ns != ""; ns = parentNamespace(ns) {
		if n, ok := p[ns]; ok {
			return n
		}
	}
	return p[""]
}

func parentNamespace(ns string) string {
	for i := len(ns) - 1; i >= 0; i-- {
		switch ns[i] {
		case '.':
			return ns[:i]
		case '[':
			return ns[:i]
		}
	}
	return ""
}

func (p positions) record(ns string, node *yaml.Node) {
	if node != nil {
		p[ns] = node
	}
}

func (p positions) scalar(ns string, parent *yaml.Node, key string) string {
	child := findNode(parent, key)
	if child != nil {
		p.record(join(ns, key), child)
	}
	return scalarValue(parent, key)
}

func join(ns, key string) string {
	if ns == "" {
		return key
	}
	return ns + "." + key
}

func index(ns string, i int) string {
	return fmt.Sprintf("%s[%d]", ns, i)
}

func buildDescriptor(root *yaml.Node) (*Descriptor, positions) {
	pos := positions{"": root}
	desc := &Descriptor{
		SchemaVersion: pos.scalar("", root, "_schema-version"),
		ID:            pos.scalar("", root, "ID"),
		Version:       pos.scalar("", root, "version"),
	}

	for i, item := range sequence(root, "modules") {
		ns := index("modules", i)
		pos.record(ns, item)
		m := Module{
			Name: pos.scalar(ns, item, "name"),
			Type: pos.scalar(ns, item, "type"),
			Path: pos.scalar(ns, item, "path"),
		}
		for j, p := range sequence(item, "provides") {
			pns := index(join(ns, "provides"), j)
			pos.record(pns, p)
			m.Provides = append(m.Provides, Provided{Name: pos.scalar(pns, p, "name")})
		}
		for j, r := range sequence(item, "requires") {
			rns := index(join(ns, "requires"), j)
			pos.record(rns, r)
			m.Requires = append(m.Requires, Required{Name: pos.scalar(rns, r, "name")})
		}
		desc.Modules = append(desc.Modules, m)
	}

	for i, item := range sequence(root, "resources") {
		ns := index("resources", i)
		pos.record(ns, item)
		desc.Resources = append(desc.Resources, Resource{
			Name: pos.scalar(ns, item, "name"),
			Type: pos.scalar(ns, item, "type"),
		})
	}

	return desc, pos
}

func buildExtension(root *yaml.Node) (*Extension, positions) {
	pos := positions{"": root}
	ext := &Extension{
		SchemaVersion: pos.scalar("", root, "_schema-version"),
		ID:            pos.scalar("", root, "ID"),
		Extends:       pos.scalar("", root, "extends"),
	}
	for i, item := range sequence(root, "modules") {
		ns := index("modules", i)
		pos.record(ns, item)
		ext.Modules = append(ext.Modules, Reference{Name: pos.scalar(ns, item, "name")})
	}
	for i, item := range sequence(root, "resources") {
		ns := index("resources", i)
		pos.record(ns, item)
		ext.Resources = append(ext.Resources, Reference{Name: pos.scalar(ns, item, "name")})
	}
	return ext, pos
}
