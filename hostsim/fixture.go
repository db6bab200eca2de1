package hostsim

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/halwen/locus/locator"
)

// Fixture is the root structure of a scene fixture file.
type Fixture struct {
	Groups []GroupDef `yaml:"groups"` // Loaded groups in order
	Global *GlobalDef `yaml:"global"` // Optional process-wide registry container
}

// GroupDef defines one loaded group and its top-level members.
type GroupDef struct {
	ID      string      `yaml:"id"`      // Group identifier, e.g. "level1"
	Members []MemberDef `yaml:"members"` // Top-level members in order
}

// MemberDef defines one scene node. Members nest via Children.
type MemberDef struct {
	Name     string       `yaml:"name"`     // Name, unique among siblings
	Registry string       `yaml:"registry"` // "", "unscoped", "group", or "dormant-group"
	Services []ServiceDef `yaml:"services"` // Registrations on an active registry
	Children []MemberDef  `yaml:"children"` // Child nodes
}

// GlobalDef defines the container hosting the process-wide registry.
type GlobalDef struct {
	Name     string       `yaml:"name"`     // Container name (default "autoload")
	Registry string       `yaml:"registry"` // "active" or "dormant"
	Services []ServiceDef `yaml:"services"` // Registrations when active
}

// ServiceDef defines one service registration. The fixture stays
// type-agnostic: a ServiceFactory supplied by the caller turns kind/value
// into a registration key and instance.
type ServiceDef struct {
	Kind  string `yaml:"kind"`  // Factory selector, e.g. "audio"
	Value string `yaml:"value"` // Factory payload
}

// ServiceFactory constructs a registration from a fixture service entry.
type ServiceFactory func(kind, value string) (locator.Type, any, error)

// Registry placement markers accepted in fixtures.
const (
	placementNone         = ""
	placementUnscoped     = "unscoped"
	placementGroup        = "group"
	placementDormantGroup = "dormant-group"
	placementActive       = "active"
	placementDormant      = "dormant"
)

// Load parses a fixture from r.
func Load(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

// LoadFile parses a fixture from a file path.
func LoadFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Build compiles the fixture into a ready world: a World bound to a fresh
// Index, with groups spawned, registries attached or left dormant, and
// services registered through factory.
func (f *Fixture) Build(factory ServiceFactory, opts ...locator.Option) (*World, *locator.Index, error) {
	w := NewWorld()
	idx := locator.NewIndex(w, opts...)
	w.Bind(idx)

	for _, g := range f.Groups {
		if g.ID == "" {
			return nil, nil, fmt.Errorf("build fixture: group with empty id")
		}
		for _, m := range g.Members {
			root := w.SpawnRoot(locator.GroupID(g.ID), m.Name)
			if err := buildMember(root, m, factory); err != nil {
				return nil, nil, err
			}
		}
	}

	if f.Global != nil {
		if err := buildGlobal(w, *f.Global, factory); err != nil {
			return nil, nil, err
		}
	}
	return w, idx, nil
}

func buildMember(sn *SceneNode, def MemberDef, factory ServiceFactory) error {
	switch def.Registry {
	case placementNone:
		if len(def.Services) > 0 {
			return fmt.Errorf("build fixture: member %q has services but no registry", sn.Path())
		}
	case placementUnscoped, placementGroup:
		node, err := sn.AttachRegistry()
		if err != nil {
			return fmt.Errorf("build fixture: member %q: %w", sn.Path(), err)
		}
		if def.Registry == placementGroup {
			group, _ := sn.world.GroupOf(sn)
			if err := node.AssignGroupScope(group); err != nil {
				return fmt.Errorf("build fixture: member %q: %w", sn.Path(), err)
			}
		}
		if err := registerAll(node, def.Services, factory); err != nil {
			return fmt.Errorf("build fixture: member %q: %w", sn.Path(), err)
		}
	case placementDormantGroup:
		if len(def.Services) > 0 {
			return fmt.Errorf("build fixture: member %q: dormant registries cannot hold services", sn.Path())
		}
		if _, err := sn.HostDormantGroupRegistry(); err != nil {
			return fmt.Errorf("build fixture: member %q: %w", sn.Path(), err)
		}
	default:
		return fmt.Errorf("build fixture: member %q: unknown registry placement %q", sn.Path(), def.Registry)
	}

	for _, c := range def.Children {
		child := sn.SpawnChild(c.Name)
		if err := buildMember(child, c, factory); err != nil {
			return err
		}
	}
	return nil
}

func buildGlobal(w *World, def GlobalDef, factory ServiceFactory) error {
	name := def.Name
	if name == "" {
		name = "autoload"
	}
	host := w.SpawnRoot("", name)
	switch def.Registry {
	case placementActive:
		node, err := host.AttachRegistry()
		if err != nil {
			return fmt.Errorf("build fixture: global: %w", err)
		}
		if err := node.AssignGlobalScope(true); err != nil {
			return fmt.Errorf("build fixture: global: %w", err)
		}
		if err := registerAll(node, def.Services, factory); err != nil {
			return fmt.Errorf("build fixture: global: %w", err)
		}
	case placementDormant:
		if len(def.Services) > 0 {
			return fmt.Errorf("build fixture: global: dormant registries cannot hold services")
		}
		if _, err := w.HostDormantGlobalRegistry(host); err != nil {
			return fmt.Errorf("build fixture: global: %w", err)
		}
	default:
		return fmt.Errorf("build fixture: global: unknown registry placement %q", def.Registry)
	}
	return nil
}

func registerAll(node *locator.Node, defs []ServiceDef, factory ServiceFactory) error {
	for _, s := range defs {
		if factory == nil {
			return fmt.Errorf("service %q: no factory supplied", s.Kind)
		}
		typ, instance, err := factory(s.Kind, s.Value)
		if err != nil {
			return fmt.Errorf("service %q: %w", s.Kind, err)
		}
		node.Register(typ, instance)
	}
	return nil
}
