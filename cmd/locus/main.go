package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/halwen/locus/hostsim"
	"github.com/halwen/locus/locator"
)

// Demo service types fixtures can register.

// AudioBus is a named audio mixing bus.
type AudioBus struct{ Bus string }

// SaveStore persists game state under a directory.
type SaveStore struct{ Dir string }

// Telemetry ships events to an endpoint.
type Telemetry struct{ Endpoint string }

// Clock drives the simulation at a named rate.
type Clock struct{ Rate string }

type serviceKind struct {
	typ   locator.Type
	build func(value string) any
}

var serviceKinds = map[string]serviceKind{
	"audio":     {locator.TypeFor[*AudioBus](), func(v string) any { return &AudioBus{Bus: v} }},
	"save":      {locator.TypeFor[*SaveStore](), func(v string) any { return &SaveStore{Dir: v} }},
	"telemetry": {locator.TypeFor[*Telemetry](), func(v string) any { return &Telemetry{Endpoint: v} }},
	"clock":     {locator.TypeFor[*Clock](), func(v string) any { return &Clock{Rate: v} }},
}

func buildService(kind, value string) (locator.Type, any, error) {
	k, ok := serviceKinds[kind]
	if !ok {
		return nil, nil, fmt.Errorf("unknown service kind %q", kind)
	}
	return k.typ, k.build(value), nil
}

var (
	fixturePath string
	verbose     bool
)

func main() {
	root := &cobra.Command{
		Use:           "locus",
		Short:         "Inspect scoped service resolution over a fixture world",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().StringVarP(&fixturePath, "fixture", "f", "", "path to the YAML scene fixture (required)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log scope-assignment reports")
	_ = root.MarkPersistentFlagRequired("fixture")

	root.AddCommand(treeCmd(), resolveCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "locus:", err)
		os.Exit(1)
	}
}

func buildWorld() (*hostsim.World, *locator.Index, error) {
	fixture, err := hostsim.LoadFile(fixturePath)
	if err != nil {
		return nil, nil, err
	}
	return fixture.Build(buildService)
}

func treeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Render the fixture forest with registries and registrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := buildWorld()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, group := range w.Groups() {
				fmt.Fprintf(out, "group %s\n", group)
				for _, m := range w.Roots(group) {
					printMember(out, m, 1)
				}
			}
			for _, m := range w.Residents() {
				fmt.Fprintln(out, "resident")
				printMember(out, m, 1)
			}
			return nil
		},
	}
}

func printMember(out io.Writer, m *hostsim.SceneNode, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(out, "%s%s%s\n", indent, m.Name(), describeRegistry(m))
	for _, c := range m.Children() {
		printMember(out, c, depth+1)
	}
}

func describeRegistry(m *hostsim.SceneNode) string {
	node := m.Registry()
	if node == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "  [registry %s %s]", node.Scope(), shortID(node))
	for _, typ := range node.Table().Types() {
		fmt.Fprintf(&b, " %s", typ)
	}
	return b.String()
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <member-path> <kind>",
		Short: "Trace the fallback chain for a service lookup",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, idx, err := buildWorld()
			if err != nil {
				return err
			}
			member := w.Find(args[0])
			if member == nil {
				return fmt.Errorf("no member at path %q", args[0])
			}
			kind, ok := serviceKinds[args[1]]
			if !ok {
				return fmt.Errorf("unknown service kind %q", args[1])
			}

			out := cmd.OutOrStdout()
			globalBefore := idx.GlobalNode()
			node := idx.For(member)
			fmt.Fprintf(out, "start: %s\n", describeNode(w, node))

			for hop := node; hop != nil; hop = idx.NextBroader(hop) {
				if hop != node {
					fmt.Fprintf(out, "  -> %s\n", describeNode(w, hop))
				}
				if v, ok := hop.Table().TryGet(kind.typ); ok {
					fmt.Fprintf(out, "found %s = %+v\n", kind.typ, v)
					return nil
				}
				fmt.Fprintf(out, "     miss: %s\n", kind.typ)
			}
			if globalBefore == nil && idx.GlobalNode() != nil {
				fmt.Fprintf(out, "note: global registry was created on demand (%s)\n", shortID(idx.GlobalNode()))
			}
			fmt.Fprintln(out, notFoundMessage(kind.typ))
			return nil
		},
	}
}

// notFoundMessage renders the terminal outcome of an exhausted chain the same
// way library callers would see it.
func notFoundMessage(typ locator.Type) string {
	return locator.NotRegisteredError{Type: typ}.Error()
}

func describeNode(w *hostsim.World, n *locator.Node) string {
	anchor := "(no container)"
	if sn, ok := n.Anchor().(*hostsim.SceneNode); ok && sn != nil {
		anchor = sn.Path()
	}
	return fmt.Sprintf("%s registry %s at %s", n.Scope(), shortID(n), anchor)
}

func shortID(n *locator.Node) string {
	return n.ID().String()[:8]
}
