// Command locus inspects scoped service resolution over a fixture-defined
// host hierarchy.
//
// A fixture is a YAML scene description (groups, members, registry placement,
// service registrations) loaded by the hostsim package. The command builds
// the simulated world and answers two questions:
//
//   - locus tree -f scene.yaml
//     Render the forest: groups, members, attached registries with their
//     scopes, dormant bootstrappers, and registered service types.
//
//   - locus resolve -f scene.yaml <member-path> <kind>
//     Trace a lookup: start at the member's closest governing registry and
//     print every hop of the fallback chain, including dormant registries
//     activated on demand and the lazily created global node.
//
// Service kinds available in fixtures:
//
//	audio      -> *main.AudioBus
//	save       -> *main.SaveStore
//	telemetry  -> *main.Telemetry
//	clock      -> *main.Clock
//
// Example fixture:
//
//	groups:
//	  - id: level1
//	    members:
//	      - name: systems
//	        registry: group
//	        services:
//	          - kind: audio
//	            value: sfx
//	      - name: player
//	        children:
//	          - name: inventory
//	global:
//	  registry: active
//	  services:
//	    - kind: save
//	      value: /tmp/saves
//
// Then:
//
//	locus resolve -f scene.yaml player/inventory audio
package main
