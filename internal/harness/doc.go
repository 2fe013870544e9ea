// Package harness loads scenario files and runs them through an e2e.Runner.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: Log in
//	description: "log in as admin"
//	given:
//	  - name: logged out
//	    steps:
//	      - navTo: http://localhost/logout
//	steps:
//	  - navTo: http://localhost/login
//	  - fill: { selector: "#user", value: admin }
//	  - click: "#login"
//	  - see: { selector: "#welcome", label: the greeting, exist: true }
//	  - see: { selector: "#welcome", text: "Hello admin" }
//
// A step has exactly one of navTo, fill, click or see. A see step has
// exactly one check:
//
//   - exist: true   the element is present
//   - equals: s     the element's text is exactly s
//   - text: s       the element's text, trimmed, is s
//
// given entries become preconditions: only their names are recorded.
//
// # Validation
//
// Files are checked against an embedded CUE schema (scenario.cue) before
// they are decoded with unknown fields rejected.
//
// # Deterministic Testing
//
// Runs built with the fake driver and fixed run IDs from internal/testutil
// produce byte-identical recordings, which RunWithGolden compares against
// testdata/golden/<name>.golden.
package harness
