// Package harness provides conformance testing for compiled queries.
//
// A scenario is a query definition (see package querydef) that also states
// what compiling it must produce.
//
// # Scenario Format
//
//	name: adults_named_sam
//	description: "Filter, sort and project"
//	entity: Contact
//	collection: default
//	where:
//	  - gt: [{member: Age}, 10]
//	order_by:
//	  - key: {member: Age}
//	expect: "SELECT e FROM default as e WHERE (e.age > 10) ORDER BY e.age ASC"
//
// A scenario that must be rejected names the error code instead:
//
//	expect_error: INVALID_QUERY_MODEL
//
// # Deterministic Execution
//
// Each scenario runs against a fresh in-memory statement log. The compiled
// statement is recorded through exec.Recorder with the scenario name as its
// client context ID and a deterministic clock, so receipts are identical
// across runs and can be compared against golden files.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/adults.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := harness.Run(scenario, harness.WithResolver(mapper))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
