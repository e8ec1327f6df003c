// Package io reads and writes record documents.
//
// # Overview
//
// A record document is what the persistence layer hands the engine: the
// nested goals plus an optional set of unsaved overrides. It is accepted
// as JSON or TOML:
//
//	{
//	  "goals": [
//	    {
//	      "id": "g1",
//	      "title": "Grow activation",
//	      "opportunities": [
//	        {"id": "o1", "stage": "explore", "solutions": [{"id": "s1"}]}
//	      ]
//	    }
//	  ],
//	  "overrides": {
//	    "solution:s1": {"title": "Guided setup"}
//	  }
//	}
//
// The same document in TOML uses arrays of tables:
//
//	[[goals]]
//	id = "g1"
//
//	[[goals.opportunities]]
//	id = "o1"
//	stage = "explore"
//
//	[overrides."solution:s1"]
//	title = "Guided setup"
//
// The format is picked from the file extension by [ReadFile] and [WriteFile]
// (".json" or ".toml") and passed explicitly to [Read] and [Write].
//
// # Validation
//
// Decoding is strict about syntax and lenient about content. Malformed
// JSON or TOML is an error; unknown fields are ignored; nil entries and
// odd override keys are left for the tree builder to skip and report.
package io
