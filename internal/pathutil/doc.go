// Copyright 2024 Erraggy
// SPDX-License-Identifier: MIT

// Package pathutil provides JSON Pointer, $ref, and file path helpers shared
// by the resolver, the bundler, and the rules.
//
// # JSON Pointers
//
// Tokens are escaped per RFC 6901 ("~" becomes "~0", "/" becomes "~1"):
//
//	ptr := pathutil.JoinPointer("paths", "/pets/{id}", "get")  // "/paths/~1pets~1{id}/get"
//	toks, err := pathutil.SplitPointer(ptr)                    // ["paths", "/pets/{id}", "get"]
//
// # Reference Builders
//
// Version-aware helpers build local references to component slots:
//
//	ref := pathutil.ComponentRef("schemas", "Pet", false)     // "#/components/schemas/Pet"
//	ref := pathutil.ComponentRef("definitions", "Pet", true)  // "#/definitions/Pet"
//
// # File Paths
//
// [SanitizeOutputPath] validates output file paths and rejects symlinks.
// [Within] reports whether a path stays inside a base directory.
package pathutil
