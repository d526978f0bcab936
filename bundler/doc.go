// Package bundler produces a single self-contained document from an entry
// document and everything it references.
//
// Bundling is done in two passes. The first walks the logical tree and
// records every typed reference node together with its resolution. The
// second copies the entry document, rewriting each recorded reference:
//
//   - [ModeComponents] keeps references that are local to the entry
//     document and points external ones at a component slot
//     ("#/components/schemas/Pet", or "#/definitions/Pet" for Swagger 2.0),
//     copying the target there. Types without a component section are
//     inlined.
//   - [ModeInline] replaces every reference with a copy of its target.
//
// A target that is part of a cycle is never inlined; it stays reachable
// through an internal reference. Unresolvable references are replaced by a
// marker node carrying the original $ref and an "x-unresolved-ref" reason,
// and reported as "no-unresolved-refs" findings.
//
// # Slot Names
//
// A slot is named after the last token of the target's pointer, or after
// the file name when a whole document is referenced ("pet-status.yaml"
// becomes "PetStatus"). Names already used by the entry document or by
// another target get a numeric suffix: "Error-2", "Error-3" and so on. The
// same target always lands in the same slot.
//
// # Example
//
//	b, err := bundler.New(bundler.WithMode(bundler.ModeComponents))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := b.Bundle(ctx, "openapi.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data, err := parser.Marshal(result.Document, parser.SourceFormatYAML)
package bundler
