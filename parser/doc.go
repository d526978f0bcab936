// Package parser loads OpenAPI documents into yaml.Node trees with source
// locations.
//
// A [Loader] turns a locator (file path or http(s) URL) into a [Document]:
// the parsed node tree plus an index from node identity to [Location], the
// pair of canonical locator and JSON pointer used everywhere for reporting
// and cycle detection. Loading is split between a [Fetcher], which returns
// raw bytes, and YAML/JSON parsing. Fetchers are pluggable:
//
//	loader, err := parser.NewLoader(
//		parser.WithFetcher(parser.MapFetcher{
//			"/specs/api.yaml": "openapi: 3.1.0\ninfo: {title: t, version: v}\npaths: {}\n",
//		}),
//	)
//	doc, err := loader.Load(ctx, "/specs/api.yaml")
//
// The default fetcher reads local files and fetches http(s) URLs without
// authentication, with a size limit ([MaxFileSize]) and a timeout
// ([DefaultHTTPTimeout]).
//
// A [Cache] may be shared by loaders of entry documents processed
// concurrently. It is first-writer-wins and never evicts.
//
// [Marshal] serializes node trees back to JSON or YAML, preserving key order.
package parser
