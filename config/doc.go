// Package config reads the CLI configuration file.
//
// The file is YAML, named ".openapi.yaml" (".redocly.yaml" is accepted as
// well) and looked up from the working directory upwards:
//
//	apis:
//	  main: ./openapi.yaml
//	  admin@v2:
//	    root: ./admin/openapi.yaml
//	rules:
//	  operation-summary: error
//	  tag-description: off
//	  no-path-trailing-slash:
//	    severity: warn
//
// Rule settings keep their file order, which is the order the linter runs
// configured rules in.
package config
