package rules_test

import (
	"context"
	"fmt"
	"log"

	"github.com/jirutka/openapi-cli/linter"
	"github.com/jirutka/openapi-cli/parser"
	"github.com/jirutka/openapi-cli/rules"
)

func Example() {
	files := parser.MapFetcher{"/api/openapi.yaml": `openapi: 3.0.3
info:
  title: Users
  version: "1"
paths:
  /users/?active=true:
    get:
      summary: List active users
      responses:
        "200":
          description: OK
`}
	l, err := linter.New(rules.Registry(), nil,
		linter.WithLoaderOptions(parser.WithFetcher(files)))
	if err != nil {
		log.Fatal(err)
	}
	res, err := l.Lint(context.Background(), "/api/openapi.yaml")
	if err != nil {
		log.Fatal(err)
	}
	for _, f := range res.Findings {
		fmt.Printf("%s %s line %d: %s\n", f.Severity, f.Rule, f.Line, f.Path)
	}
	fmt.Println("valid:", res.Valid)
	// Output:
	// error path-not-include-query line 6: /paths/~1users~1?active=true
	// valid: false
}
