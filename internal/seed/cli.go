package seed

import "os"

// ShowHelp prints usage information for the loader.
func ShowHelp() {
	os.Stdout.WriteString(`Draft Rank Item Loader
======================

Loads a JSON array of items into the configured store. Integer ids are
zero-padded to three digits and value7..value10 are recomputed from
value1..value6 unless -recompute=false.

Usage:
  go run ./cmd/load-items [options]

Options:
  -input string
        JSON array of items (default "data/items.json")
  -backend string
        Store backend: memory, json, sqlite, dynamodb (default from config)
  -path string
        File path for the json or sqlite backend (default from config)
  -table string
        DynamoDB table (default from config)
  -recompute
        Recompute derived values (default true)
  -dry-run
        Validate the input without writing
  -verbose
        Log every written item
  -timeout duration
        Overall load timeout (default 5m0s)
  -help
        Show this help message

Store settings not given as flags come from DRAFTRANK_CONFIG and DRAFTRANK_*
environment variables, exactly as for the server.

Examples:
  # Seed the default JSON file
  go run ./cmd/load-items -input items.json

  # Seed a local DynamoDB
  DRAFTRANK_DYNAMO_ENDPOINT=http://localhost:8000 go run ./cmd/load-items -backend dynamodb -table items
`)
}
