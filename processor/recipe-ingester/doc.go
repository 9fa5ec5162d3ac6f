// Package recipeingester provides a NATS consumer component that imports
// recipes from web pages into draft storage and the knowledge graph.
//
// # Overview
//
// The recipe-ingester consumes import requests, fetches each page, reads
// its schema.org Recipe markup and turns every recipe found into a draft
// and a set of graph entities. A result message reports the draft IDs, or
// that the page had no recipes.
//
// # Flow
//
//   - Request: JSON source.ImportRequest on "recipe.import.>"
//   - Dereference: HTTPS-only fetch, JSON-LD blocks read into a quad store
//   - Extract: recipe.Parse over the store in document order
//   - Store: one draft per recipe in the RECIPE_DRAFTS KV bucket
//   - Publish: ingredient and step entities, then the recipe, to
//     "graph.ingest.entity"
//   - Result: ImportResultPayload on "recipe.result.<request>"
//
// Requests that can never succeed (bad JSON, unsafe URL) are terminated.
// Fetch and publish failures are NAKed for redelivery.
//
// # Inbox
//
// With watch.enabled the component also watches a directory for saved
// pages (.html, .jsonld, .nq, .nt) and imports each new or changed file.
//
// # Metrics
//
// When a metrics registry is supplied the component exports
// semrecipe_ingester_imports_total{status}, recipes_extracted_total and
// extract_duration_seconds.
package recipeingester
