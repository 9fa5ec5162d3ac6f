// Package rdf is a small in-memory quad store for reading structured data
// harvested from a single web page.
//
// It is not a general RDF toolkit. A Collector receives the quads of one
// document and, when closed, hands back a read-only Store together with
// the DocumentOrder in which subjects and objects first appeared. Queries
// run through Subject views:
//
//	c := rdf.NewCollector()
//	for _, q := range quads {
//		if err := c.Add(q); err != nil {
//			return err
//		}
//	}
//	store, order := c.Close()
//	for _, r := range store.AllOfType(rdf.NamedNode("https://schema.org/Recipe")) {
//		steps := r.GetOrdered(rdf.NamedNode("https://schema.org/recipeInstructions"), order)
//		...
//	}
//
// Multi-valued properties come back in insertion order from Get, which is
// not necessarily the order of the markup; GetOrdered sorts them by
// document order instead.
package rdf
