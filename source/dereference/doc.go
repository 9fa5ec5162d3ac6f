// Package dereference turns a web page into the quad store that recipe
// extraction reads.
//
// HTML pages contribute every <script type="application/ld+json"> block.
// JSON-LD and N-Quads documents are read directly. JSON-LD is expanded
// with json-gold; the schema.org context is served from memory and other
// remote contexts are refused, so parsing never touches the network.
// Quads reach the store in the order the markup lists them, which is the
// order recipe extraction uses for ingredients and steps.
//
// Every http://schema.org/ IRI is rewritten to https://schema.org/ on the
// way in.
//
//	d := dereference.New(dereference.NewHTTPFetcher(30*time.Second, ua, 10<<20, 5))
//	doc, err := d.Dereference(ctx, "https://example.com/pancakes")
//	if err != nil {
//		return err
//	}
//	recipes := doc.Recipes()
package dereference
