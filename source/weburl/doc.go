// Package weburl holds the URL rules shared by the fetcher and the recipe
// ingester.
//
// ValidateURL is the request-time guard: HTTPS only, no localhost, no
// .local or .internal names, no literal private addresses. The fetcher
// also checks every resolved address with IsPrivateIP at dial time, which
// closes the DNS rebinding gap.
//
// RecipeEntityID turns a page URL into a graph entity ID:
//
//	https://example.com/recipes/pancakes, 0 → recipe.web.example-com-recipes-pancakes
//	https://example.com/recipes/pancakes, 1 → recipe.web.example-com-recipes-pancakes-2
//
// IDs are lowercase, hyphen separated and at most 80 characters after the
// prefix, so they are safe inside NATS subjects. URLs that do not parse
// fall back to a hash.
package weburl
