// Package weburl checks recipe page URLs before they are fetched and
// derives graph entity IDs from them.
package weburl

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// EntityPrefix starts every recipe entity ID derived from a page URL.
const EntityPrefix = "recipe.web."

// maxSlug bounds the slug part of an entity ID.
const maxSlug = 80

var (
	cgnat    = mustCIDR("100.64.0.0/10")
	v6unique = mustCIDR("fc00::/7")
	v6link   = mustCIDR("fe80::/10")
)

// entityIDPattern keeps IDs safe to embed in NATS subjects.
var entityIDPattern = regexp.MustCompile(`^recipe\.web\.[a-z0-9-]+$`)

func mustCIDR(s string) *net.IPNet {
	_, n, err := net.ParseCIDR(s)
	if err != nil {
		panic("invalid CIDR " + s + ": " + err.Error())
	}
	return n
}

// ValidateURL rejects URLs the fetcher must not request: anything other
// than HTTPS, localhost, .local and .internal names, and literal private
// addresses.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "https" {
		return fmt.Errorf("only HTTPS URLs are allowed")
	}

	host := strings.ToLower(parsed.Hostname())
	switch {
	case host == "":
		return fmt.Errorf("URL has no host")
	case host == "localhost" || host == "127.0.0.1" || host == "::1":
		return fmt.Errorf("localhost URLs are not allowed")
	case strings.HasSuffix(host, ".local") || strings.HasSuffix(host, ".internal"):
		return fmt.Errorf("local domain URLs are not allowed")
	}

	if ip := net.ParseIP(host); ip != nil && IsPrivateIP(ip) {
		return fmt.Errorf("private IP addresses are not allowed")
	}
	return nil
}

// IsPrivateIP reports whether ip is loopback, private, link-local, CGNAT
// or IPv6 unique local, including IPv4-mapped IPv6 forms.
func IsPrivateIP(ip net.IP) bool {
	if v4 := ip.To4(); v4 != nil {
		ip = v4
	}
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}
	return cgnat.Contains(ip) || v6unique.Contains(ip) || v6link.Contains(ip)
}

// Canonical returns rawURL with a lowercase scheme and host and without
// its fragment, so the same page imported twice maps to one entity.
func Canonical(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}
	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""
	parsed.RawFragment = ""
	return parsed.String()
}

// RecipeEntityID names the index-th recipe found on a page. The first
// recipe gets "recipe.web.<slug>", later ones a "-<n>" suffix.
func RecipeEntityID(pageURL string, index int) string {
	slug := slugFor(pageURL)
	if index > 0 {
		suffix := "-" + strconv.Itoa(index+1)
		if len(slug)+len(suffix) > maxSlug {
			slug = strings.TrimRight(slug[:maxSlug-len(suffix)], "-")
		}
		slug += suffix
	}
	return EntityPrefix + slug
}

func slugFor(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		hash := sha256.Sum256([]byte(rawURL))
		return hex.EncodeToString(hash[:8])
	}

	slug := strings.ReplaceAll(parsed.Hostname(), ".", "-")
	if path := strings.Trim(parsed.Path, "/"); path != "" {
		slug += "-" + strings.ReplaceAll(path, "/", "-")
	}

	slug = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '-'
	}, strings.ToLower(slug))
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")

	if len(slug) > maxSlug {
		slug = strings.TrimRight(slug[:maxSlug], "-")
	}
	return slug
}

// ValidateEntityID reports whether id is a well-formed recipe entity ID.
func ValidateEntityID(id string) bool {
	return entityIDPattern.MatchString(id)
}

// ExtractDomain returns the host of rawURL, or "" if it does not parse.
func ExtractDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

// FileURL names a local file the way recipes record their source: a file
// URL of its absolute path.
func FileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}
