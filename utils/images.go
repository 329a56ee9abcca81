package utils

import "strings"

// RewriteURL swaps a storage-bucket prefix for the public CDN prefix.
// URLs outside the bucket, or an unset prefix pair, pass through
// unchanged.
func RewriteURL(url, sourcePrefix, destPrefix string) string {
	if url == "" || sourcePrefix == "" || destPrefix == "" {
		return url
	}
	if !strings.HasPrefix(url, sourcePrefix) {
		return url
	}
	return destPrefix + strings.TrimPrefix(url, sourcePrefix)
}
