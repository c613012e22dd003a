// Package jsonextract pulls embedded JSON payloads out of server-rendered
// HTML, the common case for picks boards that hydrate a client-side widget
// from a <script> tag rather than exposing a JSON API.
package jsonextract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bytedance/sonic"
)

// FromScriptTag finds the first <script> element matching selector and
// decodes its text content as JSON into v. Many picks sites embed their
// initial state as `<script id="__NEXT_DATA__" type="application/json">`
// or similar; selector should target that element.
func FromScriptTag(doc *goquery.Document, selector string, v any) error {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return fmt.Errorf("jsonextract: no element matched selector %q", selector)
	}
	raw := strings.TrimSpace(sel.Text())
	if raw == "" {
		return fmt.Errorf("jsonextract: element matched by %q had no text content", selector)
	}
	if err := sonic.UnmarshalString(raw, v); err != nil {
		return fmt.Errorf("jsonextract: decode script tag %q: %w", selector, err)
	}
	return nil
}

// BetweenMarkers extracts the JSON object/array found between a prefix and
// suffix literal inside an inline <script> block, for pages that assign a
// JS variable (e.g. `window.__PICKS__ = {...};`) instead of using a typed
// script tag.
func BetweenMarkers(body []byte, prefix, suffix string) ([]byte, error) {
	s := string(body)
	start := strings.Index(s, prefix)
	if start == -1 {
		return nil, fmt.Errorf("jsonextract: prefix %q not found", prefix)
	}
	start += len(prefix)
	end := strings.Index(s[start:], suffix)
	if end == -1 {
		return nil, fmt.Errorf("jsonextract: suffix %q not found after prefix", suffix)
	}
	return []byte(strings.TrimSpace(s[start : start+end])), nil
}
