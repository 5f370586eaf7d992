// Package discovery finds the set of pages to audit on a target website.
//
// Discovery runs three strategies in order until the page budget is met:
//
//  1. Sitemap: fetch /sitemap.xml and take its URL entries.
//  2. Homepage links: parse the homepage and follow same-host anchors.
//  3. Common paths: probe well-known paths (/about, /contact, ...) with
//     HEAD requests and keep the ones that exist.
//
// The homepage itself is always first in the returned list. URLs are
// normalized before deduplication so fragment-only and trailing-slash
// variants of the same page are audited once.
package discovery
