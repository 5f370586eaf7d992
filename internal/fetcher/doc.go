// Package fetcher retrieves web documents over HTTP for accessibility auditing.
//
// The fetcher identifies itself as a mainstream desktop browser. Many sites
// serve degraded or blocked markup to obvious bots, and auditing that markup
// would misrepresent what real users receive. Response bodies are capped to
// bound memory, and a per-host limiter spaces requests so scans stay polite.
package fetcher
