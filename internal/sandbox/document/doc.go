// Package document performs structural surgery on generated HTML before it
// is handed to a sandbox frame.
//
// Operations:
//   - CSP meta-tag injection (InjectCSP)
//   - credential bootstrap injection (InjectCredentials)
//   - narrow sanitization of top-context escape hatches (BasicSanitize)
//   - advisory validation for host-side auditing (Validate)
//   - live-document extraction with doctype reconstruction (Extract)
//
// Injection is regex-based on purpose: parsing and re-serializing the
// generated document would normalize markup the model emitted and break
// byte-level expectations in the host. Every mutator is total over
// non-empty input and never errors.
//
// Built on specialized libraries:
//   - goquery: CSS-selector scans during validation
//   - htmlquery: XPath scans for meta-refresh/base auditing
//   - bluemonday: text-only preview for audit logs
//   - chardet: charset advisories
//   - x/net/html: document extraction
package document
