// Package ws streams sandbox bridge traffic between the host page and the
// server. The host relays raw frame envelopes inbound; validated bridge
// events flow back outbound on the same connection.
package ws
