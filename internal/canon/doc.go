// Package canon fingerprints recordings.
//
// Values are serialized as canonical JSON (RFC 8785 key order, NFC
// normalized strings, no HTML escaping, no floats) and hashed with SHA-256
// under a versioned domain prefix. Two runs that performed the same steps
// with the same outcome share a digest, whatever their run IDs.
package canon
