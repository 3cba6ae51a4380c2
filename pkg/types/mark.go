// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the wire structures and configuration shared by the
// marker server, its client and the CLI.
package types

// HeaderAPIKey carries the shared secret on every /mark request.
const HeaderAPIKey = "x-api-key"

// MarkRequest is the JSON body of POST /mark.
type MarkRequest struct {
	// Base64 is the standard-alphabet base64 encoding of the document bytes.
	Base64 string `json:"base64"`
}

// MarkResponse is the JSON body of a successful POST /mark.
type MarkResponse struct {
	// ID is the identifier generated for this conversion. It is not stored
	// anywhere and cannot be looked up later.
	ID string `json:"id"`

	// Markdown is the extracted document text.
	Markdown string `json:"markdown"`

	// Title is the document title when the converter found one; it encodes
	// as null otherwise.
	Title *string `json:"title"`
}

// ErrorResponse is the JSON body of every non-200 response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
