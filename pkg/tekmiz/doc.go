// Package tekmiz provides the core service for the Tekmiz content-sharing
// backend: playlists (curated collections) that own ordered resources
// (videos, PDFs, documents, links), backed by a pluggable document
// repository and a pluggable blob store for uploaded files.
//
// The package is designed as a library. Construct a Service with functional
// options and mount the HTTP handlers from pkg/tekmiz/api on any chi router:
//
//	svc, err := tekmiz.New(
//	    tekmiz.WithRepository(memory.New()),
//	    tekmiz.WithBlobStore(memorystorage.New()),
//	)
package tekmiz
