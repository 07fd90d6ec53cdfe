// Package errors provides coded, explainable errors for the landing CLI
// and server.
//
// Codes are grouped by range:
//
//	E1xx  configuration and content files
//	E2xx  HTTP server
//	E3xx  static export and S3 publishing
//	E4xx  live protocol
//
// Create an error from the registry and attach the cause:
//
//	return errors.New("E101").Wrap(err).WithDetailf("reading %s", path)
//
// Errors compare by code with the standard errors.Is, and Print renders
// them with their detail and hint for the terminal.
package errors
