// Package httpapi exposes the auction operations over HTTP.
//
// The calling account is taken from the X-Account-ID header. Errors are returned as
// {"error": <kind>, "message": <text>} with the HTTP status derived from core.KindOf.
package httpapi
