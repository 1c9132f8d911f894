// Package timezone keeps every timestamp the service produces in the
// operator's local zone (APP_TIMEZONE, IANA names such as "Asia/Makassar").
//
// Departure times are stored as a DATE plus a TIME column; use Combine to
// turn them into an instant before comparing against Now.
package timezone
