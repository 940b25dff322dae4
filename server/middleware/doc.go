// Package middleware holds the net/http middleware applied in front of every
// route: panic recovery, correlation ids, CORS, a body size ceiling and
// request logging.
package middleware
