// Package util provides small helpers shared across the gateway packages:
// byte-size parsing, secret masking, pointer helpers and slice utilities.
package util
