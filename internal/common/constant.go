// Package common contains shared constants and sentinel errors used across
// filevault components.
package common

// AccessTokenHeaderName is the gRPC/HTTP metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// ShareTokenBytes is the number of random bytes behind a share token.
// Hex encoding doubles it to ShareTokenLength characters.
const (
	ShareTokenBytes  = 32
	ShareTokenLength = ShareTokenBytes * 2
)
