package common

import "errors"

var ErrNotFound = errors.New("credential file not found")
var ErrMalformedData = errors.New("empty credential data")
var ErrParse = errors.New("could not parse credentials")
var ErrInvalidArgument = errors.New("invalid argument")
var ErrKey = errors.New("RSA keypair could not be read")
var ErrAuthenticationFailed = errors.New("authentication failed")
var ErrMalformedResponse = errors.New("malformed token response")
