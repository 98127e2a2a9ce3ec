package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	requestIDSize     = 16
	requestIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// RequestID returns a random id used to correlate the log lines of a request.
func RequestID() string {
	return gonanoid.MustGenerate(requestIDAlphabet, requestIDSize)
}
