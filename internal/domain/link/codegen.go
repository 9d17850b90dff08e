package link

import "crypto/rand"

// shortCodeAlphabet excludes nothing; codes are case-sensitive base62
const shortCodeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const DefaultCodeLength = 7

func generateShortCode(length int) string {
	if length <= 0 {
		length = DefaultCodeLength
	}
	b := make([]byte, length)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = shortCodeAlphabet[int(b[i])%len(shortCodeAlphabet)]
	}
	return string(b)
}
