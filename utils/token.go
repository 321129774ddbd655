package utils

import (
	"math/rand"
	"time"
)

const resetTokenCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandomToken returns an alphanumeric one-time code, used for the
// password-reset tokens mailed to users. Codes expire 15 minutes after
// issue, so the short length is acceptable.
func GenerateRandomToken(length int) string {
	rand.Seed(time.Now().UnixNano())

	token := make([]byte, length)
	for i := range token {
		token[i] = resetTokenCharset[rand.Intn(len(resetTokenCharset))]
	}
	return string(token)
}
