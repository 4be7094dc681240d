package test

import "math/rand"

const loginAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandomLogin returns a pseudo-random lowercase login of length n prefixed
// with "guest-".
func RandomLogin(n int) string {
	if n <= 0 {
		n = 8
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = loginAlphabet[rand.Intn(len(loginAlphabet))]
	}
	return "guest-" + string(buf)
}
