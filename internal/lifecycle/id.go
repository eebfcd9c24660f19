package lifecycle

import (
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"
)

const (
	idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength   = 16
)

// newProjectID draws a random 16-character mixed-case alphanumeric key,
// roughly 95 bits of entropy.
func newProjectID() (string, error) {
	id := make([]byte, idLength)
	max := big.NewInt(int64(len(idAlphabet)))

	for i := range id {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", errors.Wrap(err, "failed to generate project id")
		}
		id[i] = idAlphabet[n.Int64()]
	}

	return string(id), nil
}
