// Package platform provides the client for the third-party trading
// platform API. Every call carries a derived access key; responses are
// parsed against a fixed envelope and anything that does not fit is
// treated as the upstream being unavailable.
package platform

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// rand_param bounds mandated by the platform's keying scheme.
const (
	randParamMin = 1_000_000
	randParamMax = 99_999_999
)

// accessKey is the per-call credential pair attached to every request.
type accessKey struct {
	Key       string // hex(md5(secret + randParam))
	RandParam string
}

// deriveKey computes the access key for a given random parameter.
// MD5 is the platform's contract, not a local security choice.
func deriveKey(secret, randParam string) string {
	sum := md5.Sum([]byte(secret + randParam))
	return hex.EncodeToString(sum[:])
}

// newAccessKey draws a fresh random parameter and derives the key.
func newAccessKey(secret string) (accessKey, error) {
	span := big.NewInt(randParamMax - randParamMin + 1)
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return accessKey{}, fmt.Errorf("generate rand_param: %w", err)
	}

	randParam := fmt.Sprintf("%d", n.Int64()+randParamMin)
	return accessKey{
		Key:       deriveKey(secret, randParam),
		RandParam: randParam,
	}, nil
}
