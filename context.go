// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package phe

import (
	"fmt"
	"log/slog"
	"sync"
)

// Context holds every version of the application's key pair. Versions are
// only ever appended, so records enrolled with an old version can still be
// verified after a rotation. A Context is safe for concurrent use.
type Context struct {
	mu sync.RWMutex

	// keys[i].Version == keys[0].Version + i.
	keys   []KeyPair
	tokens []*UpdateToken

	crypto *Crypto
	log    *slog.Logger
}

// NewContext returns a context for the application secret key
// ("SK.<version>.<base64>") and the service public key
// ("PK.<version>.<base64>"). Both must have the same version. Each update
// token ("UT.<version>.<base64>") is applied in order and must be for the
// step to the version following the current one.
func NewContext(appSecretKey, servicePublicKey string, updateTokens []string, opts ...Option) (*Context, error) {
	o := newOptions(opts)
	skVersion, sk, err := ParseSecretKey(appSecretKey)
	if err != nil {
		return nil, fmt.Errorf("app secret key: %w", err)
	}
	pkVersion, pk, err := ParsePublicKey(servicePublicKey)
	if err != nil {
		return nil, fmt.Errorf("service public key: %w", err)
	}
	if skVersion != pkVersion {
		return nil, &VersionError{Op: "new context", Have: pkVersion, Want: skVersion}
	}
	tokens := make([]*UpdateToken, 0, len(updateTokens))
	for _, s := range updateTokens {
		token, err := ParseUpdateToken(s)
		if err != nil {
			return nil, fmt.Errorf("update token: %w", err)
		}
		tokens = append(tokens, token)
	}

	c := &Context{
		keys:   []KeyPair{{Version: skVersion, SecretKey: sk, PublicKey: pk}},
		crypto: NewCrypto(o.rand),
		log:    o.log,
	}
	for _, token := range tokens {
		if err := c.Rotate(token); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Rotate applies token to the current key pair and appends the result as
// the new current version. The token's version must be exactly one more
// than the current version, otherwise a *VersionError is returned and the
// context is unchanged.
func (c *Context) Rotate(token *UpdateToken) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.keys[len(c.keys)-1]
	if token.Version != cur.Version+1 {
		return &VersionError{Op: "rotate", Have: token.Version, Want: cur.Version + 1}
	}
	c.keys = append(c.keys, KeyPair{
		Version:   token.Version,
		SecretKey: c.crypto.RotateSecretKey(cur.SecretKey, token),
		PublicKey: c.crypto.RotatePublicKey(cur.PublicKey, token),
	})
	c.tokens = append(c.tokens, token)
	c.log.Info("rotated keys", "from", cur.Version, "to", token.Version)
	return nil
}

// CurrentVersion returns the newest key version.
func (c *Context) CurrentVersion() uint32 {
	return c.Current().Version
}

// Current returns the newest key pair.
func (c *Context) Current() KeyPair {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.keys[len(c.keys)-1]
}

// KeyPair returns the key pair of the given version.
func (c *Context) KeyPair(version uint32) (KeyPair, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	first := c.keys[0].Version
	if version < first || uint64(version-first) >= uint64(len(c.keys)) {
		return KeyPair{}, false
	}
	return c.keys[version-first], true
}

// UpdateToken returns the token that produced the current version, or nil if
// no token has been applied.
func (c *Context) UpdateToken() *UpdateToken {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.tokens) == 0 {
		return nil
	}
	return c.tokens[len(c.tokens)-1]
}
