package domain

import "fmt"

// CacheKey identifies one tracked unit of remote data. Discriminator
// disambiguates multiple targets of the same kind (a distribution id, a log
// group prefix); it is empty for singleton kinds like identity.
type CacheKey struct {
	Kind          ServiceKind
	Discriminator string
}

func NewCacheKey(kind ServiceKind, discriminator string) CacheKey {
	return CacheKey{Kind: kind, Discriminator: discriminator}
}

func (k CacheKey) String() string {
	if k.Discriminator == "" {
		return string(k.Kind)
	}
	return fmt.Sprintf("%s/%s", k.Kind, k.Discriminator)
}
