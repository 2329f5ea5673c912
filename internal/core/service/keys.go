package service

import "github.com/wonderdash/wonderdash/internal/core/domain"

// KeyResolver maps a dashboard section to the cache keys it needs, applying
// the configured target discriminators. Kinds whose target is not
// configured resolve to a notice instead of a key so the view can explain
// itself rather than fail.
type KeyResolver struct {
	DistributionID string
	LogGroupPrefix string
}

type resolvedKey struct {
	key    domain.CacheKey
	notice string
}

func (r KeyResolver) resolve(kind domain.ServiceKind) resolvedKey {
	switch kind {
	case domain.KindDelivery:
		if r.DistributionID == "" {
			return resolvedKey{
				key:    domain.NewCacheKey(kind, ""),
				notice: "No distribution configured. Set targets.distribution_id to watch delivery metrics.",
			}
		}
		return resolvedKey{key: domain.NewCacheKey(kind, r.DistributionID)}
	case domain.KindLogs:
		return resolvedKey{key: domain.NewCacheKey(kind, r.LogGroupPrefix)}
	default:
		return resolvedKey{key: domain.NewCacheKey(kind, "")}
	}
}

// KeysFor returns the trackable keys for a section. Unconfigured kinds are
// omitted; BuildSnapshot surfaces them as notices.
func (r KeyResolver) KeysFor(section domain.DashboardSection) []domain.CacheKey {
	var keys []domain.CacheKey
	for _, kind := range section.Kinds() {
		rk := r.resolve(kind)
		if rk.notice != "" {
			continue
		}
		keys = append(keys, rk.key)
	}
	return keys
}
