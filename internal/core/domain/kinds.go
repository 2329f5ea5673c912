package domain

type ServiceKind string

const (
	KindIdentity ServiceKind = "identity"
	KindCompute  ServiceKind = "compute"
	KindStorage  ServiceKind = "storage"
	KindDelivery ServiceKind = "delivery"
	KindLogs     ServiceKind = "logs"
)

func (k ServiceKind) String() string {
	return string(k)
}

// AllServiceKinds lists every kind the fetcher layer knows how to normalize.
func AllServiceKinds() []ServiceKind {
	return []ServiceKind{KindIdentity, KindCompute, KindStorage, KindDelivery, KindLogs}
}

func (k ServiceKind) Valid() bool {
	switch k {
	case KindIdentity, KindCompute, KindStorage, KindDelivery, KindLogs:
		return true
	}
	return false
}

type DashboardSection string

const (
	SectionHub      DashboardSection = "hub"
	SectionIdentity DashboardSection = "identity"
	SectionCompute  DashboardSection = "compute"
	SectionStorage  DashboardSection = "storage"
	SectionDelivery DashboardSection = "delivery"
	SectionLogs     DashboardSection = "logs"
)

func (s DashboardSection) String() string {
	return string(s)
}

// Kinds returns the service kinds a section reads on each render tick.
// The hub aggregates every kind; the dedicated sections read one each.
func (s DashboardSection) Kinds() []ServiceKind {
	switch s {
	case SectionHub:
		return AllServiceKinds()
	case SectionIdentity:
		return []ServiceKind{KindIdentity}
	case SectionCompute:
		return []ServiceKind{KindCompute}
	case SectionStorage:
		return []ServiceKind{KindStorage}
	case SectionDelivery:
		return []ServiceKind{KindDelivery}
	case SectionLogs:
		return []ServiceKind{KindLogs}
	}
	return nil
}
