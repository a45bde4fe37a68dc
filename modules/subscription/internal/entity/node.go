package entity

import "time"

type NodeStatus string

const (
	NodeStatusActive      NodeStatus = "active"
	NodeStatusMaintenance NodeStatus = "maintenance"
	NodeStatusDown        NodeStatus = "down"
)

func (s NodeStatus) String() string {
	return string(s)
}

// Node is a proxy access point. Method, Protocol and Obfs are opaque
// crypto/obfuscation parameters passed through to client configuration.
type Node struct {
	ID           int64
	Name         string
	Address      string
	Method       string
	Protocol     string
	Obfs         string
	CustomMethod bool
	Info         string
	TrafficRate  float64
	Tier         uint8
	Status       NodeStatus
}

// EligibleFor reports whether the node may be used by an account with the
// given effective tier.
func (n Node) EligibleFor(effectiveTier uint8) bool {
	return n.Status == NodeStatusActive && n.Tier <= effectiveTier
}

// NodeLoadSample is an append-only load report pushed by a node.
type NodeLoadSample struct {
	NodeID    int64
	Uptime    float64
	Load      string
	SampledAt time.Time
}

// NodeOnlineSample is an append-only online-user count pushed by a node.
type NodeOnlineSample struct {
	NodeID      int64
	OnlineCount int32
	SampledAt   time.Time
}

// OnlineIPRecord is an append-only record of a client IP seen on a node.
type OnlineIPRecord struct {
	NodeID     int64
	AccountID  int64
	IP         string
	Location   string
	RecordedAt time.Time
}
