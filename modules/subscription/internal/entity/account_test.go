package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccountEffectiveTier(t *testing.T) {
	now := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

	test := func(name string, tier uint8, expiry time.Time, expected uint8) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			account := Account{Tier: tier, TierExpiry: expiry}
			assert.Equal(t, expected, account.EffectiveTier(now))
		})
	}

	test("active", 3, now.Add(time.Hour), 3)
	test("expired", 3, now.Add(-time.Hour), 0)
	test("boundary equality resolves to expired", 3, now, 0)
	test("one instant before expiry", 5, now.Add(time.Nanosecond), 5)
	test("zero value expiry", 7, time.Time{}, 0)
}

func TestNodeEligibleFor(t *testing.T) {
	test := func(name string, node Node, tier uint8, expected bool) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, expected, node.EligibleFor(tier))
		})
	}

	test("active equal tier", Node{Tier: 2, Status: NodeStatusActive}, 2, true)
	test("active lower tier", Node{Tier: 0, Status: NodeStatusActive}, 2, true)
	test("active higher tier", Node{Tier: 3, Status: NodeStatusActive}, 2, false)
	test("down node", Node{Tier: 1, Status: NodeStatusDown}, 2, false)
	test("maintenance node", Node{Tier: 0, Status: NodeStatusMaintenance}, 9, false)
}
