package ratelimit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{},
		Blacklist:     map[string]bool{},
		EndpointConfigs: []EndpointConfig{
			{Path: "/interviews", Method: "POST", Limit: 60, Window: time.Minute, Burst: 2},
			{Path: "/interviews/", Method: "POST", Limit: 60, Window: time.Minute, Burst: 3},
		},
	}
}

func TestLimiter_BurstThenDeny(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	// Burst capacity is 2 for interview creation.
	allowed, _ := l.Allow("1.2.3.4", "/interviews", "POST")
	assert.True(t, allowed)
	allowed, _ = l.Allow("1.2.3.4", "/interviews", "POST")
	assert.True(t, allowed)

	allowed, info := l.Allow("1.2.3.4", "/interviews", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 60, info.Limit)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 2; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/interviews", "POST")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("1.2.3.4", "/interviews", "POST")
	require.False(t, allowed)

	// A different client still has a full bucket.
	allowed, _ = l.Allow("5.6.7.8", "/interviews", "POST")
	assert.True(t, allowed)
}

func TestLimiter_PrefixTierMatchesAnswerTurns(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/interviews/abc/answers", "POST")
		require.True(t, allowed, "turn %d should be within burst", i)
	}
	allowed, _ := l.Allow("1.2.3.4", "/interviews/abc/answers", "POST")
	assert.False(t, allowed)
}

func TestLimiter_HealthIsUnlimited(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultLimit = 1
	l := NewLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_DefaultTierForReads(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultLimit = 3
	l := NewLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/industries", "GET")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("1.2.3.4", "/industries", "GET")
	assert.False(t, allowed)
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	cfg := testConfig()
	cfg.Whitelist["10.0.0.1"] = true
	cfg.Blacklist["10.0.0.2"] = true
	l := NewLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/interviews", "POST")
		require.True(t, allowed)
	}

	allowed, _ := l.Allow("10.0.0.2", "/health", "POST")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/interviews", "POST")
		require.True(t, allowed)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 1000, cfg.DefaultLimit)
	assert.Equal(t, time.Minute, cfg.DefaultWindow)
	assert.NotEmpty(t, cfg.EndpointConfigs)
}

func TestLimiter_ConcurrentClients(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			client := fmt.Sprintf("10.1.0.%d", n)
			for j := 0; j < 20; j++ {
				l.Allow(client, "/interviews/xyz/answers", "POST")
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
