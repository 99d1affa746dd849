package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCIDRSubnet(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		prefix  string
		newbits int
		netnum  int
		want    string
		wantErr bool
	}{
		{name: "first /24 of /16", prefix: "10.10.0.0/16", newbits: 8, netnum: 0, want: "10.10.0.0/24"},
		{name: "third /24 of /16", prefix: "10.10.0.0/16", newbits: 8, netnum: 2, want: "10.10.2.0/24"},
		{name: "/26 inside /24", prefix: "192.168.1.0/24", newbits: 2, netnum: 3, want: "192.168.1.192/26"},
		{name: "zero newbits", prefix: "10.0.0.0/8", newbits: 0, netnum: 0, want: "10.0.0.0/8"},
		{name: "netnum too large", prefix: "10.0.0.0/16", newbits: 1, netnum: 2, wantErr: true},
		{name: "extension too large", prefix: "10.0.0.0/30", newbits: 4, netnum: 0, wantErr: true},
		{name: "ipv6", prefix: "2001:db8::/32", newbits: 8, netnum: 0, wantErr: true},
		{name: "garbage", prefix: "not-a-cidr", newbits: 8, netnum: 0, wantErr: true},
		{name: "host bits set", prefix: "10.0.0.1/16", newbits: 8, netnum: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := CIDRSubnet(tt.prefix, tt.newbits, tt.netnum)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCIDRContains(t *testing.T) {
	t.Parallel()
	ok, err := CIDRContains("10.20.0.0/24", "10.20.0.10")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CIDRContains("10.20.0.0/24", "10.21.0.10")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = CIDRContains("10.20.0.0/24", "nope")
	assert.Error(t, err)
}

func TestCIDROverlaps(t *testing.T) {
	t.Parallel()
	tests := []struct {
		a, b string
		want bool
	}{
		{"10.0.0.0/16", "10.0.1.0/24", true},
		{"10.0.0.0/24", "10.0.1.0/24", false},
		{"10.0.1.0/24", "10.0.1.0/24", true},
	}
	for _, tt := range tests {
		got, err := CIDROverlaps(tt.a, tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s vs %s", tt.a, tt.b)
	}

	_, err := CIDROverlaps("bad", "10.0.0.0/24")
	assert.Error(t, err)
}
