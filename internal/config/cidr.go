package config

import (
	"fmt"
	"net/netip"
)

// parseIPv4Prefix parses a CIDR and rejects IPv6 and non-canonical prefixes.
func parseIPv4Prefix(cidr string) (netip.Prefix, error) {
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("invalid CIDR prefix: %w", err)
	}
	if !prefix.Addr().Is4() {
		return netip.Prefix{}, fmt.Errorf("only IPv4 addresses are supported, got IPv6: %s", cidr)
	}
	if prefix.Masked() != prefix {
		return netip.Prefix{}, fmt.Errorf("CIDR %s has host bits set (did you mean %s?)", cidr, prefix.Masked())
	}
	return prefix, nil
}

// CIDRSubnet calculates a subnet address given a network prefix, a netmask
// size increase and a subnet number, like Terraform's cidrsubnet function.
func CIDRSubnet(prefix string, newbits int, netnum int) (string, error) {
	network, err := parseIPv4Prefix(prefix)
	if err != nil {
		return "", err
	}

	newMaskSize := network.Bits() + newbits
	if newbits < 0 || newMaskSize > 32 {
		return "", fmt.Errorf("prefix extension of %d bits is too large for %s", newbits, prefix)
	}
	if netnum < 0 || netnum >= 1<<newbits {
		return "", fmt.Errorf("subnet number %d exceeds max subnets %d", netnum, 1<<newbits)
	}

	base := addrToUint32(network.Addr())
	// #nosec G115 - bounded by the checks above
	offset := uint32(netnum) << (32 - newMaskSize)

	return netip.PrefixFrom(uint32ToAddr(base+offset), newMaskSize).String(), nil
}

// CIDRContains reports whether ip lies inside cidr.
func CIDRContains(cidr, ip string) (bool, error) {
	network, err := parseIPv4Prefix(cidr)
	if err != nil {
		return false, err
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false, fmt.Errorf("invalid IP address %q: %w", ip, err)
	}
	return network.Contains(addr), nil
}

// CIDROverlaps reports whether two prefixes share any address.
func CIDROverlaps(a, b string) (bool, error) {
	pa, err := parseIPv4Prefix(a)
	if err != nil {
		return false, err
	}
	pb, err := parseIPv4Prefix(b)
	if err != nil {
		return false, err
	}
	return pa.Overlaps(pb), nil
}

func addrToUint32(addr netip.Addr) uint32 {
	b := addr.As4()
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func uint32ToAddr(v uint32) netip.Addr {
	return netip.AddrFrom4([4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}
