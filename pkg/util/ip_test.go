package util

import (
	"net/netip"
	"testing"
)

func TestParseCIDR(t *testing.T) {
	addr, length, err := ParseCIDR("10.0.10.1/24")
	if err != nil {
		t.Fatalf("ParseCIDR failed: %v", err)
	}
	if addr != netip.MustParseAddr("10.0.10.1") || length != 24 {
		t.Errorf("got %s/%d", addr, length)
	}

	addr, length, err = ParseCIDR("2001:db8::1/64")
	if err != nil {
		t.Fatalf("ParseCIDR failed: %v", err)
	}
	if addr != netip.MustParseAddr("2001:db8::1") || length != 64 {
		t.Errorf("got %s/%d", addr, length)
	}

	for _, bad := range []string{"10.0.0.1", "10.0.0.1/33", "banana/24", "10.0.0.1/abc", "2001:db8::1/129"} {
		if _, _, err := ParseCIDR(bad); err == nil {
			t.Errorf("ParseCIDR(%q) should fail", bad)
		}
	}
}

func TestMaskedPrefix(t *testing.T) {
	addr := netip.MustParseAddr("10.0.10.77")
	if got := MaskedPrefix(addr, 24); got != netip.MustParsePrefix("10.0.10.0/24") {
		t.Errorf("MaskedPrefix = %s", got)
	}
}

func TestEUI64LinkLocal(t *testing.T) {
	got := EUI64LinkLocal([6]byte{0x02, 0x01, 0x02, 0x03, 0x04, 0x05})
	want := netip.MustParseAddr("fe80::1:2ff:fe03:405")
	if got != want {
		t.Errorf("EUI64LinkLocal = %s, want %s", got, want)
	}

	// The universal/local bit flips.
	got = EUI64LinkLocal([6]byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55})
	want = netip.MustParseAddr("fe80::211:22ff:fe33:4455")
	if got != want {
		t.Errorf("EUI64LinkLocal = %s, want %s", got, want)
	}
}
