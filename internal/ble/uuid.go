package ble

import (
	"fmt"
	"strings"
)

// sigBaseSuffix is the tail of the Bluetooth SIG base UUID
// (0000xxxx-0000-1000-8000-00805f9b34fb) in normalized form. Full UUIDs
// built on this base are equivalent to their 16-bit short form.
const sigBaseSuffix = "00001000800000805f9b34fb"

// UUID16 splices a 16-bit short identifier into the Bluetooth base UUID,
// producing the full 128-bit UUID string.
func UUID16(short uint16) string {
	return fmt.Sprintf("0000%04x-0000-1000-8000-00805f9b34fb", short)
}

// NormalizeUUID converts a UUID string to the internal lookup format
// (lowercase, no dashes). Handles dashed and dashless forms, braces, and
// a 0x prefix. Full UUIDs in the Bluetooth SIG base format collapse to
// their 16-bit short form so that spliced identifiers compare equal to
// short UUIDs reported by the transport.
func NormalizeUUID(uuid string) string {
	u := strings.ToLower(strings.TrimSpace(uuid))
	u = strings.TrimPrefix(u, "{")
	u = strings.TrimSuffix(u, "}")
	u = strings.TrimPrefix(u, "0x")
	u = strings.ReplaceAll(u, "-", "")
	if len(u) == 32 && strings.HasPrefix(u, "0000") && strings.HasSuffix(u, sigBaseSuffix) {
		return u[4:8]
	}
	return u
}
