package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"strings"
)

// DeviceID derives a stable terminal identifier from the machine's MAC
// address. Counters store it as their device binding; the login flow
// records it so an admin can see which machine a counter last ran on.
func DeviceID() string {
	interfaces, err := net.Interfaces()
	if err != nil {
		return "UNKNOWN-DEVICE"
	}

	var macAddress string
	for _, i := range interfaces {
		if i.Flags&net.FlagUp != 0 && len(i.HardwareAddr) > 0 {
			macAddress = i.HardwareAddr.String()
			break
		}
	}
	if macAddress == "" {
		return "UNKNOWN-DEVICE"
	}

	hash := sha256.Sum256([]byte(macAddress + "POS-DEVICE-SALT"))
	return "POS-" + strings.ToUpper(hex.EncodeToString(hash[:])[:8])
}
