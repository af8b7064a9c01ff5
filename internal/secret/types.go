package secret

import (
	"fmt"
	"strings"

	"github.com/jbweber/keyforge/api/v1alpha1"
)

// UsageType is the numeric usage classification a secret carries on the
// wire, matching libvirt's virSecretUsageType enumeration.
type UsageType int32

const (
	// UsageTypeNone is a secret with no usage binding.
	UsageTypeNone UsageType = 0
	// UsageTypeVolume binds a secret to a storage volume path.
	UsageTypeVolume UsageType = 1
	// UsageTypeCeph binds a secret to a Ceph auth username.
	UsageTypeCeph UsageType = 2
	// UsageTypeISCSI binds a secret to an iSCSI target name.
	UsageTypeISCSI UsageType = 3
	// UsageTypeTLS binds a secret to a TLS key name.
	UsageTypeTLS UsageType = 4
	// UsageTypeVTPM binds a secret to a vTPM name.
	UsageTypeVTPM UsageType = 5
)

// String returns the textual form used in secret XML and the CLI.
func (u UsageType) String() string {
	switch u {
	case UsageTypeNone:
		return "none"
	case UsageTypeVolume:
		return "volume"
	case UsageTypeCeph:
		return "ceph"
	case UsageTypeISCSI:
		return "iscsi"
	case UsageTypeTLS:
		return "tls"
	case UsageTypeVTPM:
		return "vtpm"
	default:
		return fmt.Sprintf("unknown(%d)", int32(u))
	}
}

// ParseUsageType converts the textual usage type to its wire value.
func ParseUsageType(s string) (UsageType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return UsageTypeNone, nil
	case "volume":
		return UsageTypeVolume, nil
	case "ceph":
		return UsageTypeCeph, nil
	case "iscsi":
		return UsageTypeISCSI, nil
	case "tls":
		return UsageTypeTLS, nil
	case "vtpm":
		return UsageTypeVTPM, nil
	default:
		return UsageTypeNone, fmt.Errorf("unknown usage type: %s", s)
	}
}

// UsageTypeFromAPI converts the resource-level usage type to its wire value.
func UsageTypeFromAPI(t v1alpha1.UsageType) (UsageType, error) {
	return ParseUsageType(string(t))
}

// APIType returns the resource-level usage type for u.
func (u UsageType) APIType() v1alpha1.UsageType {
	return v1alpha1.UsageType(u.String())
}

// Info is a point-in-time summary of one secret as reported by the
// hypervisor, used for listing.
type Info struct {
	UUID      string
	UsageType UsageType
	UsageID   string
}
