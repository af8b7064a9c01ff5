package secret

import (
	"fmt"
	"strings"

	libvirtxml "libvirt.org/go/libvirtxml"

	"github.com/jbweber/keyforge/api/v1alpha1"
)

// GenerateXML renders the libvirt secret definition XML for a resource.
//
// The usage ID lands in the element libvirt expects for each type:
// <volume> for volume secrets, <target> for iSCSI, <name> for the rest.
// A usage type of "none" produces no usage element at all; libvirt has
// no XML representation for an unbound usage.
func GenerateXML(res *v1alpha1.Secret) (string, error) {
	usageType, err := UsageTypeFromAPI(res.GetUsageType())
	if err != nil {
		return "", fmt.Errorf("failed to generate secret XML: %w", err)
	}

	def := &libvirtxml.Secret{
		Ephemeral:   boolAttr(res.Spec.Ephemeral),
		Private:     boolAttr(res.Spec.Private),
		Description: res.Spec.Description,
		UUID:        res.EffectiveUUID(),
	}

	if usageType != UsageTypeNone {
		if res.GetUsageID() == "" {
			return "", fmt.Errorf("usage type %s requires a usage id", usageType)
		}

		usage := &libvirtxml.SecretUsage{
			Type: usageType.String(),
		}
		switch usageType {
		case UsageTypeVolume:
			usage.Volume = res.GetUsageID()
		case UsageTypeISCSI:
			usage.Target = res.GetUsageID()
		default:
			usage.Name = res.GetUsageID()
		}
		def.Usage = usage
	} else if res.GetUsageID() != "" {
		return "", fmt.Errorf("usage id %q requires a usage type", res.GetUsageID())
	}

	xmlDesc, err := def.Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to marshal secret XML: %w", err)
	}

	// Clean up the XML: remove standalone attribute
	xmlDesc = strings.TrimPrefix(xmlDesc, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>")
	xmlDesc = strings.TrimSpace(xmlDesc)

	return xmlDesc, nil
}

// ParseXML converts a libvirt secret XML description into a resource.
//
// The resource name is the secret's UUID; secret XML carries no other
// stable identifier. Status is left for the caller to populate.
func ParseXML(xmlDesc string) (*v1alpha1.Secret, error) {
	var def libvirtxml.Secret
	if err := def.Unmarshal(xmlDesc); err != nil {
		return nil, fmt.Errorf("failed to parse secret XML: %w", err)
	}

	res := &v1alpha1.Secret{
		ObjectMeta: v1alpha1.ObjectMeta{
			Name: strings.ToLower(def.UUID),
		},
		Spec: v1alpha1.SecretSpec{
			Description: def.Description,
			UUID:        strings.ToLower(def.UUID),
			Ephemeral:   def.Ephemeral == "yes",
			Private:     def.Private == "yes",
			Usage: v1alpha1.SecretUsageSpec{
				Type: v1alpha1.UsageTypeNone,
			},
		},
	}
	v1alpha1.SetDefaultAPIVersion(res)

	if def.Usage != nil {
		usageType, err := ParseUsageType(def.Usage.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to parse secret XML: %w", err)
		}

		res.Spec.Usage.Type = usageType.APIType()
		switch usageType {
		case UsageTypeVolume:
			res.Spec.Usage.ID = def.Usage.Volume
		case UsageTypeISCSI:
			res.Spec.Usage.ID = def.Usage.Target
		default:
			res.Spec.Usage.ID = def.Usage.Name
		}
	}

	return res, nil
}

// boolAttr renders a bool as the yes/no attribute form secret XML uses.
func boolAttr(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
