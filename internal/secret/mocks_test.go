package secret

import (
	"fmt"
	"strings"

	"github.com/digitalocean/go-libvirt"

	"github.com/jbweber/keyforge/internal/ident"
)

// fakeHypervisor implements LibvirtClient in memory, mimicking how
// libvirtd stores secrets: metadata keyed by UUID, values held apart
// from the XML, usage bindings unique per host.
type fakeHypervisor struct {
	secrets map[string]*hostSecret // keyed by formatted UUID
}

type hostSecret struct {
	uuid      libvirt.UUID
	usageType int32
	usageID   string
	xmlDesc   string
	value     []byte
	valueSet  bool
	private   bool
}

// wire is the secret as it crosses the RPC boundary.
func (s *hostSecret) wire() libvirt.Secret {
	return libvirt.Secret{
		UUID:      s.uuid,
		UsageType: s.usageType,
		UsageID:   s.usageID,
	}
}

func newFakeHypervisor() *fakeHypervisor {
	return &fakeHypervisor{secrets: make(map[string]*hostSecret)}
}

func (f *fakeHypervisor) ConnectNumOfSecrets() (int32, error) {
	return int32(len(f.secrets)), nil
}

func (f *fakeHypervisor) ConnectListSecrets(maxuuids int32) ([]string, error) {
	var uuids []string
	for uuidStr := range f.secrets {
		if int32(len(uuids)) >= maxuuids {
			break
		}
		uuids = append(uuids, uuidStr)
	}
	return uuids, nil
}

func (f *fakeHypervisor) ConnectListAllSecrets(needResults int32, flags libvirt.ConnectListAllSecretsFlags) ([]libvirt.Secret, uint32, error) {
	var result []libvirt.Secret
	for _, sec := range f.secrets {
		result = append(result, sec.wire())
	}
	return result, uint32(len(result)), nil
}

func (f *fakeHypervisor) SecretLookupByUUID(uuid libvirt.UUID) (libvirt.Secret, error) {
	sec, ok := f.secrets[ident.FormatUUID(uuid)]
	if !ok {
		return libvirt.Secret{}, fmt.Errorf("secret not found: %s", ident.FormatUUID(uuid))
	}
	return sec.wire(), nil
}

func (f *fakeHypervisor) SecretLookupByUsage(usageType int32, usageID string) (libvirt.Secret, error) {
	for _, sec := range f.secrets {
		if sec.usageType == usageType && sec.usageID == usageID {
			return sec.wire(), nil
		}
	}
	return libvirt.Secret{}, fmt.Errorf("secret not found for usage %d/%s", usageType, usageID)
}

func (f *fakeHypervisor) SecretDefineXML(xml string, flags uint32) (libvirt.Secret, error) {
	if !strings.Contains(xml, "<secret") || !strings.Contains(xml, "</secret>") {
		return libvirt.Secret{}, fmt.Errorf("invalid secret XML")
	}

	// The host assigns a UUID when the XML does not carry one
	uuidStr := tagValue(xml, "uuid")
	if uuidStr == "" {
		uuidStr = ident.NewUUID()
	}
	parsed, err := ident.ParseUUID(uuidStr)
	if err != nil {
		return libvirt.Secret{}, fmt.Errorf("invalid secret UUID in XML: %s", uuidStr)
	}
	uuidStr = ident.FormatUUID(parsed)

	usageType, usageID := usageFromXML(xml)

	// Usage bindings are unique per hypervisor
	if usageType != 0 {
		for other, sec := range f.secrets {
			if other != uuidStr && sec.usageType == usageType && sec.usageID == usageID {
				return libvirt.Secret{}, fmt.Errorf("secret with usage %d/%s already defined", usageType, usageID)
			}
		}
	}

	// Redefining an existing UUID updates metadata and keeps the value
	sec, ok := f.secrets[uuidStr]
	if !ok {
		sec = &hostSecret{uuid: parsed}
		f.secrets[uuidStr] = sec
	}
	sec.usageType = usageType
	sec.usageID = usageID
	sec.xmlDesc = xml
	sec.private = strings.Contains(xml, `private="yes"`)

	return sec.wire(), nil
}

func (f *fakeHypervisor) SecretGetXMLDesc(secret libvirt.Secret, flags uint32) (string, error) {
	sec, ok := f.secrets[ident.FormatUUID(secret.UUID)]
	if !ok {
		return "", fmt.Errorf("secret not found: %s", ident.FormatUUID(secret.UUID))
	}
	return sec.xmlDesc, nil
}

func (f *fakeHypervisor) SecretSetValue(secret libvirt.Secret, value []byte, flags uint32) error {
	sec, ok := f.secrets[ident.FormatUUID(secret.UUID)]
	if !ok {
		return fmt.Errorf("secret not found: %s", ident.FormatUUID(secret.UUID))
	}
	sec.value = append([]byte(nil), value...)
	sec.valueSet = true
	return nil
}

func (f *fakeHypervisor) SecretGetValue(secret libvirt.Secret, flags uint32) ([]byte, error) {
	sec, ok := f.secrets[ident.FormatUUID(secret.UUID)]
	if !ok {
		return nil, fmt.Errorf("secret not found: %s", ident.FormatUUID(secret.UUID))
	}
	if sec.private {
		return nil, fmt.Errorf("secret %s is private", ident.FormatUUID(secret.UUID))
	}
	if !sec.valueSet {
		return nil, fmt.Errorf("secret %s has no value set", ident.FormatUUID(secret.UUID))
	}
	return append([]byte(nil), sec.value...), nil
}

func (f *fakeHypervisor) SecretUndefine(secret libvirt.Secret) error {
	uuidStr := ident.FormatUUID(secret.UUID)
	if _, ok := f.secrets[uuidStr]; !ok {
		return fmt.Errorf("secret not found: %s", uuidStr)
	}
	delete(f.secrets, uuidStr)
	return nil
}

// tagValue returns the text inside the first <tag>...</tag> element,
// or "" when the element is missing or unclosed.
func tagValue(xml, tag string) string {
	_, rest, ok := strings.Cut(xml, "<"+tag+">")
	if !ok {
		return ""
	}
	val, _, ok := strings.Cut(rest, "</"+tag+">")
	if !ok {
		return ""
	}
	return val
}

// usageFromXML recovers the usage binding from secret XML.
func usageFromXML(xml string) (int32, string) {
	start := strings.Index(xml, "<usage")
	if start == -1 {
		return 0, ""
	}

	usageType := int32(0)
	switch {
	case strings.Contains(xml[start:], `type="volume"`):
		usageType = 1
	case strings.Contains(xml[start:], `type="ceph"`):
		usageType = 2
	case strings.Contains(xml[start:], `type="iscsi"`):
		usageType = 3
	case strings.Contains(xml[start:], `type="tls"`):
		usageType = 4
	case strings.Contains(xml[start:], `type="vtpm"`):
		usageType = 5
	}

	for _, tag := range []string{"volume", "name", "target"} {
		if id := tagValue(xml, tag); id != "" {
			return usageType, id
		}
	}
	return usageType, ""
}
