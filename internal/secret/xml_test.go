package secret

import (
	"strings"
	"testing"

	"github.com/jbweber/keyforge/api/v1alpha1"
)

func TestGenerateXML(t *testing.T) {
	tests := []struct {
		name         string
		modify       func(*v1alpha1.Secret)
		wantContains []string
		wantMissing  []string
		wantErr      bool
	}{
		{
			name:   "minimal secret",
			modify: func(sec *v1alpha1.Secret) {},
			wantContains: []string{
				`ephemeral="no"`,
				`private="no"`,
			},
			wantMissing: []string{"<usage", "<uuid>", "<description>"},
		},
		{
			name: "ephemeral private secret",
			modify: func(sec *v1alpha1.Secret) {
				sec.Spec.Ephemeral = true
				sec.Spec.Private = true
			},
			wantContains: []string{
				`ephemeral="yes"`,
				`private="yes"`,
			},
		},
		{
			name: "secret with UUID and description",
			modify: func(sec *v1alpha1.Secret) {
				sec.Spec.UUID = testUUID
				sec.Spec.Description = "LUKS passphrase for disk.qcow2"
			},
			wantContains: []string{
				"<uuid>" + testUUID + "</uuid>",
				"<description>LUKS passphrase for disk.qcow2</description>",
			},
		},
		{
			name: "volume usage uses the volume element",
			modify: func(sec *v1alpha1.Secret) {
				sec.Spec.Usage = v1alpha1.SecretUsageSpec{
					Type: v1alpha1.UsageTypeVolume,
					ID:   "/var/lib/libvirt/images/disk.qcow2",
				}
			},
			wantContains: []string{
				`<usage type="volume">`,
				"<volume>/var/lib/libvirt/images/disk.qcow2</volume>",
			},
			wantMissing: []string{"<name>", "<target>"},
		},
		{
			name: "ceph usage uses the name element",
			modify: func(sec *v1alpha1.Secret) {
				sec.Spec.Usage = v1alpha1.SecretUsageSpec{
					Type: v1alpha1.UsageTypeCeph,
					ID:   "client.admin secret",
				}
			},
			wantContains: []string{
				`<usage type="ceph">`,
				"<name>client.admin secret</name>",
			},
			wantMissing: []string{"<volume>", "<target>"},
		},
		{
			name: "iscsi usage uses the target element",
			modify: func(sec *v1alpha1.Secret) {
				sec.Spec.Usage = v1alpha1.SecretUsageSpec{
					Type: v1alpha1.UsageTypeISCSI,
					ID:   "iqn.2026-08.xyz.cofront:target",
				}
			},
			wantContains: []string{
				`<usage type="iscsi">`,
				"<target>iqn.2026-08.xyz.cofront:target</target>",
			},
			wantMissing: []string{"<volume>", "<name>"},
		},
		{
			name: "tls usage uses the name element",
			modify: func(sec *v1alpha1.Secret) {
				sec.Spec.Usage = v1alpha1.SecretUsageSpec{
					Type: v1alpha1.UsageTypeTLS,
					ID:   "TLS_example",
				}
			},
			wantContains: []string{
				`<usage type="tls">`,
				"<name>TLS_example</name>",
			},
		},
		{
			name: "vtpm usage uses the name element",
			modify: func(sec *v1alpha1.Secret) {
				sec.Spec.Usage = v1alpha1.SecretUsageSpec{
					Type: v1alpha1.UsageTypeVTPM,
					ID:   "VTPM_example",
				}
			},
			wantContains: []string{
				`<usage type="vtpm">`,
				"<name>VTPM_example</name>",
			},
		},
		{
			name: "usage type without ID",
			modify: func(sec *v1alpha1.Secret) {
				sec.Spec.Usage = v1alpha1.SecretUsageSpec{
					Type: v1alpha1.UsageTypeCeph,
				}
			},
			wantErr: true,
		},
		{
			name: "usage ID without type",
			modify: func(sec *v1alpha1.Secret) {
				sec.Spec.Usage = v1alpha1.SecretUsageSpec{
					Type: v1alpha1.UsageTypeNone,
					ID:   "orphaned",
				}
			},
			wantErr: true,
		},
		{
			name: "unknown usage type",
			modify: func(sec *v1alpha1.Secret) {
				sec.Spec.Usage = v1alpha1.SecretUsageSpec{
					Type: v1alpha1.UsageType("passphrase"),
					ID:   "whatever",
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec := v1alpha1.NewSecret("test-secret")
			tt.modify(sec)

			xmlDesc, err := GenerateXML(sec)
			if (err != nil) != tt.wantErr {
				t.Errorf("GenerateXML() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}

			if strings.HasPrefix(xmlDesc, "<?xml") {
				t.Error("Expected XML header to be stripped")
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(xmlDesc, want) {
					t.Errorf("Expected XML to contain %s, got:\n%s", want, xmlDesc)
				}
			}
			for _, missing := range tt.wantMissing {
				if strings.Contains(xmlDesc, missing) {
					t.Errorf("Expected XML to not contain %s, got:\n%s", missing, xmlDesc)
				}
			}
		})
	}
}

func TestParseXML(t *testing.T) {
	xmlDesc := `<secret ephemeral="yes" private="no">
  <description>Ceph auth key</description>
  <uuid>` + testUUID + `</uuid>
  <usage type="ceph">
    <name>client.admin secret</name>
  </usage>
</secret>`

	res, err := ParseXML(xmlDesc)
	if err != nil {
		t.Fatalf("ParseXML() error = %v", err)
	}

	if res.Name != testUUID {
		t.Errorf("Expected name %s, got %s", testUUID, res.Name)
	}
	if res.Kind != v1alpha1.SecretKind {
		t.Errorf("Expected kind Secret, got %s", res.Kind)
	}
	if res.Spec.UUID != testUUID {
		t.Errorf("Expected UUID %s, got %s", testUUID, res.Spec.UUID)
	}
	if res.Spec.Description != "Ceph auth key" {
		t.Errorf("Expected description 'Ceph auth key', got %s", res.Spec.Description)
	}
	if !res.Spec.Ephemeral {
		t.Error("Expected ephemeral to be true")
	}
	if res.Spec.Private {
		t.Error("Expected private to be false")
	}
	if res.Spec.Usage.Type != v1alpha1.UsageTypeCeph {
		t.Errorf("Expected usage type ceph, got %s", res.Spec.Usage.Type)
	}
	if res.Spec.Usage.ID != "client.admin secret" {
		t.Errorf("Expected usage ID 'client.admin secret', got %s", res.Spec.Usage.ID)
	}
}

func TestParseXML_NoUsage(t *testing.T) {
	xmlDesc := `<secret ephemeral="no" private="no"><uuid>` + testUUID + `</uuid></secret>`

	res, err := ParseXML(xmlDesc)
	if err != nil {
		t.Fatalf("ParseXML() error = %v", err)
	}

	if res.Spec.Usage.Type != v1alpha1.UsageTypeNone {
		t.Errorf("Expected usage type none, got %s", res.Spec.Usage.Type)
	}
	if res.Spec.Usage.ID != "" {
		t.Errorf("Expected empty usage ID, got %s", res.Spec.Usage.ID)
	}
}

func TestParseXML_Invalid(t *testing.T) {
	_, err := ParseXML("not xml")
	if err == nil {
		t.Error("Expected error for invalid XML")
	}
}

func TestXML_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		usageType v1alpha1.UsageType
		usageID   string
	}{
		{"volume", v1alpha1.UsageTypeVolume, "/var/lib/libvirt/images/encrypted.qcow2"},
		{"ceph", v1alpha1.UsageTypeCeph, "client.admin secret"},
		{"iscsi", v1alpha1.UsageTypeISCSI, "iqn.2026-08.xyz.cofront:target"},
		{"tls", v1alpha1.UsageTypeTLS, "TLS_example"},
		{"vtpm", v1alpha1.UsageTypeVTPM, "VTPM_example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec := v1alpha1.NewSecret("round-trip")
			sec.Spec.UUID = testUUID
			sec.Spec.Description = "round trip check"
			sec.Spec.Ephemeral = true
			sec.Spec.Usage = v1alpha1.SecretUsageSpec{
				Type: tt.usageType,
				ID:   tt.usageID,
			}

			xmlDesc, err := GenerateXML(sec)
			if err != nil {
				t.Fatalf("GenerateXML() error = %v", err)
			}

			parsed, err := ParseXML(xmlDesc)
			if err != nil {
				t.Fatalf("ParseXML() error = %v", err)
			}

			if parsed.Spec.UUID != sec.Spec.UUID {
				t.Errorf("Expected UUID %s, got %s", sec.Spec.UUID, parsed.Spec.UUID)
			}
			if parsed.Spec.Description != sec.Spec.Description {
				t.Errorf("Expected description %s, got %s", sec.Spec.Description, parsed.Spec.Description)
			}
			if parsed.Spec.Ephemeral != sec.Spec.Ephemeral {
				t.Errorf("Expected ephemeral %v, got %v", sec.Spec.Ephemeral, parsed.Spec.Ephemeral)
			}
			if parsed.Spec.Usage.Type != tt.usageType {
				t.Errorf("Expected usage type %s, got %s", tt.usageType, parsed.Spec.Usage.Type)
			}
			if parsed.Spec.Usage.ID != tt.usageID {
				t.Errorf("Expected usage ID %s, got %s", tt.usageID, parsed.Spec.Usage.ID)
			}
		})
	}
}
