package secret

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/jbweber/keyforge/api/v1alpha1"
	"github.com/jbweber/keyforge/internal/ident"
	"github.com/jbweber/keyforge/internal/status"
)

func TestManager_DefineXML(t *testing.T) {
	tests := []struct {
		name    string
		xml     string
		setup   func(*fakeHypervisor)
		wantErr bool
	}{
		{
			name:    "valid definition",
			xml:     "<secret ephemeral=\"no\" private=\"no\"><uuid>" + testUUID + "</uuid></secret>",
			setup:   func(m *fakeHypervisor) {},
			wantErr: false,
		},
		{
			name:    "definition without UUID gets one assigned",
			xml:     "<secret ephemeral=\"no\" private=\"no\"><description>assigned</description></secret>",
			setup:   func(m *fakeHypervisor) {},
			wantErr: false,
		},
		{
			name:    "invalid XML",
			xml:     "this is not XML",
			setup:   func(m *fakeHypervisor) {},
			wantErr: true,
		},
		{
			name: "conflicting usage binding",
			xml:  "<secret ephemeral=\"no\" private=\"no\"><usage type=\"ceph\"><name>client.admin secret</name></usage></secret>",
			setup: func(m *fakeHypervisor) {
				defineTestSecret(m, testUUID, "ceph", "client.admin secret")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hv := newFakeHypervisor()
			tt.setup(hv)

			mgr := NewManager(hv)
			handle, err := mgr.DefineXML(context.Background(), tt.xml, 0)

			if (err != nil) != tt.wantErr {
				t.Errorf("DefineXML() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				var defErr *DefinitionError
				if !errors.As(err, &defErr) {
					t.Errorf("Expected DefinitionError, got %T: %v", err, err)
				}
				return
			}

			uuid, err := handle.UUID()
			if err != nil {
				t.Fatalf("UUID() error = %v", err)
			}
			if _, err := ident.ParseUUID(uuid); err != nil {
				t.Errorf("Expected parseable UUID, got %s", uuid)
			}
		})
	}
}

func TestManager_Define(t *testing.T) {
	hv := newFakeHypervisor()
	mgr := NewManager(hv)

	res := v1alpha1.NewSecret("ceph-auth")
	res.Spec.UUID = testUUID
	res.Spec.Description = "Ceph auth key for the images pool"
	res.Spec.Usage = v1alpha1.SecretUsageSpec{
		Type: v1alpha1.UsageTypeCeph,
		ID:   "client.admin secret",
	}

	handle, err := mgr.Define(context.Background(), res)
	if err != nil {
		t.Fatalf("Define() error = %v", err)
	}

	uuid, err := handle.UUID()
	if err != nil {
		t.Fatalf("UUID() error = %v", err)
	}
	if uuid != testUUID {
		t.Errorf("Expected UUID %s, got %s", testUUID, uuid)
	}

	if res.GetSecretUUID() != testUUID {
		t.Errorf("Expected status UUID %s, got %s", testUUID, res.GetSecretUUID())
	}
	if res.GetPhase() != v1alpha1.SecretPhaseDefined {
		t.Errorf("Expected phase Defined, got %s", res.GetPhase())
	}
	if !status.IsConditionTrue(res, v1alpha1.ConditionDefined) {
		t.Error("Expected Defined condition to be True")
	}
	if res.Status.ObservedGeneration != res.Generation {
		t.Errorf("Expected ObservedGeneration %d, got %d", res.Generation, res.Status.ObservedGeneration)
	}

	// Secret is visible through lookup afterwards
	if _, err := mgr.LookupByUsage(context.Background(), UsageTypeCeph, "client.admin secret"); err != nil {
		t.Errorf("Expected defined secret to be found by usage: %v", err)
	}
}

func TestManager_Define_AssignsUUID(t *testing.T) {
	mgr := NewManager(newFakeHypervisor())

	res := v1alpha1.NewSecret("anonymous")
	handle, err := mgr.Define(context.Background(), res)
	if err != nil {
		t.Fatalf("Define() error = %v", err)
	}

	uuid, err := handle.UUID()
	if err != nil {
		t.Fatalf("UUID() error = %v", err)
	}
	if uuid == "" {
		t.Fatal("Expected hypervisor-assigned UUID")
	}
	if res.GetSecretUUID() != uuid {
		t.Errorf("Expected status UUID %s, got %s", uuid, res.GetSecretUUID())
	}
}

func TestManager_Define_InvalidUsage(t *testing.T) {
	mgr := NewManager(newFakeHypervisor())

	res := v1alpha1.NewSecret("broken")
	res.Spec.Usage = v1alpha1.SecretUsageSpec{
		Type: v1alpha1.UsageTypeVolume,
		// ID missing
	}

	_, err := mgr.Define(context.Background(), res)
	if err == nil {
		t.Fatal("Expected error for usage type without ID")
	}

	if res.GetPhase() != v1alpha1.SecretPhaseFailed {
		t.Errorf("Expected phase Failed, got %s", res.GetPhase())
	}
	if !status.IsConditionFalse(res, v1alpha1.ConditionDefined) {
		t.Error("Expected Defined condition to be False")
	}
}

func TestManager_Define_Redefine(t *testing.T) {
	hv := newFakeHypervisor()
	mgr := NewManager(hv)

	res := v1alpha1.NewSecret("rotating")
	res.Spec.UUID = testUUID
	res.Spec.Description = "before"

	handle, err := mgr.Define(context.Background(), res)
	if err != nil {
		t.Fatalf("Define() error = %v", err)
	}
	if err := handle.SetValue(context.Background(), []byte("the-value"), 0); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}

	// Redefine with new metadata; the stored value must survive
	res.Spec.Description = "after"
	handle2, err := mgr.Define(context.Background(), res)
	if err != nil {
		t.Fatalf("Define() redefine error = %v", err)
	}

	value, err := handle2.GetValue(context.Background(), 0)
	if err != nil {
		t.Fatalf("GetValue() after redefine error = %v", err)
	}
	if string(value) != "the-value" {
		t.Errorf("Expected value to survive redefine, got %q", value)
	}

	count, err := mgr.NumOfSecrets(context.Background())
	if err != nil {
		t.Fatalf("NumOfSecrets() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 secret after redefine, got %d", count)
	}
}

func TestManager_Apply(t *testing.T) {
	tests := []struct {
		name          string
		value         []byte
		wantPhase     v1alpha1.SecretPhase
		wantErr       bool
		wantValueCond bool
	}{
		{
			name:          "define only",
			value:         nil,
			wantPhase:     v1alpha1.SecretPhaseDefined,
			wantErr:       false,
			wantValueCond: false,
		},
		{
			name:          "define with value",
			value:         []byte("s3cr3t"),
			wantPhase:     v1alpha1.SecretPhaseReady,
			wantErr:       false,
			wantValueCond: true,
		},
		{
			name:          "define with empty value",
			value:         []byte{},
			wantPhase:     v1alpha1.SecretPhaseReady,
			wantErr:       false,
			wantValueCond: true,
		},
		{
			name:      "oversized value fails after define",
			value:     make([]byte, MaxValueLen+1),
			wantPhase: v1alpha1.SecretPhaseFailed,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr := NewManager(newFakeHypervisor())

			res := v1alpha1.NewSecret("test-secret")
			res.Spec.UUID = testUUID

			handle, err := mgr.Apply(context.Background(), res, tt.value)

			if (err != nil) != tt.wantErr {
				t.Errorf("Apply() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if res.GetPhase() != tt.wantPhase {
				t.Errorf("Expected phase %s, got %s", tt.wantPhase, res.GetPhase())
			}
			if tt.wantErr {
				return
			}

			if tt.wantValueCond != status.IsConditionTrue(res, v1alpha1.ConditionValueSet) {
				t.Errorf("Expected ValueSet condition %v", tt.wantValueCond)
			}

			if tt.value != nil {
				got, err := handle.GetValue(context.Background(), 0)
				if err != nil {
					t.Fatalf("GetValue() error = %v", err)
				}
				if !bytes.Equal(got, tt.value) {
					t.Errorf("Expected value %q to round-trip, got %q", tt.value, got)
				}
			}
		})
	}
}

func TestManager_Apply_ValueFailureLeavesSecretDefined(t *testing.T) {
	hv := newFakeHypervisor()
	mgr := NewManager(hv)

	res := v1alpha1.NewSecret("test-secret")
	res.Spec.UUID = testUUID

	_, err := mgr.Apply(context.Background(), res, make([]byte, MaxValueLen+1))
	if err == nil {
		t.Fatal("Expected error for oversized value")
	}

	// Definition is not rolled back
	if _, err := mgr.LookupByUUID(context.Background(), testUUID); err != nil {
		t.Errorf("Expected secret to stay defined after value failure: %v", err)
	}
	if !status.IsConditionTrue(res, v1alpha1.ConditionDefined) {
		t.Error("Expected Defined condition to stay True")
	}
	if !status.IsConditionFalse(res, v1alpha1.ConditionValueSet) {
		t.Error("Expected ValueSet condition to be False")
	}
}

func TestManager_Describe(t *testing.T) {
	mgr := NewManager(newFakeHypervisor())

	res := v1alpha1.NewSecret("ceph-auth")
	res.Spec.UUID = testUUID
	res.Spec.Description = "Ceph auth key"
	res.Spec.Ephemeral = true
	res.Spec.Usage = v1alpha1.SecretUsageSpec{
		Type: v1alpha1.UsageTypeCeph,
		ID:   "client.admin secret",
	}

	handle, err := mgr.Define(context.Background(), res)
	if err != nil {
		t.Fatalf("Define() error = %v", err)
	}

	got, err := mgr.Describe(context.Background(), handle)
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}

	if got.Spec.UUID != testUUID {
		t.Errorf("Expected spec UUID %s, got %s", testUUID, got.Spec.UUID)
	}
	if got.Spec.Description != "Ceph auth key" {
		t.Errorf("Expected description 'Ceph auth key', got %s", got.Spec.Description)
	}
	if !got.Spec.Ephemeral {
		t.Error("Expected ephemeral to be true")
	}
	if got.Spec.Usage.Type != v1alpha1.UsageTypeCeph {
		t.Errorf("Expected usage type ceph, got %s", got.Spec.Usage.Type)
	}
	if got.Spec.Usage.ID != "client.admin secret" {
		t.Errorf("Expected usage ID 'client.admin secret', got %s", got.Spec.Usage.ID)
	}
	if got.GetSecretUUID() != testUUID {
		t.Errorf("Expected status UUID %s, got %s", testUUID, got.GetSecretUUID())
	}
	if got.GetPhase() != v1alpha1.SecretPhaseDefined {
		t.Errorf("Expected phase Defined, got %s", got.GetPhase())
	}
}
