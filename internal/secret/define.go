package secret

import (
	"context"
	"fmt"

	"github.com/jbweber/keyforge/api/v1alpha1"
	"github.com/jbweber/keyforge/internal/ident"
	"github.com/jbweber/keyforge/internal/status"
)

// DefineXML defines a secret from raw libvirt XML. Defining is
// idempotent: redefining an existing UUID updates its metadata and
// leaves any stored value alone.
func (m *Manager) DefineXML(ctx context.Context, xmlDesc string, flags uint32) (*Handle, error) {
	rem, err := m.client.SecretDefineXML(xmlDesc, flags)
	if err != nil {
		return nil, &DefinitionError{Op: "SecretDefineXML", Err: err}
	}

	return newHandle(m, rem), nil
}

// Define defines a secret on the hypervisor from a typed resource and
// updates the resource's status with the outcome, including the
// hypervisor-assigned UUID.
func (m *Manager) Define(ctx context.Context, res *v1alpha1.Secret) (*Handle, error) {
	res.Normalize()

	xmlDesc, err := GenerateXML(res)
	if err != nil {
		status.MarkDefineFailed(res, err)
		return nil, fmt.Errorf("failed to generate secret XML: %w", err)
	}

	handle, err := m.DefineXML(ctx, xmlDesc, 0)
	if err != nil {
		status.MarkDefineFailed(res, err)
		return nil, err
	}

	res.SetSecretUUID(ident.FormatUUID(handle.rem.UUID))
	status.MarkDefined(res)
	status.TransitionToDefined(res)
	res.UpdateObservedGeneration()

	return handle, nil
}

// Apply defines a secret and, when value is non-nil, uploads the value
// in the same pass. A nil value leaves the secret in phase Defined; a
// successful upload moves it to Ready. A zero-length non-nil value is
// uploaded as an empty secret.
//
// If the upload fails the secret stays defined on the hypervisor; the
// resource status records the failure rather than rolling back the
// definition, since the definition may predate this call.
func (m *Manager) Apply(ctx context.Context, res *v1alpha1.Secret, value []byte) (*Handle, error) {
	handle, err := m.Define(ctx, res)
	if err != nil {
		return nil, err
	}

	if value == nil {
		return handle, nil
	}

	if err := handle.SetValue(ctx, value, 0); err != nil {
		status.MarkValueFailed(res, err)
		return nil, err
	}

	status.MarkValueSet(res)
	if err := status.TransitionToReady(res); err != nil {
		return nil, fmt.Errorf("failed to update secret status: %w", err)
	}

	return handle, nil
}

// Describe fetches the secret's current definition from the hypervisor
// and converts it into a typed resource with status populated.
func (m *Manager) Describe(ctx context.Context, handle *Handle) (*v1alpha1.Secret, error) {
	xmlDesc, err := handle.XMLDesc(ctx, 0)
	if err != nil {
		return nil, err
	}

	res, err := ParseXML(xmlDesc)
	if err != nil {
		return nil, err
	}

	res.SetSecretUUID(ident.FormatUUID(handle.rem.UUID))
	status.MarkDefined(res)
	status.TransitionToDefined(res)

	return res, nil
}
