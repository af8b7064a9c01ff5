// Package secret manages libvirt secret objects: definition, lookup by
// UUID or usage binding, value transfer, enumeration, and undefine.
//
// Secrets and Values:
//
// A libvirt secret separates metadata from value. The XML definition
// (UUID, description, usage binding, ephemeral/private attributes) is
// public and travels through DefineXML/XMLDesc. The value itself is a
// raw byte payload that only moves through SetValue/GetValue and is
// never embedded in the XML.
//
// Handles:
//
// Lookup and define operations return a *Handle bound to the Manager it
// came from. A Handle caches the secret's identity triple (UUID, usage
// type, usage ID) from the wire representation, so UUID, UsageType, and
// UsageID are local reads that never touch the hypervisor. Free releases
// the handle client-side; every operation on a released handle fails
// with ErrReleased rather than reaching a stale reference. Free never
// removes the secret from the host, that is Undefine's job.
//
// Handles are not safe for concurrent use. Callers that share a Handle
// across goroutines must serialize access themselves.
//
// Usage Bindings:
//
// A secret may be tied to the object that consumes it: a storage volume
// path, a Ceph auth name, an iSCSI target, a TLS or vTPM name. The
// usage ID must match the consuming object exactly, which is why usage
// IDs are never case-normalized (see api/v1alpha1.Normalize).
//
// The Manager accepts any LibvirtClient, an interface naming just the
// secret RPCs it needs, so tests can substitute an in-memory hypervisor
// and other packages can narrow it further.
//
// Dial the daemon, define a Ceph auth secret, and upload its key:
//
//	client, err := libvirt.Connect("", 0)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	mgr := secret.NewManager(client.Libvirt())
//
//	res := v1alpha1.NewSecret("ceph-client-key")
//	res.Spec.Usage = v1alpha1.SecretUsageSpec{
//	    Type: v1alpha1.UsageTypeCeph,
//	    ID:   "client.admin secret",
//	}
//	handle, err := mgr.Apply(ctx, res, []byte("AQDYuL5oAAAAABAA..."))
//	if err != nil {
//	    return err
//	}
//	defer handle.Free()
//
// The secret can later be found again through its binding:
//
//	handle, err = mgr.LookupByUsage(ctx, secret.UsageTypeCeph, "client.admin secret")
//	if err != nil {
//	    return err
//	}
//	value, err := handle.GetValue(ctx, 0)
package secret
