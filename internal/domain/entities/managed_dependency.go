package entities

import "github.com/weave-pm/weave/internal/domain/values"

// CheckoutStateKind is the state a source-control-managed dependency's
// working copy is currently in.
type CheckoutStateKind string

const (
	CheckoutReady   CheckoutStateKind = "ready"
	CheckoutUpdating CheckoutStateKind = "updating"
)

// CheckoutState describes a source-control checkout's pin and status.
type CheckoutState struct {
	Pin   values.PinState
	Kind  CheckoutStateKind
}

// ManagedDependencyStateKind discriminates the five ways a dependency's
// local working copy can be owned.
type ManagedDependencyStateKind string

const (
	StateSourceControlCheckout ManagedDependencyStateKind = "sourceControlCheckout"
	StateRegistryDownload      ManagedDependencyStateKind = "registryDownload"
	StateEdited                ManagedDependencyStateKind = "edited"
	StateFileSystem            ManagedDependencyStateKind = "fileSystem"
	StateCustom                ManagedDependencyStateKind = "custom"
)

// ManagedDependencyState is the sum of the five state variants named in
// the data model. Only the fields relevant to Kind are populated.
type ManagedDependencyState struct {
	Kind          ManagedDependencyStateKind
	Checkout      CheckoutState
	RegistryVer   values.Version
	UnmanagedPath string // set for StateEdited when the working copy was relocated
	CustomVersion values.Version
	CustomPath    string
}

// ManagedDependency is the workspace's bookkeeping record for one
// resolved dependency's on-disk working copy.
type ManagedDependency struct {
	PackageRef values.PackageReference
	State      ManagedDependencyState
	Subpath    string
}
