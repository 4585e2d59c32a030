package compute

// ResourceBuilderOption is a function that configures a compute resource during construction.
type ResourceBuilderOption func(*resource)

// WithLabel is an option builder that sets the diagnostic label of the resource.
// The label defaults to the entry point name.
//
// Parameters:
//   - label: the identifier for the resource
//
// Returns:
//   - ResourceBuilderOption: a function that applies the label option to a resource
func WithLabel(label string) ResourceBuilderOption {
	return func(r *resource) {
		r.label = label
	}
}

// WithDevicePreference is an option builder that sets the order in which device kinds are tried.
// The default order is GPU then CPU.
//
// Parameters:
//   - kinds: the device kinds in preference order
//
// Returns:
//   - ResourceBuilderOption: a function that applies the device preference to a resource
func WithDevicePreference(kinds ...DeviceKind) ResourceBuilderOption {
	return func(r *resource) {
		if len(kinds) > 0 {
			r.preference = kinds
		}
	}
}

// WithSourceDir is an option builder that sets the directory relative kernel paths resolve against.
//
// Parameters:
//   - dir: the kernel source directory
//
// Returns:
//   - ResourceBuilderOption: a function that applies the source directory to a resource
func WithSourceDir(dir string) ResourceBuilderOption {
	return func(r *resource) {
		r.sourceDir = dir
	}
}
