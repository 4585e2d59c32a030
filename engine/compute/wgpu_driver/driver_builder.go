package wgpu_driver

// DriverBuilderOption is a function that configures a driver during construction.
type DriverBuilderOption func(*driver)

// WithLabel is an option builder that sets the debug label prefixed to every wgpu object
// the driver creates.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - DriverBuilderOption: a function that applies the label option to a driver
func WithLabel(label string) DriverBuilderOption {
	return func(d *driver) {
		if label != "" {
			d.label = label
		}
	}
}
