package output

// ConfigPort reads configuration values from the process environment.
type ConfigPort interface {
	Get(key string) string
	GetWithDefault(key, defaultValue string) string
	GetBool(key string, defaultValue bool) bool
}
