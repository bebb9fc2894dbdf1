package gen

var (
	// FeatureVariants emits the list, nested and create/update serializer
	// variants and routes handler actions through them.
	FeatureVariants = Feature{
		Name:        "serializer/variants",
		Stage:       Stable,
		Default:     true,
		Description: "Variants generates list, nested and create/update serializers for every model",
	}

	// FeatureAdmin emits the admin registry artifact.
	FeatureAdmin = Feature{
		Name:        "admin",
		Stage:       Beta,
		Default:     true,
		Description: "Admin generates a model admin registry with list, search and filter selections",
	}

	// FeatureStatus registers the status endpoint next to health.
	FeatureStatus = Feature{
		Name:        "routes/status",
		Stage:       Beta,
		Default:     true,
		Description: "Status registers a static status endpoint listing the configured models",
	}

	// FeatureValidators translates declared field validators into binding tags.
	FeatureValidators = Feature{
		Name:        "serializer/validators",
		Stage:       Alpha,
		Default:     false,
		Description: "Validators maps MinValue, MaxValue, MinLength, MaxLength, Email and URL validators to binding tags",
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureVariants,
		FeatureAdmin,
		FeatureStatus,
		FeatureValidators,
	}
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development.
	Experimental

	// Alpha features are complete, but their output may still change.
	Alpha

	// Beta features are documented and no breaking changes are expected.
	Beta

	// Stable features are Beta features that have been in use for a while.
	Stable
)

// String returns the stage name.
func (s FeatureStage) String() string {
	switch s {
	case Experimental:
		return "experimental"
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case Stable:
		return "stable"
	default:
		return "unknown"
	}
}

// A Feature of the crudgen codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string
}

// LookupFeature returns the feature with the given name.
func LookupFeature(name string) (Feature, bool) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// DefaultFeatures returns the features enabled by default.
func DefaultFeatures() []Feature {
	var fs []Feature
	for _, f := range AllFeatures {
		if f.Default {
			fs = append(fs, f)
		}
	}
	return fs
}
