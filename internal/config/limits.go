package config

// Generation step budgets. The real provider gets a larger budget because
// tool-driven component generation routinely takes many reasoning/tool
// steps; the mock provider stays tiny so local and CI runs finish fast.
const (
	// MaxStepsReal caps reasoning/tool steps when a real provider credential is configured.
	MaxStepsReal = 40

	// MaxStepsMock caps steps for the mock provider.
	MaxStepsMock = 4

	// MaxOutputTokens caps output tokens per model call on the real path.
	MaxOutputTokens = 10_000
)

// MaxProjectNameLength is the maximum length of a project display name.
const MaxProjectNameLength = 200

// MaxRequestBodyBytes limits parsed JSON request bodies.
const MaxRequestBodyBytes = 10 << 20
